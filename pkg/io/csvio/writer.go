package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/wdm0006/uetl/pkg/etl"
	iox "github.com/wdm0006/uetl/pkg/io/ioutils"
)

// ErrUnknownField is returned when a record holds a field that is not a
// column of the output.
var ErrUnknownField = errors.New("record field not in output columns")

type WriterOptions struct {
	Delimiter   rune     // default ','
	Fields      []string // output columns; default is the first record's keys
	IgnoreExtra bool     // drop fields that are not columns instead of failing
	NoHeader    bool
}

// Writer writes records as CSV rows under a single header line.
type Writer struct {
	w           *csv.Writer
	opt         WriterOptions
	header      []string
	columns     map[string]struct{}
	wroteHeader bool
	row         []string
}

func NewWriter(w io.Writer, opt WriterOptions) *Writer {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	wr := &Writer{w: cw, opt: opt}
	if len(opt.Fields) > 0 {
		wr.setHeader(opt.Fields)
	}
	return wr
}

func (w *Writer) setHeader(names []string) {
	w.header = slices.Clone(names)
	w.columns = make(map[string]struct{}, len(names))
	for _, n := range names {
		w.columns[n] = struct{}{}
	}
	w.row = make([]string, len(names))
}

func (w *Writer) writeHeader() error {
	if w.wroteHeader || w.opt.NoHeader || w.header == nil {
		return nil
	}
	w.wroteHeader = true
	return w.w.Write(w.header)
}

// Write appends one record. Columns the record lacks are left empty; null
// values are written as empty cells.
func (w *Writer) Write(r etl.Record) error {
	if w.header == nil {
		w.setHeader(r.Keys())
	}
	if err := w.writeHeader(); err != nil {
		return err
	}
	if !w.opt.IgnoreExtra {
		for k := range r.All() {
			if _, ok := w.columns[k]; !ok {
				return fmt.Errorf("%w: %q", ErrUnknownField, k)
			}
		}
	}
	for i, name := range w.header {
		w.row[i] = r.Value(name).String()
	}
	return w.w.Write(w.row)
}

// Flush writes a pending header (when columns are known) and any buffered
// rows to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}

// Load returns a loader writing all records to path (".gz" compresses,
// "-" writes to stdout).
func Load(path string, opt WriterOptions) etl.Loader {
	return func(records etl.Seq) (err error) {
		out, err := iox.CreateMaybeCompressed(path)
		if err != nil {
			return fmt.Errorf("csv create %s: %w", path, err)
		}
		defer func() {
			if cerr := out.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w := NewWriter(out, opt)
		for r, rerr := range records {
			if rerr != nil {
				return rerr
			}
			if err := w.Write(r); err != nil {
				return err
			}
		}
		return w.Flush()
	}
}
