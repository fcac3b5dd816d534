package jsonlio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/wdm0006/uetl/pkg/etl"
	iox "github.com/wdm0006/uetl/pkg/io/ioutils"
)

// Writer emits one JSON object per record, keys in record order.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: bufio.NewWriter(w)} }

func (w *Writer) Write(r etl.Record) error {
	b, err := r.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *Writer) Flush() error { return w.w.Flush() }

// Load returns a loader writing every record to path.
func Load(path string) etl.Loader {
	return func(records etl.Seq) (err error) {
		out, err := iox.CreateMaybeCompressed(path)
		if err != nil {
			return fmt.Errorf("jsonl create %s: %w", path, err)
		}
		defer func() {
			if cerr := out.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w := NewWriter(out)
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
