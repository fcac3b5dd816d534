package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/wdm0006/uetl/pkg/etl"
	iox "github.com/wdm0006/uetl/pkg/io/ioutils"
)

var (
	ErrShortRecord = errors.New("csv short record")
	ErrLongRecord  = errors.New("csv long record")
)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune   // 0 = sniff, default ','
	Encoding   string // charset label, default UTF-8
	InferTypes bool   // parse int/float/bool cells instead of keeping text
	NullEmpty  bool   // empty cells become null instead of ""
	Strict     bool   // error on short/long records
}

// Reader turns CSV rows into records keyed by the header row.
type Reader struct {
	r      *csv.Reader
	opt    ReaderOptions
	header []string
	// data row already read while building a synthetic header
	pending []string
	// repair/warning counters
	shortRecords int
	longRecords  int
}

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// NewReader constructs a Reader from an arbitrary io.Reader (file, stdin, pipe).
func NewReader(r io.Reader, opt ReaderOptions) *Reader {
	br := bufio.NewReader(r)
	rr := csv.NewReader(br)
	rr.FieldsPerRecord = -1
	rr.ReuseRecord = true
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		d, lazy := sniffDelimiterAndQuotes(sample)
		rr.Comma = d
		rr.LazyQuotes = lazy
	} else {
		rr.Comma = opt.Delimiter
	}
	return &Reader{r: rr, opt: opt}
}

// Header returns the field names, reading the header row on first use.
// Without a header row fields are named col_0, col_1, ...
func (r *Reader) Header() ([]string, error) {
	if r.header != nil {
		return r.header, nil
	}
	rec, err := r.r.Read()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(rec))
	if r.opt.HasHeader {
		for i := range rec {
			names[i] = strings.ToValidUTF8(rec[i], "?")
		}
		// strip BOM on first header cell if present
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
	} else {
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
		r.pending = append([]string(nil), rec...)
	}
	r.header = names
	return names, nil
}

// Read returns the next row as a record, or io.EOF.
func (r *Reader) Read() (etl.Record, error) {
	header, err := r.Header()
	if err != nil {
		return etl.Record{}, err
	}
	rec := r.pending
	r.pending = nil
	if rec == nil {
		rec, err = r.r.Read()
		if err != nil {
			return etl.Record{}, err
		}
	}
	if len(rec) > len(header) {
		r.longRecords++
		if r.opt.Strict {
			line, _ := r.r.FieldPos(0)
			return etl.Record{}, fmt.Errorf("%w at line %d: need %d fields, got %d", ErrLongRecord, line, len(header), len(rec))
		}
	}
	if len(rec) < len(header) {
		r.shortRecords++
		if r.opt.Strict {
			line, _ := r.r.FieldPos(0)
			return etl.Record{}, fmt.Errorf("%w at line %d: need %d fields, got %d", ErrShortRecord, line, len(header), len(rec))
		}
	}
	fields := make([]etl.Field, len(header))
	for i, name := range header {
		if i >= len(rec) {
			fields[i] = etl.Field{Name: name, Value: etl.Missing}
			continue
		}
		fields[i] = etl.Field{Name: name, Value: r.cell(rec[i])}
	}
	return etl.NewRecord(fields...), nil
}

func (r *Reader) cell(raw string) etl.Value {
	val := strings.ToValidUTF8(raw, "?")
	if !r.opt.InferTypes {
		if val == "" && r.opt.NullEmpty {
			return etl.Null()
		}
		return etl.String(val)
	}
	s := strings.TrimSpace(val)
	if s == "" {
		if r.opt.NullEmpty {
			return etl.Null()
		}
		return etl.String(val)
	}
	if numre.MatchString(s) {
		if !strings.ContainsAny(s, ".eE") {
			if x, err := strconv.ParseInt(s, 10, 64); err == nil {
				return etl.Int(x)
			}
		}
		if x, err := strconv.ParseFloat(s, 64); err == nil {
			return etl.Float(x)
		}
	}
	switch strings.ToLower(s) {
	case "true":
		return etl.Bool(true)
	case "false":
		return etl.Bool(false)
	}
	return etl.String(val)
}

// Records iterates the remaining rows lazily.
func (r *Reader) Records() etl.Seq {
	return func(yield func(etl.Record, error) bool) {
		for {
			rec, err := r.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(etl.Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Extract returns an extractor that opens path on every call and yields its
// rows one at a time. Gzip input and "-" for stdin are supported.
func Extract(path string, opt ReaderOptions) etl.Extractor {
	return func() etl.Seq {
		return func(yield func(etl.Record, error) bool) {
			rc, err := iox.OpenMaybeCompressed(path)
			if err != nil {
				yield(etl.Record{}, fmt.Errorf("csv open %s: %w", path, err))
				return
			}
			defer func() { _ = rc.Close() }()
			in, err := iox.Decode(rc, opt.Encoding)
			if err != nil {
				yield(etl.Record{}, err)
				return
			}
			for rec, err := range NewReader(in, opt).Records() {
				if !yield(rec, err) || err != nil {
					return
				}
			}
		}
	}
}

func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if len(sample) == 0 {
		return ',', false
	}
	// only the first line decides; quoted cells further down may hold any byte
	if i := strings.IndexByte(string(sample), '\n'); i > 0 {
		sample = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	quoteCount := 0
	for _, b := range sample {
		if b == '"' {
			quoteCount++
		}
	}
	return rune(best), quoteCount%2 != 0
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
