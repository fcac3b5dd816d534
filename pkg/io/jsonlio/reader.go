package jsonlio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/wdm0006/uetl/pkg/etl"
	iox "github.com/wdm0006/uetl/pkg/io/ioutils"
)

// MaxLineSize bounds a single JSON line.
const MaxLineSize = 16 << 20

// Reader decodes one JSON object per line into records, keeping the key
// order of the source text.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Reader{sc: sc}
}

// Read returns the next record, or io.EOF. Blank lines are skipped.
func (r *Reader) Read() (etl.Record, error) {
	for r.sc.Scan() {
		r.line++
		b := bytes.TrimSpace(r.sc.Bytes())
		if len(b) == 0 {
			continue
		}
		if !gjson.ValidBytes(b) {
			return etl.Record{}, fmt.Errorf("jsonl line %d: invalid JSON", r.line)
		}
		res := gjson.ParseBytes(b)
		if !res.IsObject() {
			return etl.Record{}, fmt.Errorf("jsonl line %d: expected an object, got %s", r.line, res.Type)
		}
		var rec etl.Record
		res.ForEach(func(k, v gjson.Result) bool {
			rec.Set(k.String(), toValue(v))
			return true
		})
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return etl.Record{}, fmt.Errorf("jsonl line %d: %w", r.line+1, err)
	}
	return etl.Record{}, io.EOF
}

func toValue(v gjson.Result) etl.Value {
	switch v.Type {
	case gjson.True:
		return etl.Bool(true)
	case gjson.False:
		return etl.Bool(false)
	case gjson.Number:
		if !bytes.ContainsAny([]byte(v.Raw), ".eE") {
			if i, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
				return etl.Int(i)
			}
		}
		return etl.Float(v.Num)
	case gjson.String:
		return etl.String(v.Str)
	case gjson.JSON:
		// nested objects and arrays stay as raw JSON text
		return etl.String(v.Raw)
	}
	return etl.Null()
}

// Records iterates the remaining lines lazily.
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

// Extract returns an extractor reading path (".gz" or gzip content is
// decompressed, "-" reads stdin) one line at a time on every call.
func Extract(path string) etl.Extractor {
	return func() etl.Seq {
		return func(yield func(etl.Record, error) bool) {
			rc, err := iox.OpenMaybeCompressed(path)
			if err != nil {
				yield(etl.Record{}, fmt.Errorf("jsonl open %s: %w", path, err))
				return
			}
			defer func() { _ = rc.Close() }()
			for rec, err := range NewReader(rc).Records() {
				if !yield(rec, err) || err != nil {
					return
				}
			}
		}
	}
}
