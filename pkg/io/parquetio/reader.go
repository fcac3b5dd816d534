package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	parquet "github.com/segmentio/parquet-go"

	"github.com/wdm0006/uetl/pkg/etl"
)

type ReaderOptions struct {
	// BatchSize is the number of rows decoded per read (default 1024).
	BatchSize int
}

// Extract returns an extractor streaming the rows of a flat Parquet file.
// The file is opened on every call. Field order follows the file's columns;
// nested column paths are joined with ".".
func Extract(path string, opt ReaderOptions) etl.Extractor {
	return func() etl.Seq {
		return func(yield func(etl.Record, error) bool) {
			f, err := os.Open(path)
			if err != nil {
				yield(etl.Record{}, fmt.Errorf("parquet open %s: %w", path, err))
				return
			}
			defer f.Close()

			r := parquet.NewReader(f)
			defer r.Close()

			cols := r.Schema().Columns()
			names := make([]string, len(cols))
			for i, path := range cols {
				names[i] = strings.Join(path, ".")
			}

			n := opt.BatchSize
			if n <= 0 {
				n = 1024
			}
			buf := make([]parquet.Row, n)
			for {
				k, err := r.ReadRows(buf)
				for _, row := range buf[:k] {
					if !yield(toRecord(row, names), nil) {
						return
					}
				}
				if err != nil {
					if !errors.Is(err, io.EOF) {
						yield(etl.Record{}, fmt.Errorf("parquet read %s: %w", path, err))
					}
					return
				}
				if k == 0 {
					return
				}
			}
		}
	}
}

func toRecord(row parquet.Row, names []string) etl.Record {
	rec := etl.NewRecord()
	for _, name := range names {
		rec.Set(name, etl.Missing)
	}
	for _, v := range row {
		c := v.Column()
		if c < 0 || c >= len(names) {
			continue
		}
		rec.Set(names[c], toValue(v))
	}
	return rec
}

func toValue(v parquet.Value) etl.Value {
	if v.IsNull() {
		return etl.Null()
	}
	switch v.Kind() {
	case parquet.Boolean:
		return etl.Bool(v.Boolean())
	case parquet.Int32:
		return etl.Int(int64(v.Int32()))
	case parquet.Int64:
		return etl.Int(v.Int64())
	case parquet.Float:
		return etl.Float(float64(v.Float()))
	case parquet.Double:
		return etl.Float(v.Double())
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return etl.String(string(v.ByteArray()))
	default:
		return etl.String(v.String())
	}
}
