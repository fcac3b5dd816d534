package parquetio

import (
	"encoding/json"
	"fmt"

	local "github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/wdm0006/uetl/pkg/etl"
)

// Column declares one output column.
type Column struct {
	Name string
	Kind etl.Kind
}

type WriterOptions struct {
	// Columns fixes the output schema. When empty it is taken from the first
	// record: its keys, with null values typed as strings.
	Columns []Column
	// RowGroupRecords is the number of records per row group (default 8192).
	RowGroupRecords int
	// Parallelism of the underlying marshaller (default 4).
	Parallelism int64
}

func parquetSchemaJSON(cols []Column) string {
	// minimal JSON schema for parquet-go JSONWriter
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, c := range cols {
		tag := "name=" + c.Name + ", repetitiontype=OPTIONAL, type="
		switch c.Kind {
		case etl.KindFloat:
			tag += "DOUBLE"
		case etl.KindInt:
			tag += "INT64"
		case etl.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, _ := json.Marshal(sc)
	return string(b)
}

func columnsOf(r etl.Record) []Column {
	cols := make([]Column, 0, r.Len())
	for k, v := range r.All() {
		kind := v.Kind()
		if kind == etl.KindNull {
			kind = etl.KindString
		}
		cols = append(cols, Column{Name: k, Kind: kind})
	}
	return cols
}

// row renders r as the JSON object the writer expects, coercing every
// value to its column kind. Time values are stored as RFC 3339 text.
func row(r etl.Record, cols []Column) (string, error) {
	out := etl.NewRecord()
	for _, c := range cols {
		kind := c.Kind
		if kind == etl.KindTime {
			kind = etl.KindString
		}
		v, err := r.Value(c.Name).Coerce(kind)
		if err != nil {
			return "", fmt.Errorf("parquet column %s: %w", c.Name, err)
		}
		out.Set(c.Name, v)
	}
	b, err := out.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Load returns a loader writing records to a Parquet file at path. Each batch
// of RowGroupRecords records is flushed as its own row group. Nothing is
// written when there are no records and no declared columns.
func Load(path string, opt WriterOptions) etl.Loader {
	return func(records etl.Seq) (err error) {
		cols := opt.Columns
		np := opt.Parallelism
		if np <= 0 {
			np = 4
		}
		var writer *pw.ParquetWriter
		var finish func() error
		open := func() error {
			fw, err := local.NewLocalFileWriter(path)
			if err != nil {
				return fmt.Errorf("parquet create %s: %w", path, err)
			}
			writer, err = pw.NewJSONWriter(parquetSchemaJSON(cols), fw, np)
			if err != nil {
				_ = fw.Close()
				return fmt.Errorf("parquet writer init: %w", err)
			}
			writer.CompressionType = parquet.CompressionCodec_SNAPPY
			closeFile := fw.Close
			finish = func() error {
				if err := writer.WriteStop(); err != nil {
					_ = closeFile()
					return fmt.Errorf("parquet finish: %w", err)
				}
				return closeFile()
			}
			return nil
		}
		defer func() {
			if finish != nil {
				if ferr := finish(); ferr != nil && err == nil {
					err = ferr
				}
			}
		}()

		if len(cols) > 0 {
			if err := open(); err != nil {
				return err
			}
		}
		for batch, berr := range etl.Batches(records, opt.RowGroupRecords) {
			if berr != nil {
				return berr
			}
			if writer == nil {
				cols = columnsOf(batch[0])
				if err := open(); err != nil {
					return err
				}
			}
			for _, r := range batch {
				s, err := row(r, cols)
				if err != nil {
					return err
				}
				if err := writer.Write(s); err != nil {
					return fmt.Errorf("parquet write row: %w", err)
				}
			}
			if err := writer.Flush(true); err != nil {
				return fmt.Errorf("parquet flush: %w", err)
			}
		}
		return nil
	}
}
