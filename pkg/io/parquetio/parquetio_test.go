package parquetio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/uetl/pkg/etl"
)

func sampleRecords() []etl.Record {
	return []etl.Record{
		etl.NewRecord(etl.F("product", "tea"), etl.F("quantity", 3), etl.F("price", 2.5), etl.F("paid", true)),
		etl.NewRecord(etl.F("product", "cake"), etl.F("quantity", nil), etl.F("price", 4.0), etl.F("paid", false)),
		etl.NewRecord(etl.F("product", nil), etl.F("quantity", 7), etl.F("price", nil), etl.F("paid", nil)),
	}
}

func TestLoadThenExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.parquet")
	in := sampleRecords()

	require.NoError(t, etl.MustNew(etl.FromRecords(in...), Load(path, WriterOptions{RowGroupRecords: 2})).Run())

	got, err := etl.Collect(Extract(path, ReaderOptions{BatchSize: 2})())
	require.NoError(t, err)
	require.Len(t, got, len(in))
	for i := range in {
		assert.True(t, in[i].Equal(got[i]), "row %d: want %s got %s", i, in[i], got[i])
	}
	assert.Equal(t, []string{"product", "quantity", "price", "paid"}, got[0].Keys())
}

func TestLoad_DeclaredColumnsCoerce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typed.parquet")
	cols := []Column{{Name: "id", Kind: etl.KindInt}, {Name: "score", Kind: etl.KindFloat}}
	in := etl.FromRecords(etl.NewRecord(etl.F("id", "12"), etl.F("score", 3), etl.F("extra", "dropped")))

	require.NoError(t, etl.MustNew(in, Load(path, WriterOptions{Columns: cols})).Run())

	got, err := etl.Collect(Extract(path, ReaderOptions{})())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].EqualOrdered(etl.NewRecord(etl.F("id", 12), etl.F("score", 3.0))), "got %s", got[0])
}

func TestLoad_CoercionFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.parquet")
	cols := []Column{{Name: "id", Kind: etl.KindInt}}
	err := etl.MustNew(etl.FromRecords(etl.NewRecord(etl.F("id", "abc"))), Load(path, WriterOptions{Columns: cols})).Run()
	assert.ErrorContains(t, err, "parquet column id")
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := etl.Collect(Extract(filepath.Join(t.TempDir(), "nope.parquet"), ReaderOptions{})())
	assert.ErrorContains(t, err, "parquet open")
}

func BenchmarkParquetWrite(b *testing.B) {
	recs := make([]etl.Record, 50000)
	for i := range recs {
		recs[i] = etl.NewRecord(etl.F("a", float64(i%100)), etl.F("b", i%10))
	}
	path := filepath.Join(b.TempDir(), "bench.parquet")
	p := etl.MustNew(etl.FromRecords(recs...), Load(path, WriterOptions{}))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.Run(); err != nil {
			b.Fatal(err)
		}
	}
}
