package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/uetl/pkg/etl"
)

func TestFilter_KeepsExactlyRequestedKeys(t *testing.T) {
	in := etl.NewRecord(etl.F("a", 1), etl.F("b", "two"), etl.F("c", 3.5))

	out, err := NewFilter("c", "a", "zz").Apply(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a", "zz"}, out.Keys())
	assert.True(t, out.Value("a").Equal(etl.Int(1)))
	assert.True(t, out.Value("c").Equal(etl.Float(3.5)))

	v, ok := out.Get("zz")
	assert.True(t, ok, "absent key must still be present in output")
	assert.True(t, v.IsNull())
	assert.True(t, v.Equal(etl.Missing))
}

func TestFilter_EmptyInputAndDuplicates(t *testing.T) {
	out, err := NewFilter("x", "y", "x").Apply(etl.Record{})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, out.Keys())
	assert.True(t, out.Value("x").IsNull())

	out, err = NewFilter().Apply(etl.NewRecord(etl.F("a", 1)))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := etl.NewRecord(etl.F("a", 1), etl.F("b", 2))
	_, err := NewFilter("a").Apply(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, in.Keys())
}

func TestFilter_CopiesConfiguration(t *testing.T) {
	keys := []string{"a"}
	f := NewFilter(keys...)
	keys[0] = "b"

	out, err := f.Apply(etl.NewRecord(etl.F("a", 1), etl.F("b", 2)))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out.Keys())
}

func TestRename_MapsAndPassesThrough(t *testing.T) {
	in := etl.NewRecord(etl.F("quantity", 3), etl.F("product", "tea"), etl.F("total_price", 9.5))

	out, err := NewRename(map[string]string{"quantity": "qty", "total_price": "revenue", "absent": "nope"}).Apply(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"qty", "product", "revenue"}, out.Keys())
	assert.Equal(t, in.Len(), out.Len())
	assert.True(t, out.Value("qty").Equal(etl.Int(3)))
	assert.True(t, out.Value("product").Equal(etl.String("tea")))
	assert.True(t, out.Value("revenue").Equal(etl.Float(9.5)))
	assert.False(t, out.Has("nope"))
}

func TestRename_TwoKeysToOneNameLastWins(t *testing.T) {
	in := etl.NewRecord(etl.F("a", 1), etl.F("b", 2))

	out, err := NewRename(map[string]string{"a": "x", "b": "x"}).Apply(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, out.Keys())
	assert.True(t, out.Value("x").Equal(etl.Int(2)))
}

func TestRename_TargetCollidesWithPassthroughKey(t *testing.T) {
	// "b" passes through first, then "a" is renamed onto it.
	in := etl.NewRecord(etl.F("b", "kept-first"), etl.F("a", "renamed"))
	out, err := NewRename(map[string]string{"a": "b"}).Apply(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, out.Keys())
	assert.True(t, out.Value("b").Equal(etl.String("renamed")))

	// Reversed input order: the passthrough field is processed last and wins.
	in = etl.NewRecord(etl.F("a", "renamed"), etl.F("b", "passthrough"))
	out, err = NewRename(map[string]string{"a": "b"}).Apply(in)
	require.NoError(t, err)
	assert.True(t, out.Value("b").Equal(etl.String("passthrough")))
}

func TestRename_SwapNames(t *testing.T) {
	in := etl.NewRecord(etl.F("a", 1), etl.F("b", 2))
	out, err := NewRename(map[string]string{"a": "b", "b": "a"}).Apply(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, out.Keys())
	assert.True(t, out.Value("b").Equal(etl.Int(1)))
	assert.True(t, out.Value("a").Equal(etl.Int(2)))
}

func TestFactories_EqualConfigurationEqualOutput(t *testing.T) {
	inputs := []etl.Record{
		etl.NewRecord(etl.F("a", 1), etl.F("b", 2)),
		etl.NewRecord(etl.F("b", "x")),
		{},
	}
	f1, f2 := NewFilter("a", "c"), NewFilter("a", "c")
	r1, r2 := NewRename(map[string]string{"a": "z"}), NewRename(map[string]string{"a": "z"})
	require.NotSame(t, f1, f2)

	for _, in := range inputs {
		o1, _ := f1.Apply(in)
		o2, _ := f2.Apply(in)
		assert.True(t, o1.EqualOrdered(o2))

		o1, _ = r1.Apply(in)
		o2, _ = r2.Apply(in)
		assert.True(t, o1.EqualOrdered(o2))
	}
}
