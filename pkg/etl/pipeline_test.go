package etl_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/uetl/pkg/etl"
	"github.com/wdm0006/uetl/pkg/transform/fields"
)

func TestNew_RequiresLoader(t *testing.T) {
	extractors := []etl.Extractor{nil, etl.FromRecords(), func() etl.Seq { return nil }}
	for i, ex := range extractors {
		p, err := etl.New(ex, nil, etl.WithName("no-loader"))
		require.Error(t, err, "extractor #%d", i)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, etl.ErrMissingLoader)

		var cfgErr *etl.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "no-loader", cfgErr.Pipeline)
	}
}

func TestNew_AcceptsAnyExtractorWithLoader(t *testing.T) {
	for _, ex := range []etl.Extractor{nil, etl.FromRecords()} {
		p, err := etl.New(ex, etl.Discard())
		require.NoError(t, err)
		assert.Equal(t, etl.DefaultName, p.Name())
		assert.Empty(t, p.Transforms())
	}
}

func TestMustNew_PanicsWithoutLoader(t *testing.T) {
	assert.Panics(t, func() { etl.MustNew(etl.FromRecords(), nil) })
}

func TestRun_NilExtractor(t *testing.T) {
	called := false
	p, err := etl.New(nil, func(etl.Seq) error { called = true; return nil })
	require.NoError(t, err)

	err = p.Run()
	assert.ErrorIs(t, err, etl.ErrMissingExtractor)
	assert.False(t, called)
}

// Scenario: filter then rename on a single record.
func TestRun_FilterThenRename(t *testing.T) {
	var got []etl.Record
	p, err := etl.New(
		etl.FromRecords(etl.NewRecord(etl.F("a", 1), etl.F("b", 2))),
		etl.CollectInto(&got),
		etl.WithTransforms(fields.NewFilter("a"), fields.NewRename(map[string]string{"a": "x"})),
		etl.WithName("test_pipeline"),
	)
	require.NoError(t, err)
	require.NoError(t, p.Run())

	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(etl.NewRecord(etl.F("x", 1))), "got %s", got[0])
}

// Scenario: no records; the loader still runs and sees an empty sequence.
func TestRun_EmptyExtractor(t *testing.T) {
	calls := 0
	var seen int
	p := etl.MustNew(etl.FromRecords(), func(records etl.Seq) error {
		calls++
		for _, err := range records {
			if err != nil {
				return err
			}
			seen++
		}
		return nil
	}, etl.WithTransforms(fields.NewFilter("a")))

	require.NoError(t, p.Run())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, seen)
}

// Scenario: an extractor failing on its first pull fails Run before the
// loader is invoked.
func TestRun_ExtractorFailsOnFirstPull(t *testing.T) {
	boom := errors.New("source unavailable")
	loaderCalled := false
	p := etl.MustNew(
		func() etl.Seq { return etl.Fail(boom) },
		func(etl.Seq) error { loaderCalled = true; return nil },
	)

	err := p.Run()
	assert.Same(t, boom, err)
	assert.False(t, loaderCalled)
}

// Scenario: omitted transforms behave as identity.
func TestRun_NoTransformsIsIdentity(t *testing.T) {
	in := []etl.Record{
		etl.NewRecord(etl.F("a", 1), etl.F("b", "x")),
		etl.NewRecord(etl.F("c", true)),
	}
	var got []etl.Record
	require.NoError(t, etl.MustNew(etl.FromRecords(in...), etl.CollectInto(&got)).Run())

	require.Len(t, got, len(in))
	for i := range in {
		assert.True(t, in[i].EqualOrdered(got[i]))
	}
}

func TestRun_OrderAndComposition(t *testing.T) {
	var trace []string
	tag := func(name string) etl.Transform {
		return etl.Named(name, func(r etl.Record) (etl.Record, error) {
			id, _ := r.Value("id").AsInt()
			trace = append(trace, fmt.Sprintf("%s(r%d)", name, id))
			out := r.Clone()
			s, _ := r.Value("path").AsString()
			out.Set("path", etl.String(s+name))
			return out, nil
		})
	}
	extract := func() etl.Seq {
		return func(yield func(etl.Record, error) bool) {
			for i := 1; i <= 2; i++ {
				trace = append(trace, fmt.Sprintf("pull(r%d)", i))
				if !yield(etl.NewRecord(etl.F("id", i)), nil) {
					return
				}
			}
		}
	}
	var got []etl.Record
	load := func(records etl.Seq) error {
		trace = append(trace, "load")
		for r, err := range records {
			if err != nil {
				return err
			}
			id, _ := r.Value("id").AsInt()
			trace = append(trace, fmt.Sprintf("sink(r%d)", id))
			got = append(got, r)
		}
		return nil
	}

	p := etl.MustNew(extract, load, etl.WithTransforms(tag("t1")))
	p.Add(tag("t2"))
	require.NoError(t, p.Run())

	require.Len(t, got, 2)
	for i, r := range got {
		assert.Equal(t, int64(i+1), mustInt(t, r.Value("id")))
		assert.Equal(t, "t1t2", r.Value("path").String())
	}
	assert.Equal(t, []string{
		"pull(r1)", "load",
		"t1(r1)", "t2(r1)", "sink(r1)",
		"pull(r2)", "t1(r2)", "t2(r2)", "sink(r2)",
	}, trace)
}

func TestRun_TransformsAreLazy(t *testing.T) {
	applied := 0
	count := etl.Named("count", func(r etl.Record) (etl.Record, error) {
		applied++
		return r, nil
	})
	p := etl.MustNew(
		etl.FromRecords(etl.NewRecord(etl.F("n", 1)), etl.NewRecord(etl.F("n", 2)), etl.NewRecord(etl.F("n", 3))),
		func(records etl.Seq) error {
			for range records {
				break
			}
			return nil
		},
		etl.WithTransforms(count),
	)
	require.NoError(t, p.Run())
	assert.Equal(t, 1, applied)
}

func TestRun_TransformErrorPropagates(t *testing.T) {
	bad := errors.New("bad record")
	failing := etl.TransformFunc(func(r etl.Record) (etl.Record, error) {
		if r.Value("n").Equal(etl.Int(2)) {
			return etl.Record{}, bad
		}
		return r, nil
	})
	var got []etl.Record
	p := etl.MustNew(
		etl.FromRecords(etl.NewRecord(etl.F("n", 1)), etl.NewRecord(etl.F("n", 2)), etl.NewRecord(etl.F("n", 3))),
		etl.CollectInto(&got),
		etl.WithTransforms(failing),
	)
	assert.Same(t, bad, p.Run())
	assert.Len(t, got, 1)
}

func TestRun_UpstreamErrorNotSwallowedByLoader(t *testing.T) {
	bad := errors.New("mid-stream failure")
	extract := func() etl.Seq {
		return func(yield func(etl.Record, error) bool) {
			if !yield(etl.NewRecord(etl.F("n", 1)), nil) {
				return
			}
			yield(etl.Record{}, bad)
		}
	}
	careless := func(records etl.Seq) error {
		for range records {
		}
		return nil
	}
	assert.Same(t, bad, etl.MustNew(extract, careless).Run())
}

func TestRun_LoaderErrorPropagates(t *testing.T) {
	sinkErr := errors.New("disk full")
	p := etl.MustNew(etl.FromRecords(etl.NewRecord()), func(etl.Seq) error { return sinkErr })
	assert.Same(t, sinkErr, p.Run())
}

func TestRun_RepeatableAfterFailure(t *testing.T) {
	calls := 0
	transient := errors.New("transient")
	extract := func() etl.Seq {
		calls++
		if calls == 1 {
			return etl.Fail(transient)
		}
		return etl.FromRecords(etl.NewRecord(etl.F("ok", true)))()
	}
	var got []etl.Record
	p := etl.MustNew(extract, etl.CollectInto(&got), etl.WithTransforms(fields.NewFilter("ok")))

	assert.Same(t, transient, p.Run())
	require.NoError(t, p.Run())
	require.NoError(t, p.Run())
	assert.Equal(t, 3, calls)
	assert.Len(t, got, 2)
	assert.Len(t, p.Transforms(), 1)
}

func TestRun_AddDuringRunDoesNotAffectCurrentRun(t *testing.T) {
	var p *etl.Pipeline
	var got []etl.Record
	sneaky := etl.Named("sneaky", func(r etl.Record) (etl.Record, error) {
		p.Add(fields.NewFilter("never"))
		return r, nil
	})
	p = etl.MustNew(etl.FromRecords(etl.NewRecord(etl.F("a", 1))), etl.CollectInto(&got), etl.WithTransforms(sneaky))
	require.NoError(t, p.Run())
	require.Len(t, got, 1)
	assert.True(t, got[0].Has("a"))
}

func TestWithTransforms_CopiesCallerSlice(t *testing.T) {
	ts := []etl.Transform{fields.NewFilter("a")}
	p := etl.MustNew(etl.FromRecords(), etl.Discard(), etl.WithTransforms(ts...))
	ts[0] = fields.NewFilter("b")
	p.Add(fields.NewRename(nil))

	got := p.Transforms()
	require.Len(t, got, 2)
	assert.Equal(t, []string{"a"}, got[0].(*fields.Filter).Keys)
	assert.Len(t, ts, 1)
}

func mustInt(t *testing.T, v etl.Value) int64 {
	t.Helper()
	i, ok := v.AsInt()
	require.True(t, ok, "expected int, got %s", v.Kind())
	return i
}
