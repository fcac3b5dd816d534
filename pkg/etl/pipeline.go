package etl

import (
	"iter"
	"slices"
)

// DefaultName labels pipelines built without WithName.
const DefaultName = "default"

// Pipeline composes one Extractor, an ordered list of Transforms and one
// Loader. Execution is synchronous and single-pass: each record travels the
// whole transform chain before the next one is pulled from the extractor.
//
// A Pipeline is not safe for concurrent use. Calling Add from inside a
// transform while Run is in progress is not allowed.
type Pipeline struct {
	name       string
	extract    Extractor
	transforms []Transform
	load       Loader
}

// Option configures a Pipeline at construction.
type Option func(*Pipeline)

// WithName sets the pipeline's label. It has no effect on execution.
func WithName(name string) Option {
	return func(p *Pipeline) { p.name = name }
}

// WithTransforms appends ts to the transform list in order.
func WithTransforms(ts ...Transform) Option {
	return func(p *Pipeline) { p.transforms = append(p.transforms, ts...) }
}

// New builds a pipeline. The loader is mandatory; a nil extractor is accepted
// here and reported when the pipeline is run.
func New(extract Extractor, load Loader, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{name: DefaultName, extract: extract, load: load}
	for _, opt := range opts {
		opt(p)
	}
	if load == nil {
		return nil, &ConfigError{Pipeline: p.name, Err: ErrMissingLoader}
	}
	return p, nil
}

// MustNew is New for static setups; it panics on a configuration error.
func MustNew(extract Extractor, load Loader, opts ...Option) *Pipeline {
	p, err := New(extract, load, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pipeline) Name() string { return p.name }

// Transforms returns a copy of the registered transforms in order.
func (p *Pipeline) Transforms() []Transform { return slices.Clone(p.transforms) }

// Add appends t to the end of the transform list.
func (p *Pipeline) Add(t Transform) *Pipeline {
	p.transforms = append(p.transforms, t)
	return p
}

// Run calls the extractor, lazily applies the transforms in registration
// order and hands the resulting sequence to the loader. It returns after the
// loader returns.
//
// The first record is pulled before the loader is invoked, so an extractor
// failing on its first element fails Run without calling the loader. Any
// other error raised by the extractor, a transform or the loader is returned
// unchanged; an upstream error is reported even when the loader ignored it.
// Run may be called again after a failure and starts from a fresh extractor
// call.
func (p *Pipeline) Run() error {
	if p.extract == nil {
		return &ConfigError{Pipeline: p.name, Err: ErrMissingExtractor}
	}
	steps := slices.Clone(p.transforms)

	src := p.extract()
	if src == nil {
		src = Empty()
	}
	next, stop := iter.Pull2(src)
	defer stop()

	first, err, ok := next()
	if ok && err != nil {
		return err
	}

	var seq Seq = resume(first, ok, next)
	for _, t := range steps {
		seq = apply(seq, t)
	}

	var upstream error
	if err := p.load(watch(seq, &upstream)); err != nil {
		return err
	}
	return upstream
}

// resume re-attaches an already pulled first element to the rest of a pulled
// sequence. The result can be ranged over once.
func resume(first Record, ok bool, next func() (Record, error, bool)) Seq {
	used := false
	return func(yield func(Record, error) bool) {
		if used || !ok {
			return
		}
		used = true
		if !yield(first, nil) {
			return
		}
		for {
			r, err, more := next()
			if !more {
				return
			}
			if !yield(r, err) || err != nil {
				return
			}
		}
	}
}

func apply(seq Seq, t Transform) Seq {
	return func(yield func(Record, error) bool) {
		for r, err := range seq {
			if err != nil {
				yield(Record{}, err)
				return
			}
			out, err := t.Apply(r)
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

// watch records the first error passing through seq.
func watch(seq Seq, failed *error) Seq {
	return func(yield func(Record, error) bool) {
		for r, err := range seq {
			if err != nil && *failed == nil {
				*failed = err
			}
			if !yield(r, err) {
				return
			}
		}
	}
}
