package etl

// Transform maps one record to one record. Implementations must return a new
// record rather than modify their input, since the same transform may be
// shared by several pipelines and runs.
type Transform interface {
	Name() string
	Apply(r Record) (Record, error)
}

// TransformFunc adapts a plain function to the Transform interface.
type TransformFunc func(Record) (Record, error)

func (f TransformFunc) Name() string                   { return "func" }
func (f TransformFunc) Apply(r Record) (Record, error) { return f(r) }

// Named attaches a name to a function transform for diagnostics.
func Named(name string, fn TransformFunc) Transform {
	return namedTransform{name: name, fn: fn}
}

type namedTransform struct {
	name string
	fn   TransformFunc
}

func (t namedTransform) Name() string                   { return t.name }
func (t namedTransform) Apply(r Record) (Record, error) { return t.fn(r) }
