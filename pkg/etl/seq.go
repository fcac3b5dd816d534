package etl

import "iter"

// Seq is a lazy, single-pass sequence of records. An element with a non-nil
// error reports an upstream failure; no element follows it.
type Seq = iter.Seq2[Record, error]

// Extractor produces a fresh record sequence each time it is called.
type Extractor func() Seq

// Loader consumes a record sequence. Records are only produced while the
// loader ranges over the sequence, so a loader must drain it for every
// upstream effect to happen. A loader should return any error it receives
// from the sequence.
type Loader func(records Seq) error

// Empty returns a sequence without records.
func Empty() Seq {
	return func(yield func(Record, error) bool) {}
}

// Fail returns a sequence whose only element is err.
func Fail(err error) Seq {
	return func(yield func(Record, error) bool) {
		yield(Record{}, err)
	}
}

// FromRecords returns an extractor replaying records on every call.
func FromRecords(records ...Record) Extractor {
	return func() Seq {
		return func(yield func(Record, error) bool) {
			for _, r := range records {
				if !yield(r, nil) {
					return
				}
			}
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq Seq) ([]Record, error) {
	var out []Record
	for r, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}

// CollectInto returns a loader appending every record to dst.
func CollectInto(dst *[]Record) Loader {
	return func(records Seq) error {
		for r, err := range records {
			if err != nil {
				return err
			}
			*dst = append(*dst, r)
		}
		return nil
	}
}

// Discard returns a loader that drains the sequence and keeps nothing.
func Discard() Loader {
	return func(records Seq) error {
		for _, err := range records {
			if err != nil {
				return err
			}
		}
		return nil
	}
}

// Batches groups seq into slices of up to size records. The final batch may
// be shorter; an error ends the sequence after any pending batch is dropped.
func Batches(seq Seq, size int) iter.Seq2[[]Record, error] {
	if size <= 0 {
		size = 1024
	}
	return func(yield func([]Record, error) bool) {
		batch := make([]Record, 0, size)
		for r, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			batch = append(batch, r)
			if len(batch) == size {
				if !yield(batch, nil) {
					return
				}
				batch = make([]Record, 0, size)
			}
		}
		if len(batch) > 0 {
			yield(batch, nil)
		}
	}
}
