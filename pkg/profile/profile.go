// Package profile accumulates per-column statistics over a record stream.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wdm0006/uetl/pkg/etl"
)

type NumStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
}

func (n *NumStats) Mean() float64 {
	if n.Count == 0 {
		return 0
	}
	return n.Sum / float64(n.Count)
}

type BoolStats struct {
	True  int `json:"true"`
	False int `json:"false"`
}

type StringStats struct {
	Count int
	Freqs map[string]int
}

// ColumnProfile holds what was seen under one field name. A column may carry
// values of several kinds; each kind feeds its own stats.
type ColumnProfile struct {
	Name  string
	Count int // non-null values
	Nulls int // null values and records without the field
	Kinds map[etl.Kind]int
	Num   *NumStats
	Bool  *BoolStats
	Str   *StringStats
}

// Kind is the most frequent non-null kind, KindNull when only nulls were seen.
// Ties prefer the wider kind.
func (cp *ColumnProfile) Kind() etl.Kind {
	best, n := etl.KindNull, 0
	for k, c := range cp.Kinds {
		if c > n || (c == n && k > best) {
			best, n = k, c
		}
	}
	return best
}

// Collector is not safe for concurrent use.
type Collector struct {
	cols    []*ColumnProfile
	index   map[string]int
	topK    int
	records int
}

// NewCollector returns an empty collector keeping the topK most frequent
// values of textual columns in reports; topK <= 0 reports all of them.
func NewCollector(topK int) *Collector {
	return &Collector{index: make(map[string]int), topK: topK}
}

func (c *Collector) Records() int { return c.records }

// Columns returns the column profiles in first-seen order.
func (c *Collector) Columns() []*ColumnProfile { return c.cols }

func (c *Collector) column(name string) *ColumnProfile {
	if i, ok := c.index[name]; ok {
		return c.cols[i]
	}
	cp := &ColumnProfile{Name: name, Kinds: make(map[etl.Kind]int), Nulls: c.records}
	c.index[name] = len(c.cols)
	c.cols = append(c.cols, cp)
	return cp
}

// Observe folds one record into the profile.
func (c *Collector) Observe(r etl.Record) {
	for name, v := range r.All() {
		cp := c.column(name)
		if v.IsNull() {
			cp.Nulls++
			continue
		}
		cp.Count++
		cp.Kinds[v.Kind()]++
		switch v.Kind() {
		case etl.KindInt, etl.KindFloat:
			f, _ := v.AsFloat()
			if cp.Num == nil {
				cp.Num = &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
			}
			cp.Num.Count++
			cp.Num.Min = math.Min(cp.Num.Min, f)
			cp.Num.Max = math.Max(cp.Num.Max, f)
			cp.Num.Sum += f
		case etl.KindBool:
			if cp.Bool == nil {
				cp.Bool = &BoolStats{}
			}
			if b, _ := v.AsBool(); b {
				cp.Bool.True++
			} else {
				cp.Bool.False++
			}
		default:
			if cp.Str == nil {
				cp.Str = &StringStats{Freqs: make(map[string]int)}
			}
			cp.Str.Count++
			cp.Str.Freqs[v.String()]++
		}
	}
	// fields absent from this record count as nulls
	for _, cp := range c.cols {
		if !r.Has(cp.Name) {
			cp.Nulls++
		}
	}
	c.records++
}

// Wrap returns a loader that profiles every record on its way to next.
func (c *Collector) Wrap(next etl.Loader) etl.Loader {
	return func(records etl.Seq) error {
		return next(func(yield func(etl.Record, error) bool) {
			for r, err := range records {
				if err == nil {
					c.Observe(r)
				}
				if !yield(r, err) {
					return
				}
			}
		})
	}
}

type freq struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func (c *Collector) top(s *StringStats) []freq {
	if s == nil {
		return nil
	}
	arr := make([]freq, 0, len(s.Freqs))
	for k, v := range s.Freqs {
		arr = append(arr, freq{k, v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Count != arr[j].Count {
			return arr[i].Count > arr[j].Count
		}
		return arr[i].Value < arr[j].Value
	})
	if c.topK > 0 && c.topK < len(arr) {
		arr = arr[:c.topK]
	}
	return arr
}

func (c *Collector) ReportText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile Summary (%d records)\n", c.records)
	for _, cp := range c.cols {
		fmt.Fprintf(&b, "- %s (%s): count=%d nulls=%d", cp.Name, cp.Kind(), cp.Count, cp.Nulls)
		if cp.Num != nil {
			fmt.Fprintf(&b, " min=%.6g max=%.6g mean=%.6g", cp.Num.Min, cp.Num.Max, cp.Num.Mean())
		}
		if cp.Bool != nil {
			fmt.Fprintf(&b, " true=%d false=%d", cp.Bool.True, cp.Bool.False)
		}
		b.WriteByte('\n')
		for _, f := range c.top(cp.Str) {
			fmt.Fprintf(&b, "  * %q: %d\n", f.Value, f.Count)
		}
	}
	return b.String()
}

type JSONProfile struct {
	Records int          `json:"records"`
	Columns []JSONColumn `json:"columns"`
}

type JSONColumn struct {
	Name  string     `json:"name"`
	Kind  string     `json:"kind"`
	Count int        `json:"count"`
	Nulls int        `json:"nulls"`
	Num   *JSONNum   `json:"num,omitempty"`
	Bool  *BoolStats `json:"bool,omitempty"`
	Top   []freq     `json:"top,omitempty"`
}

type JSONNum struct {
	NumStats
	Mean float64 `json:"mean"`
}

func (c *Collector) ReportJSON() JSONProfile {
	out := JSONProfile{Records: c.records, Columns: make([]JSONColumn, 0, len(c.cols))}
	for _, cp := range c.cols {
		jc := JSONColumn{Name: cp.Name, Kind: cp.Kind().String(), Count: cp.Count, Nulls: cp.Nulls, Bool: cp.Bool, Top: c.top(cp.Str)}
		if cp.Num != nil {
			jc.Num = &JSONNum{NumStats: *cp.Num, Mean: cp.Num.Mean()}
		}
		out.Columns = append(out.Columns, jc)
	}
	return out
}
