package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/wdm0006/uetl/pkg/etl"
	"github.com/wdm0006/uetl/pkg/transform/fields"
	imp "github.com/wdm0006/uetl/pkg/transform/impute"
	std "github.com/wdm0006/uetl/pkg/transform/standardize"
)

type genConfig struct {
	rows  int
	fcols int
	icols int
	scols int
	missp float64
	seed  int64
}

// generate returns an extractor producing the same pseudo-random records on
// every call.
func generate(cfg genConfig) etl.Extractor {
	fnames := names("f", cfg.fcols)
	inames := names("i", cfg.icols)
	snames := names("s", cfg.scols)
	return func() etl.Seq {
		rnd := rand.New(rand.NewSource(cfg.seed))
		return func(yield func(etl.Record, error) bool) {
			for n := 0; n < cfg.rows; n++ {
				r := etl.NewRecord()
				for _, name := range fnames {
					if rnd.Float64() < cfg.missp {
						r.Set(name, etl.Null())
						continue
					}
					r.Set(name, etl.Float(rnd.Float64()*100))
				}
				for _, name := range inames {
					if rnd.Float64() < cfg.missp {
						r.Set(name, etl.Null())
						continue
					}
					r.Set(name, etl.Int(int64(rnd.Intn(100))))
				}
				for _, name := range snames {
					if rnd.Float64() < cfg.missp {
						r.Set(name, etl.Null())
						continue
					}
					r.Set(name, etl.String(" Alpha "))
				}
				if !yield(r, nil) {
					return
				}
			}
		}
	}
}

func names(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func main() {
	var (
		rows    = flag.Int("rows", 1_000_000, "total records to generate")
		fcols   = flag.Int("float-cols", 4, "number of float columns")
		icols   = flag.Int("int-cols", 2, "number of int columns")
		scols   = flag.Int("string-cols", 2, "number of string columns")
		missp   = flag.Float64("missing", 0.05, "probability of a null value in each field")
		jsonOut = flag.Bool("json", false, "emit JSON summary")
		seed    = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	// keep a subset of the columns, rename, then clean
	keep := append(names("f", min(*fcols, 2)), names("s", *scols)...)
	keep = append(keep, names("i", *icols)...)
	var count int
	sink := func(records etl.Seq) error {
		for _, err := range records {
			if err != nil {
				return err
			}
			count++
		}
		return nil
	}
	p, err := etl.New(generate(genConfig{*rows, *fcols, *icols, *scols, *missp, *seed}), sink,
		etl.WithName("bench"),
		etl.WithTransforms(
			fields.NewFilter(keep...),
			fields.NewRename(map[string]string{"s0": "label"}),
			&std.Trim{Column: "label"},
			&std.Lower{Column: "label"},
			&imp.Constant{Column: "f0", Value: 0.0},
		))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	runtime.GC()
	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	if err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	rowsPerSec := float64(count) / elapsed.Seconds()
	summary := map[string]any{
		"rows":                  count,
		"elapsed_ms":            elapsed.Milliseconds(),
		"rows_per_sec":          rowsPerSec,
		"mem_alloc_bytes":       msAfter.Alloc,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"cols":                  map[string]int{"float": *fcols, "int": *icols, "string": *scols},
		"transforms":            len(p.Transforms()),
		"missing_prob":          *missp,
	}

	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Rows: %d\n", count)
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f rows/s\n", rowsPerSec)
	fmt.Printf("Current Alloc: %d MB\n", msAfter.Alloc/1024/1024)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
}
