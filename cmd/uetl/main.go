package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/wdm0006/uetl/pkg/etl"
	csvio "github.com/wdm0006/uetl/pkg/io/csvio"
	jsonlio "github.com/wdm0006/uetl/pkg/io/jsonlio"
	parquetio "github.com/wdm0006/uetl/pkg/io/parquetio"
	"github.com/wdm0006/uetl/pkg/profile"
)

var (
	version = "0.1.0-dev"
)

const (
	exitRuntime = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("uetl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "Print version and exit")
	configPath := fs.String("config", "", "Path to pipeline config (JSON, YAML or TOML)")
	profileOut := fs.String("profile", "", "Profile the loaded records and print a text or json report to stderr")
	logLevel := fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "console", "Log format (console, json)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintln(stdout, "uetl", version)
		return 0
	}

	log, err := newLogger(stderr, *logLevel, *logFormat)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if *profileOut != "" && *profileOut != "text" && *profileOut != "json" {
		fmt.Fprintf(stderr, "unknown profile format %q\n", *profileOut)
		return exitUsage
	}
	if *configPath == "" {
		fmt.Fprintln(stderr, "no config provided; nothing to do. try -config <file> or -version")
		return exitUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error().Err(err).Str("config", *configPath).Msg("load config")
		return exitUsage
	}
	steps, err := buildSteps(cfg.Steps)
	if err != nil {
		log.Error().Err(err).Msg("build steps")
		return exitUsage
	}

	var collector *profile.Collector
	load, err := loader(cfg.Output)
	if err != nil {
		log.Error().Err(err).Msg("configure output")
		return exitUsage
	}
	if *profileOut != "" {
		collector = profile.NewCollector(5)
		load = collector.Wrap(load)
	}
	var count int
	load = counting(load, &count)

	opts := []etl.Option{etl.WithTransforms(steps...)}
	if cfg.Name != "" {
		opts = append(opts, etl.WithName(cfg.Name))
	}
	p, err := etl.New(extractor(cfg.Input), load, opts...)
	if err != nil {
		log.Error().Err(err).Msg("build pipeline")
		return exitUsage
	}

	runLog := log.With().
		Str("pipeline", p.Name()).
		Str("run_id", uuid.NewString()).
		Logger()
	runLog.Info().
		Str("input", cfg.Input.Path).
		Str("output", cfg.Output.Path).
		Int("steps", len(steps)).
		Msg("pipeline started")

	start := time.Now()
	if err := p.Run(); err != nil {
		runLog.Error().Err(err).Int("records", count).Dur("elapsed", time.Since(start)).Msg("pipeline failed")
		return exitRuntime
	}
	runLog.Info().Int("records", count).Dur("elapsed", time.Since(start)).Msg("pipeline finished")

	if collector != nil {
		if err := writeProfile(stderr, collector, *profileOut); err != nil {
			runLog.Error().Err(err).Msg("write profile")
			return exitRuntime
		}
	}
	return 0
}

func extractor(in InputConfig) etl.Extractor {
	switch in.Type {
	case "jsonl":
		return jsonlio.Extract(in.Path)
	case "parquet":
		return parquetio.Extract(in.Path, parquetio.ReaderOptions{})
	}
	return csvio.Extract(in.Path, csvio.ReaderOptions{
		HasHeader:  in.HasHeader,
		Delimiter:  firstRune(in.Delimiter),
		Encoding:   in.Encoding,
		InferTypes: in.InferTypes,
		NullEmpty:  in.NullEmpty,
	})
}

func loader(out OutputConfig) (etl.Loader, error) {
	switch out.Type {
	case "", "csv":
		return csvio.Load(out.Path, csvio.WriterOptions{
			Delimiter:   firstRune(out.Delimiter),
			Fields:      out.Fields,
			IgnoreExtra: out.IgnoreExtra,
		}), nil
	case "jsonl":
		return jsonlio.Load(out.Path), nil
	case "parquet":
		if out.Path == "-" {
			return nil, errors.New("parquet output needs a file path")
		}
		return parquetio.Load(out.Path, parquetio.WriterOptions{}), nil
	}
	return nil, fmt.Errorf("unsupported output type %q", out.Type)
}

// counting counts the records the wrapped loader consumes.
func counting(next etl.Loader, n *int) etl.Loader {
	return func(records etl.Seq) error {
		return next(func(yield func(etl.Record, error) bool) {
			for r, err := range records {
				if err == nil {
					*n++
				}
				if !yield(r, err) {
					return
				}
			}
		})
	}
}

func writeProfile(w io.Writer, c *profile.Collector, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c.ReportJSON())
	}
	_, err := io.WriteString(w, c.ReportText())
	return err
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
