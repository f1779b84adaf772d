// sessionctl works on answer logs offline.
//
//	sessionctl generate  [--max-sessions-per-day N] [--seed S] [--year Y] [--out FILE]
//	sessionctl enrich    --in FILE [--lenient] [--out FILE]
//	sessionctl top-users --in FILE [-n 5]
//	sessionctl answers   --in FILE
//
// Generator defaults come from the same configuration as the API server.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/PratikDhanave/answer-sessions/internal/analysis"
	"github.com/PratikDhanave/answer-sessions/internal/config"
	"github.com/PratikDhanave/answer-sessions/internal/generator"
	"github.com/PratikDhanave/answer-sessions/internal/logfile"
	"github.com/PratikDhanave/answer-sessions/internal/logger"
	"github.com/PratikDhanave/answer-sessions/internal/models"
	"github.com/PratikDhanave/answer-sessions/internal/pipeline"
)

const usage = `usage: sessionctl <command> [flags]

commands:
  generate    write a synthetic year of session records as CSV
  enrich      add date parts and session ids to a raw answer CSV
  top-users   print the most active users with sessions per month
  answers     print the number of answers per session
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stdout, usage)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	switch args[0] {
	case "generate":
		err = runGenerate(cfg, args[1:], stdout)
	case "enrich":
		err = runEnrich(log, args[1:], stdout)
	case "top-users":
		err = runTopUsers(args[1:], stdout)
	case "answers":
		err = runAnswers(args[1:], stdout)
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

func runGenerate(cfg config.Config, args []string, stdout io.Writer) error {
	genCfg, seed, err := cfg.GeneratorSettings()
	if err != nil {
		return err
	}

	var seedFlag, outPath string
	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	fs.IntVar(&genCfg.MaxSessionsPerDay, "max-sessions-per-day", genCfg.MaxSessionsPerDay, "upper bound of sessions drawn per day")
	fs.IntVar(&genCfg.Year, "year", genCfg.Year, "calendar year to generate")
	fs.StringVar(&seedFlag, "seed", "", "random seed for reproducible output (default: configured seed, else random)")
	fs.StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if seedFlag != "" {
		if seed, err = config.ParseSeed(seedFlag); err != nil {
			return err
		}
	}
	var rng *rand.Rand
	if seed != nil {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}

	g, err := generator.New(genCfg, rng)
	if err != nil {
		return err
	}
	return withOutput(outPath, stdout, func(w io.Writer) error {
		return logfile.WriteSynthetic(w, g.Generate())
	})
}

func runEnrich(log *zap.Logger, args []string, stdout io.Writer) error {
	var inPath, outPath string
	var lenient bool
	fs := pflag.NewFlagSet("enrich", pflag.ContinueOnError)
	fs.StringVarP(&inPath, "in", "i", "", "raw answer CSV with user,event_id,sent_at,question_id")
	fs.StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	fs.BoolVar(&lenient, "lenient", false, "skip rows with an unparsable sent_at instead of failing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw, err := readRaw(inPath)
	if err != nil {
		return err
	}

	var enriched []models.EnrichedLogRecord
	if lenient {
		var skipped pipeline.RowErrors
		enriched, skipped = pipeline.EnrichLenient(raw, log)
		if len(skipped) > 0 {
			log.Warn("rows skipped", zap.Int("count", len(skipped)), zap.Int("kept", len(enriched)))
		}
	} else if enriched, err = pipeline.Enrich(raw); err != nil {
		return err
	}

	return withOutput(outPath, stdout, func(w io.Writer) error {
		return logfile.WriteEnriched(w, enriched)
	})
}

func runTopUsers(args []string, stdout io.Writer) error {
	var inPath string
	var n int
	fs := pflag.NewFlagSet("top-users", pflag.ContinueOnError)
	fs.StringVarP(&inPath, "in", "i", "", "raw answer CSV")
	fs.IntVarP(&n, "top", "n", 5, "number of users to keep")
	if err := fs.Parse(args); err != nil {
		return err
	}

	enriched, err := readEnriched(inPath)
	if err != nil {
		return err
	}
	top, err := analysis.TopUsersByMonth(analysis.FromEnriched(enriched), n)
	if err != nil {
		return err
	}
	return printJSON(stdout, top)
}

func runAnswers(args []string, stdout io.Writer) error {
	var inPath string
	fs := pflag.NewFlagSet("answers", pflag.ContinueOnError)
	fs.StringVarP(&inPath, "in", "i", "", "raw answer CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}

	enriched, err := readEnriched(inPath)
	if err != nil {
		return err
	}
	return printJSON(stdout, analysis.AnswersPerSession(analysis.FromEnriched(enriched)))
}

func readRaw(path string) ([]models.RawLogRecord, error) {
	if path == "" {
		return nil, errors.New("--in is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tbl, err := logfile.ReadTable(f)
	if err != nil {
		return nil, err
	}
	return pipeline.Bind(tbl)
}

func readEnriched(path string) ([]models.EnrichedLogRecord, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	return pipeline.Enrich(raw)
}

func withOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
