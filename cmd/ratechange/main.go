// ABOUTME: Entry point for the rate-change CLI
// ABOUTME: Parses flags, runs one job and shows, saves or plays the result
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/audiolab/ratechange/internal/config"
	"github.com/audiolab/ratechange/internal/logging"
	"github.com/audiolab/ratechange/internal/pipeline"
	"github.com/audiolab/ratechange/internal/report"
	"github.com/audiolab/ratechange/internal/ui"
	"github.com/audiolab/ratechange/internal/version"
	"github.com/audiolab/ratechange/pkg/audio/output"
	"github.com/audiolab/ratechange/pkg/audio/resample"
	"go.uber.org/zap"
)

var (
	configFile  = flag.String("config", "ratechange.yaml", "Config file path (missing file uses defaults)")
	saveDir     = flag.String("save", "", "Directory to save the result in (overrides config)")
	graphDir    = flag.String("graph", "", "Directory to write the comparison chart and summary in (overrides config)")
	outputName  = flag.String("name", "", "Output file name without extension (default: new_file)")
	format      = flag.String("format", "", "Output format: wav or flac (overrides config)")
	bitDepth    = flag.Int("bit-depth", -1, "Output bit depth: 16 or 24, 0 keeps the source depth")
	slow        = flag.Bool("slow", false, "Treat the factor as a slow-down multiplier")
	play        = flag.Bool("play", false, "Play the result after processing")
	useTUI      = flag.Bool("tui", false, "Show the result in an interactive view")
	logFile     = flag.String("log-file", "", "Also write logs to this file")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <file> <factor>\n\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "A factor above 1 speeds the audio up, below 1 slows it down.\n")
	fmt.Fprintf(flag.CommandLine.Output(), "A negative factor -g slows the audio down g times.\n\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, resample.ErrInvalidFactor) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(input, rawFactor string) error {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, *debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	factor, err := parseFactor(rawFactor, *slow)
	if err != nil {
		return err
	}

	logger.Debug("starting",
		zap.String("version", version.Version),
		zap.String("input", input),
		zap.Float64("factor", factor))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := pipeline.Job{
		Input:      input,
		Factor:     factor,
		SaveDir:    cfg.Output.Dir,
		OutputName: cfg.Output.FileName,
		Format:     cfg.Output.Format,
		BitDepth:   cfg.Output.BitDepth,
		GraphDir:   cfg.Report.Dir,
		Chart:      report.Options{BarWidth: cfg.Report.BarWidth},
	}

	out, err := pipeline.New(logger).Run(ctx, job)
	if err != nil {
		return err
	}

	device := output.NewOto()
	player := ui.NewOutcomePlayer(out, device)

	if *useTUI {
		return ui.Run(out, player)
	}

	if err := report.Chart(os.Stdout, out.Summary, report.Options{BarWidth: cfg.Report.BarWidth}); err != nil {
		return err
	}
	fmt.Println(pipeline.Describe(out))
	if out.OutputPath != "" {
		fmt.Printf("Saved to %s\n", out.OutputPath)
	}

	if *play {
		logger.Info("playing result", zap.Duration("duration", out.Summary.ResultDuration()))
		if err := player.Play(); err != nil {
			return err
		}
	}
	return nil
}

// applyFlags lets explicitly set flags override the config file
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "save":
			cfg.Output.Dir = *saveDir
		case "graph":
			cfg.Report.Dir = *graphDir
		case "name":
			cfg.Output.FileName = *outputName
		case "format":
			cfg.Output.Format = *format
		case "bit-depth":
			cfg.Output.BitDepth = *bitDepth
		case "log-file":
			cfg.Log.File = *logFile
		}
	})
}

// parseFactor reads the positional factor. Negative values and -slow both
// mean "g times slower".
func parseFactor(raw string, slowDown bool) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", resample.ErrInvalidFactor, raw)
	}
	if slowDown || f < 0 {
		return pipeline.SlowDownFactor(math.Abs(f))
	}
	return f, nil
}
