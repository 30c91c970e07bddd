// Command bagtensor turns a compressed review dump into partitioned
// user x item x word count tensors.
//
// Usage:
//
//	bagtensor [flags] k data out
//
// out is a local directory, s3://bucket/prefix or minio://bucket/prefix.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/hupe1980/bagtensor"
	"github.com/hupe1980/bagtensor/internal/config"
	"github.com/hupe1980/bagtensor/promcollector"
	"github.com/hupe1980/bagtensor/resource"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, nil))
}

// invocation is the parsed command line.
type invocation struct {
	configFile string
	dumpConfig bool
	overrides  map[string]any
}

// errUsage marks command-line errors.
var errUsage = errors.New("usage")

func parseArgs(args []string, stderr io.Writer) (*invocation, error) {
	fs := flag.NewFlagSet("bagtensor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: bagtensor [flags] k data out")
		fs.PrintDefaults()
	}

	var (
		inv       = &invocation{overrides: make(map[string]any)}
		fraction  float64
		testCount int
		threshold int64
		seed      uint64
		threads   int
		verify    bool
		textfile  string
		logLevel  string
		logFormat string
	)
	fs.Float64Var(&fraction, "t", 0.2, "fraction of reviews sampled into the test set (shorthand)")
	fs.Float64Var(&fraction, "test-fraction", 0.2, "fraction of reviews sampled into the test set, in [0, 1)")
	fs.IntVar(&testCount, "test-count", 0, "absolute number of test reviews; overrides the fraction")
	fs.Int64Var(&threshold, "threshold", bagtensor.DefaultThreshold, "words must occur more often than this")
	fs.Uint64Var(&seed, "seed", 0, "seed for the train/test split")
	fs.IntVar(&threads, "threads", 4, "tokenizer threads")
	fs.BoolVar(&verify, "verify", false, "re-read and check every written shard")
	fs.StringVar(&textfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	fs.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&logFormat, "log-format", "text", "text or json")
	fs.StringVar(&inv.configFile, "config", "", "YAML configuration file")
	fs.BoolVar(&inv.dumpConfig, "dump-config", false, "print the effective configuration and exit")

	// Flags may appear between the positional arguments.
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %w", errUsage, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t", "test-fraction":
			inv.overrides["test_fraction"] = fraction
		case "test-count":
			inv.overrides["test_count"] = testCount
		case "threshold":
			inv.overrides["threshold"] = threshold
		case "seed":
			inv.overrides["seed"] = seed
		case "threads":
			inv.overrides["threads"] = threads
		case "verify":
			inv.overrides["verify"] = verify
		case "metrics-textfile":
			inv.overrides["metrics.textfile"] = textfile
		case "log-level":
			inv.overrides["logging.level"] = logLevel
		case "log-format":
			inv.overrides["logging.format"] = logFormat
		}
	})

	if len(positional) > 3 {
		return nil, fmt.Errorf("%w: unexpected argument %q", errUsage, positional[3])
	}
	if len(positional) > 0 {
		k, err := strconv.Atoi(positional[0])
		if err != nil {
			return nil, fmt.Errorf("%w: k must be an integer, got %q", errUsage, positional[0])
		}
		inv.overrides["shards"] = k
	}
	if len(positional) > 1 {
		inv.overrides["input"] = positional[1]
	}
	if len(positional) > 2 {
		inv.overrides["output"] = positional[2]
	}
	return inv, nil
}

// run executes one invocation and returns the process exit code. A nil
// environ reads the process environment.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, environ []string) int {
	inv, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, "bagtensor:", err)
		return exitUsage
	}

	cfg, err := config.Load(config.LoadOptions{
		File:      inv.configFile,
		Environ:   environ,
		Overrides: inv.overrides,
	})
	if err != nil {
		fmt.Fprintln(stderr, "bagtensor:", err)
		return exitUsage
	}

	if inv.dumpConfig {
		if err := config.Save(stdout, cfg); err != nil {
			fmt.Fprintln(stderr, "bagtensor:", err)
			return exitError
		}
		return exitOK
	}

	logger, err := newLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "bagtensor:", err)
		return exitUsage
	}

	if err := execute(ctx, cfg, logger, stdout); err != nil {
		logger.ErrorContext(ctx, "run failed", "error", err)
		fmt.Fprintln(stderr, "bagtensor:", err)
		return exitError
	}
	return exitOK
}

func newLogger(cfg config.LoggingConfig, w io.Writer) (*bagtensor.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return bagtensor.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return bagtensor.NewLogger(slog.NewTextHandler(w, opts)), nil
}

func execute(ctx context.Context, cfg *config.Config, logger *bagtensor.Logger, stdout io.Writer) error {
	registry := prometheus.NewRegistry()
	metrics, err := promcollector.New(registry)
	if err != nil {
		return err
	}

	optFns := []bagtensor.Option{
		bagtensor.WithShards(cfg.Shards),
		bagtensor.WithThreshold(cfg.Threshold),
		bagtensor.WithTestFraction(cfg.TestFraction),
		bagtensor.WithThreads(cfg.Threads),
		bagtensor.WithLogger(logger),
		bagtensor.WithMetricsCollector(metrics),
		bagtensor.WithVerify(cfg.Verify),
		bagtensor.WithResourceController(resource.NewController(resource.Config{
			MemoryLimitBytes:   cfg.Resource.MemoryLimitBytes,
			IOLimitBytesPerSec: cfg.Resource.IOLimitBytesPerSec,
		})),
	}
	if cfg.TestCount != nil {
		optFns = append(optFns, bagtensor.WithTestCount(*cfg.TestCount))
	}
	if cfg.Seed != nil {
		optFns = append(optFns, bagtensor.WithSeed(*cfg.Seed))
	}

	p, err := bagtensor.New(optFns...)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	records, err := bagtensor.ReadRecords(ctx, cfg.Input)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "input read", "path", cfg.Input, "records", len(records))

	res, err := p.Run(ctx, records, store)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "run %s: %d users, %d items, %d words, %d train / %d test reviews, %d shards\n",
		res.RunID, res.Users, res.Items, res.Words, res.TrainReviews, res.TestReviews, len(res.Manifest.Shards))

	if cfg.Metrics.Textfile != "" {
		if err := promcollector.WriteTextfile(cfg.Metrics.Textfile, registry); err != nil {
			return err
		}
	}
	return nil
}
