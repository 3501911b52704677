package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dupdirs/internal/config"
	"dupdirs/internal/dedupe"
	"dupdirs/internal/fingerprint"
	"dupdirs/internal/progress"
	"dupdirs/internal/report"
	"dupdirs/internal/walker"
)

var version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		minSize    string
		hashName   string
		workers    int
		outputPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "dupdirs [flags] <root>...",
		Short: "Find the largest duplicated directories",
		Long: `dupdirs fingerprints every directory under the given roots from the names and
sizes of the files it contains, then reports the largest directories whose
contents exist elsewhere. File contents are never read.`,
		Version: version,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, options{
				configPath: configPath,
				minSize:    minSize,
				hash:       hashName,
				workers:    workers,
				outputPath: outputPath,
				verbose:    verbose,
			})
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "dupdirs.yaml", "Config file path")
	cmd.Flags().StringVarP(&minSize, "min-size", "m", "", `Minimum directory size to report, e.g. "500K" or "2MiB"`)
	cmd.Flags().StringVar(&hashName, "hash", "", "Fingerprint digest: blake3 or xxhash")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of file fingerprinting workers")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report as JSON to this file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	return cmd
}

type options struct {
	configPath string
	minSize    string
	hash       string
	workers    int
	outputPath string
	verbose    bool
}

func run(roots []string, opts options) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// CLI flags override config
	if opts.minSize != "" {
		cfg.MinSize = opts.minSize
	}
	if opts.hash != "" {
		cfg.Hash = opts.hash
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}

	minSize, err := humanize.ParseBytes(cfg.MinSize)
	if err != nil {
		return fmt.Errorf("%q is not a byte size", cfg.MinSize)
	}

	digest, err := fingerprint.New(fingerprint.Algorithm(cfg.Hash))
	if err != nil {
		return err
	}

	// Validate every root before walking any of them.
	absRoots := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for %s: %w", root, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("cannot access %s: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", root)
		}
		absRoots = append(absRoots, abs)
	}

	var counter *progress.Counter
	if progress.IsTerminal(os.Stderr) && !opts.verbose {
		counter = progress.New(os.Stderr)
	}

	// One guard for the whole run: a physical directory reached again under
	// a later root is pruned, not re-walked.
	guard := walker.NewInodeGuard()
	w := walker.New(digest, guard, logger, walker.Options{
		Exclude:  cfg.Exclude,
		Workers:  cfg.Workers,
		Progress: counter,
	})

	serialized := &report.Report{
		Generator: "dupdirs",
		Created:   time.Now(),
		MinSize:   minSize,
	}

	for _, root := range absRoots {
		index := make(walker.Index)
		_, err := w.Walk(root, index)
		if counter != nil {
			counter.Finish()
		}
		if err != nil {
			return err
		}

		groups := dedupe.Reduce(index, minSize)
		fmt.Print(report.Format(root, groups))
		serialized.Roots = append(serialized.Roots, report.NewRootReport(root, groups))
	}

	if opts.outputPath != "" {
		if err := report.Save(serialized, opts.outputPath); err != nil {
			return err
		}
	}

	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	// Quiet runs still surface recoverable walk diagnostics on stderr.
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.WarnLevel),
		Encoding:         "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	return cfg.Build()
}
