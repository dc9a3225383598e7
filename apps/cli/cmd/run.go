package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/suitereport/packages/core/config"
	"github.com/abdul-hamid-achik/suitereport/packages/core/runner"
	"github.com/abdul-hamid-achik/suitereport/packages/feed"
	"github.com/abdul-hamid-achik/suitereport/packages/logging"
	"github.com/abdul-hamid-achik/suitereport/packages/report"
	"github.com/abdul-hamid-achik/suitereport/packages/stats"
)

var runCmd = &cobra.Command{
	Use:   "run <feed|->",
	Short: "Report a result feed as it is read",
	Long: `Report the suites of a JSON-lines result feed as they arrive.

The feed is a file, or "-" to read stdin while a test engine writes it.

Examples:
  suitereport run results.jsonl
  go-engine --json | suitereport run -
  suitereport run results.jsonl --verbose --root-dir .
  suitereport run results.jsonl --bail
  suitereport run results.jsonl --stats --stats-top 10
  suitereport run results.jsonl --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	verboseFlag     bool
	bailFlag        bool
	rootDirFlag     string
	noHighlightFlag bool
	coverageFlag    bool
	rateFlag        float64
	statsFlag       bool
	statsTopFlag    int
	watchFlag       bool
	configFlag      string
	logLevelFlag    string
)

// flagEnv maps run flags to the environment variables they default from.
var flagEnv = map[string]string{
	"verbose":      "SUITEREPORT_VERBOSE",
	"bail":         "SUITEREPORT_BAIL",
	"root-dir":     "SUITEREPORT_ROOT_DIR",
	"no-highlight": "SUITEREPORT_NO_HIGHLIGHT",
	"coverage":     "SUITEREPORT_COVERAGE",
	"rate":         "SUITEREPORT_RATE",
	"stats":        "SUITEREPORT_STATS",
	"stats-top":    "SUITEREPORT_STATS_TOP",
	"log-level":    "SUITEREPORT_LOG_LEVEL",
}

func init() {
	// Report flags
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("SUITEREPORT_VERBOSE", false), "Print every test and defer failure detail to the end (env: SUITEREPORT_VERBOSE)")
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("SUITEREPORT_BAIL", false), "Stop after the first failing suite (env: SUITEREPORT_BAIL)")
	runCmd.Flags().StringVar(&rootDirFlag, "root-dir", getEnvString("SUITEREPORT_ROOT_DIR", ""), "Show suite paths relative to this directory (env: SUITEREPORT_ROOT_DIR)")
	runCmd.Flags().BoolVar(&noHighlightFlag, "no-highlight", getEnvBool("SUITEREPORT_NO_HIGHLIGHT", false), "Disable colors and the progress line (env: SUITEREPORT_NO_HIGHLIGHT)")
	runCmd.Flags().BoolVar(&coverageFlag, "coverage", getEnvBool("SUITEREPORT_COVERAGE", false), "Run the coverage hook after the summary (env: SUITEREPORT_COVERAGE)")

	// Delivery flags
	runCmd.Flags().Float64Var(&rateFlag, "rate", getEnvFloat("SUITEREPORT_RATE", 0), "Deliver at most this many suites per second, 0 for no limit (env: SUITEREPORT_RATE)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the feed file and report it again when it changes")

	// Stats flags
	runCmd.Flags().BoolVar(&statsFlag, "stats", getEnvBool("SUITEREPORT_STATS", false), "Print suite timing percentiles after the summary (env: SUITEREPORT_STATS)")
	runCmd.Flags().IntVar(&statsTopFlag, "stats-top", getEnvInt("SUITEREPORT_STATS_TOP", config.DefaultStatsTop), "Number of slowest suites --stats lists (env: SUITEREPORT_STATS_TOP)")

	// Config flags
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("SUITEREPORT_CONFIG", ""), "Path to config file (env: SUITEREPORT_CONFIG)")
	runCmd.Flags().StringVar(&logLevelFlag, "log-level", getEnvString("SUITEREPORT_LOG_LEVEL", config.DefaultLogLevel), "Diagnostic log level on stderr: debug, info, warn, error (env: SUITEREPORT_LOG_LEVEL)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// isSet reports whether a flag was given on the command line or through
// its environment variable, so it should override the config file.
func isSet(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}
	env, ok := flagEnv[name]
	return ok && os.Getenv(env) != ""
}

// flagOverrides collects the flags that were set into a config that can be
// merged over the file config.
func flagOverrides(cmd *cobra.Command) *config.Config {
	o := &config.Config{}
	if isSet(cmd, "verbose") {
		o.Verbose = config.BoolPtr(verboseFlag)
	}
	if isSet(cmd, "bail") {
		o.Bail = config.BoolPtr(bailFlag)
	}
	if isSet(cmd, "root-dir") {
		o.RootDir = rootDirFlag
	}
	if isSet(cmd, "no-highlight") {
		o.NoHighlight = config.BoolPtr(noHighlightFlag)
	}
	if isSet(cmd, "coverage") {
		o.CollectCoverage = config.BoolPtr(coverageFlag)
	}
	if isSet(cmd, "rate") {
		o.Rate = rateFlag
	}
	if isSet(cmd, "stats") {
		o.Stats = config.BoolPtr(statsFlag)
	}
	if isSet(cmd, "stats-top") {
		o.StatsTop = statsTopFlag
	}
	if isSet(cmd, "log-level") {
		o.LogLevel = logLevelFlag
	}
	return o
}

func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	cfg := fileConfig.Merge(flagOverrides(cmd))
	if err := cfg.Validate(); err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("invalid config: %w", err))
	}
	return cfg, nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	path := args[0]

	if watchFlag && path == "-" {
		return withExitCode(ExitUsageError, errors.New("--watch needs a feed file, not stdin"))
	}

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nReceived interrupt, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	opts := feedOptions{
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
		logger: logger,
		exit:   os.Exit,
	}

	result, err := reportFeed(ctx, path, cfg, opts)
	if err != nil {
		return err
	}

	if !watchFlag {
		return resultError(result)
	}
	return watchFeed(ctx, path, cfg, opts)
}

// feedOptions holds the process resources a report run writes to.
type feedOptions struct {
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
	exit   func(code int)
}

// reportFeed reports one pass over the feed at path ("-" for opts.in) and
// prints timing stats after the summary when enabled.
func reportFeed(ctx context.Context, path string, cfg *config.Config, opts feedOptions) (*runner.RunResult, error) {
	src, total, err := openFeed(path, opts.in)
	if err != nil {
		return nil, err
	}

	repCfg := cfg.ToReportConfig()
	rep := report.NewReporter(
		report.WithWriter(opts.out),
		report.WithExitFunc(opts.exit),
	)
	if repCfg.CollectCoverage {
		opts.logger.Info("coverage requested, but no coverage reporter is registered")
	}

	runOpts := []runner.Option{
		runner.WithLogger(opts.logger),
		runner.WithRate(cfg.Rate),
	}

	var collector *stats.Collector
	if cfg.GetStats() {
		collector = stats.NewCollector()
		runOpts = append(runOpts, runner.WithObserver(collector.RecordSuite))
	}

	result, err := runner.NewRunner(rep, repCfg, runOpts...).Run(ctx, total, src)
	if err != nil {
		return result, withExitCode(ExitParseError, err)
	}
	if result.Skipped > 0 {
		opts.logger.Warn("feed records skipped", "path", path, "count", result.Skipped)
	}

	if collector != nil && !result.Bailed {
		if s := collector.Summary(cfg.StatsTop).Format(repCfg); s != "" {
			fmt.Fprint(opts.out, s)
		}
	}
	return result, nil
}

// openFeed returns a source for path. A file is read whole so its suites
// can be counted before the run starts; stdin is streamed and the total
// grows as suites arrive.
func openFeed(path string, stdin io.Reader) (runner.Source, int, error) {
	if path == "-" {
		return feed.NewDecoder(stdin), 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, withExitCode(ExitUsageError, fmt.Errorf("cannot read feed: %w", err))
	}
	total, err := feed.CountSuites(bytes.NewReader(data))
	if err != nil {
		return nil, 0, withExitCode(ExitParseError, err)
	}
	return feed.NewDecoder(bytes.NewReader(data)), total, nil
}

// resultError turns a finished run into the command's exit status. A bail
// is a normal stop.
func resultError(result *runner.RunResult) error {
	switch {
	case result.Bailed:
		return nil
	case result.Canceled:
		return withExitCode(ExitInterrupted, nil)
	case result.Failed():
		return withExitCode(ExitTestFailure, nil)
	case result.Skipped > 0:
		return withExitCode(ExitParseError, nil)
	}
	return nil
}

// watchFeed reports the feed again each time the file is written, until
// ctx is canceled. Runs never overlap.
func watchFeed(ctx context.Context, path string, cfg *config.Config, opts feedOptions) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	fmt.Fprintf(opts.out, "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", path)

	rerun := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			opts.logger.Debug("feed changed", "path", path, "op", event.Op.String())

			// Debounce: reset timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			fmt.Fprintf(opts.out, "\n\nFeed changed: %s\nReporting again...\n\n", path)
			if _, err := reportFeed(ctx, path, cfg, opts); err != nil {
				opts.logger.Error("report failed", "path", path, "error", err)
			}
			fmt.Fprintf(opts.out, "\nWatching %s for changes... (press Ctrl+C to stop)\n", path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.logger.Warn("watcher error", "error", err)
		}
	}
}
