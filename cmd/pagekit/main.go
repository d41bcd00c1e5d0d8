package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/config"
	"github.com/vango-dev/pagekit/internal/errors"
	"github.com/vango-dev/pagekit/internal/logging"
	"github.com/vango-dev/pagekit/pkg/metrics"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	dir      string
	logLevel string
	logJSON  bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "pagekit",
		Short: "Page-side helpers for server-rendered pages",
		Long: `pagekit keeps a page's URL query, stored preferences and element
classes in step with UI state.

The commands run the same helpers a page uses against local stand-ins:
  • url       apply query updates to an address
  • store     read and write stored values
  • fetch     call JSON endpoints
  • favorite  render a favorite button into an HTML file
  • serve     serve a page with a favorite API and live patches`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "Directory holding pagekit.json")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (default from pagekit.json)")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Log as JSON")

	rootCmd.AddCommand(
		urlCmd(opts),
		storeCmd(opts),
		fetchCmd(opts),
		favoriteCmd(opts),
		serveCmd(opts),
		configCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

// env is what a command needs once configuration is loaded.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

// loadEnv loads and validates pagekit.json and builds the logger and metrics.
// Diagnostics go to stderr so command output stays machine-readable.
func loadEnv(opts *globalOptions, stderr io.Writer) (*env, error) {
	cfg, err := config.LoadOrDefault(opts.dir)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logJSON {
		cfg.Log.Format = "json"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	return &env{
		cfg:    cfg,
		logger: logging.New(cfg.Log, stderr),
		metrics: metrics.New(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithRegistry(reg),
		),
		registry: reg,
	}, nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
