// Package cmd provides the entrypoint and CLI command configuration for the
// lazychart application.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kpumuk/lazychart/internal/chart"
	"github.com/kpumuk/lazychart/internal/devtools"
	"github.com/kpumuk/lazychart/internal/store"
)

func buildVersion(version, commit, date, builtBy string) string {
	result := version
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	if builtBy != "" {
		result = fmt.Sprintf("%s\nbuilt by: %s", result, builtBy)
	}
	result = fmt.Sprintf("%s\ngoos: %s\ngoarch: %s", result, runtime.GOOS, runtime.GOARCH)
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
		result = fmt.Sprintf("%s\nmodule version: %s, checksum: %s", result, info.Main.Version, info.Main.Sum)
	}

	return result
}

// Execute initializes and runs the lazychart command line.
func Execute(version, commit, date, builtBy string) error {
	rootCmd := newRootCmd(time.Now)
	rootCmd.Version = buildVersion(version, commit, date, builtBy)
	rootCmd.SetVersionTemplate(`lazychart {{printf "version %s\n" .Version}}`)

	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(rootCmd.Version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
}

func newRootCmd(now func() time.Time) *cobra.Command {
	var raw rawConfig
	rootCmd := &cobra.Command{
		Use:   "lazychart",
		Short: "Chart time-bucketed totals stored in Redis.",
		Long: "Bucket records from Redis sorted sets or daily counters into fixed time\n" +
			"intervals and print the chart descriptor, a terminal preview or a table.",
		Args: cobra.NoArgs,
	}

	rootCmd.Flags().BoolP("help", "h", false, "help for lazychart")
	bindFlags(rootCmd.PersistentFlags(), &raw)
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	rootCmd.Flags().StringVar(&raw.subKey, "sub-key", "", "sorted set whose values are subtracted")
	rootCmd.Flags().StringVar(&raw.counter, "counter", "", "daily counter key prefix, e.g. stat:processed:")
	rootCmd.Flags().StringVar(&raw.subCounter, "sub-counter", "", "daily counter key prefix whose values are subtracted")
	rootCmd.MarkFlagsMutuallyExclusive("key", "counter")
	rootCmd.MarkFlagsMutuallyExclusive("sub-key", "sub-counter")

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := raw.resolve(now())
		if err != nil {
			return err
		}
		return withClient(cmd, cfg, func(ctx context.Context, logger *slog.Logger, client *store.Client) error {
			stats, err := runStats(ctx, logger, client, cfg)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout(), cfg.output, cfg.color).printStats(stats, cfg.location)
		})
	}

	rootCmd.AddCommand(newMultiCmd(now, &raw))
	return rootCmd
}

func newMultiCmd(now func() time.Time, raw *rawConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "multi",
		Short: "Chart several sorted sets as separate lines.",
		Long: "Bucket every --key into its own series and scale all of them against the\n" +
			"highest watermark among the series.",
		Example: "  lazychart multi --key orders:eu --key orders:us --value-field total --increment 1h",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := raw.resolve(now())
			if err != nil {
				return err
			}
			return withClient(cmd, cfg, func(ctx context.Context, logger *slog.Logger, client *store.Client) error {
				stats, err := runMulti(ctx, logger, client, cfg)
				if err != nil {
					return err
				}
				return newPrinter(cmd.OutOrStdout(), cfg.output, cfg.color).printMulti(stats, cfg.keys, cfg.location)
			})
		},
	}
}

func bindFlags(flags *pflag.FlagSet, raw *rawConfig) {
	flags.StringVar(&raw.redisURL, "redis", store.DefaultRedisURL, "redis URL")
	flags.StringArrayVar(&raw.keys, "key", nil, "sorted set holding the records (repeat for multi)")
	flags.StringVar(&raw.from, "from", "", "range start, RFC3339 or 2006-01-02[T15:04] (default: 7 days before --to)")
	flags.StringVar(&raw.to, "to", "", "range end, RFC3339 or 2006-01-02[T15:04] (default: now)")
	flags.StringVar(&raw.increment, "increment", defaultIncrement.String(), "bucket width, a Go duration or a number of days like 7d")
	flags.StringVar(&raw.timeField, "time-field", store.ScoreField, "record field holding the timestamp")
	flags.StringVar(&raw.valueField, "value-field", "", "record field holding the value (default: count records)")
	flags.StringVar(&raw.title, "title", "", "chart title")
	flags.IntVar(&raw.width, "width", chart.DefaultWidth, "chart width in pixels")
	flags.IntVar(&raw.height, "height", chart.DefaultHeight, "chart height in pixels")
	flags.StringVar(&raw.tz, "tz", "UTC", "timezone for labels and naive times")
	flags.StringVarP(&raw.output, "output", "o", string(outputJSON), "output format: json, preview or table")
	flags.StringVar(&raw.color, "color", string(colorAuto), "colorize output: auto, always or never")
	flags.BoolVar(&raw.debug, "debug", false, "log debug messages and redis commands to stderr")
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "since":
		name = "from"
	case "until":
		name = "to"
	case "timezone":
		name = "tz"
	}
	return pflag.NormalizedName(name)
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// withClient connects to Redis for the duration of fn. With --debug every
// issued command is traced and logged once fn returns.
func withClient(cmd *cobra.Command, cfg config, fn func(context.Context, *slog.Logger, *store.Client) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.debug)

	client, err := store.NewClient(cfg.redisURL)
	if err != nil {
		return fmt.Errorf("create redis client: %w", err)
	}
	defer func() {
		_ = client.Close()
	}()
	logger.DebugContext(ctx, "connecting", slog.String("redis", client.DisplayRedisURL()))

	if cfg.debug {
		tracker := devtools.NewTracker()
		client.AddHook(tracker.Hook())
		defer tracker.Report(ctx, logger)
	}

	return fn(ctx, logger, client)
}
