package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pbroekroelofs/sports-heroes-schedule/internal/harvest"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/logger"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/scraper"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/storage"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/subject"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// DefaultDBPath is where the event store lives unless overridden.
const DefaultDBPath = "~/.local/share/heroes-schedule/events.db"

var (
	flagDBPath   string
	flagFormat   string
	flagProxyKey string
	flagTimeout  time.Duration
	flagVerbose  bool
	flagDays     int
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heroes-schedule",
		Short: "Harvest and query the schedules of followed athletes",
		Long: `Aggregates race calendars for a fixed set of followed athletes from the
statistics site into a local event store. Harvests are idempotent: the same
race always maps to the same stored record.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
			}
		},
	}

	cmd.PersistentFlags().StringVar(&flagDBPath, "db",
		envOrDefault("HEROES_DB", DefaultDBPath), "Path to the event database (or env: HEROES_DB)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newHarvestCmd())
	cmd.AddCommand(newPurgeCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func newHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Run one harvest cycle over all tracked subjects",
		Long: `Fetches each tracked subject's calendar page, normalizes the entries, and
upserts them into the event store. Subjects are harvested concurrently; a
failure in one never affects the others, and the summary reports each
subject's outcome individually.`,
		RunE: runHarvest,
	}
	cmd.Flags().StringVar(&flagProxyKey, "proxy-key",
		os.Getenv("SCRAPINGBEE_API_KEY"), "Bypass-proxy credential (or env: SCRAPINGBEE_API_KEY)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout",
		envDurationOrDefault("HARVEST_TIMEOUT", scraper.Timeout), "Per-fetch timeout (or env: HARVEST_TIMEOUT)")
	return cmd
}

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove stored events that fail current validity rules",
		Long: `Scans the scraped sport categories and deletes stored events whose
competition field no longer passes validation, repairing data written by
earlier pipeline versions.`,
		RunE: runPurge,
	}
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the upcoming schedule from the event store",
		RunE:  runList,
	}
	cmd.Flags().IntVar(&flagDays, "days", 90, "How many days ahead to list")
	return cmd
}

func runHarvest(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sc := scraper.New(scraper.WithProxyKey(flagProxyKey), scraper.WithTimeout(flagTimeout))
	sources := harvest.NewSubjectSources(sc, subject.Defaults())
	runner := harvest.NewRunner(store, sources)

	summary := runner.Run(cmd.Context())
	return WriteSummary(os.Stdout, summary, format)
}

func runPurge(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runner := harvest.NewRunner(store, nil)
	result, err := runner.Purge(cmd.Context(), subject.ScrapedCategories())
	if err != nil {
		return fmt.Errorf("purging events: %w", err)
	}
	return WritePurge(os.Stdout, result, format)
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	now := time.Now().UTC()
	events, err := store.ListBetween(cmd.Context(), now, now.AddDate(0, 0, flagDays))
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	return WriteEvents(os.Stdout, events, format, flagVerbose)
}

func openStore() (*storage.Store, error) {
	path, err := expandPath(flagDBPath)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return store, nil
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envDurationOrDefault reads a duration from the environment, keeping the
// fallback when the variable is unset or unparseable.
func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn("Ignoring invalid duration", logger.Fields{"env": key, "value": v})
		return fallback
	}
	return d
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
