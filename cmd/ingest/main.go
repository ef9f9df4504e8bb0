// Command ingest is the Tennis Stats import CLI.
//
// Usage:
//
//	tennis-ingest import players --association WTA --max-pages 10
//	tennis-ingest import player 77 --association WTA
//	tennis-ingest import tournaments --association ATP --start-year 2022
//	tennis-ingest import rankings --association WTA
//	tennis-ingest import all --association WTA --start-year 2020 --delay-ms 500
//	tennis-ingest import players --dry-run
//	tennis-ingest migrate up
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/tennis-stats/internal/config"
	"github.com/albapepper/tennis-stats/internal/db"
	"github.com/albapepper/tennis-stats/internal/importer"
	"github.com/albapepper/tennis-stats/internal/listener"
	"github.com/albapepper/tennis-stats/internal/provider/bdl"
	"github.com/albapepper/tennis-stats/internal/store/memory"
	"github.com/albapepper/tennis-stats/internal/store/postgres"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "tennis-ingest",
		Short:        "Tennis Stats import CLI",
		SilenceUsage: true,
	}

	root.AddCommand(importCmd())
	root.AddCommand(migrateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// import command
// --------------------------------------------------------------------------

type importFlags struct {
	association string
	dryRun      bool
	maxPages    int
	delayMs     int
	startYear   int
	endYear     int
}

// resolve fills unset flags from configuration.
func (f *importFlags) resolve(cmd *cobra.Command, cfg *config.Config) (tennis.Association, time.Duration, error) {
	association := cfg.ImportAssociation
	if f.association != "" {
		a, err := tennis.ParseAssociation(f.association)
		if err != nil {
			return "", 0, err
		}
		association = a
	}
	if f.maxPages <= 0 {
		f.maxPages = cfg.ImportMaxPages
	}
	if f.startYear == 0 {
		f.startYear = cfg.ImportStartYear
	}
	if f.endYear == 0 {
		f.endYear = time.Now().UTC().Year()
	}
	delay := cfg.ImportDelay
	if cmd.Flags().Changed("delay-ms") {
		if f.delayMs < 0 {
			return "", 0, fmt.Errorf("--delay-ms must not be negative")
		}
		delay = time.Duration(f.delayMs) * time.Millisecond
	}
	if f.startYear > f.endYear {
		return "", 0, fmt.Errorf("--start-year %d is after --end-year %d", f.startYear, f.endYear)
	}
	return association, delay, nil
}

func importCmd() *cobra.Command {
	flags := &importFlags{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import data from BallDontLie",
	}
	cmd.PersistentFlags().StringVar(&flags.association, "association", "", "WTA or ATP (default IMPORT_ASSOCIATION)")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Import into an in-memory store instead of Postgres")
	cmd.PersistentFlags().IntVar(&flags.delayMs, "delay-ms", 0, "Delay between pages or years in milliseconds (default IMPORT_DELAY_MS)")

	cmd.AddCommand(importPlayersCmd(flags))
	cmd.AddCommand(importPlayerCmd(flags))
	cmd.AddCommand(importTournamentsCmd(flags))
	cmd.AddCommand(importRankingsCmd(flags))
	cmd.AddCommand(importSeasonsCmd(flags))
	cmd.AddCommand(importAllCmd(flags))
	return cmd
}

func importPlayersCmd(flags *importFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Import players page by page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(flags.dryRun, func(ctx context.Context, cfg *config.Config, imp *importer.Importer) error {
				association, delay, err := flags.resolve(cmd, cfg)
				if err != nil {
					return err
				}
				return check(imp.ImportPlayers(ctx, association, flags.maxPages, delay))
			})
		},
	}
	cmd.Flags().IntVar(&flags.maxPages, "max-pages", 0, "Maximum pages of 25 players (default IMPORT_MAX_PAGES)")
	return cmd
}

func importPlayerCmd(flags *importFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "player <external-id>",
		Short: "Refresh one player by provider id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 1 {
				return fmt.Errorf("external id must be a positive integer, got %q", args[0])
			}
			return runImport(flags.dryRun, func(ctx context.Context, cfg *config.Config, imp *importer.Importer) error {
				association, _, err := flags.resolve(cmd, cfg)
				if err != nil {
					return err
				}
				return check(imp.ImportPlayer(ctx, association, id))
			})
		},
	}
}

func importTournamentsCmd(flags *importFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tournaments",
		Short: "Import tournaments for a range of years",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(flags.dryRun, func(ctx context.Context, cfg *config.Config, imp *importer.Importer) error {
				association, delay, err := flags.resolve(cmd, cfg)
				if err != nil {
					return err
				}
				return check(imp.ImportTournaments(ctx, association, flags.startYear, flags.endYear, delay))
			})
		},
	}
	yearFlags(cmd, flags)
	return cmd
}

func importRankingsCmd(flags *importFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rankings",
		Short: "Import the current ranking table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(flags.dryRun, func(ctx context.Context, cfg *config.Config, imp *importer.Importer) error {
				association, _, err := flags.resolve(cmd, cfg)
				if err != nil {
					return err
				}
				return check(imp.ImportRankings(ctx, association))
			})
		},
	}
}

func importSeasonsCmd(flags *importFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seasons",
		Short: "Import the provider's season list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(flags.dryRun, func(ctx context.Context, cfg *config.Config, imp *importer.Importer) error {
				association, _, err := flags.resolve(cmd, cfg)
				if err != nil {
					return err
				}
				return check(imp.ImportSeasons(ctx, association))
			})
		},
	}
}

func importAllCmd(flags *importFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Import players, tournaments and rankings in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(flags.dryRun, func(ctx context.Context, cfg *config.Config, imp *importer.Importer) error {
				association, delay, err := flags.resolve(cmd, cfg)
				if err != nil {
					return err
				}
				progress := func(p importer.Progress) {
					logger.Info("Progress", "operation", p.CurrentOperation, "percent", fmt.Sprintf("%.1f", p.PercentComplete))
				}
				res := imp.ImportAllHistoricalData(ctx, association, flags.startYear, flags.endYear, delay, progress)
				logger.Info("Full import finished", "summary", res.Summary())
				if !res.Success {
					return fmt.Errorf("full import failed: %s", res.Error)
				}
				return nil
			})
		},
	}
	yearFlags(cmd, flags)
	return cmd
}

func yearFlags(cmd *cobra.Command, flags *importFlags) {
	cmd.Flags().IntVar(&flags.startYear, "start-year", 0, "First year (default IMPORT_START_YEAR)")
	cmd.Flags().IntVar(&flags.endYear, "end-year", 0, "Last year (default current year)")
}

// check turns a failed result into a command error.
func check(res importer.Result) error {
	if !res.Success {
		return fmt.Errorf("%s import failed: %s", res.EntityType, res.Error)
	}
	return nil
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(func(ctx context.Context, cfg *config.Config) error {
				if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
					return err
				}
				logger.Info("Migrations applied")
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(func(ctx context.Context, cfg *config.Config) error {
				return db.MigrationStatus(ctx, cfg.DatabaseURL)
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withConfig handles config loading and context cancellation.
func withConfig(fn func(ctx context.Context, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return fn(ctx, cfg)
}

// withDatabase is withConfig plus a migrated schema and a connection pool.
func withDatabase(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	return withConfig(func(ctx context.Context, cfg *config.Config) error {
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		return fn(ctx, cfg, pool)
	})
}

// runImport builds an importer against Postgres, or against an in-memory
// store when dryRun is set, and runs fn under the import timeout.
func runImport(dryRun bool, fn func(ctx context.Context, cfg *config.Config, imp *importer.Importer) error) error {
	if !dryRun {
		return withDatabase(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
			store := postgres.New(pool, logger)
			defer store.Discard(context.Background())
			return importWith(ctx, cfg, importer.Repositories{
				Players:     store.Players(),
				Tournaments: store.Tournaments(),
				Rankings:    store.Rankings(),
				Seasons:     store.Seasons(),
				UnitOfWork:  store,
			}, listener.NewPublisher(pool, logger), fn)
		})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.LoadWithoutDatabase()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store := memory.New()
	err = importWith(ctx, cfg, importer.Repositories{
		Players:     store.Players(),
		Tournaments: store.Tournaments(),
		Rankings:    store.Rankings(),
		Seasons:     store.Seasons(),
		UnitOfWork:  store,
	}, nil, fn)
	players, tournaments, seasons, rankings := store.Counts()
	logger.Info("Dry run finished",
		"players", players, "tournaments", tournaments,
		"seasons", seasons, "rankings", rankings)
	return err
}

// importWith runs fn with an importer on repos. recorder may be nil.
func importWith(
	ctx context.Context,
	cfg *config.Config,
	repos importer.Repositories,
	recorder importer.Recorder,
	fn func(ctx context.Context, cfg *config.Config, imp *importer.Importer) error,
) error {
	if cfg.BDLAPIKey == "" {
		return fmt.Errorf("BALLDONTLIE_API_KEY is required")
	}
	if cfg.ImportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ImportTimeout)
		defer cancel()
	}

	client := bdl.NewClient(cfg.BDLBaseURL, cfg.BDLAPIKey, cfg.BDLRequestsPerMinute, logger)
	source := bdl.NewSource(bdl.NewTennisHandler(client, logger), logger)
	imp := importer.New(source, repos, nil, recorder, logger)

	start := time.Now()
	err := fn(ctx, cfg, imp)
	logger.Info("Import command finished", "duration", time.Since(start).Round(time.Second))
	return err
}
