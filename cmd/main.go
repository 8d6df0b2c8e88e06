package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/jobs"
	"taskboard/internal/logging"
	"taskboard/internal/services"
	"taskboard/pkg/database"

	"github.com/go-extras/cobraflags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

const (
	configFlag = "config"
	seedFlag   = "file"
	targetFlag = "to"
)

func configFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		configFlag: &cobraflags.StringFlag{
			Name:  configFlag,
			Value: "",
			Usage: "Path to a TOML config file. TASKBOARD_* environment variables override it",
		},
	}
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "taskboard",
		Short:        "Multi-tenant task management API",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCommand(),
		newWorkerCommand(),
		newMigrateCommand(),
		newSeedCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads config and builds the logger every command starts from.
func bootstrap(flags map[string]cobraflags.Flag) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(flags[configFlag].GetString())
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger := logging.New(logging.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	return cfg, logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newServeCommand() *cobra.Command {
	flags := configFlags()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background scheduler",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(flags)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			app, err := newApp(ctx, cfg, logger)
			if err != nil {
				logger.Error().Err(err).Msg("failed to start")
				return err
			}
			defer app.Close()

			return app.Serve(ctx)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newWorkerCommand() *cobra.Command {
	flags := configFlags()
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Process queued notification tasks",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(flags)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			app, err := newApp(ctx, cfg, logger)
			if err != nil {
				logger.Error().Err(err).Msg("failed to start")
				return err
			}
			defer app.Close()

			worker := jobs.NewWorker(app.redis, cfg.Queue, logger)
			mux := jobs.NewServeMux(jobs.NewNotificationHandler(app.notifications))

			if err := worker.Start(mux); err != nil {
				return fmt.Errorf("failed to start worker: %w", err)
			}
			logger.Info().Int("concurrency", cfg.Queue.Concurrency).Msg("worker started")

			<-ctx.Done()
			worker.Shutdown()
			logger.Info().Msg("worker stopped")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newMigrateCommand() *cobra.Command {
	flags := configFlags()
	flags[targetFlag] = &cobraflags.IntFlag{
		Name:  targetFlag,
		Value: -1,
		Usage: "schema version to migrate up or down to (-1 for latest, 0 drops everything)",
	}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(flags)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			ran, err := database.MigrateTo(ctx, pool, int32(flags[targetFlag].GetInt()), logger)
			if err != nil {
				logger.Error().Err(err).Strs("ran", ran).Msg("migration failed")
				return err
			}
			logger.Info().Strs("ran", ran).Msg("migrations finished")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newSeedCommand() *cobra.Command {
	flags := configFlags()
	flags[seedFlag] = &cobraflags.StringFlag{
		Name:  seedFlag,
		Value: "configs/seed.toml",
		Usage: "TOML file with creds and report catalogs",
	}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data (creds, report catalogs)",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(flags)
			if err != nil {
				return err
			}
			seed, err := config.LoadSeed(flags[seedFlag].GetString())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			repos := newRepositories(pool)
			result, err := services.NewSeedService(repos.creds, repos.catalogs).Apply(ctx, seed)
			if err != nil {
				logger.Error().Err(err).Msg("seed failed")
				return err
			}
			logger.Info().
				Int("creds", result.Creds).
				Int("catalogs", result.Catalogs).
				Int("sections", result.Sections).
				Int("filters", result.Filters).
				Msg("seed applied")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}
