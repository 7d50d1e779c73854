package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/cmd/cli/commands"
	"github.com/thinkfasteu/sfscheduler-sub002/internal/config"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/observability/metrics"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/postgres"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/sqlite"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/utils/logging"
)

var (
	env     string
	verbose bool

	app             = &commands.AppContext{Ctx: context.Background()}
	shutdownMetrics func(context.Context) error
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Shift scheduler CLI - Generate and manage monthly staff schedules",
		Long: `A CLI tool for generating monthly shift schedules, tracking overtime consent
and publishing schedules to Google Sheets.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.GenerateScheduleCmd(app))
	rootCmd.AddCommand(commands.ViewScheduleCmd(app))
	rootCmd.AddCommand(commands.FinalizeScheduleCmd(app))
	rootCmd.AddCommand(commands.PublishScheduleCmd(app))
	rootCmd.AddCommand(commands.ListStaffCmd(app))
	rootCmd.AddCommand(commands.ImportStaffCmd(app))
	rootCmd.AddCommand(commands.ListConsentRequestsCmd(app))
	rootCmd.AddCommand(commands.RecordConsentCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		closeApp()
		os.Exit(1)
	}
}

// initApp sets up logger, config, metrics and database
func initApp() error {
	var err error

	app.Env = env
	app.Logger, err = logging.InitLogger(logging.Options{Env: env, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	shutdownMetrics, err = metrics.InitMeterProvider(app.Ctx, metrics.ExportConfig{
		Endpoint: app.Cfg.Metrics.OTLPEndpoint,
		Insecure: app.Cfg.Metrics.Insecure,
		Interval: time.Duration(app.Cfg.Metrics.IntervalSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	app.Metrics, err = metrics.NewScheduleMetrics()
	if err != nil {
		return fmt.Errorf("failed to create schedule metrics: %w", err)
	}

	app.Logger.Info("Connecting to database", zap.String("driver", app.Cfg.Database.Driver))
	app.Database, err = openDatabase(app.Ctx, app.Cfg.Database)
	if err != nil {
		return err
	}
	app.Logger.Info("Database initialized successfully")

	return nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (db.Database, error) {
	switch cfg.Driver {
	case "postgres":
		database, err := postgres.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := database.RunMigrations(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return database, nil
	case "sqlite":
		database, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return database, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func closeApp() {
	if app.Database != nil {
		app.Database.Close()
		app.Database = nil
	}
	if shutdownMetrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(ctx); err != nil && app.Logger != nil {
			app.Logger.Warn("Failed to flush metrics", zap.Error(err))
		}
		shutdownMetrics = nil
	}
	if app.Logger != nil {
		app.Logger.Sync()
	}
}
