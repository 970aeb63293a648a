//
// Articles
// ========
// A JSON REST service for a single "article" resource with paginated
// listing.
//
// Boot the server:
// ----------------
// $ go run . serve
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/api/articles?page=1
// {"data":[...],"links":{...},"meta":{...}}
//
// $ curl -X POST -d '{"title":"awesomeness","body":"..."}' http://localhost:3333/api/articles
// {"created":true}
//
// $ curl http://localhost:3333/api/articles/1
// {"data":{"id":1,"title":"awesomeness",...}}
//
// $ curl -X PUT -d '{"title":"better","body":"..."}' http://localhost:3333/api/articles/1
// {"updated":true}
//
// $ curl -X DELETE http://localhost:3333/api/articles/1
// {"deleted":true}
//
// Route docs are printed by `go run . routes`.
//
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SergeyParamoshkin/articles/internal/config"
	"github.com/SergeyParamoshkin/articles/internal/metrics"
	"github.com/SergeyParamoshkin/articles/internal/server"
	"github.com/SergeyParamoshkin/articles/internal/store"

	"github.com/go-chi/docgen"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const ServiceName = "articles"

var (
	configPath string

	addr        string
	diagAddr    string
	perPage     int
	storeDriver string
	badgerPath  string
	postgresDSN string
	development bool

	routesJSON bool
)

var rootCmd = &cobra.Command{
	Use:           ServiceName,
	Short:         "articles - a REST service for articles",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API and diagnostics servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg.Log.Development)
		if err != nil {
			return err
		}
		defer logger.Sync() // flushes buffer, if any

		m, err := metrics.New(ServiceName)
		if err != nil {
			return err
		}
		otel.SetMeterProvider(m.Provider())

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(ctx, cfg.Store, logger)
		if err != nil {
			logger.Error("Failed to init store", zap.Error(err))

			return err
		}
		defer st.Close()

		if ps, ok := st.(*store.PostgresStore); ok {
			if _, err := ps.Migrate(ctx, logger); err != nil {
				return err
			}
		}

		logger.Info("Starting",
			zap.String("store", cfg.Store.Driver),
			zap.Int("per_page", cfg.Pagination.PerPage))

		runErr := server.New(cfg, st, logger, m).Run(ctx)
		if err := m.Shutdown(context.Background()); err != nil {
			logger.Warn("Failed to flush metrics", zap.Error(err))
		}
		logger.Info("Goodbye!")

		return runErr
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the generated router documentation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		r := server.New(cfg, nil, zap.NewNop(), nil).Router()
		if routesJSON {
			fmt.Fprintln(cmd.OutOrStdout(), docgen.JSONRoutesDoc(r))

			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/articles",
			Intro:       "Routes of the articles REST service.",
		}))

		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the SQL migrations to the Postgres store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg.Log.Development)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ps, err := store.OpenPostgres(cmd.Context(), cfg.Store.PostgresDSN)
		if err != nil {
			return err
		}
		defer ps.Close()

		n, err := ps.Migrate(cmd.Context(), logger)
		if err != nil {
			return err
		}
		logger.Info("Migrations completed", zap.Int("applied", n))

		return nil
	},
}

// loadConfig layers explicitly set flags over the file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.HTTP.Addr = addr
	}
	if flags.Changed("diag-addr") {
		cfg.HTTP.DiagAddr = diagAddr
	}
	if flags.Changed("per-page") {
		cfg.Pagination.PerPage = perPage
	}
	if flags.Changed("store") {
		cfg.Store.Driver = storeDriver
	}
	if flags.Changed("badger-path") {
		cfg.Store.BadgerPath = badgerPath
	}
	if flags.Changed("postgres-dsn") {
		cfg.Store.PostgresDSN = postgresDSN
	}
	if flags.Changed("dev") {
		cfg.Log.Development = development
	}

	return cfg, cfg.Validate()
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func main() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", os.Getenv(config.EnvPrefix+"CONFIG"), "Path to a YAML config file")
	pf.StringVar(&addr, "addr", ":3333", "application address")
	pf.StringVar(&diagAddr, "diag-addr", ":9999", "diagnostics address (metrics, health)")
	pf.IntVar(&perPage, "per-page", 15, "articles per page")
	pf.StringVar(&storeDriver, "store", config.DriverBadger, "store driver: badger or postgres")
	pf.StringVar(&badgerPath, "badger-path", "./data/articles", "Path to BadgerDB data directory")
	pf.StringVar(&postgresDSN, "postgres-dsn", "", "Postgres connection string")
	pf.BoolVar(&development, "dev", false, "development logging")

	routesCmd.Flags().BoolVar(&routesJSON, "json", false, "print JSON instead of markdown")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
