// Command bpexport serves and runs the BuddyPress personal data exporters.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"bpexport/internal/app"
	"bpexport/internal/exporter"
	"bpexport/internal/i18n"
	"bpexport/internal/infra/store"
	"bpexport/internal/metrics"
	"bpexport/internal/report"
	u "bpexport/internal/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything the commands share once the config is loaded.
type env struct {
	cfg     u.Config
	store   *store.Store
	catalog *i18n.Catalog
	set     *exporter.Set
	metrics *metrics.Metrics
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "bpexport",
		Short:         "BuddyPress personal data exporter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (defaults to $CONFIG_PATH or config.yaml)")

	load := func() (u.Config, error) {
		return loadConfig(configPath)
	}

	root.AddCommand(newServeCmd(load), newExportCmd(load), newExportersCmd(load), newSchemaCmd(load))
	return root
}

// loadConfig turns the config loader's panic into an error.
func loadConfig(path string) (cfg u.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	if path == "" {
		return u.LoadConfig(), nil
	}
	u.AppConfig = u.LoadFrom(path)
	return u.AppConfig, nil
}

func newEnv(cfg u.Config) (*env, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	cat := i18n.New(cfg.Site.Locale)
	set := exporter.NewSet()
	n := exporter.Register(set, exporter.New(st, exporter.NewHooks(), cat))
	m := metrics.New()
	set.Use(m.Exporter())

	u.Info("Exporters registered", "count", n, "locale", cat.Language().String())
	return &env{cfg: cfg, store: st, catalog: cat, set: set, metrics: m}, nil
}

func newServeCmd(load func() (u.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			u.InitLogger(
				cfg.Logger.File,
				cfg.Logger.MaxSizeMB,
				cfg.Logger.MaxBackups,
				cfg.Logger.MaxAgeDays,
				cfg.Logger.Compress,
				cfg.Logger.Level,
			)
			u.SetLogLevel(cfg.Logger.Level)

			rt, err := newEnv(cfg)
			if err != nil {
				return err
			}
			defer u.CloseDB()

			var rdb *redis.Client
			if cfg.Cache.RedisHost != "" {
				rdb = redis.NewClient(&redis.Options{
					Addr: cfg.Cache.RedisHost,
					DB:   cfg.Cache.SnapshotDB,
				})
				defer rdb.Close()
			}

			idleConnsClosed := make(chan struct{})
			if err := u.LoadTokensFromDB(cfg.Database); err != nil {
				u.Error("Failed to load API tokens", "error", err)
			}
			go u.RefreshTokensPeriodically(cfg.Database, time.Minute, idleConnsClosed)

			srv := app.SetupApp(cfg, app.Deps{
				Set:     rt.set,
				Redis:   rdb,
				Metrics: rt.metrics,
				Labels:  rt.catalog,
				Ready: func() bool {
					ctx, cancel := context.WithTimeout(context.Background(), time.Second)
					defer cancel()
					return rt.store.DB().PingContext(ctx) == nil
				},
			})

			startServer(srv, cfg, idleConnsClosed)
			<-idleConnsClosed
			return nil
		},
	}
}

// startServer starts the Fiber app and listens for shutdown signals
func startServer(srv *fiber.App, cfg u.Config, idleConnsClosed chan struct{}) {
	go func() {
		u.Info("Listening", "addr", cfg.Server.Host+cfg.Server.Port)
		if err := srv.Listen(cfg.Server.Host + cfg.Server.Port); err != nil {
			u.Error("Server error", "error", err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	<-sigint

	u.Warn("Shutdown signal received, closing server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.ShutdownWithContext(ctx); err != nil {
		u.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	u.Info("Server stopped cleanly")
}

type exportFlags struct {
	email    string
	exporter string
	page     int
	format   string
	output   string
}

func newExportCmd(load func() (u.Config, error)) *cobra.Command {
	var f exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a member's personal data",
		Long: `Runs the exporters for one member and writes the result.

With --exporter only that exporter's page is written, as JSON. Otherwise every
exporter is paged until done and the merged report is written as json, html
or pdf.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			u.LogTo(cmd.ErrOrStderr(), cfg.Logger.Level)

			rt, err := newEnv(cfg)
			if err != nil {
				return err
			}
			defer u.CloseDB()

			out := cmd.OutOrStdout()
			if f.output != "" {
				file, err := os.Create(f.output)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}
			return runExport(cmd.Context(), rt, f, out)
		},
	}

	cmd.Flags().StringVarP(&f.email, "email", "e", "", "Member email address")
	cmd.Flags().StringVar(&f.exporter, "exporter", "", "Run a single exporter by key")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "Page to fetch with --exporter")
	cmd.Flags().StringVarP(&f.format, "format", "f", "json", "Report format: json, html or pdf")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to file instead of stdout")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runExport(ctx context.Context, rt *env, f exportFlags, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if f.exporter != "" {
		if f.page < 1 {
			return fmt.Errorf("page must be at least 1")
		}
		page, err := rt.set.Call(ctx, f.exporter, f.email, f.page)
		if err != nil {
			return err
		}
		return writeJSON(out, page)
	}

	r, err := exporter.Collect(ctx, rt.set, f.email, rt.cfg.Export.MaxPages)
	if err != nil {
		return err
	}
	u.Info("Export collected", "items", r.ItemCount(), "groups", len(r.Groups))

	lang := rt.catalog.Language().String()
	switch f.format {
	case "json":
		return writeJSON(out, r)
	case "html":
		doc, err := report.HTML(r, lang, rt.catalog)
		if err != nil {
			return err
		}
		_, err = out.Write(doc)
		return err
	case "pdf":
		doc, err := report.HTML(r, lang, rt.catalog)
		if err != nil {
			return err
		}
		opts := report.PDFOptionsFrom(rt.cfg)
		pdf, err := report.RenderPDF(ctx, doc, opts)
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("pdf rendering timed out after %s", opts.Timeout)
		}
		if err != nil {
			return err
		}
		_, err = out.Write(pdf)
		return err
	default:
		return fmt.Errorf("unknown format %q", f.format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newExportersCmd(load func() (u.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "exporters",
		Short: "List the registered exporters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			u.LogTo(cmd.ErrOrStderr(), cfg.Logger.Level)

			rt, err := newEnv(cfg)
			if err != nil {
				return err
			}
			defer u.CloseDB()

			for _, e := range rt.set.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Key, e.FriendlyName)
			}
			return nil
		},
	}
}

func newSchemaCmd(load func() (u.Config, error)) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print or apply the tables the exporters read",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			u.LogTo(cmd.ErrOrStderr(), cfg.Logger.Level)

			if !apply {
				for _, ddl := range store.Schema(cfg.Database.TablePrefix) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s;\n\n", ddl)
				}
				return nil
			}

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer u.CloseDB()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := st.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := u.EnsureTokensSchema(cfg.Database); err != nil {
				return fmt.Errorf("create tokens table: %w", err)
			}
			u.Info("Schema applied", "driver", cfg.Database.Driver, "prefix", cfg.Database.TablePrefix)
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Create missing tables in the configured database")
	return cmd
}
