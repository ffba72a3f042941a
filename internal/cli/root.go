package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gardenmap/internal/config"
	"gardenmap/internal/format"
	"gardenmap/internal/garden"
	"gardenmap/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type App struct {
	ConfigFile string

	v      *viper.Viper
	cfg    config.Config
	log    *logrus.Logger
	loaded bool
}

func NewRootCmd() *cobra.Command {
	app := &App{v: config.New()}

	cmd := &cobra.Command{
		Use:          "gardenmap",
		Short:        "Map and catalog the plants in your garden",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  gardenmap

  # Serve the map in a browser
  gardenmap serve --addr 127.0.0.1:5173

  # Scriptable commands
  gardenmap plants list --type tree
  gardenmap plants list --where 'height > 200 && sunlight == "full-sun"' --format json

  # Direct plant lookup (shortcut for: gardenmap plants show <plant-id>)
  gardenmap plant-3
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigFile, "config", envOr("GARDENMAP_CONFIG", ""), "Config file (default: $XDG_CONFIG_HOME/gardenmap/gardenmap.yaml, then ./gardenmap.yaml)")
	pf.String("store", store.BackendSQLite, "Storage backend ("+strings.Join(store.Backends(), "|")+")")
	pf.String("store-path", "", "Database or document path for file-backed stores (default: user data dir)")
	pf.String("store-url", "", "Base URL of another gardenmap server (remote backend)")
	pf.String("format", "table", "Output format (table|json|edn)")
	pf.Bool("pretty", false, "Pretty-print JSON/EDN output")
	pf.String("log-level", "warn", "Log level (debug|info|warn|error)")
	bindFlags(app.v, pf, map[string]string{
		"store":      "store.backend",
		"store-path": "store.path",
		"store-url":  "store.url",
		"format":     "output.format",
		"pretty":     "output.pretty",
		"log-level":  "log.level",
	})

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newPlantsCmd(app))
	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// load resolves configuration once per invocation: flags, then GARDENMAP_* env, then the config
// file, then defaults.
func (app *App) load(cmd *cobra.Command) error {
	if app.loaded {
		return nil
	}
	cfg, err := config.Load(app.v, app.ConfigFile)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	app.log = cfg.Logger(cmd.ErrOrStderr())
	app.loaded = true
	app.log.WithFields(logrus.Fields{"backend": cfg.Store.Backend, "config": cfg.File}).Debug("config loaded")
	return nil
}

// openStore opens the configured backend. seed controls the first-run sample garden.
func openStore(ctx context.Context, app *App, seed bool) (store.PlantStore, error) {
	st, err := store.Open(ctx, app.cfg.StoreOptions(app.log))
	if err != nil {
		return nil, err
	}
	if seed && app.cfg.Store.Seed {
		if _, err := store.SeedIfEmpty(ctx, st, app.log); err != nil {
			_ = st.Close()
			return nil, err
		}
	}
	return st, nil
}

// openSession opens the store and loads the catalog. The caller closes the returned store.
func openSession(ctx context.Context, app *App) (*garden.Session, store.PlantStore, error) {
	st, err := openStore(ctx, app, true)
	if err != nil {
		return nil, nil, err
	}
	sess := garden.New(st,
		garden.WithLogger(app.log),
		garden.WithViewport(app.cfg.Viewport()),
	)
	if err := sess.Start(ctx); err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return sess, st, nil
}

// watch follows external changes to the store until ctx is done, when enabled in config.
func watch(ctx context.Context, app *App, sess *garden.Session) {
	if !app.cfg.Store.Watch {
		return
	}
	go func() {
		if err := sess.Catalog.Watch(ctx); err != nil {
			app.log.WithError(err).Warn("store watch stopped")
		}
	}()
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		_ = v.BindPFlag(key, fs.Lookup(flag))
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.cfg.Output.Format, app.cfg.Output.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
