package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gardenmap/internal/tui"
	"gardenmap/internal/web"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the garden map in a browser",
		Long: strings.TrimSpace(`
Serve the interactive map, plant list and detail panel over HTTP.

The same server exposes a JSON API under /api/plants, which another gardenmap
can use as its store (--store remote --store-url http://host:port).
`),
		Example: strings.TrimSpace(`
gardenmap serve
gardenmap serve --addr :8080 --store json --store-path ./garden.json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			sess, st, err := openSession(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()
			watch(ctx, app, sess)

			srv, err := web.NewServer(web.ServerConfig{
				Addr:    app.v.GetString("web.addr"),
				Session: sess,
				Logger:  app.log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "gardenmap: open http://%s/\n", srv.Addr())
			if err := srv.ListenAndServe(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "127.0.0.1:5173", "Listen address")
	bindFlags(app.v, cmd.Flags(), map[string]string{"addr": "web.addr"})
	return cmd
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI (the default with no subcommand)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	sess, st, err := openSession(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer st.Close()
	watch(ctx, app, sess)

	if err := tui.Run(ctx, sess); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
