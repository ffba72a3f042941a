package cli

import (
	"context"

	"gardenmap/internal/store"

	"github.com/spf13/cobra"
)

type seedOut struct {
	Data struct {
		Inserted int `json:"inserted"`
	} `json:"data"`
}

func newSeedCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample garden",
		Long:  "Insert the bundled sample plants. Without --force nothing happens when the store already has plants; with --force, sample plants whose ids are missing are added back.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			st, err := openStore(ctx, app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			seed := store.SeedIfEmpty
			if force {
				seed = store.Seed
			}
			n, err := seed(ctx, st, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}
			var out seedOut
			out.Data.Inserted = n
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Add missing sample plants even when the store is not empty")
	return cmd
}
