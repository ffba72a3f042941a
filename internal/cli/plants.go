package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"gardenmap/internal/filter"
	"gardenmap/internal/format"
	"gardenmap/internal/garden"
	"gardenmap/internal/model"
	"gardenmap/internal/selection"

	"github.com/spf13/cobra"
)

type plantsOut struct {
	Data  []model.Plant `json:"data"`
	Total int           `json:"total"`
}

func (o plantsOut) Table() format.Table {
	t := format.Table{
		Headers: []string{"ID", "Name", "Scientific name", "Type", "Lat", "Lng"},
		Empty:   filter.NoMatches,
	}
	for _, p := range o.Data {
		t.Rows = append(t.Rows, []string{
			p.ID,
			p.Name,
			p.ScientificName,
			model.Label(p.Type),
			strconv.FormatFloat(p.Position.Lat, 'f', 6, 64),
			strconv.FormatFloat(p.Position.Lng, 'f', 6, 64),
		})
	}
	return t
}

type plantOut struct {
	Data model.Plant `json:"data"`
}

func (o plantOut) Table() format.Table {
	p := o.Data
	t := format.Table{Headers: []string{"Field", "Value"}}
	add := func(k, v string) {
		if v != "" {
			t.Rows = append(t.Rows, []string{k, v})
		}
	}
	add("ID", p.ID)
	add("Name", p.Name)
	add("Scientific name", p.ScientificName)
	add("Type", model.Label(p.Type))
	add("Position", fmt.Sprintf("%.6f, %.6f", p.Position.Lat, p.Position.Lng))
	add("Planted", string(p.PlantedDate))
	if p.WateringFrequency > 0 {
		add("Watering", fmt.Sprintf("every %d days", p.WateringFrequency))
	}
	add("Sunlight", model.Label(p.Sunlight))
	add("Soil", model.Label(p.SoilType))
	if p.Height > 0 {
		add("Height", fmt.Sprintf("%d cm", p.Height))
	}
	if p.Spread > 0 {
		add("Spread", fmt.Sprintf("%d cm", p.Spread))
	}
	add("Blooming", joinSeasons(p.SeasonalInfo.Blooming))
	add("Harvest", joinSeasons(p.SeasonalInfo.Harvest))
	add("Dormant", joinSeasons(p.SeasonalInfo.Dormant))
	add("Image", p.ImageURL)
	add("Description", p.Description)
	add("Notes", p.Notes)
	return t
}

type deleteOut struct {
	Data struct {
		ID      string `json:"id"`
		Deleted bool   `json:"deleted"`
		// Absent marks an id that was already gone; removing it is a no-op.
		Absent bool `json:"absent,omitempty"`
	} `json:"data"`
}

func (o deleteOut) Table() format.Table {
	msg := "kept"
	switch {
	case o.Data.Absent:
		msg = "absent"
	case o.Data.Deleted:
		msg = "deleted"
	}
	return format.Table{Headers: []string{"ID", "Result"}, Rows: [][]string{{o.Data.ID, msg}}}
}

func newPlantsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plants",
		Aliases: []string{"plant", "p"},
		Short:   "List and edit plants",
	}
	cmd.AddCommand(newPlantsListCmd(app))
	cmd.AddCommand(newPlantsShowCmd(app))
	cmd.AddCommand(newPlantsAddCmd(app))
	cmd.AddCommand(newPlantsEditCmd(app))
	cmd.AddCommand(newPlantsMoveCmd(app))
	cmd.AddCommand(newPlantsRmCmd(app))
	return cmd
}

// withSession runs fn against a loaded session and closes the store afterwards.
func withSession(cmd *cobra.Command, app *App, fn func(ctx context.Context, sess *garden.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, st, err := openSession(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer st.Close()
	if err := fn(ctx, sess); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func newPlantsListCmd(app *App) *cobra.Command {
	var q filter.Query
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plants, optionally filtered",
		Example: strings.TrimSpace(`
gardenmap plants list --search oak
gardenmap plants list --type flower
gardenmap plants list --where '"summer" in blooming'
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, sess *garden.Session) error {
				res, err := q.Apply(sess.Catalog.Plants())
				if err != nil {
					return err
				}
				return writeOut(cmd, app, plantsOut{Data: res.Plants, Total: res.Total})
			})
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "Case-insensitive match on name or scientific name")
	cmd.Flags().StringVar(&q.Type, "type", filter.AllTypes, "Plant type ("+filter.AllTypes+"|"+joinTypes()+")")
	cmd.Flags().StringVar(&q.Where, "where", "", "Boolean expression over plant fields, e.g. 'height > 100'")
	return cmd
}

func newPlantsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <plant-id>",
		Short: "Show one plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, sess *garden.Session) error {
				p, ok := sess.Catalog.Find(args[0])
				if !ok {
					return model.NotFoundError{Kind: "plant", ID: args[0]}
				}
				return writeOut(cmd, app, plantOut{Data: p})
			})
		},
	}
}

func newPlantsAddCmd(app *App) *cobra.Command {
	var f plantFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a plant",
		Example: strings.TrimSpace(`
gardenmap plants add --name "English Oak" --type tree --lat 51.5052 --lng -0.0905
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, sess *garden.Session) error {
				sess.NewPlant()
				draft, _ := sess.Draft()
				p := f.apply(cmd, draft)
				saved, err := sess.Save(ctx, p)
				if err != nil {
					sess.Selection.Cancel()
					return err
				}
				return writeOut(cmd, app, plantOut{Data: saved})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newPlantsEditCmd(app *App) *cobra.Command {
	var f plantFlags
	cmd := &cobra.Command{
		Use:   "edit <plant-id>",
		Short: "Change fields of a plant; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, sess *garden.Session) error {
				if _, err := sess.SelectFromList(args[0]); err != nil {
					return err
				}
				if _, err := sess.EditSelected(); err != nil {
					return err
				}
				draft, _ := sess.Draft()
				saved, err := sess.Save(ctx, f.apply(cmd, draft))
				if err != nil {
					return err
				}
				return writeOut(cmd, app, plantOut{Data: saved})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newPlantsMoveCmd(app *App) *cobra.Command {
	var lat, lng float64
	cmd := &cobra.Command{
		Use:   "move <plant-id> --lat <lat> --lng <lng>",
		Short: "Move a plant to new coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, sess *garden.Session) error {
				// Moving from the command line is an explicit edit.
				sess.Selection.SetEditMode(true)
				if _, err := sess.SelectFromList(args[0]); err != nil {
					return err
				}
				st, err := sess.Map.DragEnd(ctx, args[0], model.LatLng{Lat: lat, Lng: lng})
				if err != nil {
					return err
				}
				if st.Mode != selection.Viewing || st.Plant == nil {
					return model.NotFoundError{Kind: "plant", ID: args[0]}
				}
				return writeOut(cmd, app, plantOut{Data: *st.Plant})
			})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}

func newPlantsRmCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <plant-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a plant (asks first unless --yes)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, sess *garden.Session) error {
				var out deleteOut
				out.Data.ID = args[0]
				if _, ok := sess.Catalog.Find(args[0]); !ok {
					out.Data.Absent = true
					return writeOut(cmd, app, out)
				}
				confirm := garden.Confirmed
				if !yes {
					confirm = promptConfirmer(cmd)
				}
				ok, err := sess.Delete(ctx, args[0], confirm)
				if err != nil {
					return err
				}
				out.Data.Deleted = ok
				return writeOut(cmd, app, out)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

// promptConfirmer asks on stdin. Anything but y/yes declines.
func promptConfirmer(cmd *cobra.Command) garden.Confirmer {
	return garden.ConfirmFunc(func(p model.Plant) bool {
		fmt.Fprintf(cmd.ErrOrStderr(), "Delete %q (%s)? [y/N] ", p.Name, p.ID)
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}

func joinSeasons(ss []model.Season) string {
	parts := make([]string, 0, len(ss))
	for _, s := range ss {
		parts = append(parts, model.Label(s))
	}
	return strings.Join(parts, ", ")
}

func joinTypes() string {
	types := model.PlantTypes()
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, "|")
}
