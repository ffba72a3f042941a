package cli

import (
	"fmt"

	"gardenmap/internal/docs"
	"gardenmap/internal/format"

	"github.com/spf13/cobra"
)

type topicsOut struct {
	Data struct {
		Topics []string `json:"topics"`
	} `json:"data"`
}

func (o topicsOut) Table() format.Table {
	t := format.Table{Headers: []string{"Topic", "Title"}}
	for _, topic := range o.Data.Topics {
		t.Rows = append(t.Rows, []string{topic, docs.Title(topic)})
	}
	return t
}

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show help topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				var out topicsOut
				out.Data.Topics = docs.Topics()
				return writeOut(cmd, app, out)
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `gardenmap docs` to list topics)", topic))
			}

			if raw || app.cfg.Output.Format == "table" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"topic": topic, "markdown": body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")
	return cmd
}
