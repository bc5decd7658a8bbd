// cmd/novascore/history.go
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/anujsoni3/NovaScore/internal/models"
	"github.com/anujsoni3/NovaScore/internal/views/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit  int
		filter history.Filter
		export string
		id     string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Search, inspect and export past assessments",
		Example: `  novascore history --search pizza --type merchant
  novascore history --id 3f2b9c1e
  novascore history --export ` + history.ExportFilename,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.PartnerType != history.AllTypes {
				if _, err := models.ParsePartnerType(filter.PartnerType); err != nil {
					return a.fail("filter", err)
				}
			}

			h := history.NewHandler(history.LoadConfig(a.cfg), a.client, a.notifier, a.obs, a.log)
			defer h.Close()

			res, err := h.Execute(cmd.Context(), &history.Input{Limit: limit, Filter: filter})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if id != "" {
				r, err := h.Find(id)
				if err != nil {
					return err
				}
				return history.RenderDetail(out, r)
			}

			switch export {
			case "":
				return history.RenderTable(out, res.Records, res.Loaded)
			case "-":
				return h.Export(out, filter)
			default:
				if err := writeFile(export, func(w io.Writer) error { return h.Export(w, filter) }); err != nil {
					return err
				}
				a.notifier.Success(fmt.Sprintf("Exported %d assessments to %s", res.Shown, export))
				return nil
			}
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of assessments to load (default: api.history_limit)")
	cmd.Flags().StringVarP(&filter.Search, "search", "q", "", "Match partner name or assessment id")
	cmd.Flags().StringVarP(&filter.PartnerType, "type", "t", history.AllTypes, "Partner type, or all")
	cmd.Flags().StringVarP(&export, "export", "e", "", `Write the matching rows as CSV to this file, "-" for stdout`)
	cmd.Flags().StringVar(&id, "id", "", "Show the details of one assessment")
	return cmd
}
