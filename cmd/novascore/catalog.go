// cmd/novascore/catalog.go
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anujsoni3/NovaScore/internal/views/render"
	"github.com/anujsoni3/NovaScore/pkg/catalog"
)

func newPartnerTypesCmd(a *app) *cobra.Command {
	var fields bool
	cmd := &cobra.Command{
		Use:   "partner-types",
		Short: "List the partner types the service supports",
		Long: `Without flags the list comes from the service. With --fields the local
form catalog is printed instead: every field, its range and whether it is
required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if fields {
				return renderCatalog(out, a.catalog)
			}

			res, err := a.client.FetchPartnerTypes(cmd.Context())
			if err != nil {
				return a.fail("partner_types", err)
			}
			styles := render.NewStyles(out)
			table := render.NewTable("Partner Types", "ID", "Name", "Description", "Required Fields")
			for _, pt := range res.PartnerTypes {
				table.AddRow(string(pt.ID), pt.Name, pt.Description, strings.Join(pt.RequiredFields, ", "))
			}
			return render.Write(out, table.View(styles))
		},
	}
	cmd.Flags().BoolVar(&fields, "fields", false, "Print the local form field catalog")
	return cmd
}

func renderCatalog(w io.Writer, c *catalog.Catalog) error {
	styles := render.NewStyles(w)
	var views []string
	for _, pt := range c.PartnerTypes {
		fields, err := c.Fields(pt.ID)
		if err != nil {
			return err
		}
		table := render.NewTable(pt.DisplayName, "Field", "Label", "Kind", "Range", "Required")
		for _, fd := range fields {
			required := ""
			if fd.Required {
				required = "*"
			}
			table.AddRow(fd.Name, fd.Label, string(fd.Kind), fieldRange(fd), required)
		}
		views = append(views, table.View(styles))
	}
	return render.Write(w, views...)
}

func fieldRange(fd catalog.Field) string {
	if fd.Min == nil && fd.Max == nil {
		return ""
	}
	bound := func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	r := bound(fd.Min) + ".." + bound(fd.Max)
	if fd.Percent {
		r += " %"
	}
	return r
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the service and describe its model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			styles := render.NewStyles(out)

			status, err := a.client.CheckHealth(ctx)
			if err != nil {
				return a.fail("health", err)
			}

			b := render.Block{Title: "Service Health"}
			state := styles.Success.Render(status.Status)
			if !status.Healthy() {
				state = styles.Danger.Render(status.Status)
			}
			b.Add("Status", state)
			if status.Version != "" {
				b.Add("Version", status.Version)
			}
			if status.ModelName != "" {
				b.Add("Model", status.ModelName)
			}
			if status.ModelStatus != "" {
				b.Add("Model Status", status.ModelStatus)
			}
			if status.TestPrediction != nil {
				b.Add("Test Prediction", render.Score(*status.TestPrediction))
			}
			if status.Error != "" {
				b.Add("Error", styles.Danger.Render(status.Error))
			}
			views := []string{b.View(styles)}

			// model details are informational
			if info, err := a.client.FetchModelInfo(ctx); err != nil {
				a.log.Warn("model info unavailable", map[string]interface{}{"error": err.Error()})
			} else {
				m := render.Block{Title: "Model"}
				m.Add("Name", info.ModelName)
				m.Add("Status", info.Status)
				m.Add("Features", strconv.Itoa(info.FeatureCount))
				if len(info.FeatureNames) > 0 {
					m.Add("Feature Names", strings.Join(info.FeatureNames, ", "))
				}
				views = append(views, m.View(styles))
			}

			if err := render.Write(out, views...); err != nil {
				return err
			}
			if !status.Healthy() {
				return fmt.Errorf("service is %s", status.Status)
			}
			return nil
		},
	}
}
