// cmd/novascore/assess.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anujsoni3/NovaScore/internal/models"
	"github.com/anujsoni3/NovaScore/internal/views/assessment"
)

func newAssessCmd(a *app) *cobra.Command {
	var (
		partnerType string
		sets        []string
		valuesFile  string
		check       bool
		showForm    bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a single partner",
		Long: `Fill the assessment form for one partner and submit it.

Values are given by field name, either with repeated --set flags or from a
YAML/JSON/.env file. Rates (complaint_rate, cancellation_rate) are entered
as percentages. Run with --form to list the fields of a partner type.`,
		Example: `  novascore assess --type driver --set partner_name="John Doe" --set monthly_earning=25000 ...
  novascore assess --type merchant --file merchant.yaml --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(valuesFile)
			if err != nil {
				return err
			}
			for _, kv := range sets {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q: want name=value", kv)
				}
				values[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}

			cfg := assessment.LoadConfig(a.cfg)
			cfg.Preflight = check
			h, err := assessment.NewHandler(cfg, a.client, a.catalog, a.notifier, a.obs, a.log)
			if err != nil {
				return err
			}
			defer h.Close()

			out := cmd.OutOrStdout()
			if showForm {
				pt, err := models.ParsePartnerType(partnerType)
				if err != nil {
					return a.fail("form", err)
				}
				if err := h.SetPartnerType(pt); err != nil {
					return a.fail("form", err)
				}
				if err := h.Form().SetAll(values); err != nil {
					return a.fail("form", err)
				}
				return assessment.RenderForm(out, h.Form())
			}

			res, err := h.Execute(cmd.Context(), &assessment.Input{PartnerType: partnerType, Values: values})
			if err != nil {
				return err
			}
			if res.Coverage != nil {
				if err := assessment.RenderCoverage(out, res.Coverage); err != nil {
					return err
				}
			}
			return assessment.RenderResult(out, res.Result)
		},
	}

	cmd.Flags().StringVarP(&partnerType, "type", "t", "", "Partner type: driver, merchant, delivery_partner")
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "Field value as name=value (repeatable)")
	cmd.Flags().StringVarP(&valuesFile, "file", "f", "", "Read field values from a YAML, JSON or .env file")
	cmd.Flags().BoolVar(&check, "check", false, "Ask the service for feature coverage before submitting")
	cmd.Flags().BoolVar(&showForm, "form", false, "Print the form fields and current values instead of submitting")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// readValues loads form values from a file viper can parse. Keys keep their
// field names; values are stringified the way a form would hold them.
func readValues(path string) (map[string]string, error) {
	values := make(map[string]string)
	if path == "" {
		return values, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read values file %s: %w", path, err)
	}
	for k, raw := range v.AllSettings() {
		s, err := cast.ToStringE(raw)
		if err != nil {
			return nil, fmt.Errorf("values file %s: field %s: %w", path, k, err)
		}
		values[k] = s
	}
	return values, nil
}
