// cmd/novascore/batch.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/anujsoni3/NovaScore/internal/views/batch"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Assess many partners from a CSV file",
		Long: `Batch assessment works on CSV files.

Available subcommands:
  template - Write the CSV template with one example row per partner type
  upload   - Upload a CSV and print the results
  inspect  - Read back an exported results file`,
	}
	cmd.AddCommand(newBatchTemplateCmd(a), newBatchUploadCmd(a), newBatchInspectCmd(a))
	return cmd
}

func newBatchTemplateCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the batch CSV template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "-" {
				return batch.WriteTemplate(cmd.OutOrStdout())
			}
			if err := writeFile(output, batch.WriteTemplate); err != nil {
				return err
			}
			a.notifier.Success(fmt.Sprintf("Template saved to %s", output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", batch.TemplateFilename, `Destination file, "-" for stdout`)
	return cmd
}

func newBatchUploadCmd(a *app) *cobra.Command {
	var export string
	cmd := &cobra.Command{
		Use:     "upload FILE",
		Short:   "Upload a CSV of partners and print the results",
		Example: "  novascore batch upload partners.csv --export " + batch.ResultsFilename,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := batch.NewHandler(batch.LoadConfig(a.cfg), a.client, a.notifier, a.obs, a.log)
			defer h.Close()

			res, err := h.UploadPath(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := batch.RenderResult(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if export == "" {
				return nil
			}
			if err := writeFile(export, h.ExportResults); err != nil {
				return err
			}
			a.notifier.Success(fmt.Sprintf("Results exported to %s", export))
			return nil
		},
	}
	cmd.Flags().StringVarP(&export, "export", "e", "", "Also write the results as CSV to this file")
	return cmd
}

func newBatchInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print a previously exported results file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := batch.ParseRecords(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			return batch.RenderRecords(cmd.OutOrStdout(), records)
		},
	}
}

// writeFile creates path and hands it to write, removing it again on failure.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
