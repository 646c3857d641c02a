package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"watttime-api/internal/export"
	"watttime-api/internal/openapi"
)

func newExportCommand() *cobra.Command {
	var (
		doc    documentFlags
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the API reference handbook as PDF or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if output == "" {
				return errors.New("export: --output is required")
			}
			catalogDoc, err := doc.load()
			if err != nil {
				return err
			}
			api, err := openapi.Build(catalogDoc)
			if err != nil {
				return err
			}
			data, err := export.Render(export.FromOpenAPI(api.OpenAPI()), f, time.Now())
			if err != nil {
				return err
			}
			if err := openapi.Write(cmd.OutOrStdout(), output, data); err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", output, len(data))
			}
			return nil
		},
	}
	doc.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")
	cmd.Flags().StringVar(&format, "format", string(export.FormatPDF), "pdf or xlsx")
	return cmd
}
