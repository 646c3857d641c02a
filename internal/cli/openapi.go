package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"watttime-api/internal/openapi"
)

func newOpenAPICommand() *cobra.Command {
	var (
		doc       documentFlags
		output    string
		format    string
		indent    bool
		downgrade bool
		validate  bool
	)
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Write the OpenAPI document",
		Long:  "Builds every documented route with stub handlers and writes the resulting OpenAPI document. No server is started.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := openapi.ParseFormat(format)
			if err != nil {
				return err
			}
			catalogDoc, err := doc.load()
			if err != nil {
				return err
			}
			api, err := openapi.Build(catalogDoc)
			if err != nil {
				return err
			}

			if validate {
				legacy, err := openapi.Encode(api.OpenAPI(), openapi.Options{Downgrade: true})
				if err != nil {
					return err
				}
				if err := openapi.Validate(cmd.Context(), legacy); err != nil {
					return err
				}
			}

			data, err := openapi.Encode(api.OpenAPI(), openapi.Options{Format: f, Indent: indent, Downgrade: downgrade})
			if err != nil {
				return err
			}
			if err := openapi.Write(cmd.OutOrStdout(), output, data); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", output, len(data))
			}
			return nil
		},
	}
	doc.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty or -)")
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	cmd.Flags().BoolVar(&indent, "indent", false, "pretty-print JSON")
	cmd.Flags().BoolVar(&downgrade, "downgrade", false, "emit OpenAPI 3.0 instead of 3.1")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate the document before writing")
	return cmd
}
