package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"watttime-api/internal/catalog"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build and API versions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "watttime-api %s (API %s)\n", Version, catalog.Version)
		},
	}
}
