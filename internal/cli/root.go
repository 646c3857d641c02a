// Package cli defines the watttime-api command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"watttime-api/internal/catalog"
	"watttime-api/internal/config"
)

// Version is stamped at build time with -ldflags "-X watttime-api/internal/cli.Version=...".
var Version = "dev"

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the command tree. Without a subcommand it serves.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	serve := newServeCommand(opts)

	root := &cobra.Command{
		Use:           "watttime-api",
		Short:         "WattTime Data API documentation service",
		Long:          "Serves the documented WattTime Data API routes and emits their OpenAPI document and reference handbooks.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (defaults to $"+config.EnvConfigFile+")")
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newOpenAPICommand(), newExportCommand(), newVersionCommand())
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// documentFlags are shared by commands that render the catalog offline.
type documentFlags struct {
	serverURL string
	docsDir   string
}

func (f *documentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.serverURL, "server-url", "", "documented base URL (defaults to PUBLIC_BASE_URL or "+catalog.DefaultServerURL+")")
	cmd.Flags().StringVar(&f.docsDir, "docs-dir", "", "directory with tag markdown overrides (defaults to DOCS_DIR)")
}

func (f *documentFlags) load() (*catalog.Document, error) {
	env := config.FromEnv()
	serverURL := f.serverURL
	if serverURL == "" {
		serverURL = env.PublicBaseURL
	}
	docsDir := f.docsDir
	if docsDir == "" {
		docsDir = env.DocsDir
	}
	return catalog.Load(catalog.WithServerURL(serverURL), catalog.WithDocsDir(docsDir))
}
