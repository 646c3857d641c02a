package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"watttime-api/internal/config"
	"watttime-api/internal/observability/logging"
	"watttime-api/internal/server"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var addr, mode string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configPath, flagOverrides(addr, mode))
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, cfg, logger)
			if err != nil {
				logger.Error("server init failed", zap.Error(err))
				return err
			}
			defer func() {
				if err := srv.Close(); err != nil {
					logger.Warn("server close", zap.Error(err))
				}
			}()
			logger.Info("starting", zap.String("version", Version), zap.String("addr", cfg.HTTPAddr))
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	cmd.Flags().StringVar(&mode, "backend", "", "backend mode: unimplemented, mock or upstream (overrides BACKEND_MODE)")
	return cmd
}

// flagOverrides applies serve flags on top of env and file values.
func flagOverrides(addr, mode string) config.Override {
	return func(cfg *config.Config) {
		if addr != "" {
			cfg.HTTPAddr = addr
		}
		if mode != "" {
			cfg.Backend.Mode = mode
		}
	}
}
