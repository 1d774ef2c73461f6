package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spotUP/pong-websocket-server/internal/app"
	"github.com/spotUP/pong-websocket-server/internal/config"
)

func main() {
	var (
		configPath string
		addr       string
	)

	root := &cobra.Command{
		Use:   "pong-server",
		Short: "Authoritative four-player pong websocket server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx, cfg)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	root.Flags().StringVar(&addr, "addr", "", "listen address, overrides config")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
