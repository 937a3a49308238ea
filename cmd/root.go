package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vesta-ems/vesta/app"
	"github.com/vesta-ems/vesta/config"
	"github.com/vesta-ems/vesta/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "vesta",
	Short: "Building energy dispatch service",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}

// loadOrDefault reads the configuration file when present and falls back to
// defaults otherwise, so the offline subcommands work without any setup.
func loadOrDefault() (*config.Config, error) {
	if _, err := os.Stat(cfgPath); err == nil {
		return config.Load(cfgPath)
	}
	cfg := &config.Config{}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
