package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vesta-ems/vesta/app"
)

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Run one decision cycle and print the record",
	RunE:  decideOnce,
}

func init() {
	rootCmd.AddCommand(decideCmd)
}

func decideOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadOrDefault()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// One-shot runs never need the broker.
	cfg.MQTT.Broker = ""
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	rec, err := svc.DecideNow(cmd.Context())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
