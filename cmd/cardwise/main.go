package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/cardwise/config"
	"github.com/mohammad-safakhou/cardwise/internal/report"
	srv "github.com/mohammad-safakhou/cardwise/internal/server"
	"github.com/mohammad-safakhou/cardwise/models"
)

func main() {
	var root = &cobra.Command{Use: "cardwise"}

	var configPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run the recommendation HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return srv.Run(cfg)
		},
	}
	serve.Flags().StringVar(&configPath, "config", "", "path to config file (default: config/cardwise_config.json)")

	var profilePath, recPath, outDir string
	var reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Render a PDF report from saved profile and recommendation JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var profile models.Profile
			if err := readJSON(profilePath, &profile); err != nil {
				return fmt.Errorf("reading profile: %w", err)
			}
			if err := profile.Validate(); err != nil {
				return err
			}
			var rec models.Recommendation
			if err := readJSON(recPath, &rec); err != nil {
				return fmt.Errorf("reading recommendation: %w", err)
			}

			now := time.Now().UTC()
			data, err := report.Render(profile, rec, now)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			out := filepath.Join(outDir, report.Filename(now))
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	reportCmd.Flags().StringVar(&profilePath, "profile", "", "path to profile JSON")
	reportCmd.Flags().StringVar(&recPath, "recommendation", "", "path to recommendation JSON")
	reportCmd.Flags().StringVar(&outDir, "out", "reports", "output directory")
	_ = reportCmd.MarkFlagRequired("profile")
	_ = reportCmd.MarkFlagRequired("recommendation")

	root.AddCommand(serve, reportCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
