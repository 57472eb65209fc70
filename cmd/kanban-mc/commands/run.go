package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"kanban-mc/internal/config"
	"kanban-mc/internal/eazybi"
	"kanban-mc/internal/forecast"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var configFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one forecast from a config file and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		reportCfg, err := loadReportConfig()
		if err != nil {
			return err
		}

		url := eazybi.ReportURL(reportCfg.AccountNumber, reportCfg.ReportNumber, reportCfg.ReportToken)
		issues, err := reportClient.FetchReport(context.Background(), url)
		if err != nil {
			return err
		}

		result := forecast.Run(reportCfg, issues, time.Now(), nil)

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Work with the configured eazyBI report",
}

var reportOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the eazyBI CSV export URL in the browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		reportCfg, err := loadReportConfig()
		if err != nil {
			return err
		}
		return browser.OpenURL(eazybi.ReportURL(reportCfg.AccountNumber, reportCfg.ReportNumber, reportCfg.ReportToken))
	},
}

func loadReportConfig() (*config.ReportConfig, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return config.ParseReportConfig(data)
}

func init() {
	runCmd.Flags().StringVarP(&configFile, "config", "c", "forecast.json", "report config JSON file")
	reportOpenCmd.Flags().StringVarP(&configFile, "config", "c", "forecast.json", "report config JSON file")
	reportCmd.AddCommand(reportOpenCmd)
	rootCmd.AddCommand(runCmd, reportCmd)
}
