package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/analyzer"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/cli"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/model"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/report"
)

func analyzeCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "analyze <image-path>",
		Short: "📊 Analyze a chart image",
		Long: `Send a chart image to the model and print a structured technical
analysis covering support/resistance, trend, chart patterns, candlestick
patterns, volume, and momentum.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, store, err := newManager()
			if err != nil {
				return fmt.Errorf("failed to open secret store: %w", err)
			}
			defer store.Close()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image %s: %w", args[0], err)
			}

			img := model.EncodeImage(raw, "")

			a := analyzer.New(mgr, analyzer.WithTimeout(analyzeTimeout()))

			record, err := a.Analyze(cmd.Context(), img)
			if err != nil {
				message, reenter := report.ErrorMessage(err)
				fmt.Println(cli.FormatError(message))
				if reenter {
					fmt.Println(cli.FormatInfo("Run 'chartai auth set' to update your API key."))
				}
				return err
			}

			if jsonOutput {
				out, err := json.MarshalIndent(record, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode analysis: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Print(report.NewFormatter(0).Format(*record))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw analysis as JSON")

	return cmd
}
