package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"katgen/internal/core/services"
	"katgen/pkg/ui"
)

var (
	reportData   string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render an HTML overview of the member records",
	Long: `Build an HTML page with charts over the spreadsheet: member
counts per group and the largest businesses by declared scale. Handy
as a sanity check before generating the deck.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportData, "data", "d", "", "member spreadsheet (.xlsx, .csv)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "katalog-report.html", "output HTML file")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	dataFile, err := resolveInput(reportData, "Spreadsheet", ".xlsx", ".csv", ".txt")
	if err != nil {
		return err
	}
	data, err := readInput(dataFile)
	if err != nil {
		return err
	}

	loaded, err := newLoadService(dataFile).Execute(ctx, services.LoadRequest{Data: data})
	if err != nil {
		return err
	}

	resp, err := reportService.Execute(services.ReportRequest{Records: loaded.Records})
	if err != nil {
		return err
	}

	if err := os.WriteFile(reportOutput, resp.HTML, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Report for %d records written to %s", len(loaded.Records), reportOutput)))
	return nil
}
