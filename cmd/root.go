package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"katgen/internal/adapters/archive"
	"katgen/internal/adapters/deck"
	"katgen/internal/adapters/spreadsheet"
	"katgen/internal/core/services"
	"katgen/pkg/config"
	"katgen/pkg/ui"
)

var (
	// Global configuration
	appConfig *config.Config

	// Services
	selectionService *services.SelectionService
	reportService    *services.ReportService
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "katgen",
	Short: "Katgen - member catalog deck generator",
	Long: ui.StyleTitle.Render("Katgen") + " - Member Catalog Generator\n\n" +
		"Turn a member spreadsheet, a one-slide pptx template and a zip of\n" +
		"photos and logos into a finished catalog deck, one slide per member.",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads the configuration and wires the services
func initializeApp(cmd *cobra.Command, args []string) error {
	path, err := config.DefaultPath()
	if err != nil {
		return fmt.Errorf("failed to locate config: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg

	ui.SetTheme(appConfig.ColorTheme)

	selectionService = services.NewSelectionService()
	reportService = services.NewReportService()

	return nil
}

// newGenerateService wires the pipeline for one spreadsheet file. The
// reader depends on the file extension, so it cannot be a global.
func newGenerateService(dataFile string) *services.GenerateService {
	loader := services.NewLoadService(spreadsheet.ForFile(dataFile))
	compositor := deck.NewPPTXCompositor(deck.OptionsFromConfig(appConfig))
	return services.NewGenerateService(loader, archive.NewZipIndexer(), compositor)
}

// newLoadService wires a loader for one spreadsheet file.
func newLoadService(dataFile string) *services.LoadService {
	return services.NewLoadService(spreadsheet.ForFile(dataFile))
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
