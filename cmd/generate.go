package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"katgen/internal/core/services"
	"katgen/pkg/ui"
)

var (
	generateData        string
	generateTemplate    string
	generatePhotos      string
	generateOutput      string
	generateGroup       string
	generateSort        string
	generateReverse     bool
	generateInteractive bool
	generateStrict      bool
	generateFallback    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the catalog deck",
	Long: `Generate the catalog deck from the three inputs.

Each selected spreadsheet row becomes one slide, cloned from the first
slide of the template. {Imię}-style tokens are substituted, photo and
logo placeholders are filled from the zip archive, and records with a
missing image fall back to a caption or a gray box.

With --interactive, a table opens to pick records by hand before
generation.`,
	Aliases: []string{"gen", "g"},
	RunE:    runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateData, "data", "d", "", "member spreadsheet (.xlsx, .csv)")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "one-slide pptx template")
	generateCmd.Flags().StringVarP(&generatePhotos, "photos", "p", "", "zip archive with photos and logos")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output file (default katalog-<timestamp>.pptx)")
	generateCmd.Flags().StringVar(&generateGroup, "group", "", "only include records from this group")
	generateCmd.Flags().StringVar(&generateSort, "sort", "", "slide order: name, company or scale")
	generateCmd.Flags().BoolVar(&generateReverse, "reverse", false, "reverse the sort order")
	generateCmd.Flags().BoolVarP(&generateInteractive, "interactive", "i", false, "pick records in an interactive table")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "refuse to run when required columns are missing")
	generateCmd.Flags().StringVar(&generateFallback, "fallback", "", "missing image fallback: text or graybox")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	dataFile, err := resolveInput(generateData, "Spreadsheet", ".xlsx", ".csv", ".txt")
	if err != nil {
		return err
	}
	templateFile, err := resolveInput(generateTemplate, "Template", ".pptx")
	if err != nil {
		return err
	}
	photosFile, err := resolveInput(generatePhotos, "Photo archive", ".zip")
	if err != nil {
		return err
	}

	if generateFallback != "" {
		appConfig.FallbackStyle = generateFallback
	}
	if generateSort == "" {
		generateSort = appConfig.DefaultSort
	}
	if generateStrict {
		appConfig.StrictColumns = true
	}

	dataBytes, err := readInput(dataFile)
	if err != nil {
		return err
	}
	templateBytes, err := readInput(templateFile)
	if err != nil {
		return err
	}
	photoBytes, err := readInput(photosFile)
	if err != nil {
		return err
	}

	req := services.GenerateRequest{
		Spreadsheet: dataBytes,
		Template:    templateBytes,
		Archive:     photoBytes,
		Group:       generateGroup,
		Sort:        generateSort,
		Reverse:     generateReverse || appConfig.ReverseSort,
		Strict:      appConfig.StrictColumns,
	}

	if generateInteractive {
		loaded, err := newLoadService(dataFile).Execute(ctx, services.LoadRequest{Data: dataBytes})
		if err != nil {
			return err
		}
		if appConfig.StrictColumns && len(loaded.MissingColumns) > 0 {
			return fmt.Errorf("missing required columns: %s", ui.StyleBold.Render(fmt.Sprint(loaded.MissingColumns)))
		}
		selected, chosenSort, ok, err := runSelectTUI(loaded.Records, generateGroup)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(ui.FormatWarning("Selection cancelled, nothing generated."))
			return nil
		}
		req.Records = selected
		if chosenSort != "" {
			req.Sort = chosenSort
		}
	}

	fmt.Println(ui.FormatRocket("Generating catalog from " + ui.StyleBold.Render(dataFile)))

	req.OnProgress = func(p services.GenerateProgress) {
		fmt.Printf("\r%s", ui.FormatInfo(fmt.Sprintf("Slide %d/%d", p.Done, p.Total)))
		if p.Done == p.Total {
			fmt.Println()
		}
	}

	resp, err := newGenerateService(dataFile).Execute(ctx, req)
	if err != nil {
		return err
	}

	if len(resp.MissingColumns) > 0 {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("Columns not found, fields degrade to '-': %v", resp.MissingColumns)))
	}

	outPath := generateOutput
	if outPath == "" {
		outPath = filepath.Join(appConfig.OutputDir, services.OutputFilename(time.Now(), appConfig.TimestampFormat))
	}
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, resp.Deck, 0o644); err != nil {
		return fmt.Errorf("failed to write deck: %w", err)
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Wrote %d slides to %s", resp.RecordCount, outPath)))

	// Convenience only, ignore clipboard-less environments.
	if err := clipboard.WriteAll(outPath); err == nil {
		fmt.Println(ui.FormatMuted("Output path copied to clipboard"))
	}

	return nil
}
