package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"katgen/internal/adapters/archive"
	"katgen/internal/adapters/deck"
	"katgen/internal/core/domain"
	"katgen/internal/core/services"
	"katgen/pkg/config"
	"katgen/pkg/ui"
)

var (
	doctorData     string
	doctorTemplate string
	doctorPhotos   string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the three inputs before generating",
	Long: `Diagnose the inputs without producing a deck.

Checks:
  - spreadsheet parses and every required column resolves
  - template opens as a presentation, has a slide with tokens
  - archive indexes and the declared photo/logo files are present`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVarP(&doctorData, "data", "d", "", "member spreadsheet (.xlsx, .csv)")
	doctorCmd.Flags().StringVarP(&doctorTemplate, "template", "t", "", "one-slide pptx template")
	doctorCmd.Flags().StringVarP(&doctorPhotos, "photos", "p", "", "zip archive with photos and logos")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	fmt.Println(ui.FormatTitle("🏥 Katgen Doctor"))
	fmt.Println()

	dataFile, err := resolveInput(doctorData, "Spreadsheet", ".xlsx", ".csv", ".txt")
	if err != nil {
		return err
	}
	templateFile, err := resolveInput(doctorTemplate, "Template", ".pptx")
	if err != nil {
		return err
	}
	photosFile, err := resolveInput(doctorPhotos, "Photo archive", ".zip")
	if err != nil {
		return err
	}

	var loaded *services.LoadResponse
	checkStep("Spreadsheet parses", func() error {
		data, err := readInput(dataFile)
		if err != nil {
			return err
		}
		loaded, err = newLoadService(dataFile).Execute(ctx, services.LoadRequest{Data: data})
		return err
	})

	checkStep("Required columns resolve", func() error {
		if loaded == nil {
			return fmt.Errorf("skipped, spreadsheet did not parse")
		}
		if len(loaded.MissingColumns) > 0 {
			return fmt.Errorf("missing: %v", loaded.MissingColumns)
		}
		return nil
	})

	checkStep("Records present", func() error {
		if loaded == nil {
			return fmt.Errorf("skipped, spreadsheet did not parse")
		}
		if len(loaded.Records) == 0 {
			return fmt.Errorf("no data rows found")
		}
		return nil
	})

	var stencilText string
	checkStep("Template opens", func() error {
		data, err := readInput(templateFile)
		if err != nil {
			return err
		}
		text, err := deck.StencilText(data)
		if err != nil {
			return err
		}
		stencilText = text
		return nil
	})

	checkStep("Template carries tokens", func() error {
		if stencilText == "" {
			return fmt.Errorf("skipped, template did not open")
		}
		if !domain.ContainsAnyToken(stencilText) {
			return fmt.Errorf("first slide has no {Imię}-style tokens")
		}
		return nil
	})

	var assets *domain.AssetIndex
	checkStep("Archive indexes", func() error {
		data, err := readInput(photosFile)
		if err != nil {
			return err
		}
		assets, err = archive.NewZipIndexer().Index(ctx, data)
		if err != nil {
			return err
		}
		if assets.Len() == 0 {
			return fmt.Errorf("archive holds no usable files")
		}
		return nil
	})

	checkStep("Declared images resolve", func() error {
		if loaded == nil || assets == nil {
			return fmt.Errorf("skipped, earlier check failed")
		}
		var missing []string
		for i := range loaded.Records {
			rec := &loaded.Records[i]
			for _, f := range []domain.Field{domain.FieldPhoto, domain.FieldLogo} {
				declared := strings.TrimSpace(rec.Value(f))
				if declared == "" {
					continue
				}
				if _, ok := assets.Lookup(declared); ok {
					continue
				}
				if appConfig.MatchIgnoreExtension {
					if _, ok := assets.LookupLoose(declared); ok {
						continue
					}
				}
				missing = append(missing, fmt.Sprintf("%s (wiersz %d)", declared, rec.Row))
			}
		}
		if len(missing) > 0 {
			style := "caption"
			if appConfig.FallbackStyle == config.FallbackGrayBox {
				style = "gray box"
			}
			return fmt.Errorf("%d unresolved, slides get the %s fallback: %s",
				len(missing), style, strings.Join(truncateList(missing, 5), ", "))
		}
		return nil
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Doctor finished."))
	return nil
}

// checkStep runs a single diagnostic and prints its outcome.
func checkStep(name string, fn func() error) {
	if err := fn(); err != nil {
		fmt.Printf("%s %s: %s\n", ui.StyleError.Render(ui.IconError), name, err)
		return
	}
	fmt.Printf("%s %s\n", ui.StyleSuccess.Render(ui.IconSuccess), name)
}

func truncateList(items []string, max int) []string {
	if len(items) <= max {
		return items
	}
	out := make([]string, max+1)
	copy(out, items[:max])
	out[max] = fmt.Sprintf("and %d more", len(items)-max)
	return out
}
