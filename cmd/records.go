package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"katgen/internal/core/domain"
	"katgen/internal/core/services"
	"katgen/pkg/ui"
)

var (
	recordsData  string
	recordsGroup string
	recordsSort  string
)

var recordsCmd = &cobra.Command{
	Use:     "records",
	Short:   "Preview the records a spreadsheet resolves to",
	Aliases: []string{"ls"},
	Long: `Parse the member spreadsheet and show what generation would see:
the resolved columns, the records in their final order and any
required column that could not be matched.`,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().StringVarP(&recordsData, "data", "d", "", "member spreadsheet (.xlsx, .csv)")
	recordsCmd.Flags().StringVar(&recordsGroup, "group", "", "only show records from this group")
	recordsCmd.Flags().StringVar(&recordsSort, "sort", "", "order: name, company or scale")
}

func runRecords(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	dataFile, err := resolveInput(recordsData, "Spreadsheet", ".xlsx", ".csv", ".txt")
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

	if len(loaded.MissingColumns) > 0 {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("Missing required columns: %v", loaded.MissingColumns)))
	}

	sortOrder := recordsSort
	if sortOrder == "" {
		sortOrder = appConfig.DefaultSort
	}
	selected := selectionService.Execute(services.SelectRequest{
		Records: loaded.Records,
		Group:   recordsGroup,
		Sort:    sortOrder,
		Reverse: appConfig.ReverseSort,
	})

	if len(selected.Records) == 0 {
		fmt.Println(ui.FormatWarning("No records matched."))
		return nil
	}

	t := ui.NewTable([]ui.TableColumn{
		{Header: "Wiersz", Width: 6, Align: "right"},
		{Header: "Nazwisko", Width: 14},
		{Header: "Imię", Width: 10},
		{Header: "Firma", Width: 18},
		{Header: "Grupa", Width: 6},
		{Header: "Skala", Width: 12},
		{Header: "Zdjęcie", Width: 16},
		{Header: "Logo", Width: 14},
	})
	for i := range selected.Records {
		rec := &selected.Records[i]
		t.AddRow([]string{
			fmt.Sprintf("%d", rec.Row),
			rec.Display(domain.FieldLastName),
			rec.Display(domain.FieldFirstName),
			rec.Display(domain.FieldCompany),
			rec.Display(domain.FieldGroup),
			scaleLabel(rec),
			rec.Display(domain.FieldPhoto),
			rec.Display(domain.FieldLogo),
		})
	}

	fmt.Println(ui.FormatTitle(ui.IconTable + " " + dataFile))
	fmt.Println()
	fmt.Print(t.Render())
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d records", len(selected.Records))))

	return nil
}
