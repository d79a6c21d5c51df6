package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"katgen/internal/core/services"
	"katgen/pkg/ui"
)

var (
	watchData     string
	watchTemplate string
	watchPhotos   string
	watchOutput   string
	watchGroup    string
	watchSort     string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the deck whenever an input changes",
	Long: `Watch the spreadsheet, template and archive and rebuild the
deck after every save. The output path stays fixed so an open
PowerPoint/LibreOffice window can be reloaded in place.

Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchData, "data", "d", "", "member spreadsheet (.xlsx, .csv)")
	watchCmd.Flags().StringVarP(&watchTemplate, "template", "t", "", "one-slide pptx template")
	watchCmd.Flags().StringVarP(&watchPhotos, "photos", "p", "", "zip archive with photos and logos")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "katalog-preview.pptx", "output file, overwritten on every rebuild")
	watchCmd.Flags().StringVar(&watchGroup, "group", "", "only include records from this group")
	watchCmd.Flags().StringVar(&watchSort, "sort", "", "slide order: name, company or scale")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	dataFile, err := resolveInput(watchData, "Spreadsheet", ".xlsx", ".csv", ".txt")
	if err != nil {
		return err
	}
	templateFile, err := resolveInput(watchTemplate, "Template", ".pptx")
	if err != nil {
		return err
	}
	photosFile, err := resolveInput(watchPhotos, "Photo archive", ".zip")
	if err != nil {
		return err
	}

	if watchSort == "" {
		watchSort = appConfig.DefaultSort
	}

	rebuild := func() {
		dataBytes, err := readInput(dataFile)
		if err != nil {
			fmt.Println(ui.FormatError(err.Error()))
			return
		}
		templateBytes, err := readInput(templateFile)
		if err != nil {
			fmt.Println(ui.FormatError(err.Error()))
			return
		}
		photoBytes, err := readInput(photosFile)
		if err != nil {
			fmt.Println(ui.FormatError(err.Error()))
			return
		}

		resp, err := newGenerateService(dataFile).Execute(ctx, services.GenerateRequest{
			Spreadsheet: dataBytes,
			Template:    templateBytes,
			Archive:     photoBytes,
			Group:       watchGroup,
			Sort:        watchSort,
			Reverse:     appConfig.ReverseSort,
			Strict:      appConfig.StrictColumns,
		})
		if err != nil {
			fmt.Println(ui.FormatError("Rebuild failed: " + err.Error()))
			return
		}
		if err := os.WriteFile(watchOutput, resp.Deck, 0o644); err != nil {
			fmt.Println(ui.FormatError("Failed to write deck: " + err.Error()))
			return
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s rebuilt (%d slides)", watchOutput, resp.RecordCount)))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{
		filepath.Clean(dataFile):     true,
		filepath.Clean(templateFile): true,
		filepath.Clean(photosFile):   true,
	}
	dirs := map[string]bool{}
	for path := range watched {
		// Editors replace files on save, so watch the directory and
		// filter events instead of watching the file inode.
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	fmt.Println(ui.FormatRocket("Watching inputs, rebuilding on change..."))
	fmt.Println(ui.FormatMuted("Output: " + watchOutput))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
	fmt.Println()

	rebuild()

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	var debounceTimer *time.Timer

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Rename) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, rebuild)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println(ui.FormatWarning("Watcher error: " + err.Error()))

		case <-stop:
			fmt.Println()
			fmt.Println(ui.FormatMuted("Watcher stopped"))
			return nil
		}
	}
}
