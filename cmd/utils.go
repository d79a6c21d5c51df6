package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"katgen/internal/core/domain"
	"katgen/pkg/ui"
)

// pickInputFile prompts with a fuzzy finder over files in the current
// directory matching the given extensions. Used when a flag is left
// blank so the command stays usable without remembering paths.
func pickInputFile(label string, extensions ...string) (string, error) {
	var candidates []string
	entries, err := os.ReadDir(".")
	if err != nil {
		return "", fmt.Errorf("failed to list current directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range extensions {
			if ext == want {
				candidates = append(candidates, entry.Name())
				break
			}
		}
	}
	sort.Strings(candidates)

	if len(candidates) == 0 {
		return "", fmt.Errorf("no %s files found in the current directory (use the flag to point elsewhere)", strings.Join(extensions, "/"))
	}
	if len(candidates) == 1 {
		fmt.Println(ui.FormatInfo(label + ": " + candidates[0]))
		return candidates[0], nil
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string { return candidates[i] },
		fuzzyfinder.WithPromptString(label+" > "),
	)
	if err != nil {
		return "", fmt.Errorf("selection cancelled")
	}
	return candidates[idx], nil
}

// resolveInput returns the flag value or falls back to the picker.
func resolveInput(flagValue, label string, extensions ...string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return pickInputFile(label, extensions...)
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// scaleLabel shortens a scale value for table display.
func scaleLabel(rec *domain.Record) string {
	if strings.TrimSpace(rec.Scale) == "" {
		return "-"
	}
	return rec.Scale
}
