package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/lua2cpp/lua2cpp/internal/pipeline"
	"github.com/lua2cpp/lua2cpp/internal/project"
)

// loadManifestNear reads lua2cpp.json from the directory containing
// path, falling back to project.Default() when none is present
// (internal/project.Load already treats a missing file as "no
// manifest" rather than an error).
func loadManifestNear(path string) (*project.Manifest, error) {
	dir := filepath.Dir(path)
	return project.Load(filepath.Join(dir, project.ManifestFile))
}

// writeResult writes every file a compile produced — per-module
// header/body, the state header, and (unless --lib) the main driver —
// under outputDir (spec.md §6 "--output-dir").
func writeResult(outputDir string, result *pipeline.ProjectResult) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("lua2cpp: creating %s: %w", outputDir, err)
	}

	for _, f := range result.Files {
		if err := writeFile(outputDir, f.Output.HeaderPath, f.Output.Header); err != nil {
			return err
		}
		if err := writeFile(outputDir, f.Output.BodyPath, f.Output.Body); err != nil {
			return err
		}
	}

	if err := writeFile(outputDir, result.ProjectName+"_state.hpp", result.StateHeader); err != nil {
		return err
	}
	if result.MainDriver != "" {
		if err := writeFile(outputDir, result.ProjectName+"_main.cpp", result.MainDriver); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(outputDir, name, content string) error {
	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("lua2cpp: writing %s: %w", path, err)
	}
	return nil
}

// printSummary prints a one-line totals summary always, and — under
// --verbose — every diagnostic plus the JSON report (internal/pipeline
// report.go). Each diagnostic line is cut to the terminal width, ending
// in an ellipsis, when stdout is a terminal (golang.org/x/term,
// replacing the teacher's term/size.go `stty` shell-out).
func printSummary(verbose bool, result *pipeline.ProjectResult) {
	fmt.Printf("lua2cpp: compiled %d module(s) (%d cached), %d warning(s), %d error(s)\n",
		result.Stats.ModulesCompiled, result.Stats.ModulesCached, result.Stats.Warnings, result.Stats.Errors)

	if !verbose {
		return
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	for _, f := range result.Files {
		for _, d := range f.Diagnostics {
			fmt.Println(wrapLine(d.String(), width))
		}
	}

	report := pipeline.BuildReport(result)
	data, err := report.MarshalJSON()
	if err != nil {
		return
	}
	fmt.Println(string(data))
}

func wrapLine(s string, width int) string {
	if width <= 1 || len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}
