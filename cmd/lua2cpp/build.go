package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lua2cpp/lua2cpp/internal/pipeline"
)

func newBuildCmd(shared *sharedFlags) *cobra.Command {
	flags := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build <input.lua>",
		Short: "Compile a single Lua file into a standalone C++ build (spec.md §6)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(shared, flags, args[0])
		},
	}
	cmd.Flags().BoolVar(&flags.lib, "lib", false, "library mode: omit the main driver and the arg state member")
	cmd.Flags().StringVarP(&flags.name, "out", "o", "", "override the output basename (default: input file's name)")
	return cmd
}

func runBuild(shared *sharedFlags, flags *buildFlags, inputPath string) error {
	basename := flags.name
	if basename == "" {
		base := filepath.Base(inputPath)
		basename = strings.TrimSuffix(base, filepath.Ext(base))
	}

	manifest, err := loadManifestNear(inputPath)
	if err != nil {
		return err
	}

	p := pipeline.New()
	result, err := p.CompileFile(inputPath, pipeline.Options{
		Lib:         flags.lib,
		Verbose:     shared.verbose,
		ProjectName: basename,
		Overrides:   manifest.Overrides,
	})
	if err != nil {
		return fmt.Errorf("lua2cpp: %w", err)
	}

	if err := writeResult(shared.outputDir, result); err != nil {
		return err
	}
	printSummary(shared.verbose, result)
	return nil
}
