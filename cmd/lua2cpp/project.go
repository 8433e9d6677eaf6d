package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lua2cpp/lua2cpp/internal/pipeline"
)

func newProjectCmd(shared *sharedFlags) *cobra.Command {
	flags := &projectFlags{}
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Compile every module under a project root in dependency order (spec.md §6 \"--main\")",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(shared, flags)
		},
	}
	cmd.Flags().StringVar(&flags.mainFile, "main", "", "path to <project_root>/main.lua")
	cmd.Flags().BoolVar(&flags.lib, "lib", false, "library mode: omit the main driver and the arg state member")
	_ = cmd.MarkFlagRequired("main")
	return cmd
}

func runProject(shared *sharedFlags, flags *projectFlags) error {
	root := filepath.Dir(flags.mainFile)

	manifest, err := loadManifestNear(flags.mainFile)
	if err != nil {
		return err
	}

	p := pipeline.New()
	result, err := p.CompileProject(root, flags.mainFile, pipeline.Options{
		Lib:       flags.lib,
		Verbose:   shared.verbose,
		Overrides: manifest.Overrides,
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
