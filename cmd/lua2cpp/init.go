package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lua2cpp/lua2cpp/internal/project"
)

func newInitCmd(shared *sharedFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [project_root]",
		Short: "Write a default lua2cpp.json manifest for a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path := filepath.Join(dir, project.ManifestFile)
			if err := project.Save(path, project.Default()); err != nil {
				return fmt.Errorf("lua2cpp: %w", err)
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	return cmd
}
