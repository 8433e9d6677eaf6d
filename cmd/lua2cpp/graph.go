package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lua2cpp/lua2cpp/internal/pipeline"
	"github.com/lua2cpp/lua2cpp/internal/tui"
)

func newGraphCmd(shared *sharedFlags) *cobra.Command {
	var mainFile string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Browse a project's module dependency graph interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := filepath.Dir(mainFile)
			p := pipeline.New()
			g, err := p.Graph(root)
			if err != nil {
				return fmt.Errorf("lua2cpp: %w", err)
			}
			return tui.NewBrowser(g).Run()
		},
	}
	cmd.Flags().StringVar(&mainFile, "main", "", "path to <project_root>/main.lua")
	_ = cmd.MarkFlagRequired("main")
	return cmd
}
