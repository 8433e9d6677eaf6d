package main

import (
	"github.com/spf13/cobra"
)

// sharedFlags holds the flags every subcommand (and the bare root
// invocation) honors (spec.md §6 "--output-dir", "--verbose"/"-v").
type sharedFlags struct {
	outputDir string
	verbose   bool
}

// buildFlags and projectFlags are bound both by the bare root invocation
// and, as separate instances, by the build/project subcommands under the
// same flag names, so `lua2cpp foo.lua --lib` and `lua2cpp build foo.lua
// --lib` behave identically.
type buildFlags struct {
	lib  bool
	name string
}

type projectFlags struct {
	mainFile string
	lib      bool
}

func newRootCmd() *cobra.Command {
	shared := &sharedFlags{}
	build := &buildFlags{}
	proj := &projectFlags{}

	root := &cobra.Command{
		Use:   "lua2cpp [input.lua]",
		Short: "Transpile Lua 5.x source into C++17",
		Long: "lua2cpp reads Lua 5.x source and emits one C++17 translation unit per module, " +
			"plus the project state header and main driver a standalone build links against (spec.md §6).\n\n" +
			"Invoked bare it behaves as `build` (single file) or, with --main, as `project`. " +
			"The build/project/graph/init subcommands expose the same operations explicitly.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if proj.mainFile != "" {
				return runProject(shared, proj)
			}
			if len(args) == 1 {
				return runBuild(shared, build, args[0])
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&shared.outputDir, "output-dir", ".", "destination directory for generated files")
	root.PersistentFlags().BoolVarP(&shared.verbose, "verbose", "v", false, "print additional progress output")

	root.Flags().BoolVar(&build.lib, "lib", false, "library mode: omit the main driver and the arg state member")
	root.Flags().StringVarP(&build.name, "out", "o", "", "override the output basename (default: input file's name)")
	root.Flags().StringVar(&proj.mainFile, "main", "", "project mode: path to <project_root>/main.lua")

	root.AddCommand(newBuildCmd(shared))
	root.AddCommand(newProjectCmd(shared))
	root.AddCommand(newGraphCmd(shared))
	root.AddCommand(newInitCmd(shared))
	return root
}
