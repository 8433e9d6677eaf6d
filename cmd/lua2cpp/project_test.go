package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunProjectWritesModulesAndMainDriver(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	writeTestFile(t, filepath.Join(srcDir, "main.lua"), `local utils = require("utils")`+"\n")
	writeTestFile(t, filepath.Join(srcDir, "utils.lua"), "return {}\n")

	shared := &sharedFlags{outputDir: outDir}
	flags := &projectFlags{mainFile: filepath.Join(srcDir, "main.lua")}
	if err := runProject(shared, flags); err != nil {
		t.Fatalf("runProject error: %v", err)
	}

	projectName := filepath.Base(srcDir)
	for _, name := range []string{
		"main_module.hpp", "main_module.cpp",
		"utils_module.hpp", "utils_module.cpp",
		projectName + "_state.hpp", projectName + "_main.cpp",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestRunProjectAppliesManifestOverride(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	writeTestFile(t, filepath.Join(srcDir, "main.lua"), `print("hi")`+"\n")
	writeTestFile(t, filepath.Join(srcDir, "lua2cpp.json"),
		`{"overrides":{"standalone":{"print":"custom_print"}}}`)

	shared := &sharedFlags{outputDir: outDir}
	flags := &projectFlags{mainFile: filepath.Join(srcDir, "main.lua")}
	if err := runProject(shared, flags); err != nil {
		t.Fatalf("runProject error: %v", err)
	}

	projectName := filepath.Base(srcDir)
	data, err := os.ReadFile(filepath.Join(outDir, projectName+"_main.cpp"))
	if err != nil {
		t.Fatalf("reading main driver: %v", err)
	}
	if !strings.Contains(string(data), "custom_print") {
		t.Fatalf("expected overridden symbol in main driver:\n%s", data)
	}
}
