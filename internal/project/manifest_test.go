package project

import (
	"path/filepath"
	"testing"

	"github.com/lua2cpp/lua2cpp/internal/emit"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "lua2cpp.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.OutputDir != "." {
		t.Fatalf("expected default output dir, got %q", m.OutputDir)
	}
	if len(m.Overrides) != 0 {
		t.Fatalf("expected no overrides, got %v", m.Overrides)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFile)
	want := &Manifest{
		OutputDir: "build/out",
		Overrides: []Override{
			{Module: "math", Name: "sqrt", CppName: "my_sqrt"},
		},
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.OutputDir != want.OutputDir {
		t.Fatalf("OutputDir = %q, want %q", got.OutputDir, want.OutputDir)
	}
	if len(got.Overrides) != 1 || got.Overrides[0] != want.Overrides[0] {
		t.Fatalf("Overrides = %v, want %v", got.Overrides, want.Overrides)
	}
}

func TestApplyInstallsOverride(t *testing.T) {
	libs := emit.NewLibraryRegistry()
	m := &Manifest{Overrides: []Override{{Module: "math", Name: "sqrt", CppName: "custom_sqrt"}}}
	m.Apply(libs)

	fn, ok := libs.Lookup("math", "sqrt")
	if !ok {
		t.Fatal("expected math.sqrt to still be registered")
	}
	if fn.CppName != "custom_sqrt" {
		t.Fatalf("CppName = %q, want %q", fn.CppName, "custom_sqrt")
	}
}

func TestApplyIgnoresUnknownOverride(t *testing.T) {
	libs := emit.NewLibraryRegistry()
	m := &Manifest{Overrides: []Override{{Module: "nope", Name: "nope", CppName: "x"}}}
	m.Apply(libs)
	if _, ok := libs.Lookup("nope", "nope"); ok {
		t.Fatal("unknown override should not register a new function")
	}
}
