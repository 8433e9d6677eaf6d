// Package project implements the optional per-project manifest,
// `lua2cpp.json` (SPEC_FULL.md AMBIENT STACK "Configuration"):
// default output directory and standard-library-function call
// overrides, read tolerantly with `tidwall/gjson` (unknown keys
// ignored, matching the teacher's `mods/mod.go` "just grab what I
// need" `gjson.ParseBytes(...).Map()` style rather than a strict
// `encoding/json` unmarshal) and written back with `tidwall/sjson`
// from `lua2cpp init`.
package project

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/lua2cpp/lua2cpp/internal/emit"
)

// ManifestFile is the conventional manifest name at a project's root.
const ManifestFile = "lua2cpp.json"

// Override is one standard-library function's runtime-symbol override
// (`internal/emit.LibraryRegistry.Override`'s input).
type Override struct {
	Module  string
	Name    string
	CppName string
}

// Manifest is the parsed contents of lua2cpp.json.
type Manifest struct {
	OutputDir string
	Overrides []Override
}

// Default returns the manifest a project has when no lua2cpp.json is
// present: current directory output, no overrides.
func Default() *Manifest {
	return &Manifest{OutputDir: "."}
}

// Load reads and tolerantly parses path. A missing file is not an
// error — it returns Default() — matching the teacher's
// mods.InitMods treating a missing index.json as "nothing to load"
// rather than a fatal condition.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("project: reading %s: %w", path, err)
	}

	root := gjson.ParseBytes(data)
	m := Default()
	if v := root.Get("output_dir"); v.Exists() {
		m.OutputDir = v.String()
	}
	for module, fns := range root.Get("overrides").Map() {
		for name, cppName := range fns.Map() {
			m.Overrides = append(m.Overrides, Override{
				Module:  module,
				Name:    name,
				CppName: cppName.String(),
			})
		}
	}
	return m, nil
}

// Save writes m to path as lua2cpp.json, building the document
// key-by-key with sjson.Set so a future hand-edited key this package
// doesn't know about round-trips untouched (sjson only rewrites the
// paths it's told to set, unlike encoding/json's marshal-the-whole-
// struct approach).
func Save(path string, m *Manifest) error {
	doc := "{}"
	if data, err := os.ReadFile(path); err == nil && gjson.ValidBytes(data) {
		doc = string(data)
	}
	var err error
	doc, err = sjson.Set(doc, "output_dir", m.OutputDir)
	if err != nil {
		return fmt.Errorf("project: building manifest: %w", err)
	}
	for _, ov := range m.Overrides {
		key := fmt.Sprintf("overrides.%s.%s", ov.Module, ov.Name)
		doc, err = sjson.Set(doc, key, ov.CppName)
		if err != nil {
			return fmt.Errorf("project: building manifest: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("project: writing %s: %w", path, err)
	}
	return nil
}

// Apply installs every override this manifest carries into libs,
// silently skipping one that doesn't name a known (module, function)
// pair — an unknown override is a manifest authoring mistake, not a
// reason to abort a build.
func (m *Manifest) Apply(libs *emit.LibraryRegistry) {
	for _, ov := range m.Overrides {
		libs.Override(ov.Module, ov.Name, ov.CppName)
	}
}
