package pipeline

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/lua2cpp/lua2cpp/internal/diag"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report is the JSON shape `--verbose` writes to stdout alongside the
// generated C++: one row per module plus the run totals, so tooling
// (the TUI, CI) can consume a build's diagnostics without scraping
// log text.
type Report struct {
	Modules []ModuleReport `json:"modules"`
	Stats   Stats          `json:"stats"`
}

// ModuleReport is one compiled module's diagnostics.
type ModuleReport struct {
	Module      string            `json:"module"`
	FromCache   bool              `json:"from_cache"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
}

// BuildReport converts a ProjectResult into its JSON report shape.
func BuildReport(result *ProjectResult) *Report {
	r := &Report{Stats: result.Stats}
	for _, f := range result.Files {
		r.Modules = append(r.Modules, ModuleReport{
			Module:      f.Module,
			FromCache:   f.FromCache,
			Diagnostics: f.Diagnostics,
		})
	}
	return r
}

// MarshalJSON renders a Report, matching the teacher's
// ConfigCompatibleWithStandardLibrary jsoniter setup (binchunk's `var
// json = jsoniter.ConfigCompatibleWithStandardLibrary`).
func (r *Report) MarshalJSON() ([]byte, error) {
	type alias Report
	return json.Marshal((*alias)(r))
}
