package naming

import "testing"

func TestSanitizePath(t *testing.T) {
	cases := map[string]string{
		"utils.lua":        "utils",
		"a/b.lua":          "__a__b",
		"a/b-c.lua":        "__a__b_c",
		"/weird//path.lua": "__weird__path",
		"___leading.lua":   "leading",
	}
	for in, want := range cases {
		if got := SanitizePath(in, false); got != want {
			t.Errorf("SanitizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestModuleExportName(t *testing.T) {
	got := ModuleExportName("utils.lua")
	want := Prefix + "utils" + moduleExportSuffix
	if got != want {
		t.Errorf("ModuleExportName = %q, want %q", got, want)
	}
}

func TestFunctionName(t *testing.T) {
	got := FunctionName("utils.lua", "helper")
	want := Prefix + "utils_helper"
	if got != want {
		t.Errorf("FunctionName = %q, want %q", got, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"x", "_foo", "Bar9", "a_b_c"}
	invalid := []string{"", "9x", "a-b", "a.b", "a b"}
	for _, v := range valid {
		if !IsValidIdentifier(v) {
			t.Errorf("IsValidIdentifier(%q) = false, want true", v)
		}
	}
	for _, v := range invalid {
		if IsValidIdentifier(v) {
			t.Errorf("IsValidIdentifier(%q) = true, want false", v)
		}
	}
}

func TestStringLiteralName(t *testing.T) {
	if got := StringLiteralName(0); got != Prefix+"string_0" {
		t.Errorf("got %q", got)
	}
	if got := StringLiteralName(42); got != Prefix+"string_42" {
		t.Errorf("got %q", got)
	}
}
