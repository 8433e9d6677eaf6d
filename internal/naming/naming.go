// Package naming implements the bit-exact C++ identifier scheme from
// spec.md §6, grounded on lua2c/generators/naming.py.
package naming

import (
	"regexp"
	"strings"
)

const (
	Prefix            = "_l2c__"
	moduleExportSuffix = "__export"
)

var collapseRuns = regexp.MustCompile(`_{3,}`)

// SanitizePath converts a filesystem path into a C-identifier-safe
// string (spec.md §6): path separators become "__", dashes become "_",
// leading/trailing underscores are stripped, and runs of 3+ underscores
// collapse to "__". The result is prefixed with "__" when the input
// contained a path separator, or when addPrefix is requested.
func SanitizePath(p string, addPrefix bool) string {
	if p == "" {
		return ""
	}

	const marker = "\x00"
	hadSeparator := strings.ContainsAny(p, "/\\")

	trimmed := strings.TrimSuffix(p, ".lua")
	tmp := strings.NewReplacer("/", marker, "\\", marker).Replace(trimmed)
	tmp = strings.NewReplacer("-", "_", ".", "_").Replace(tmp)
	normalized := strings.ReplaceAll(tmp, marker, "__")
	normalized = strings.Trim(normalized, "_")
	normalized = collapseRuns.ReplaceAllString(normalized, "__")

	if normalized != "" && (hadSeparator || addPrefix) {
		return "__" + normalized
	}
	return normalized
}

// ModuleExportName returns the module export function name:
// "_l2c__<sanitized>__export" (spec.md §6's bit-exact naming section;
// §4.7's prose shorthand drops one underscore, but §6 governs since it
// states implementations must match byte-for-byte). Implementations
// must match byte-for-byte so generated headers and bodies link.
func ModuleExportName(modulePath string) string {
	return Prefix + SanitizePath(modulePath, false) + moduleExportSuffix
}

// FunctionName returns the mangled name of a Lua function defined in
// modulePath: "_l2c__<module>_<function>" (spec.md §6).
func FunctionName(modulePath, functionName string) string {
	sanitizedFn := strings.ReplaceAll(functionName, "-", "_")
	return Prefix + SanitizePath(modulePath, false) + "_" + sanitizedFn
}

// VariableName returns a scope-qualified C++ variable name.
func VariableName(scopePath, varName string) string {
	if scopePath == "" {
		return varName
	}
	return Prefix + SanitizePath(scopePath, false) + "_" + varName
}

// StringLiteralName returns the C++ identifier for string-pool entry
// index (spec.md §6: "_l2c__string_<index>").
func StringLiteralName(index int) string {
	return Prefix + "string_" + itoa(index)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// IsValidIdentifier reports whether name is a legal C identifier.
func IsValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if name[0] >= '0' && name[0] <= '9' {
		return false
	}
	for _, c := range name {
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
