package emit

import "github.com/lua2cpp/lua2cpp/internal/naming"

// stringPool interns per-module string literals, mirroring func_info.go's
// indexOfConstant: repeated literals share one index so the emitted
// `.cpp` declares each distinct string exactly once (spec.md §4.7
// "String literals are interned into a per-module string pool and
// referenced by index").
type stringPool struct {
	index   map[string]int
	entries []string
}

func newStringPool() *stringPool {
	return &stringPool{index: map[string]int{}}
}

// Intern returns s's pool index, assigning a fresh one on first sight.
func (p *stringPool) Intern(s string) int {
	if i, ok := p.index[s]; ok {
		return i
	}
	i := len(p.entries)
	p.index[s] = i
	p.entries = append(p.entries, s)
	return i
}

// Name returns the C++ identifier for pool index i (spec.md §6
// "_l2c__string_<index>").
func (p *stringPool) Name(i int) string {
	return naming.StringLiteralName(i)
}

// Entries returns the pool contents in assignment order, for declaring
// `static const std::string` constants at the top of the module body.
func (p *stringPool) Entries() []string {
	out := make([]string, len(p.entries))
	copy(out, p.entries)
	return out
}
