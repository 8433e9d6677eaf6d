// Package tableshape classifies each table-bound symbol as array-like,
// map-like or mixed, based on the keys and values observed during type
// inference (spec.md §3, §4.4). Grounded on the original TableTypeInfo
// (lua2c/core/type_system.py).
package tableshape

import "github.com/lua2cpp/lua2cpp/internal/types"

// maxLiteralKey bounds how large a numeric key is kept literally in
// NumericKeys before it is treated as "non-literal" (spec.md §3).
const maxLiteralKey = 10000

// Record is the per-symbol table-shape state.
type Record struct {
	NumericKeys map[int64]bool
	StringKeys  map[string]bool
	ValueType   types.Type
	hasValue    bool

	// isArray/finalized cache the finalization decision (§4.4); query
	// only after pass 4 has run (§4.5, §9 open question i).
	isArray   bool
	finalized bool
}

// New returns an empty table-shape record for a freshly observed table.
func New() *Record {
	return &Record{
		NumericKeys: map[int64]bool{},
		StringKeys:  map[string]bool{},
	}
}

// ObserveNumericKey records a literal integer key used to index or
// construct the table. Keys outside [1, maxLiteralKey] are dropped
// (treated as non-literal, per spec.md §3).
func (r *Record) ObserveNumericKey(key int64) {
	r.finalized = false
	if key >= 1 && key <= maxLiteralKey {
		r.NumericKeys[key] = true
	}
}

// ObserveStringKey records a literal string key.
func (r *Record) ObserveStringKey(key string) {
	r.finalized = false
	r.StringKeys[key] = true
}

// MergeValueType joins a newly observed value type into ValueType via
// the type lattice (§4.1, §4.4).
func (r *Record) MergeValueType(t types.Type) {
	if !r.hasValue {
		r.ValueType = t
		r.hasValue = true
		return
	}
	r.ValueType = types.Join(r.ValueType, t)
}

// HasValueType reports whether any value type has been observed yet.
func (r *Record) HasValueType() bool { return r.hasValue }

// Finalize runs the array-vs-map decision rule (§4.4) and caches it.
// Callers must re-run Finalize (or rely on IsArray, which does so lazily)
// after every mutation; the emitter must only query after pass 4 has
// frozen all records (§4.5, §9 open question i).
func (r *Record) Finalize() bool {
	if r.finalized {
		return r.isArray
	}
	r.finalized = true

	if len(r.StringKeys) > 0 {
		r.isArray = false
		return false
	}
	if len(r.NumericKeys) == 0 {
		r.isArray = true // empty-array default
		return true
	}

	var min, max int64
	first := true
	for k := range r.NumericKeys {
		if first {
			min, max = k, k
			first = false
			continue
		}
		if k < min {
			min = k
		}
		if k > max {
			max = k
		}
	}
	r.isArray = min == 1 && max == int64(len(r.NumericKeys))
	return r.isArray
}

// IsArray returns the finalized array/map decision, finalizing on first
// use if necessary.
func (r *Record) IsArray() bool {
	if !r.finalized {
		return r.Finalize()
	}
	return r.isArray
}

// IsSparse reports whether the table is an array candidate (no string
// keys) whose numeric keys are non-contiguous — a pass-4 Warning
// condition (§4.5, §8 S3 analog).
func (r *Record) IsSparse() bool {
	if len(r.StringKeys) > 0 || len(r.NumericKeys) == 0 {
		return false
	}
	return !r.IsArray()
}

// IsMixed reports whether the table has ever seen both numeric and
// string keys — the §8 S3 "mixed array/map usage" condition.
func (r *Record) IsMixed() bool {
	return len(r.NumericKeys) > 0 && len(r.StringKeys) > 0
}
