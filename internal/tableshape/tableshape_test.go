package tableshape

import (
	"testing"

	"github.com/lua2cpp/lua2cpp/internal/types"
)

// S2 — local t = {}; t[1]="a"; t[2]="b"; t[3]="c" -> array of string.
func TestArrayClassification(t *testing.T) {
	r := New()
	for i := int64(1); i <= 3; i++ {
		r.ObserveNumericKey(i)
		r.MergeValueType(types.NewConstant(types.String))
	}
	if !r.IsArray() {
		t.Fatal("expected array classification")
	}
	if r.ValueType.Kind != types.String {
		t.Fatalf("value type = %v, want String", r.ValueType.Kind)
	}
}

// S3 — t[1]=10; t.name="x" -> promoted to map, mixed usage.
func TestPromotedToMap(t *testing.T) {
	r := New()
	r.ObserveNumericKey(1)
	r.MergeValueType(types.New(types.Number))
	r.ObserveStringKey("name")
	r.MergeValueType(types.New(types.String))

	if r.IsArray() {
		t.Fatal("expected map classification once a string key is seen")
	}
	if !r.IsMixed() {
		t.Fatal("expected mixed array/map usage to be detected")
	}
}

func TestEmptyTableDefaultsArray(t *testing.T) {
	r := New()
	if !r.IsArray() {
		t.Fatal("empty table should default to array")
	}
}

func TestSparseArrayIsWarned(t *testing.T) {
	r := New()
	r.ObserveNumericKey(1)
	r.ObserveNumericKey(3)
	if r.IsArray() {
		t.Fatal("non-contiguous numeric keys should not classify as array")
	}
	if !r.IsSparse() {
		t.Fatal("expected sparse-array condition")
	}
}

func TestDemotedAfterLaterStringKey(t *testing.T) {
	r := New()
	r.ObserveNumericKey(1)
	r.ObserveNumericKey(2)
	if !r.IsArray() {
		t.Fatal("should classify as array before any string key")
	}
	r.ObserveStringKey("x")
	if r.IsArray() {
		t.Fatal("adding a string key after the fact must demote to map")
	}
}
