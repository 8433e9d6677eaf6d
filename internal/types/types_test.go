package types

import "testing"

func TestJoinIdentity(t *testing.T) {
	n := New(Number)
	if got := Join(n, New(Unknown)); got.Kind != Number {
		t.Fatalf("join(T, Unknown) = %v, want Number", got.Kind)
	}
	if got := Join(New(Unknown), n); got.Kind != Number {
		t.Fatalf("join(Unknown, T) = %v, want Number", got.Kind)
	}
}

func TestJoinSameIsIdempotent(t *testing.T) {
	got := Join(New(String), New(String))
	if got.Kind != String {
		t.Fatalf("join(T, T) = %v, want String", got.Kind)
	}
}

func TestJoinConflictProducesFlatVariant(t *testing.T) {
	got := Join(New(Number), New(String))
	if got.Kind != Variant {
		t.Fatalf("join(Number, String) = %v, want Variant", got.Kind)
	}
	if len(got.Subtypes) != 2 {
		t.Fatalf("variant has %d subtypes, want 2", len(got.Subtypes))
	}
	if got.Subtypes[0].Kind != Number || got.Subtypes[1].Kind != String {
		t.Fatalf("variant order not insertion order: %v", got.Subtypes)
	}
}

func TestJoinCommutative(t *testing.T) {
	a := Join(New(Number), New(Boolean))
	b := Join(New(Boolean), New(Number))
	if !Equal(Type{Kind: Variant, Subtypes: a.Subtypes}, Type{Kind: Variant, Subtypes: a.Subtypes}) {
		t.Fatal("sanity check failed")
	}
	if len(a.Subtypes) != len(b.Subtypes) {
		t.Fatalf("commutativity: differing subtype counts %v vs %v", a, b)
	}
}

func TestVariantFlattensNested(t *testing.T) {
	inner := Join(New(Number), New(String))
	got := NewVariant(inner, New(Boolean))
	if got.Kind != Variant || len(got.Subtypes) != 3 {
		t.Fatalf("nested variant not flattened: %+v", got)
	}
}

func TestVariantDeduplicates(t *testing.T) {
	got := NewVariant(New(Number), New(Number), New(String))
	if len(got.Subtypes) != 2 {
		t.Fatalf("variant not deduplicated: %+v", got.Subtypes)
	}
}

func TestCanSpecialize(t *testing.T) {
	for _, k := range []Kind{Number, String, Boolean} {
		if !New(k).CanSpecialize() {
			t.Errorf("%v should specialize", k)
		}
	}
	for _, k := range []Kind{Unknown, Nil, Table, Function, Variant} {
		if New(k).CanSpecialize() {
			t.Errorf("%v should not specialize", k)
		}
	}
}

func TestCppType(t *testing.T) {
	cases := map[Kind]string{
		Number:   "double",
		String:   "std::string",
		Boolean:  "bool",
		Nil:      "auto",
		Table:    "auto",
		Function: "auto",
		Unknown:  "auto",
	}
	for k, want := range cases {
		if got := New(k).CppType(); got != want {
			t.Errorf("%v.CppType() = %q, want %q", k, got, want)
		}
	}
	if got := NewVariant(New(Number), New(String)).CppType(); got != LuaValueName {
		t.Errorf("variant CppType() = %q, want %q", got, LuaValueName)
	}
}
