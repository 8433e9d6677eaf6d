package scope

import "testing"

func TestDefineAndLookup(t *testing.T) {
	s := New()
	if _, err := s.Define("x", &Symbol{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sym := s.Lookup("x"); sym == nil {
		t.Fatal("expected to find x")
	}
}

func TestDuplicateDefineInSameScopeFails(t *testing.T) {
	s := New()
	if _, err := s.Define("x", &Symbol{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Define("x", &Symbol{}); err == nil {
		t.Fatal("expected an error redefining x in the same scope")
	}
}

// §4.2 — shadowing a name from an outer scope is legal.
func TestShadowingAllowed(t *testing.T) {
	s := New()
	if _, err := s.Define("x", &Symbol{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Push()
	if _, err := s.Define("x", &Symbol{}); err != nil {
		t.Fatalf("shadowing should be legal: %v", err)
	}
	inner := s.Lookup("x")
	if inner == nil || inner.ScopeID == 0 {
		t.Fatal("expected lookup to find the inner shadow, not the outer binding")
	}
	s.Pop()
	outer := s.Lookup("x")
	if outer == nil || outer.ScopeID != 0 {
		t.Fatal("expected lookup after pop to find the outer binding again")
	}
}

func TestPopGlobalPanics(t *testing.T) {
	s := New()
	defer func() {
		if recover() == nil {
			t.Fatal("expected popping the global scope to panic")
		}
	}()
	s.Pop()
}

func TestDefineGlobalIdempotent(t *testing.T) {
	s := New()
	first := s.DefineGlobal("g", &Symbol{})
	second := s.DefineGlobal("g", &Symbol{})
	if first != second {
		t.Fatal("expected DefineGlobal to return the existing symbol on repeat calls")
	}
	if !first.IsGlobal {
		t.Fatal("expected IsGlobal to be set")
	}
}

func TestIsLocalAndIsGlobalName(t *testing.T) {
	s := New()
	s.DefineGlobal("g", &Symbol{})
	s.Define("loc", &Symbol{})

	if !s.IsGlobalName("g") {
		t.Fatal("expected g to be global")
	}
	if s.IsLocal("g") {
		t.Fatal("expected g not to be local")
	}
	if !s.IsLocal("loc") {
		t.Fatal("expected loc to be local")
	}
	if s.IsGlobalName("loc") {
		t.Fatal("expected loc not to be global")
	}
	if s.IsLocal("nonexistent") || s.IsGlobalName("nonexistent") {
		t.Fatal("expected an unknown name to be neither local nor global")
	}
}

func TestDepth(t *testing.T) {
	s := New()
	if s.Depth() != 0 {
		t.Fatalf("Depth() = %d, want 0", s.Depth())
	}
	s.Push()
	s.Push()
	if s.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", s.Depth())
	}
	s.Pop()
	if s.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", s.Depth())
	}
}
