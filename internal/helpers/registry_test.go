package helpers

import "testing"

// TestClosureIncludesTransitiveDependencies pins spec.md §4.6's "helper
// closure" testable property: the closure of a directly-live category
// includes every category it Requires, transitively.
func TestClosureIncludesTransitiveDependencies(t *testing.T) {
	got := Closure(map[string]bool{"trycatch": true})
	want := map[string]bool{"alloc": true, "trycatch": true}
	if len(got) != len(want) {
		t.Fatalf("Closure(trycatch) = %v, want exactly %v", got, want)
	}
	for _, cat := range got {
		if !want[cat] {
			t.Errorf("Closure(trycatch) included unexpected category %q", cat)
		}
	}
}

// TestClosureOrderMatchesOrder confirms the closure is emitted in Order's
// relative order regardless of the iteration order of the live set (Order is
// unexported-dependency-safe: no category may precede one of its own
// Requires).
func TestClosureOrderMatchesOrder(t *testing.T) {
	got := Closure(map[string]bool{"strings": true, "arc": true, "trycatch": true})
	pos := map[string]int{}
	for i, cat := range got {
		pos[cat] = i
	}
	if pos["alloc"] >= pos["arc"] {
		t.Errorf("alloc (%d) must precede arc (%d)", pos["alloc"], pos["arc"])
	}
	if pos["alloc"] >= pos["strings"] {
		t.Errorf("alloc (%d) must precede strings (%d)", pos["alloc"], pos["strings"])
	}
	if pos["alloc"] >= pos["trycatch"] {
		t.Errorf("alloc (%d) must precede trycatch (%d)", pos["alloc"], pos["trycatch"])
	}
}

// TestClosureEmptyForNoLiveCategories confirms ARC neutrality (spec.md §8):
// a program with no live helper categories gets no helper C text at all.
func TestClosureEmptyForNoLiveCategories(t *testing.T) {
	got := Closure(map[string]bool{})
	if len(got) != 0 {
		t.Fatalf("Closure(nil) = %v, want empty", got)
	}
	if Render(got) != "" {
		t.Fatalf("Render(empty closure) = %q, want empty", Render(got))
	}
}

// TestRenderConcatenatesInOrder confirms Render just concatenates each
// category's Source in the order given, with no extra separators.
func TestRenderConcatenatesInOrder(t *testing.T) {
	got := Render([]string{"alloc", "arc"})
	wantAllocFirst := registry["alloc"].Source + registry["arc"].Source
	if got != wantAllocFirst {
		t.Fatalf("Render([alloc, arc]) did not match concatenation of Source fields")
	}
}

// TestRenderIgnoresUnknownCategory confirms Render is defensive against a
// category name with no registry entry (e.g. a stale name left over from a
// prior pass) rather than panicking.
func TestRenderIgnoresUnknownCategory(t *testing.T) {
	got := Render([]string{"alloc", "not-a-real-category"})
	if got != registry["alloc"].Source {
		t.Fatalf("Render with an unknown category = %q, want just alloc's source", got)
	}
}
