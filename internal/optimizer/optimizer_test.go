package optimizer

import (
	"testing"

	"github.com/schiffy91/btrc/internal/ir"
)

// TestOptimizePrunesToTransitiveClosure confirms the Optimizer replaces
// Module.Helpers with exactly the transitive closure spec.md §4.6 requires:
// a module that only ever called RequireHelper("trycatch") should still
// retain "alloc" (trycatch's dependency) after Optimize, and nothing else.
func TestOptimizePrunesToTransitiveClosure(t *testing.T) {
	mod := ir.NewModule()
	mod.RequireHelper("trycatch")

	Optimize(mod)

	if !mod.Helpers["alloc"] {
		t.Error("Optimize dropped trycatch's \"alloc\" dependency")
	}
	if !mod.Helpers["trycatch"] {
		t.Error("Optimize dropped the directly-required \"trycatch\" category")
	}
	if len(mod.Helpers) != 2 {
		t.Errorf("Optimize retained %d categories, want exactly 2: %v", len(mod.Helpers), mod.Helpers)
	}
}

// TestOptimizeDisabledLeavesHelpersUntouched confirms WithPass(..., false)
// skips pruning entirely, for a hypothetical --no-optimize debug build.
func TestOptimizeDisabledLeavesHelpersUntouched(t *testing.T) {
	mod := ir.NewModule()
	mod.RequireHelper("strings") // would normally pull in "alloc" too

	Optimize(mod, WithPass(PassHelperClosure, false))

	if len(mod.Helpers) != 1 || !mod.Helpers["strings"] {
		t.Errorf("disabled Optimize changed Helpers to %v, want untouched {strings}", mod.Helpers)
	}
}

// TestLiveCategoriesOrdering confirms LiveCategories reports categories in
// the Helper Registry's dependency order.
func TestLiveCategoriesOrdering(t *testing.T) {
	mod := ir.NewModule()
	mod.RequireHelper("arc")
	Optimize(mod)

	cats := LiveCategories(mod)
	if len(cats) != 2 || cats[0] != "alloc" || cats[1] != "arc" {
		t.Fatalf("LiveCategories = %v, want [alloc arc]", cats)
	}
}
