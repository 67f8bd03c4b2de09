// Package optimizer implements the IR Optimizer stage (spec.md §4.6): a
// single pass over an ir.Module that computes the set of helper categories
// transitively reachable from the categories the IR Generator marked live,
// then drops every other category from the module's helper list.
//
// The pass-enable/disable shape is adapted from go-dws's
// internal/bytecode.optimizeConfig/WithOptimizationPass: a small option type
// lets a caller disable a named pass without changing the Optimizer's call
// site, even though this stage currently defines only the one pass spec.md
// §4.6 names.
package optimizer

import (
	"github.com/schiffy91/btrc/internal/helpers"
	"github.com/schiffy91/btrc/internal/ir"
)

// Pass names one optimization pass the Optimizer can run.
type Pass string

const (
	// PassHelperClosure computes the transitive closure of live helper
	// categories and drops the rest (spec.md §4.6).
	PassHelperClosure Pass = "helper-closure"
)

type config struct {
	enabled map[Pass]bool
}

// Option toggles a named pass. WithPass(PassHelperClosure, false) would skip
// helper pruning entirely, e.g. for a --no-optimize debug build.
type Option func(*config)

func WithPass(pass Pass, enabled bool) Option {
	return func(c *config) {
		if c.enabled == nil {
			c.enabled = make(map[Pass]bool)
		}
		c.enabled[pass] = enabled
	}
}

func (c config) isEnabled(pass Pass) bool {
	if c.enabled == nil {
		return true
	}
	enabled, ok := c.enabled[pass]
	if !ok {
		return true
	}
	return enabled
}

// Optimize mutates mod.Helpers in place, replacing it with exactly the
// transitive closure of the categories the IR Generator required, per the
// Helper Registry's declared dependencies. It returns mod for chaining.
func Optimize(mod *ir.Module, opts ...Option) *ir.Module {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}
	if !cfg.isEnabled(PassHelperClosure) {
		return mod
	}

	closure := helpers.Closure(mod.Helpers)
	pruned := make(map[string]bool, len(closure))
	for _, cat := range closure {
		pruned[cat] = true
	}
	mod.Helpers = pruned
	return mod
}

// LiveCategories returns the ordered (Helper Registry dependency order) list
// of categories mod.Helpers retains after Optimize has run. The Emitter
// does not call it; it computes the same list with helpers.Closure.
func LiveCategories(mod *ir.Module) []string {
	return helpers.Closure(mod.Helpers)
}
