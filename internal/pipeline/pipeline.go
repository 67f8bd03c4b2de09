// Package pipeline orchestrates the six btrc stages spec.md §4 describes —
// Grammar Loader, Lexer, Parser, Analyzer, IR Generator, IR Optimizer — and
// the C Emitter, gating advancement between stages on diag.Bag.HasErrors()
// per spec.md §7: "diagnostics are batched and emitted at the stage
// boundary; the pipeline advances only if the boundary bag is clean."
//
// The Run/Result split and the invocation-scoped logger mirror go-dws's
// cmd/dwscript/cmd/run.go, which wires lexer -> parser -> semantic ->
// interp inline in one command body; here the same stage sequence is
// pulled out of the CLI layer so cmd/btrc, tests, and any future embedding
// caller share one orchestration path.
package pipeline

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/diag"
	"github.com/schiffy91/btrc/internal/emitter"
	"github.com/schiffy91/btrc/internal/grammar"
	"github.com/schiffy91/btrc/internal/includes"
	"github.com/schiffy91/btrc/internal/ir"
	"github.com/schiffy91/btrc/internal/lexer"
	"github.com/schiffy91/btrc/internal/optimizer"
	"github.com/schiffy91/btrc/internal/parser"
	"github.com/schiffy91/btrc/internal/semantic"
	"github.com/schiffy91/btrc/internal/token"
)

// Stage names where the pipeline stopped, for --emit-* gating and exit-code
// selection in cmd/btrc.
type Stage string

const (
	StageGrammar  Stage = "grammar"
	StageLexer    Stage = "lexer"
	StageParser   Stage = "parser"
	StageSemantic Stage = "semantic"
	StageIRGen    Stage = "ir-generator"
	StageOptimize Stage = "ir-optimizer"
	StageEmit     Stage = "emitter"
)

// Options configures one compiler invocation.
type Options struct {
	GrammarPath string
	SourcePath  string
	Source      string // already-read source text
	SearchPaths []string
	Logger      zerolog.Logger
}

// Result accumulates every stage's artifact a caller might want (cmd/btrc's
// --emit-* flags each read one field) plus the diagnostics batch and the
// stage the pipeline actually reached.
type Result struct {
	InvocationID uuid.UUID
	Stage        Stage
	Tokens       []token.Token
	Program      *ast.Program
	Semantic     *semantic.Result
	IR           *ir.Module
	OptimizedIR  *ir.Module
	C            string
	Diagnostics  []*diag.Diagnostic
}

// HasErrors reports whether the pipeline stopped short of emitting C.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

// Run executes every stage in order, stopping at the first one that leaves
// errors in its diagnostic bag (spec.md §7). It never panics: a stage that
// would panic on malformed input is expected to return diagnostics instead;
// a genuine panic is recovered and reported as an internal compiler error
// tagged with the invocation ID, per spec.md §7's fourth diagnostic kind.
func Run(opts Options) (res *Result) {
	res = &Result{InvocationID: uuid.New()}
	log := opts.Logger.With().Str("invocation", res.InvocationID.String()).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("internal compiler error")
			res.Diagnostics = append(res.Diagnostics, diag.New(diag.Internal, token.Position{File: opts.SourcePath},
				opts.Source, "internal compiler error (invocation %s): %v", res.InvocationID, r))
		}
	}()

	start := time.Now()
	g, err := grammar.Load(opts.GrammarPath)
	if err != nil {
		res.Stage = StageGrammar
		res.Diagnostics = append(res.Diagnostics, diag.New(diag.Internal, token.Position{}, "", "loading grammar %s: %v", opts.GrammarPath, err))
		return res
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("grammar loaded")

	res.Stage = StageLexer
	start = time.Now()
	lx := lexer.New(g, opts.Source, opts.SourcePath)
	res.Tokens = lx.All()
	res.Diagnostics = append(res.Diagnostics, lx.Errors()...)
	log.Debug().Dur("elapsed", time.Since(start)).Int("tokens", len(res.Tokens)).Msg("lexed")
	if hasErrors(res.Diagnostics) {
		return res
	}

	res.Stage = StageParser
	start = time.Now()
	p := parser.New(g, opts.Source, opts.SourcePath)
	prog, perrs := p.Parse()
	res.Diagnostics = append(res.Diagnostics, perrs...)
	if hasErrors(res.Diagnostics) {
		res.Program = prog
		return res
	}
	cache := includes.NewCache(opts.SearchPaths)
	prog, incErr := expandIncludes(prog, opts.SourcePath, g, cache)
	if incErr != nil {
		res.Diagnostics = append(res.Diagnostics, diag.New(diag.Parser, token.Position{File: opts.SourcePath}, opts.Source, "%v", incErr))
		res.Program = prog
		return res
	}
	res.Program = prog
	log.Debug().Dur("elapsed", time.Since(start)).Int("decls", len(prog.Decls)).Msg("parsed")

	res.Stage = StageSemantic
	start = time.Now()
	an := semantic.NewAnalyzer(opts.Source, opts.SourcePath)
	res.Semantic = an.Analyze(prog)
	res.Diagnostics = append(res.Diagnostics, an.Errors()...)
	log.Debug().Dur("elapsed", time.Since(start)).Msg("analyzed")
	if hasErrors(res.Diagnostics) {
		return res
	}

	res.Stage = StageIRGen
	start = time.Now()
	gen := ir.NewGenerator(res.Semantic)
	res.IR = gen.Generate()
	log.Debug().Dur("elapsed", time.Since(start)).Msg("ir generated")

	res.Stage = StageOptimize
	start = time.Now()
	res.OptimizedIR = optimizer.Optimize(res.IR)
	log.Debug().Dur("elapsed", time.Since(start)).Msg("ir optimized")

	res.Stage = StageEmit
	start = time.Now()
	var sb strings.Builder
	if err := emitter.New(&sb, res.OptimizedIR).Emit(); err != nil {
		res.Diagnostics = append(res.Diagnostics, diag.New(diag.Internal, token.Position{}, "", "emitting C: %v", err))
		return res
	}
	res.C = sb.String()
	log.Debug().Dur("elapsed", time.Since(start)).Int("bytes", len(res.C)).Msg("emitted")

	return res
}

func hasErrors(items []*diag.Diagnostic) bool {
	for _, d := range items {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}
