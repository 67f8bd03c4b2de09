package pipeline

import (
	"path/filepath"

	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/grammar"
	"github.com/schiffy91/btrc/internal/includes"
	"github.com/schiffy91/btrc/internal/parser"
)

// expandIncludes replaces every top-level *ast.IncludeDecl in prog with the
// declarations of the file it names, recursively, using cache so a file
// reachable from two different include paths is only read and parsed once
// (spec.md §6.2: "a file is included at most once per compilation"). It
// mirrors includes.Cache's own doc-comment model of go-dws's unit registry:
// resolve-by-canonical-path, detect cycles, splice once.
func expandIncludes(prog *ast.Program, fromFile string, g *grammar.GrammarInfo, cache *includes.Cache) (*ast.Program, error) {
	fromDir := filepath.Dir(fromFile)
	out := &ast.Program{Decls: make([]ast.Decl, 0, len(prog.Decls))}
	seen := map[string]bool{}

	var expand func(decls []ast.Decl, dir string) error
	expand = func(decls []ast.Decl, dir string) error {
		for _, d := range decls {
			inc, ok := d.(*ast.IncludeDecl)
			if !ok {
				out.Decls = append(out.Decls, d)
				continue
			}
			canonical, src, err := cache.Resolve(inc.Path, dir)
			if err != nil {
				return err
			}
			if seen[canonical] {
				continue
			}
			seen[canonical] = true

			p := parser.New(g, src, canonical)
			sub, errs := p.Parse()
			if len(errs) > 0 {
				return errs[0]
			}
			if err := expand(sub.Decls, filepath.Dir(canonical)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := expand(prog.Decls, fromDir); err != nil {
		return prog, err
	}
	return out, nil
}
