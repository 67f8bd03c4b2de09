// Package grammar loads the EBNF grammar file (spec.md §4.1) that drives
// the Lexer and names every keyword/operator token kind. Hardcoding a
// keyword or operator string anywhere outside this package is forbidden;
// every other stage asks a *GrammarInfo for the kind it needs.
package grammar

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/schiffy91/btrc/internal/token"
)

// GrammarInfo is the parsed form of an EBNF grammar file: the keyword set,
// the operator list (longest-first), and a kind identifier for each.
type GrammarInfo struct {
	// Keywords maps a lowercase keyword spelling to its kind.
	Keywords map[string]token.Kind

	// Operators is sorted longest-first so the Lexer's trie-style maximal-
	// munch scan tries multi-character operators before their prefixes.
	Operators []string

	// Syntax holds the @syntax section verbatim. It is never interpreted
	// by the compiler; it exists for human review and for Validate to
	// confirm the section is present and non-empty.
	Syntax string

	kindNames map[token.Kind]string
	nameKinds map[string]token.Kind
	next      token.Kind
}

// Load reads and parses an EBNF grammar file from path.
func Load(path string) (*GrammarInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("grammar: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses EBNF grammar text from r.
func Parse(r interface{ Read([]byte) (int, error) }) (*GrammarInfo, error) {
	g := &GrammarInfo{
		Keywords:  make(map[string]token.Kind),
		kindNames: make(map[token.Kind]string),
		nameKinds: make(map[string]token.Kind),
	}
	g.next = firstDynamicKind

	scanner := bufio.NewScanner(r)
	section := ""
	subsection := ""
	var syntaxLines []string

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case trimmed == "@lexical":
			section = "lexical"
			continue
		case trimmed == "@syntax":
			section = "syntax"
			continue
		}

		switch section {
		case "lexical":
			if strings.HasSuffix(trimmed, ":") {
				subsection = strings.TrimSuffix(trimmed, ":")
				continue
			}
			switch subsection {
			case "keywords":
				for _, w := range strings.Fields(trimmed) {
					g.defineKeyword(strings.ToLower(w))
				}
			case "operators":
				for _, op := range strings.Fields(trimmed) {
					g.defineOperator(op)
				}
			default:
				return nil, fmt.Errorf("grammar: line %q outside keywords:/operators: subsection", trimmed)
			}
		case "syntax":
			syntaxLines = append(syntaxLines, line)
		default:
			return nil, fmt.Errorf("grammar: line %q outside @lexical/@syntax section", trimmed)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("grammar: scan: %w", err)
	}

	if len(g.Keywords) == 0 {
		return nil, fmt.Errorf("grammar: no keywords declared")
	}
	if len(g.Operators) == 0 {
		return nil, fmt.Errorf("grammar: no operators declared")
	}
	g.Syntax = strings.TrimSpace(strings.Join(syntaxLines, "\n"))
	if g.Syntax == "" {
		return nil, fmt.Errorf("grammar: @syntax section is empty")
	}

	// Longest-first so the Lexer's maximal-munch scan always prefers the
	// longer operator (e.g. "<<=" over "<<" over "<").
	sort.SliceStable(g.Operators, func(i, j int) bool {
		return len(g.Operators[i]) > len(g.Operators[j])
	})

	return g, nil
}

const firstDynamicKind token.Kind = 1000

func (g *GrammarInfo) defineKeyword(word string) {
	if _, exists := g.Keywords[word]; exists {
		return
	}
	kind := g.allocKind("kw:" + word)
	g.Keywords[word] = kind
}

func (g *GrammarInfo) defineOperator(op string) {
	if _, exists := g.nameKinds["op:"+op]; exists {
		return
	}
	g.allocKind("op:" + op)
	g.Operators = append(g.Operators, op)
}

func (g *GrammarInfo) allocKind(name string) token.Kind {
	k := g.next
	g.next++
	g.kindNames[k] = name
	g.nameKinds[name] = k
	return k
}

// KeywordKind returns the kind for a lowercase keyword spelling and true if
// it is declared by the grammar.
func (g *GrammarInfo) KeywordKind(word string) (token.Kind, bool) {
	k, ok := g.Keywords[word]
	return k, ok
}

// OperatorKind returns the kind assigned to an operator lexeme.
func (g *GrammarInfo) OperatorKind(op string) (token.Kind, bool) {
	k, ok := g.nameKinds["op:"+op]
	return k, ok
}

// Name returns the human-readable name for a kind ("kw:class", "op:+=")
// or "" if the kind is not one this grammar declared (structural kinds
// such as IDENT/INT/EOF are named by the token package itself).
func (g *GrammarInfo) Name(k token.Kind) string {
	return g.kindNames[k]
}

// MustKind looks up a declared kind name ("class", "+=", ...) and panics
// with a configuration error if it is not present in the grammar. Used at
// construction time by stages that reference a fixed set of kinds (e.g.
// the Parser's kind table, built by buildKindSet from parser.New), turning a missing-keyword typo
// into an immediate, loud failure instead of a silent ILLEGAL token later.
func (g *GrammarInfo) MustKind(name string) token.Kind {
	if k, ok := g.Keywords[name]; ok {
		return k
	}
	if k, ok := g.nameKinds["op:"+name]; ok {
		return k
	}
	panic(fmt.Sprintf("grammar: fatal configuration error: kind %q is not declared in the grammar file", name))
}

// Validate confirms every name in names is declared by the grammar,
// returning a single aggregated error naming all that are missing. The
// pipeline does not call it; there, a kind missing from the grammar
// surfaces as MustKind's panic when the Parser is constructed.
func (g *GrammarInfo) Validate(names []string) error {
	var missing []string
	for _, name := range names {
		if _, ok := g.Keywords[name]; ok {
			continue
		}
		if _, ok := g.nameKinds["op:"+name]; ok {
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) > 0 {
		return fmt.Errorf("grammar: fatal configuration error: kinds not declared: %s", strings.Join(missing, ", "))
	}
	return nil
}
