package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// constructor is one ASDL alternative of a category, e.g. `VarDecl(type
// declType, identifier name, expr? init)` inside `stmt = VarDecl(...) | ...`.
// Field shapes aren't needed by the generator below (it only asserts that
// the constructor name exists and implements its category's marker
// interface), so constructor carries just the name.
type constructor struct {
	Name string
}

// category is one ASDL production, e.g. `stmt = VarDecl(...) | Assign(...) | ...`.
type category struct {
	Name         string
	Constructors []constructor
}

var categoryHeaderRe = regexp.MustCompile(`(?m)^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=\s*`)

// parseASDL reads the ASDL file at path and extracts every category and its
// constructor names. It does not need to understand field lists (no
// generated code below inspects field shapes), so it only tracks the text
// between a category's `=` and the next category's `=` (or the module's
// closing brace), splitting that text on top-level `|`.
func parseASDL(path string) ([]category, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	text := stripComments(string(raw))

	open := strings.Index(text, "{")
	close := strings.LastIndex(text, "}")
	if open < 0 || close < 0 || close < open {
		return nil, fmt.Errorf("%s: no `module Name { ... }` block found", path)
	}
	body := text[open+1 : close]

	locs := categoryHeaderRe.FindAllStringSubmatchIndex(body, -1)
	if locs == nil {
		return nil, fmt.Errorf("%s: no categories found", path)
	}

	var cats []category
	for i, loc := range locs {
		name := body[loc[2]:loc[3]]
		bodyStart := loc[1]
		bodyEnd := len(body)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}
		cats = append(cats, category{Name: name, Constructors: splitConstructors(body[bodyStart:bodyEnd])})
	}
	return cats, nil
}

// splitConstructors splits a category's right-hand side on top-level `|`
// (parens never nest in btrc.asdl, so paren-depth tracking is unnecessary)
// and extracts each alternative's leading identifier as its constructor name.
func splitConstructors(s string) []constructor {
	var out []constructor
	for _, alt := range strings.Split(s, "|") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			continue
		}
		name := alt
		if idx := strings.IndexByte(alt, '('); idx >= 0 {
			name = alt[:idx]
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, constructor{Name: name})
	}
	return out
}

func stripComments(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}
