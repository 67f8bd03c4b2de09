// Package diag formats and batches compiler diagnostics. It is adapted
// from go-dws's internal/errors package: the same caret-pointer source
// rendering, generalized to the four diagnostic kinds spec.md §7 names
// (lexer, parser, semantic, internal) instead of go-dws's single
// undifferentiated error list.
package diag

import (
	"fmt"
	"strings"

	"github.com/schiffy91/btrc/internal/token"
)

// Kind distinguishes the stage a diagnostic came from, matching spec.md §7.
type Kind int

const (
	Lexer Kind = iota
	Parser
	Semantic
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lexer:
		return "lexer error"
	case Parser:
		return "parser error"
	case Semantic:
		return "semantic error"
	case Internal:
		return "internal compiler error"
	default:
		return "error"
	}
}

// Severity of a diagnostic. Warnings never block the pipeline from
// advancing to the next stage; errors do.
type Severity int

const (
	Error Severity = iota
	Warning
)

// Diagnostic is a single compiler message with position and source
// context, rendered with the same caret-pointer format go-dws used for
// interpreter errors.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Pos      token.Position
	Source   string
}

func New(kind Kind, pos token.Position, source, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Severity: Error, Pos: pos, Source: source, Message: fmt.Sprintf(format, args...)}
}

func Warn(kind Kind, pos token.Position, source, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Severity: Warning, Pos: pos, Source: source, Message: fmt.Sprintf(format, args...)}
}

func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders the diagnostic with a line/column header, the offending
// source line, and a caret pointing at the column. With color, ANSI bold
// red highlights the caret, matching go-dws's CompilerError.Format.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	label := d.Kind.String()
	if d.Severity == Warning {
		label = "warning"
	}
	if d.Pos.File != "" {
		fmt.Fprintf(&sb, "%s: %s:%d:%d\n", label, d.Pos.File, d.Pos.Line, d.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s: line %d:%d\n", label, d.Pos.Line, d.Pos.Column)
	}

	if line := sourceLine(d.Source, d.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+max0(d.Pos.Column-1)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Bag accumulates diagnostics for a single pipeline stage (spec.md §7:
// "all recoverable diagnostics are batched and emitted at the stage
// boundary").
type Bag struct {
	items []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) { b.items = append(b.items, d) }

// Extend appends every diagnostic from other, used when a sub-parse (e.g.
// an f-string's embedded expression, parsed by a nested Parser instance)
// needs its diagnostics folded into the enclosing bag.
func (b *Bag) Extend(other Bag) { b.items = append(b.items, other.items...) }

func (b *Bag) Addf(kind Kind, pos token.Position, source, format string, args ...any) {
	b.Add(New(kind, pos, source, format, args...))
}

func (b *Bag) Warnf(kind Kind, pos token.Position, source, format string, args ...any) {
	b.Add(Warn(kind, pos, source, format, args...))
}

// HasErrors reports whether any accumulated diagnostic is an Error (as
// opposed to a Warning). Per spec.md §7, the pipeline proceeds to the
// next stage only if this is false.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

func (b *Bag) Errors() []*Diagnostic   { return filterBySeverity(b.items, Error) }
func (b *Bag) Warnings() []*Diagnostic { return filterBySeverity(b.items, Warning) }
func (b *Bag) All() []*Diagnostic      { return b.items }
func (b *Bag) Len() int                { return len(b.items) }

func filterBySeverity(items []*Diagnostic, sev Severity) []*Diagnostic {
	var out []*Diagnostic
	for _, d := range items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Format renders every diagnostic in the bag, numbered when there is more
// than one, matching go-dws's FormatErrors.
func Format(items []*Diagnostic, color bool) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) == 1 {
		return items[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d diagnostic(s):\n\n", len(items))
	for i, d := range items {
		fmt.Fprintf(&sb, "[%d of %d]\n", i+1, len(items))
		sb.WriteString(d.Format(color))
		if i < len(items)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
