package diag

import (
	"fmt"
	"strings"
)

// StageFrame names one step of pipeline work in progress when an internal
// compiler error is raised (spec.md §7: "any invariant violation in stages
// 5-7 ... produces a panic trace"). Adapted from go-dws's StackFrame,
// which recorded interpreter call frames; here it records compiler stages
// and the IR/AST node under construction instead of a runtime call stack.
type StageFrame struct {
	Stage  string
	Detail string
}

func (f StageFrame) String() string {
	if f.Detail == "" {
		return f.Stage
	}
	return fmt.Sprintf("%s (%s)", f.Stage, f.Detail)
}

// Trace is an ordered sequence of StageFrames, oldest first, printed
// newest-first like a conventional panic trace.
type Trace []StageFrame

func (t Trace) String() string {
	if len(t) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(t) - 1; i >= 0; i-- {
		sb.WriteString("  at ")
		sb.WriteString(t[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ICE is an internal compiler error: a fatal invariant violation in stages
// 5-7 that is never recoverable. The caller is expected to print
// Error() and exit with code 3.
type ICE struct {
	Message string
	Trace   Trace
}

func (e *ICE) Error() string {
	if len(e.Trace) == 0 {
		return "internal compiler error: " + e.Message
	}
	return fmt.Sprintf("internal compiler error: %s\n%s", e.Message, e.Trace)
}

// NewICE builds an ICE, formatting Message with fmt.Sprintf.
func NewICE(trace Trace, format string, args ...any) *ICE {
	return &ICE{Message: fmt.Sprintf(format, args...), Trace: trace}
}
