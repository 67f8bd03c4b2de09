package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/schiffy91/btrc/internal/diag"
	"github.com/schiffy91/btrc/internal/ir"
	"github.com/schiffy91/btrc/internal/pipeline"
)

var (
	flagOutput          string
	flagEmitTokens      bool
	flagEmitAST         bool
	flagEmitIR          bool
	flagEmitOptimizedIR bool
	flagDumpDir         string
	flagLogLevel        string
	flagIncludePaths    []string
	flagGrammarPath     string
)

func runCompile(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return newExitError(1, "reading %s: %w", sourcePath, err)
	}
	source := normalizeNewlines(string(data))

	level, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		return newExitError(1, "invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	res := pipeline.Run(pipeline.Options{
		GrammarPath: flagGrammarPath,
		SourcePath:  sourcePath,
		Source:      source,
		SearchPaths: append([]string{filepath.Dir(sourcePath)}, flagIncludePaths...),
		Logger:      logger,
	})

	if err := emitRequestedArtifact(res); err != nil {
		return err
	}

	if len(res.Diagnostics) > 0 {
		printDiagnostics(res.Diagnostics)
	}
	if res.HasErrors() {
		if res.Stage == pipeline.StageGrammar {
			return newExitError(3, "internal compiler error")
		}
		return newExitError(2, "compile failed at stage %s", res.Stage)
	}
	if anyEmitRequested() {
		return nil
	}

	out := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return newExitError(1, "creating %s: %w", flagOutput, err)
		}
		defer f.Close()
		out = f
	}
	fmt.Fprint(out, res.C)
	return nil
}

func anyEmitRequested() bool {
	return flagEmitTokens || flagEmitAST || flagEmitIR || flagEmitOptimizedIR
}

// emitRequestedArtifact writes whichever single --emit-* dump was
// requested, to --dump-dir if set or stdout otherwise (spec.md §6.1 and its
// --dump-dir supplement). Only one such flag is meaningful per invocation;
// the first one set, in flag-declaration order, wins.
func emitRequestedArtifact(res *pipeline.Result) error {
	switch {
	case flagEmitTokens:
		return writeArtifact("tokens", formatTokens(res))
	case flagEmitAST:
		if res.Program == nil {
			return nil
		}
		return writeArtifact("ast", res.Program.String())
	case flagEmitIR:
		if res.IR == nil {
			return nil
		}
		return writeArtifact("ir", dumpModule(res.IR))
	case flagEmitOptimizedIR:
		if res.OptimizedIR == nil {
			return nil
		}
		return writeArtifact("optimized-ir", dumpModule(res.OptimizedIR))
	}
	return nil
}

func writeArtifact(name, content string) error {
	if flagDumpDir == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.MkdirAll(flagDumpDir, 0o755); err != nil {
		return newExitError(1, "creating --dump-dir %s: %w", flagDumpDir, err)
	}
	path := filepath.Join(flagDumpDir, name+".txt")
	return os.WriteFile(path, []byte(content), 0o644)
}

func formatTokens(res *pipeline.Result) string {
	var sb strings.Builder
	for _, t := range res.Tokens {
		fmt.Fprintf(&sb, "%s %s\n", t.Pos, t)
	}
	return sb.String()
}

// dumpModule is a debugging-oriented text rendering of an ir.Module,
// deliberately coarser than the Emitter's C output: it exists for
// --emit-ir/--emit-optimized-ir, not for compilation.
func dumpModule(mod *ir.Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "structs: %d, externs: %d, prototypes: %d, functions: %d\n",
		len(mod.Structs), len(mod.Externs), len(mod.Prototypes), len(mod.Functions))
	for _, s := range mod.Structs {
		fmt.Fprintf(&sb, "struct %s { ", s.Name)
		for _, f := range s.Fields {
			fmt.Fprintf(&sb, "%s; ", f.Name)
		}
		fmt.Fprintf(&sb, "}\n")
	}
	for _, fn := range mod.Functions {
		fmt.Fprintf(&sb, "func %s (%d stmts)\n", fn.Proto.Name, len(fn.Body))
	}
	cats := make([]string, 0, len(mod.Helpers))
	for c := range mod.Helpers {
		cats = append(cats, c)
	}
	fmt.Fprintf(&sb, "helpers: %s\n", strings.Join(cats, ", "))
	return sb.String()
}

func printDiagnostics(items []*diag.Diagnostic) {
	fmt.Fprint(os.Stderr, diag.Format(items, true))
	fmt.Fprintln(os.Stderr)
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
