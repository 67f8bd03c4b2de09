// Package cmd implements btrc's Cobra CLI (spec.md §6.1), adapted from
// go-dws's cmd/dwscript/cmd package: the same package-level rootCmd var,
// init()-registered flags, and Execute() entry point, collapsed from
// go-dws's multi-subcommand surface (run/lex/parse/fmt) down to the single
// `btrc <src> [flags]` command spec.md §6.1 names.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "btrc <source.btrc>",
	Short: "btrc — a source-to-C transpiler",
	Long: `btrc compiles a statically-typed, object-oriented source language
(classes, interfaces, generics, enums, lambdas, operator overloading,
properties, f-strings, exceptions, ARC, nullable types, tuples, and
collections) to portable C.

The pipeline runs six stages: Lexer, Parser, Analyzer, IR Generator,
IR Optimizer, and C Emitter, driven by an external EBNF grammar file and
an ASDL node-shape document.`,
	Version:      Version,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runCompile,
}

func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if ee, ok := err.(exitError); ok {
			return ee.code
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write emitted C to this path instead of stdout")
	rootCmd.Flags().BoolVar(&flagEmitTokens, "emit-tokens", false, "dump the token stream, one per line, and stop")
	rootCmd.Flags().BoolVar(&flagEmitAST, "emit-ast", false, "dump the canonical AST and stop")
	rootCmd.Flags().BoolVar(&flagEmitIR, "emit-ir", false, "dump IR after generation, before optimization, and stop")
	rootCmd.Flags().BoolVar(&flagEmitOptimizedIR, "emit-optimized-ir", false, "dump IR after optimization and stop")
	rootCmd.Flags().StringVar(&flagDumpDir, "dump-dir", "", "write the requested --emit-* artifact to a file under this directory instead of stdout")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "disabled", "zerolog level for internal stage-timing diagnostics (disabled, debug, info, warn, error)")
	rootCmd.Flags().StringSliceVar(&flagIncludePaths, "include-path", nil, "additional search directory for include resolution (repeatable)")
	rootCmd.Flags().StringVar(&flagGrammarPath, "grammar", "grammar/btrc.ebnf", "path to the EBNF grammar file")

	rootCmd.AddCommand(versionCmd)
}

// exitError carries the process exit code spec.md §6.1 assigns (1 user
// error, 2 compile error, 3 internal compiler error) through Cobra's plain
// error-returning RunE back to main().
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }

func newExitError(code int, format string, args ...any) error {
	return exitError{code: code, err: fmt.Errorf(format, args...)}
}
