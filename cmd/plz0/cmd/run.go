package cmd

import (
	"fmt"
	"os"

	"github.com/plzero/plzero/internal/bytecode"
	"github.com/plzero/plzero/internal/errors"
	"github.com/plzero/plzero/internal/parser"
	"github.com/spf13/cobra"
)

var (
	evalExpr    string
	dumpAST     bool
	disassemble bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Parse, compile, and execute a plzero program",
	Long: `Run a plzero program from a file or inline expression.

Examples:
  # Run a script file
  plz0 run fib.pl0

  # Evaluate an inline expression
  plz0 run -e "fn f(n) { if n<=1 {1} else {f(n-1)+f(n-2)} }; f(10);"

  # Inspect the parsed AST and compiled bytecode
  plz0 run --dump-ast --disassemble fib.pl0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST before executing")
	runCmd.Flags().BoolVar(&disassemble, "disassemble", false, "print the compiled bytecode before executing")
}

func runScript(_ *cobra.Command, args []string) error {
	var source, filename string

	switch {
	case evalExpr != "":
		source, filename = evalExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		source = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline source")
	}

	program, err := parser.Parse(source)
	if err != nil {
		reportError(err, source)
		return fmt.Errorf("parsing failed")
	}

	if dumpAST {
		fmt.Println("AST:")
		fmt.Println(program.String())
		fmt.Println()
	}

	code, err := bytecode.Compile(program)
	if err != nil {
		reportError(err, source)
		return fmt.Errorf("compilation failed")
	}

	if disassemble {
		fmt.Fprintln(os.Stderr, "Bytecode:")
		bytecode.NewDisassembler(code, os.Stderr).Disassemble()
		fmt.Fprintln(os.Stderr)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[running %s, %d instructions]\n", filename, len(code))
	}

	result, err := bytecode.Run(code)
	if err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}

	fmt.Println(result)
	return nil
}

// reportError prints a lex/parse/compile error (or accumulated list of
// compile errors) with a caret pointing at the offending source.
func reportError(err error, source string) {
	var list errors.List
	if ok := asErrorList(err, &list); ok {
		for _, e := range list {
			fmt.Fprintln(os.Stderr, e.Format(source))
		}
		return
	}
	if e, ok := err.(*errors.Error); ok {
		fmt.Fprintln(os.Stderr, e.Format(source))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func asErrorList(err error, out *errors.List) bool {
	list, ok := err.(errors.List)
	if ok {
		*out = list
	}
	return ok
}
