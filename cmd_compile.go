package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"cmipsc/astprint"
	"cmipsc/codegen"
)

// compileCmd implements the `compile` verb (spec.md §6): read an AST
// document and emit one textual MIPS32 assembly file.
//
// Parsing C source is an external collaborator's job (spec.md §1); this
// verb's input is the AST that collaborator already produced, serialized
// in astprint's own JSON schema, the same schema -print-ast writes out.
type compileCmd struct {
	source   string
	dest     string
	printAST bool
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile an AST document to MIPS32 assembly" }
func (*compileCmd) Usage() string {
	return `compile -S <ast.json> -o <dest.s>:
  Compile the AST document at <ast.json> to a MIPS32 assembly file at <dest.s>.
`
}

func (c *compileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "S", "", "input AST document (JSON, astprint schema)")
	f.StringVar(&c.dest, "o", "", "output assembly path")
	f.BoolVar(&c.printAST, "print-ast", false, "pretty-print the parsed AST to stdout before compiling")
}

func (c *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) (status subcommands.ExitStatus) {
	if c.source == "" || c.dest == "" {
		fmt.Fprintf(os.Stderr, "💥 both -S <ast.json> and -o <dest.s> are required\n")
		return subcommands.ExitFailure
	}

	// A defensive safety net mirroring the teacher's top-frame recovery
	// in ASTCompiler.CompileAST: codegen surfaces its three failure
	// classes as ordinary errors, but an unanticipated generator bug
	// (nil dereference, out-of-range slice) still reaches here as a
	// panic rather than crashing the process uncontrolled.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "💥 internal error: %v\n", r)
			status = subcommands.ExitStatus(2)
		}
	}()

	data, err := os.ReadFile(c.source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read AST document: %v\n", err)
		return subcommands.ExitFailure
	}

	roots, err := astprint.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to decode AST document: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.printAST {
		if _, err := astprint.PrintJSON(roots); err != nil {
			fmt.Fprintf(os.Stderr, "💥 failed to print AST: %v\n", err)
		}
	}

	out, err := os.Create(c.dest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to create output file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	if err := codegen.Generate(roots, out); err != nil {
		return exitStatusForGenerateErr(err)
	}

	return subcommands.ExitSuccess
}

// exitStatusForGenerateErr maps the three failure classes of spec.md §7
// onto process exit codes: usage/I-O errors exit 1, while the two
// compiler-internal classes (unsupported program, invariant violation)
// are hard aborts with distinct non-zero codes so a caller can tell them
// apart, the way the teacher's SemanticError/DeveloperError pair does.
func exitStatusForGenerateErr(err error) subcommands.ExitStatus {
	var unsupportedErr *codegen.UnsupportedProgramError
	var internalErr *codegen.InternalError

	switch {
	case errors.As(err, &unsupportedErr):
		fmt.Fprintf(os.Stderr, "💥 unsupported program: %v\n", err)
		return subcommands.ExitStatus(3)
	case errors.As(err, &internalErr):
		fmt.Fprintf(os.Stderr, "🤖 internal error: %v\n", err)
		return subcommands.ExitStatus(2)
	default:
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}
}
