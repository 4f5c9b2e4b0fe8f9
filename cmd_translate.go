package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

// translateCmd is the AST-to-Python path named in spec.md §6's CLI
// contract. It is out of scope for this module beyond fixing the verb's
// presence and its refusal message.
type translateCmd struct {
	source string
	dest   string
}

func (*translateCmd) Name() string     { return "translate" }
func (*translateCmd) Synopsis() string { return "(not part of this build) translate an AST to Python" }
func (*translateCmd) Usage() string {
	return `translate --translate <ast.json> -o <dest.py>:
  Not part of this build.
`
}

func (c *translateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "translate", "", "input AST document (JSON, astprint schema)")
	f.StringVar(&c.dest, "o", "", "output Python path")
}

func (c *translateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return fatalf("💥 translate: not part of this build")
}
