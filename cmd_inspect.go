package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
)

// inspectCmd is a read-only debugging REPL over an already-generated
// assembly file: it lets a user step label-by-label through the
// instruction stream emitted by `compile`, the way spec.md §4.5 orders
// emission and §9 discusses delay slots. It never re-invokes the
// generator; it only reads the text `compile -o` already wrote.
type inspectCmd struct{}

func (*inspectCmd) Name() string     { return "inspect" }
func (*inspectCmd) Synopsis() string { return "Step through a generated assembly file" }
func (*inspectCmd) Usage() string {
	return `inspect <file.s>:
  Open an interactive, read-only REPL over a generated assembly file.
`
}

func (*inspectCmd) SetFlags(f *flag.FlagSet) {}

// asmBlock is one label and the instruction lines that follow it, up to
// (but not including) the next label.
type asmBlock struct {
	label string
	lines []string
}

func loadAsmBlocks(r io.Reader) ([]asmBlock, error) {
	scanner := bufio.NewScanner(r)
	var blocks []asmBlock
	current := asmBlock{label: "(start)"}
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasSuffix(trimmed, ":") && !strings.HasPrefix(trimmed, ".") {
			blocks = append(blocks, current)
			current = asmBlock{label: strings.TrimSuffix(trimmed, ":")}
			continue
		}
		current.lines = append(current.lines, line)
	}
	blocks = append(blocks, current)
	return blocks, scanner.Err()
}

func (c *inspectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 assembly file not provided\n")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to open assembly file: %v\n", err)
		return subcommands.ExitFailure
	}
	blocks, err := loadAsmBlocks(file)
	file.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read assembly file: %v\n", err)
		return subcommands.ExitFailure
	}

	rl, err := readline.New("inspect> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start inspector: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%d labeled block(s) loaded from %s. Type 'help' for commands.\n", len(blocks), args[0])

	cursor := 0
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF (ctrl-d) or readline.ErrInterrupt (ctrl-c)
			return subcommands.ExitSuccess
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			fmt.Fprintln(rl.Stdout(), "commands: list, next, goto <label>, labels, exit")
		case "exit", "quit":
			return subcommands.ExitSuccess
		case "labels":
			for i, b := range blocks {
				fmt.Fprintf(rl.Stdout(), "%3d: %s\n", i, b.label)
			}
		case "list":
			printBlock(rl.Stdout(), blocks[cursor])
		case "next":
			if cursor+1 >= len(blocks) {
				fmt.Fprintln(rl.Stdout(), "already at the last block")
				continue
			}
			cursor++
			printBlock(rl.Stdout(), blocks[cursor])
		case "goto":
			if len(fields) < 2 {
				fmt.Fprintln(rl.Stdout(), "usage: goto <label>")
				continue
			}
			idx := findBlock(blocks, fields[1])
			if idx < 0 {
				fmt.Fprintf(rl.Stdout(), "no such label: %s\n", fields[1])
				continue
			}
			cursor = idx
			printBlock(rl.Stdout(), blocks[cursor])
		default:
			fmt.Fprintf(rl.Stdout(), "unknown command: %s (try 'help')\n", fields[0])
		}
	}
}

func findBlock(blocks []asmBlock, label string) int {
	for i, b := range blocks {
		if b.label == label {
			return i
		}
	}
	return -1
}

func printBlock(w io.Writer, b asmBlock) {
	fmt.Fprintf(w, "%s:\n", b.label)
	for _, line := range b.lines {
		fmt.Fprintln(w, line)
	}
}
