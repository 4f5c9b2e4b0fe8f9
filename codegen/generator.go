package codegen

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"cmipsc/ast"
)

// Generator orchestrates the two-pass root-level emission described in
// spec.md §4.5.5: a first pass populates the global environment and
// writes `.data`, a second pass writes `.text`. It holds the single
// register allocator shared across the whole compilation (spec.md §5).
type Generator struct {
	Env  *GlobalEnvironment
	Regs *RegisterAllocator

	data bytes.Buffer
	text bytes.Buffer
}

// NewGenerator returns a Generator with a fresh environment and
// register allocator.
func NewGenerator() *Generator {
	return &Generator{
		Env:  NewGlobalEnvironment(),
		Regs: NewRegisterAllocator(),
	}
}

// Generate compiles roots to textual MIPS32 assembly and writes it to w.
func Generate(roots []ast.Node, w io.Writer) error {
	return NewGenerator().Generate(roots, w)
}

// Generate runs both passes over roots and writes the assembled output
// (`.data` section followed by `.text` section) to w.
func (g *Generator) Generate(roots []ast.Node, w io.Writer) error {
	for _, root := range roots {
		if err := g.emitDataRoot(root); err != nil {
			return err
		}
	}

	fmt.Fprintln(&g.text, "\t.text")
	ids := append([]string{}, g.Env.AllIDs()...)
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&g.text, "\t.globl %s\n", id)
	}

	for _, root := range roots {
		fd, ok := root.(*ast.FunctionDefinition)
		if !ok {
			continue
		}
		fmt.Fprintf(&g.text, "\t.globl %s\n", fd.Name.ID)
		if err := g.emitFunctionDefinition(fd); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "\t.data\n"); err != nil {
		return err
	}
	if _, err := g.data.WriteTo(w); err != nil {
		return err
	}
	if _, err := g.text.WriteTo(w); err != nil {
		return err
	}
	return nil
}

// emitDataRoot handles one root-level node during the first pass:
// declarations and enums are registered and written to `.data`;
// prototypes are recorded as extern functions; function definitions are
// deferred entirely to the second pass.
func (g *Generator) emitDataRoot(root ast.Node) error {
	switch n := root.(type) {
	case *ast.DeclarationList:
		return g.emitGlobalDeclarationList(n)
	case *ast.EnumList:
		return g.emitGlobalEnumList(n)
	case *ast.FunctionDeclaration:
		g.Env.AddExternFunction(n.Name.ID)
		return nil
	case *ast.FunctionDefinition:
		return nil
	default:
		return unsupported(root.Kind(), "", "unsupported root-level declaration")
	}
}

func (g *Generator) emitGlobalDeclarationList(list *ast.DeclarationList) error {
	for _, d := range list.Head.Decls() {
		id := d.Var.ID
		switch d.Var.Info {
		case ast.VarArray:
			size, err := FoldConstant(d.Var.IndexOrSize)
			if err != nil {
				return err
			}
			if err := g.Env.AddGlobal(id, CategoryArray); err != nil {
				return err
			}
			fmt.Fprintf(&g.data, "%s:\n\t.space %d\n", id, wordSize*int(size))

		case ast.VarPointer:
			val, err := foldOrZero(d.Init)
			if err != nil {
				return err
			}
			if err := g.Env.AddGlobal(id, CategoryPointer); err != nil {
				return err
			}
			fmt.Fprintf(&g.data, "%s:\n\t.word %d\n", id, val)

		default:
			val, err := foldOrZero(d.Init)
			if err != nil {
				return err
			}
			if err := g.Env.AddGlobal(id, CategoryNormal); err != nil {
				return err
			}
			fmt.Fprintf(&g.data, "%s:\n\t.word %d\n", id, val)
		}
	}
	return nil
}

// emitGlobalEnumList assigns each enumerator a value — the next
// sequential integer, or the folded value of its own initializer when
// one is given, which resets the sequence for subsequent entries.
func (g *Generator) emitGlobalEnumList(list *ast.EnumList) error {
	next := int32(0)
	for _, e := range list.Decls() {
		val := next
		if e.Init != nil {
			v, err := FoldConstant(e.Init)
			if err != nil {
				return err
			}
			val = v
		}
		if err := g.Env.AddGlobal(e.ID, CategoryEnum); err != nil {
			return err
		}
		fmt.Fprintf(&g.data, "%s:\n\t.word %d\n", e.ID, val)
		next = val + 1
	}
	return nil
}

func foldOrZero(init ast.Node) (int32, error) {
	if init == nil {
		return 0, nil
	}
	return FoldConstant(init)
}

// emit writes one indented instruction line to the `.text` buffer.
func (g *Generator) emit(format string, args ...any) {
	fmt.Fprintf(&g.text, "\t"+format+"\n", args...)
}

// rawLine writes format to `.text` with no automatic indentation, for
// assembler directives and labels.
func (g *Generator) rawLine(format string, args ...any) {
	fmt.Fprintf(&g.text, format+"\n", args...)
}

// label writes a bare "name:" line.
func (g *Generator) label(name string) {
	fmt.Fprintf(&g.text, "%s:\n", name)
}

// nop emits a single delay-slot filler.
func (g *Generator) nop() {
	g.emit("nop")
}
