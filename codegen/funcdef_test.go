package codegen

import (
	"strings"
	"testing"

	"cmipsc/ast"
)

func TestEmitFunctionDefinitionPragmasAndFrame(t *testing.T) {
	g := NewGenerator()
	fn := &ast.FunctionDefinition{
		Type: "int",
		Name: &ast.Variable{ID: "add"},
		Args: &ast.ArgumentList{Head: &ast.Variable{ID: "a"}, Tail: &ast.ArgumentList{Head: &ast.Variable{ID: "b"}}},
		Body: compound(&ast.Return{Value: &ast.Additive{Op: ast.AddOp, Lhs: v("a"), Rhs: v("b")}}),
	}
	if err := g.emitFunctionDefinition(fn); err != nil {
		t.Fatalf("emitFunctionDefinition: %v", err)
	}
	out := g.textString()

	for _, want := range []string{
		"\t.align 2", "\t.set nomips16", "\t.set nomicromips",
		"\t.ent add", "\t.type add, @function", "add:",
		"\t.set macro", "\t.set reorder", "\t.end add", "\t.size add, .-add",
		"addiu $sp, $sp, -", "sw $ra,", "sw $fp,", "move $fp, $sp",
		"j $ra",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestEmitFunctionDefinitionMainSkipsArgumentSpill(t *testing.T) {
	g := NewGenerator()
	fn := &ast.FunctionDefinition{
		Type: "int",
		Name: &ast.Variable{ID: "main"},
		Body: compound(&ast.Return{Value: intc(0)}),
	}
	if err := g.emitFunctionDefinition(fn); err != nil {
		t.Fatalf("emitFunctionDefinition: %v", err)
	}
	out := g.textString()
	if strings.Contains(out, "$a0") {
		t.Fatalf("did not expect main to spill/reload argument registers, got:\n%s", out)
	}
}

// A function with many sequential calls must not exhaust the frame's
// fixed spill budget: each call's spill scope is entered and exited
// around that call alone, so sibling calls reuse the same slots.
func TestEmitFunctionDefinitionManySequentialCallsFitInFixedFrame(t *testing.T) {
	g := NewGenerator()
	g.Env.AddExternFunction("f")

	body := make([]ast.Node, 0, 20)
	for i := 0; i < 20; i++ {
		body = append(body, &ast.FunctionCall{
			CalleeID: "f",
			Args:     &ast.ParametersList{Head: v("a")},
		})
	}
	body = append(body, &ast.Return{Value: intc(0)})

	fn := &ast.FunctionDefinition{
		Type: "int",
		Name: &ast.Variable{ID: "many_calls"},
		Args: &ast.ArgumentList{Head: &ast.Variable{ID: "a"}},
		Body: compound(body...),
	}
	if err := g.emitFunctionDefinition(fn); err != nil {
		t.Fatalf("emitFunctionDefinition with 20 sequential calls: %v", err)
	}
}

func TestEmitFunctionDefinitionFrameAccountsForLocals(t *testing.T) {
	g := NewGenerator()
	fn := &ast.FunctionDefinition{
		Type: "int",
		Name: &ast.Variable{ID: "locals"},
		Body: compound(
			&ast.DeclarationList{Type: "int", Head: &ast.DeclarationNode{Var: v("x"), Init: intc(1)}},
			&ast.DeclarationList{Type: "int", Head: &ast.DeclarationNode{Var: v("y"), Init: intc(2)}},
			&ast.Return{Value: v("x")},
		),
	}
	declBytes, err := CountDeclarationBytes(fn.Body)
	if err != nil {
		t.Fatalf("CountDeclarationBytes: %v", err)
	}
	if declBytes != 8 {
		t.Fatalf("expected 8 declaration bytes for two ints, got %d", declBytes)
	}
	if err := g.emitFunctionDefinition(fn); err != nil {
		t.Fatalf("emitFunctionDefinition: %v", err)
	}
	wantFrame := declBytes + 6*wordSize + 8*wordSize + 20*wordSize
	want := "addiu $sp, $sp, -" + itoa(wantFrame)
	if !strings.Contains(g.textString(), want) {
		t.Fatalf("expected frame size %d reflected as %q, got:\n%s", wantFrame, want, g.textString())
	}
}
