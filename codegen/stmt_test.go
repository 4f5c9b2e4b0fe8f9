package codegen

import (
	"strings"
	"testing"

	"cmipsc/ast"
)

func TestLowerIfEmitsElseAndEndLabels(t *testing.T) {
	g, fc := newTestGenerator()
	ifStmt := &ast.If{
		Cond:     intc(1),
		ThenBody: compound(&ast.Return{Value: intc(1)}),
		ElseBody: compound(&ast.Return{Value: intc(2)}),
	}
	if err := g.lowerStmt(fc, ifStmt); err != nil {
		t.Fatalf("lowerStmt: %v", err)
	}
	out := g.textString()
	if !strings.Contains(out, "_top_else_") || !strings.Contains(out, "_end_if_") {
		t.Fatalf("expected top_else/end_if labels, got:\n%s", out)
	}
	if !strings.Contains(out, "beqz") {
		t.Fatalf("expected a beqz branch over the then-branch, got:\n%s", out)
	}
}

func TestLowerWhileBranchesBackToTop(t *testing.T) {
	g, fc := newTestGenerator()
	w := &ast.While{Cond: intc(1), Body: compound(&ast.Break{})}
	if err := g.lowerStmt(fc, w); err != nil {
		t.Fatalf("lowerStmt: %v", err)
	}
	out := g.textString()
	if !strings.Contains(out, "_top_while_") || !strings.Contains(out, "_end_while_") {
		t.Fatalf("expected top_while/end_while labels, got:\n%s", out)
	}
	if !strings.Contains(out, "\tb _top_while_") {
		t.Fatalf("expected the loop body to branch back to top_while, got:\n%s", out)
	}
}

func TestLowerBreakOutsideLoopFails(t *testing.T) {
	g, fc := newTestGenerator()
	if err := g.lowerStmt(fc, &ast.Break{}); err == nil {
		t.Fatalf("expected an error for break outside any construct")
	}
}

func TestLowerContinueSkipsEnclosingSwitch(t *testing.T) {
	g, fc := newTestGenerator()
	// for (;;) { switch (1) { default: continue; } }
	continueInSwitch := &ast.Switch{
		Test: intc(1),
		Body: &ast.CaseList{Head: &ast.Default{Body: stmtList(&ast.Continue{})}},
	}
	forStmt := &ast.For{
		Init:      &ast.EmptyExpression{},
		Cond:      &ast.EmptyExpression{},
		Increment: &ast.EmptyExpression{},
		Body:      compound(continueInSwitch),
	}
	if err := g.lowerStmt(fc, forStmt); err != nil {
		t.Fatalf("lowerStmt: %v", err)
	}
	out := g.textString()
	if !strings.Contains(out, "_top_increment_") {
		t.Fatalf("expected continue to target the for's top_increment label, got:\n%s", out)
	}
}

func TestLowerDeclarationListArrayReservesFrameSpace(t *testing.T) {
	g, fc := newTestGenerator()
	decl := &ast.DeclarationList{Type: "int", Head: &ast.DeclarationNode{
		Var: &ast.Variable{ID: "a", Info: ast.VarArray, IndexOrSize: intc(4)},
	}}
	if err := g.lowerStmt(fc, decl); err != nil {
		t.Fatalf("lowerStmt: %v", err)
	}
	size, ok := fc.ArraySizeOf("a")
	if !ok || size != 4 {
		t.Fatalf("expected array a to be reserved with size 4, got %d, %v", size, ok)
	}
}

func TestLowerSwitchNoDefaultOmitsFallthroughGate(t *testing.T) {
	g, fc := newTestGenerator()
	sw := &ast.Switch{
		Test: intc(1),
		Body: &ast.CaseList{Head: &ast.Case{LabelExpr: intc(1), Body: stmtList(&ast.Break{})}},
	}
	if err := g.lowerStmt(fc, sw); err != nil {
		t.Fatalf("lowerStmt: %v", err)
	}
	out := g.textString()
	if strings.Contains(out, "_top_default_") {
		t.Fatalf("did not expect a top_default label without a default: clause, got:\n%s", out)
	}
}
