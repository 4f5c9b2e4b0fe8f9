package codegen

import (
	"bytes"
	"strings"
	"testing"

	"cmipsc/ast"
)

func newTestGenerator() (*Generator, *FunctionContext) {
	g := NewGenerator()
	fc := NewFunctionContext("f", 0, "_f_epilogue_0")
	fc.EnterScope()
	return g, fc
}

func (g *Generator) textString() string {
	var b bytes.Buffer
	b.Write(g.text.Bytes())
	return b.String()
}

func TestLowerExprIntegerConstant(t *testing.T) {
	g, fc := newTestGenerator()
	if err := g.lowerExpr(fc, intc(42), "$t0"); err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	if !strings.Contains(g.textString(), "li $t0, 42") {
		t.Fatalf("expected li $t0, 42, got:\n%s", g.textString())
	}
}

func TestLowerExprLocalVariableRoundTrip(t *testing.T) {
	g, fc := newTestGenerator()
	if _, err := fc.PlaceLocal("x"); err != nil {
		t.Fatalf("PlaceLocal: %v", err)
	}
	off, _ := fc.OffsetOf("x")

	if err := g.storeVariable(fc, v("x"), "$t1"); err != nil {
		t.Fatalf("storeVariable: %v", err)
	}
	if err := g.loadVariable(fc, v("x"), "$t2"); err != nil {
		t.Fatalf("loadVariable: %v", err)
	}

	out := g.textString()
	wantStore := "sw $t1, " + FPOperand(off)
	wantLoad := "lw $t2, " + FPOperand(off)
	if !strings.Contains(out, wantStore) {
		t.Fatalf("expected %q, got:\n%s", wantStore, out)
	}
	if !strings.Contains(out, wantLoad) {
		t.Fatalf("expected %q, got:\n%s", wantLoad, out)
	}
}

func TestLowerExprGlobalVariableUsesHiLo(t *testing.T) {
	g, fc := newTestGenerator()
	g.Env.AddGlobal("g", CategoryNormal)

	if err := g.loadVariable(fc, v("g"), "$t0"); err != nil {
		t.Fatalf("loadVariable: %v", err)
	}
	out := g.textString()
	if !strings.Contains(out, "%hi(g)") || !strings.Contains(out, "%lo(g)") {
		t.Fatalf("expected %%hi/%%lo addressing for global g, got:\n%s", out)
	}
}

func TestLowerExprUndeclaredVariableFails(t *testing.T) {
	g, fc := newTestGenerator()
	err := g.loadVariable(fc, v("nope"), "$t0")
	if err == nil {
		t.Fatalf("expected an error for an undeclared identifier")
	}
	if _, ok := err.(*UnsupportedProgramError); !ok {
		t.Fatalf("expected *UnsupportedProgramError, got %T", err)
	}
}

func TestLowerShiftEmitsArithmeticShiftRight(t *testing.T) {
	g, fc := newTestGenerator()
	shr := &ast.Shift{Op: ast.ShrOp, Lhs: intc(-8), Rhs: intc(1)}
	if err := g.lowerExpr(fc, shr, "$t0"); err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	out := g.textString()
	if !strings.Contains(out, "srav") {
		t.Fatalf("expected srav (arithmetic shift) for runtime '>>', got:\n%s", out)
	}
	if strings.Contains(out, "srlv") {
		t.Fatalf("did not expect srlv (logical shift) at runtime, got:\n%s", out)
	}
}

func TestFoldConstantShiftRightIsLogical(t *testing.T) {
	// -8 >> 1 as a 32-bit logical shift is a large positive number, not -4.
	shr := &ast.Shift{Op: ast.ShrOp, Lhs: intc(-8), Rhs: intc(1)}
	got, err := FoldConstant(shr)
	if err != nil {
		t.Fatalf("FoldConstant: %v", err)
	}
	l := int32(-8)
	want := int32(uint32(l) >> 1)
	if got != want {
		t.Fatalf("expected logical shift result %d, got %d", want, got)
	}
}

func TestLowerUnaryAddressRequiresVariable(t *testing.T) {
	g, fc := newTestGenerator()
	un := &ast.Unary{Op: ast.UnaryAddr, Operand: intc(3)}
	err := g.lowerExpr(fc, un, "$t0")
	if err == nil {
		t.Fatalf("expected an error for &3")
	}
	if _, ok := err.(*UnsupportedProgramError); !ok {
		t.Fatalf("expected *UnsupportedProgramError, got %T", err)
	}
}

func TestLowerAssignmentCompoundAddLoadsBeforeStoring(t *testing.T) {
	g, fc := newTestGenerator()
	if _, err := fc.PlaceLocal("x"); err != nil {
		t.Fatalf("PlaceLocal: %v", err)
	}
	dest, err := g.Regs.RequestFree()
	if err != nil {
		t.Fatalf("RequestFree: %v", err)
	}
	asg := &ast.Assignment{Target: v("x"), Op: ast.AssignAdd, Rhs: intc(1)}
	if err := g.lowerExpr(fc, asg, dest); err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	out := g.textString()
	want := "addu " + dest + ", " + dest + ", $t1"
	if !strings.Contains(out, want) {
		t.Fatalf("expected compound add %q to combine loaded value with rhs, got:\n%s", want, out)
	}
}

func TestLowerConditionalBranchesAroundElse(t *testing.T) {
	g, fc := newTestGenerator()
	cond := &ast.Conditional{Cond: intc(1), Then: intc(2), Else: intc(3)}
	if err := g.lowerExpr(fc, cond, "$t0"); err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	out := g.textString()
	if !strings.Contains(out, "_cond_else_") || !strings.Contains(out, "_end_cond_") {
		t.Fatalf("expected cond_else/end_cond labels, got:\n%s", out)
	}
}
