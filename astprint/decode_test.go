package astprint

import (
	"testing"

	"cmipsc/ast"
)

func TestDecodeRoundTripsSimpleFunction(t *testing.T) {
	roots := []ast.Node{
		&ast.FunctionDefinition{
			Type: "int",
			Name: &ast.Variable{ID: "main"},
			Body: &ast.CompoundStatement{
				Body: &ast.StatementList{
					Head: &ast.Return{Value: &ast.Additive{
						Op:  ast.AddOp,
						Lhs: &ast.IntegerConstant{Value: 5},
						Rhs: &ast.IntegerConstant{Value: 7},
					}},
				},
			},
		},
	}

	encoded, err := JSON(roots)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	decoded, err := Decode([]byte(encoded))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 root, got %d", len(decoded))
	}

	fn, ok := decoded[0].(*ast.FunctionDefinition)
	if !ok {
		t.Fatalf("expected *ast.FunctionDefinition, got %T", decoded[0])
	}
	if fn.Name.ID != "main" || fn.Type != "int" {
		t.Fatalf("unexpected function header: %+v", fn)
	}
	ret, ok := fn.Body.Body.Head.(*ast.Return)
	if !ok {
		t.Fatalf("expected a Return statement, got %T", fn.Body.Body.Head)
	}
	add, ok := ret.Value.(*ast.Additive)
	if !ok || add.Op != ast.AddOp {
		t.Fatalf("expected an AdditiveExpression(+), got %+v", ret.Value)
	}
	lhs, ok := add.Lhs.(*ast.IntegerConstant)
	if !ok || lhs.Value != 5 {
		t.Fatalf("expected lhs constant 5, got %+v", add.Lhs)
	}
}

func TestDecodeRoundTripsGlobalsAndArray(t *testing.T) {
	roots := []ast.Node{
		&ast.DeclarationList{Type: "int", Head: &ast.DeclarationNode{
			Var: &ast.Variable{ID: "g", Info: ast.VarNormal}, Init: &ast.IntegerConstant{Value: 3},
		}},
		&ast.DeclarationList{Type: "int", Head: &ast.DeclarationNode{
			Var: &ast.Variable{ID: "a", Info: ast.VarArray, IndexOrSize: &ast.IntegerConstant{Value: 4}},
		}},
	}

	encoded, err := JSON(roots)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	decoded, err := Decode([]byte(encoded))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(decoded))
	}
	arrDecl, ok := decoded[1].(*ast.DeclarationList)
	if !ok {
		t.Fatalf("expected *ast.DeclarationList, got %T", decoded[1])
	}
	if arrDecl.Head.Var.Info != ast.VarArray {
		t.Fatalf("expected array info to survive the round trip")
	}
	size, ok := arrDecl.Head.Var.IndexOrSize.(*ast.IntegerConstant)
	if !ok || size.Value != 4 {
		t.Fatalf("expected array size constant 4, got %+v", arrDecl.Head.Var.IndexOrSize)
	}
}

func TestDecodeRejectsUnknownNodeType(t *testing.T) {
	_, err := Decode([]byte(`[{"type":"NotARealNode"}]`))
	if err == nil {
		t.Fatalf("expected an error for an unknown node type")
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	if err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}

func TestDecodeFunctionCallAndCompoundAssignment(t *testing.T) {
	roots := []ast.Node{
		&ast.FunctionCall{CalleeID: "f", Args: &ast.ParametersList{
			Head: &ast.IntegerConstant{Value: 1},
			Tail: &ast.ParametersList{Head: &ast.Variable{ID: "x"}},
		}},
		&ast.Assignment{Target: &ast.Variable{ID: "x"}, Op: ast.AssignAdd, Rhs: &ast.IntegerConstant{Value: 1}},
	}
	encoded, err := JSON(roots)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	decoded, err := Decode([]byte(encoded))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	call, ok := decoded[0].(*ast.FunctionCall)
	if !ok || call.CalleeID != "f" || len(call.Args.Params()) != 2 {
		t.Fatalf("unexpected call decode: %+v", decoded[0])
	}
	asg, ok := decoded[1].(*ast.Assignment)
	if !ok || asg.Op != ast.AssignAdd || asg.Target.ID != "x" {
		t.Fatalf("unexpected assignment decode: %+v", decoded[1])
	}
}
