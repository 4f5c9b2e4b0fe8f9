package astprint

import (
	"encoding/json"
	"testing"

	"cmipsc/ast"
)

func TestJSON_IntegerConstant(t *testing.T) {
	roots := []ast.Node{&ast.IntegerConstant{Value: 42}}

	out, err := JSON(roots)
	if err != nil {
		t.Fatalf("JSON error: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 root, got %d", len(decoded))
	}
	if decoded[0]["type"] != "IntegerConstant" {
		t.Fatalf("expected IntegerConstant, got %v", decoded[0]["type"])
	}
	if decoded[0]["value"] != float64(42) {
		t.Fatalf("expected value 42, got %v", decoded[0]["value"])
	}
}

func TestJSON_Additive(t *testing.T) {
	roots := []ast.Node{
		&ast.Additive{
			Op:  ast.AddOp,
			Lhs: &ast.IntegerConstant{Value: 1},
			Rhs: &ast.IntegerConstant{Value: 2},
		},
	}

	out, err := JSON(roots)
	if err != nil {
		t.Fatalf("JSON error: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	node := decoded[0]
	if node["type"] != "AdditiveExpression" {
		t.Fatalf("expected AdditiveExpression, got %v", node["type"])
	}
	if node["op"] != "+" {
		t.Fatalf("expected op '+', got %v", node["op"])
	}
	lhs, ok := node["lhs"].(map[string]any)
	if !ok || lhs["value"] != float64(1) {
		t.Fatalf("expected lhs value 1, got %v", node["lhs"])
	}
}

func TestJSON_Determinism(t *testing.T) {
	roots := []ast.Node{
		&ast.FunctionDefinition{
			Type: "int",
			Name: &ast.Variable{ID: "main"},
			Args: nil,
			Body: &ast.CompoundStatement{
				Body: &ast.StatementList{
					Head: &ast.Return{Value: &ast.IntegerConstant{Value: 0}},
				},
			},
		},
	}

	first, err := JSON(roots)
	if err != nil {
		t.Fatalf("JSON error: %v", err)
	}
	second, err := JSON(roots)
	if err != nil {
		t.Fatalf("JSON error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical output across calls, got:\n%s\n---\n%s", first, second)
	}
}

func TestJSON_VariableWithArraySubscript(t *testing.T) {
	roots := []ast.Node{
		&ast.Variable{
			ID:          "a",
			Info:        ast.VarArray,
			IndexOrSize: &ast.IntegerConstant{Value: 3},
		},
	}

	out, err := JSON(roots)
	if err != nil {
		t.Fatalf("JSON error: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	node := decoded[0]
	if node["info"] != "array" {
		t.Fatalf("expected info 'array', got %v", node["info"])
	}
	if _, ok := node["indexOrSize"]; !ok {
		t.Fatalf("expected indexOrSize to be present")
	}
}
