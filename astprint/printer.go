// Package astprint renders an ast.Node tree as prettified JSON for
// debugging. It is a type-switch based descendant of the teacher
// repository's visitor-based AST printer: here the dispatch is a
// switch on the concrete Go type instead of a Visit method per type,
// matching the rest of this module's AST traversal style.
package astprint

import (
	"encoding/json"
	"fmt"
	"os"

	"cmipsc/ast"
)

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// Node converts a single AST node into a JSON-marshalable value. The
// same input always produces the same output: every branch below reads
// only from its argument, so two consecutive calls on identical trees
// are byte-identical once marshaled.
func Node(n ast.Node) any {
	if n == nil {
		return nil
	}

	switch v := n.(type) {
	case *ast.IntegerConstant:
		return obj(v, "value", v.Value)

	case *ast.Variable:
		m := obj(v, "id", v.ID, "info", v.Info.String())
		if v.IndexOrSize != nil {
			m["indexOrSize"] = Node(v.IndexOrSize)
		}
		return m

	case *ast.Unary:
		return obj(v, "op", v.Op.String(), "operand", Node(v.Operand))

	case *ast.Postfix:
		return obj(v, "op", v.Op.String(), "operand", Node(v.Operand))

	case *ast.Multiplicative:
		return obj(v, "op", v.Op.String(), "lhs", Node(v.Lhs), "rhs", Node(v.Rhs))

	case *ast.Additive:
		return obj(v, "op", v.Op.String(), "lhs", Node(v.Lhs), "rhs", Node(v.Rhs))

	case *ast.Shift:
		return obj(v, "op", v.Op.String(), "lhs", Node(v.Lhs), "rhs", Node(v.Rhs))

	case *ast.Relational:
		return obj(v, "op", v.Op.String(), "lhs", Node(v.Lhs), "rhs", Node(v.Rhs))

	case *ast.Equality:
		return obj(v, "op", v.Op.String(), "lhs", Node(v.Lhs), "rhs", Node(v.Rhs))

	case *ast.And:
		return obj(v, "lhs", Node(v.Lhs), "rhs", Node(v.Rhs))

	case *ast.ExclusiveOr:
		return obj(v, "lhs", Node(v.Lhs), "rhs", Node(v.Rhs))

	case *ast.InclusiveOr:
		return obj(v, "lhs", Node(v.Lhs), "rhs", Node(v.Rhs))

	case *ast.LogicalAnd:
		return obj(v, "lhs", Node(v.Lhs), "rhs", Node(v.Rhs))

	case *ast.LogicalOr:
		return obj(v, "lhs", Node(v.Lhs), "rhs", Node(v.Rhs))

	case *ast.Conditional:
		return obj(v, "cond", Node(v.Cond), "then", Node(v.Then), "else", Node(v.Else))

	case *ast.Assignment:
		return obj(v, "target", Node(v.Target), "op", v.Op.String(), "rhs", Node(v.Rhs))

	case *ast.FunctionCall:
		return obj(v, "callee", v.CalleeID, "args", paramsList(v.Args))

	case *ast.EmptyExpression:
		return obj(v)

	case *ast.Return:
		m := obj(v)
		if v.Value != nil {
			m["value"] = Node(v.Value)
		}
		return m

	case *ast.Break:
		return obj(v)

	case *ast.Continue:
		return obj(v)

	case *ast.If:
		m := obj(v, "cond", Node(v.Cond), "then", Node(v.ThenBody))
		if v.ElseBody != nil {
			m["else"] = Node(v.ElseBody)
		}
		return m

	case *ast.While:
		return obj(v, "cond", Node(v.Cond), "body", Node(v.Body))

	case *ast.For:
		return obj(v,
			"init", Node(v.Init),
			"cond", Node(v.Cond),
			"increment", Node(v.Increment),
			"body", Node(v.Body))

	case *ast.Switch:
		return obj(v, "test", Node(v.Test), "cases", caseList(v.Body))

	case *ast.Case:
		m := obj(v, "label", Node(v.LabelExpr))
		if v.Body != nil {
			m["body"] = stmtList(v.Body)
		}
		return m

	case *ast.Default:
		m := obj(v)
		if v.Body != nil {
			m["body"] = stmtList(v.Body)
		}
		return m

	case *ast.CompoundStatement:
		m := obj(v)
		m["body"] = stmtList(v.Body)
		return m

	case *ast.DeclarationList:
		decls := []any{}
		for _, d := range v.Head.Decls() {
			decls = append(decls, declNode(d))
		}
		return obj(v, "cType", v.Type, "decls", decls)

	case *ast.FunctionDeclaration:
		return obj(v, "cType", v.Type, "name", Node(v.Name), "args", argNames(v.Args))

	case *ast.FunctionDefinition:
		return obj(v,
			"cType", v.Type,
			"name", Node(v.Name),
			"args", argNames(v.Args),
			"body", Node(v.Body))

	case *ast.EnumList:
		decls := []any{}
		for _, d := range v.Decls() {
			m := map[string]any{"type": "EnumDecl", "id": d.ID}
			if d.Init != nil {
				m["init"] = Node(d.Init)
			}
			decls = append(decls, m)
		}
		return obj(v, "decls", decls)

	default:
		return fmt.Sprintf("<unprintable:%s>", n.Kind())
	}
}

func declNode(d *ast.DeclarationNode) map[string]any {
	m := map[string]any{"type": "DeclarationNode", "var": Node(d.Var)}
	if d.Init != nil {
		m["init"] = Node(d.Init)
	}
	return m
}

func argNames(args *ast.ArgumentList) []string {
	if args == nil {
		return []string{}
	}
	names := args.Names()
	if names == nil {
		return []string{}
	}
	return names
}

func stmtList(l *ast.StatementList) []any {
	if l == nil {
		return []any{}
	}
	out := []any{}
	for _, s := range l.Statements() {
		out = append(out, Node(s))
	}
	return out
}

func caseList(l *ast.CaseList) []any {
	if l == nil {
		return []any{}
	}
	out := []any{}
	for _, c := range l.Cases() {
		out = append(out, Node(c))
	}
	return out
}

func paramsList(l *ast.ParametersList) []any {
	if l == nil {
		return []any{}
	}
	out := []any{}
	for _, p := range l.Params() {
		out = append(out, Node(p))
	}
	return out
}

func obj(n ast.Node, kv ...any) map[string]any {
	m := map[string]any{"type": n.Kind()}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		m[key] = kv[i+1]
	}
	return m
}

// Roots renders a slice of root-level AST nodes into a JSON-marshalable
// slice, one entry per root.
func Roots(roots []ast.Node) []any {
	out := make([]any, 0, len(roots))
	for _, r := range roots {
		out = append(out, Node(r))
	}
	return out
}

// PrintJSON renders roots as prettified JSON and writes it to stdout,
// mirroring the teacher's colorized debug dump.
func PrintJSON(roots []ast.Node) (string, error) {
	out, err := JSON(roots)
	if err != nil {
		return "", err
	}
	fmt.Println(colorYellow + "----- AST JSON -----")
	fmt.Println(colorYellow + out)
	fmt.Println(colorYellow + "-----" + colorReset)
	return out, nil
}

// JSON renders roots as prettified JSON without printing it.
func JSON(roots []ast.Node) (string, error) {
	bytes, err := json.MarshalIndent(Roots(roots), "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WriteJSONToFile writes the prettified AST JSON for roots to path.
func WriteJSONToFile(roots []ast.Node, path string) error {
	out, err := JSON(roots)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer f.Close()
	if _, err := f.WriteString(out); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}
