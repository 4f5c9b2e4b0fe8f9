package astprint

import (
	"encoding/json"
	"fmt"

	"cmipsc/ast"
)

// Decode parses the JSON produced by JSON/PrintJSON back into root AST
// nodes. It is the CLI's substitute for an in-process parser: per
// spec.md §1 the parser is an external collaborator, so `compile`
// reads the AST it already produced, serialized in this package's
// schema, rather than re-deriving it from C source.
func Decode(data []byte) ([]ast.Node, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding AST document: %w", err)
	}
	out := make([]ast.Node, 0, len(raw))
	for _, r := range raw {
		n, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeNode(raw json.RawMessage) (ast.Node, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding AST node: %w", err)
	}
	kind, err := decodeString(m["type"])
	if err != nil {
		return nil, fmt.Errorf("AST node missing \"type\": %w", err)
	}

	switch kind {
	case "IntegerConstant":
		v, err := decodeInt64(m["value"])
		if err != nil {
			return nil, err
		}
		return &ast.IntegerConstant{Value: v}, nil

	case "Variable":
		id, err := decodeString(m["id"])
		if err != nil {
			return nil, err
		}
		infoStr, err := decodeString(m["info"])
		if err != nil {
			return nil, err
		}
		info, err := varInfoFromString(infoStr)
		if err != nil {
			return nil, err
		}
		idx, err := decodeOptionalNode(m["indexOrSize"])
		if err != nil {
			return nil, err
		}
		return &ast.Variable{ID: id, Info: info, IndexOrSize: idx}, nil

	case "UnaryExpression":
		op, err := decodeString(m["op"])
		if err != nil {
			return nil, err
		}
		operand, err := decodeRequiredNode(m["operand"])
		if err != nil {
			return nil, err
		}
		unOp, err := unaryOpFromString(op)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: unOp, Operand: operand}, nil

	case "PostfixExpression":
		op, err := decodeString(m["op"])
		if err != nil {
			return nil, err
		}
		operand, err := decodeRequiredNode(m["operand"])
		if err != nil {
			return nil, err
		}
		postOp := ast.PostfixIncr
		if op == "--" {
			postOp = ast.PostfixDecr
		}
		return &ast.Postfix{Op: postOp, Operand: operand}, nil

	case "MultiplicativeExpression":
		lhs, rhs, err := decodeBinaryOperands(m)
		if err != nil {
			return nil, err
		}
		op, err := decodeString(m["op"])
		if err != nil {
			return nil, err
		}
		var mOp ast.MultiplicativeOp
		switch op {
		case "*":
			mOp = ast.MulOp
		case "/":
			mOp = ast.DivOp
		case "%":
			mOp = ast.ModOp
		default:
			return nil, fmt.Errorf("unknown multiplicative operator %q", op)
		}
		return &ast.Multiplicative{Op: mOp, Lhs: lhs, Rhs: rhs}, nil

	case "AdditiveExpression":
		lhs, rhs, err := decodeBinaryOperands(m)
		if err != nil {
			return nil, err
		}
		op, err := decodeString(m["op"])
		if err != nil {
			return nil, err
		}
		aOp := ast.AddOp
		if op == "-" {
			aOp = ast.SubOp
		}
		return &ast.Additive{Op: aOp, Lhs: lhs, Rhs: rhs}, nil

	case "ShiftExpression":
		lhs, rhs, err := decodeBinaryOperands(m)
		if err != nil {
			return nil, err
		}
		op, err := decodeString(m["op"])
		if err != nil {
			return nil, err
		}
		sOp := ast.ShlOp
		if op == ">>" {
			sOp = ast.ShrOp
		}
		return &ast.Shift{Op: sOp, Lhs: lhs, Rhs: rhs}, nil

	case "RelationalExpression":
		lhs, rhs, err := decodeBinaryOperands(m)
		if err != nil {
			return nil, err
		}
		op, err := decodeString(m["op"])
		if err != nil {
			return nil, err
		}
		var rOp ast.RelationalOp
		switch op {
		case "<":
			rOp = ast.LtOp
		case ">":
			rOp = ast.GtOp
		case "<=":
			rOp = ast.LeOp
		case ">=":
			rOp = ast.GeOp
		default:
			return nil, fmt.Errorf("unknown relational operator %q", op)
		}
		return &ast.Relational{Op: rOp, Lhs: lhs, Rhs: rhs}, nil

	case "EqualityExpression":
		lhs, rhs, err := decodeBinaryOperands(m)
		if err != nil {
			return nil, err
		}
		op, err := decodeString(m["op"])
		if err != nil {
			return nil, err
		}
		eOp := ast.EqOp
		if op == "!=" {
			eOp = ast.NeOp
		}
		return &ast.Equality{Op: eOp, Lhs: lhs, Rhs: rhs}, nil

	case "AndExpression":
		lhs, rhs, err := decodeBinaryOperands(m)
		if err != nil {
			return nil, err
		}
		return &ast.And{Lhs: lhs, Rhs: rhs}, nil

	case "ExclusiveOrExpression":
		lhs, rhs, err := decodeBinaryOperands(m)
		if err != nil {
			return nil, err
		}
		return &ast.ExclusiveOr{Lhs: lhs, Rhs: rhs}, nil

	case "InclusiveOrExpression":
		lhs, rhs, err := decodeBinaryOperands(m)
		if err != nil {
			return nil, err
		}
		return &ast.InclusiveOr{Lhs: lhs, Rhs: rhs}, nil

	case "LogicalAndExpression":
		lhs, rhs, err := decodeBinaryOperands(m)
		if err != nil {
			return nil, err
		}
		return &ast.LogicalAnd{Lhs: lhs, Rhs: rhs}, nil

	case "LogicalOrExpression":
		lhs, rhs, err := decodeBinaryOperands(m)
		if err != nil {
			return nil, err
		}
		return &ast.LogicalOr{Lhs: lhs, Rhs: rhs}, nil

	case "ConditionalExpression":
		cond, err := decodeRequiredNode(m["cond"])
		if err != nil {
			return nil, err
		}
		then, err := decodeRequiredNode(m["then"])
		if err != nil {
			return nil, err
		}
		els, err := decodeRequiredNode(m["else"])
		if err != nil {
			return nil, err
		}
		return &ast.Conditional{Cond: cond, Then: then, Else: els}, nil

	case "AssignmentExpression":
		targetNode, err := decodeRequiredNode(m["target"])
		if err != nil {
			return nil, err
		}
		target, ok := targetNode.(*ast.Variable)
		if !ok {
			return nil, fmt.Errorf("assignment target must decode to a Variable")
		}
		opStr, err := decodeString(m["op"])
		if err != nil {
			return nil, err
		}
		op, err := assignOpFromString(opStr)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeRequiredNode(m["rhs"])
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Target: target, Op: op, Rhs: rhs}, nil

	case "FunctionCall":
		callee, err := decodeString(m["callee"])
		if err != nil {
			return nil, err
		}
		params, err := decodeNodeArray(m["args"])
		if err != nil {
			return nil, err
		}
		return &ast.FunctionCall{CalleeID: callee, Args: buildParametersList(params)}, nil

	case "EmptyExpression":
		return &ast.EmptyExpression{}, nil

	case "Return":
		val, err := decodeOptionalNode(m["value"])
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: val}, nil

	case "Break":
		return &ast.Break{}, nil

	case "Continue":
		return &ast.Continue{}, nil

	case "If":
		cond, err := decodeRequiredNode(m["cond"])
		if err != nil {
			return nil, err
		}
		then, err := decodeRequiredNode(m["then"])
		if err != nil {
			return nil, err
		}
		els, err := decodeOptionalNode(m["else"])
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, ThenBody: then, ElseBody: els}, nil

	case "While":
		cond, err := decodeRequiredNode(m["cond"])
		if err != nil {
			return nil, err
		}
		body, err := decodeRequiredNode(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.While{Cond: cond, Body: body}, nil

	case "For":
		init, err := decodeRequiredNode(m["init"])
		if err != nil {
			return nil, err
		}
		cond, err := decodeRequiredNode(m["cond"])
		if err != nil {
			return nil, err
		}
		incr, err := decodeRequiredNode(m["increment"])
		if err != nil {
			return nil, err
		}
		body, err := decodeRequiredNode(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.For{Init: init, Cond: cond, Increment: incr, Body: body}, nil

	case "Switch":
		test, err := decodeRequiredNode(m["test"])
		if err != nil {
			return nil, err
		}
		cases, err := decodeNodeArray(m["cases"])
		if err != nil {
			return nil, err
		}
		return &ast.Switch{Test: test, Body: buildCaseList(cases)}, nil

	case "Case":
		label, err := decodeRequiredNode(m["label"])
		if err != nil {
			return nil, err
		}
		stmts, err := decodeNodeArray(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.Case{LabelExpr: label, Body: buildStatementList(stmts)}, nil

	case "Default":
		stmts, err := decodeNodeArray(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.Default{Body: buildStatementList(stmts)}, nil

	case "CompoundStatement":
		stmts, err := decodeNodeArray(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.CompoundStatement{Body: buildStatementList(stmts)}, nil

	case "DeclarationList":
		typ, err := decodeString(m["cType"])
		if err != nil {
			typ = "int"
		}
		var rawDecls []json.RawMessage
		if err := json.Unmarshal(m["decls"], &rawDecls); err != nil {
			return nil, fmt.Errorf("decoding DeclarationList.decls: %w", err)
		}
		nodes := make([]*ast.DeclarationNode, 0, len(rawDecls))
		for _, rd := range rawDecls {
			dn, err := decodeDeclarationNode(rd)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, dn)
		}
		return &ast.DeclarationList{Type: typ, Head: buildDeclarationChain(nodes)}, nil

	case "FunctionDeclaration":
		typ, _ := decodeString(m["cType"])
		name, err := decodeRequiredNode(m["name"])
		if err != nil {
			return nil, err
		}
		nameVar, ok := name.(*ast.Variable)
		if !ok {
			return nil, fmt.Errorf("FunctionDeclaration.name must decode to a Variable")
		}
		args, err := decodeStringArray(m["args"])
		if err != nil {
			return nil, err
		}
		return &ast.FunctionDeclaration{Type: typ, Name: nameVar, Args: buildArgumentList(args)}, nil

	case "FunctionDefinition":
		typ, _ := decodeString(m["cType"])
		name, err := decodeRequiredNode(m["name"])
		if err != nil {
			return nil, err
		}
		nameVar, ok := name.(*ast.Variable)
		if !ok {
			return nil, fmt.Errorf("FunctionDefinition.name must decode to a Variable")
		}
		args, err := decodeStringArray(m["args"])
		if err != nil {
			return nil, err
		}
		bodyNode, err := decodeRequiredNode(m["body"])
		if err != nil {
			return nil, err
		}
		body, ok := bodyNode.(*ast.CompoundStatement)
		if !ok {
			return nil, fmt.Errorf("FunctionDefinition.body must decode to a CompoundStatement")
		}
		return &ast.FunctionDefinition{Type: typ, Name: nameVar, Args: buildArgumentList(args), Body: body}, nil

	case "EnumList":
		var rawDecls []json.RawMessage
		if err := json.Unmarshal(m["decls"], &rawDecls); err != nil {
			return nil, fmt.Errorf("decoding EnumList.decls: %w", err)
		}
		decls := make([]*ast.EnumDecl, 0, len(rawDecls))
		for _, rd := range rawDecls {
			var em map[string]json.RawMessage
			if err := json.Unmarshal(rd, &em); err != nil {
				return nil, fmt.Errorf("decoding EnumDecl: %w", err)
			}
			id, err := decodeString(em["id"])
			if err != nil {
				return nil, err
			}
			init, err := decodeOptionalNode(em["init"])
			if err != nil {
				return nil, err
			}
			decls = append(decls, &ast.EnumDecl{ID: id, Init: init})
		}
		return buildEnumList(decls), nil

	default:
		return nil, fmt.Errorf("unknown AST node type %q", kind)
	}
}

func decodeDeclarationNode(raw json.RawMessage) (*ast.DeclarationNode, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding DeclarationNode: %w", err)
	}
	varNode, err := decodeRequiredNode(m["var"])
	if err != nil {
		return nil, err
	}
	v, ok := varNode.(*ast.Variable)
	if !ok {
		return nil, fmt.Errorf("DeclarationNode.var must decode to a Variable")
	}
	init, err := decodeOptionalNode(m["init"])
	if err != nil {
		return nil, err
	}
	return &ast.DeclarationNode{Var: v, Init: init}, nil
}

func decodeBinaryOperands(m map[string]json.RawMessage) (ast.Node, ast.Node, error) {
	lhs, err := decodeRequiredNode(m["lhs"])
	if err != nil {
		return nil, nil, err
	}
	rhs, err := decodeRequiredNode(m["rhs"])
	if err != nil {
		return nil, nil, err
	}
	return lhs, rhs, nil
}

func decodeRequiredNode(raw json.RawMessage) (ast.Node, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("expected an AST node, got null or missing field")
	}
	return n, nil
}

func decodeOptionalNode(raw json.RawMessage) (ast.Node, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return decodeNode(raw)
}

func decodeNodeArray(raw json.RawMessage) ([]ast.Node, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding node array: %w", err)
	}
	out := make([]ast.Node, 0, len(items))
	for _, item := range items {
		n, err := decodeNode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("expected a string field")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("decoding string: %w", err)
	}
	return s, nil
}

func decodeStringArray(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var s []string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding string array: %w", err)
	}
	return s, nil
}

func decodeInt64(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("expected a numeric field")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("decoding integer: %w", err)
	}
	return int64(f), nil
}

func varInfoFromString(s string) (ast.VarInfo, error) {
	switch s {
	case "normal":
		return ast.VarNormal, nil
	case "array":
		return ast.VarArray, nil
	case "pointer":
		return ast.VarPointer, nil
	default:
		return 0, fmt.Errorf("unknown variable info %q", s)
	}
}

func unaryOpFromString(s string) (ast.UnaryOp, error) {
	switch s {
	case "++":
		return ast.UnaryIncr, nil
	case "--":
		return ast.UnaryDecr, nil
	case "-":
		return ast.UnaryMinus, nil
	case "+":
		return ast.UnaryPlus, nil
	case "~":
		return ast.UnaryBitNot, nil
	case "!":
		return ast.UnaryNot, nil
	case "&":
		return ast.UnaryAddr, nil
	default:
		return 0, fmt.Errorf("unknown unary operator %q", s)
	}
}

func assignOpFromString(s string) (ast.AssignOp, error) {
	switch s {
	case "=":
		return ast.Assign, nil
	case "*=":
		return ast.AssignMul, nil
	case "/=":
		return ast.AssignDiv, nil
	case "%=":
		return ast.AssignMod, nil
	case "+=":
		return ast.AssignAdd, nil
	case "-=":
		return ast.AssignSub, nil
	case "<<=":
		return ast.AssignShl, nil
	case ">>=":
		return ast.AssignShr, nil
	case "&=":
		return ast.AssignAnd, nil
	case "^=":
		return ast.AssignXor, nil
	case "|=":
		return ast.AssignOr, nil
	default:
		return 0, fmt.Errorf("unknown assignment operator %q", s)
	}
}

func buildDeclarationChain(nodes []*ast.DeclarationNode) *ast.DeclarationNode {
	for i := len(nodes) - 2; i >= 0; i-- {
		nodes[i].Next = nodes[i+1]
	}
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func buildStatementList(nodes []ast.Node) *ast.StatementList {
	if len(nodes) == 0 {
		return nil
	}
	head := &ast.StatementList{Head: nodes[0]}
	cur := head
	for _, n := range nodes[1:] {
		next := &ast.StatementList{Head: n}
		cur.Tail = next
		cur = next
	}
	return head
}

func buildCaseList(nodes []ast.Node) *ast.CaseList {
	if len(nodes) == 0 {
		return nil
	}
	head := &ast.CaseList{Head: nodes[0]}
	cur := head
	for _, n := range nodes[1:] {
		next := &ast.CaseList{Head: n}
		cur.Tail = next
		cur = next
	}
	return head
}

func buildParametersList(nodes []ast.Node) *ast.ParametersList {
	if len(nodes) == 0 {
		return nil
	}
	head := &ast.ParametersList{Head: nodes[0]}
	cur := head
	for _, n := range nodes[1:] {
		next := &ast.ParametersList{Head: n}
		cur.Tail = next
		cur = next
	}
	return head
}

func buildArgumentList(names []string) *ast.ArgumentList {
	if len(names) == 0 {
		return nil
	}
	head := &ast.ArgumentList{Head: &ast.Variable{ID: names[0]}}
	cur := head
	for _, n := range names[1:] {
		next := &ast.ArgumentList{Head: &ast.Variable{ID: n}}
		cur.Tail = next
		cur = next
	}
	return head
}

func buildEnumList(decls []*ast.EnumDecl) *ast.EnumList {
	if len(decls) == 0 {
		return &ast.EnumList{}
	}
	head := &ast.EnumList{Head: decls[0]}
	cur := head
	for _, d := range decls[1:] {
		next := &ast.EnumList{Head: d}
		cur.Tail = next
		cur = next
	}
	return head
}
