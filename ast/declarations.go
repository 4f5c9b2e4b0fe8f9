package ast

// DeclarationList is a single C declaration statement, which may
// introduce multiple variables: "int a = 1, b, c[4];".
type DeclarationList struct {
	Type string // always "int" in this subset
	Head *DeclarationNode
}

func (*DeclarationList) Kind() string { return "DeclarationList" }

// DeclarationNode is one variable within a DeclarationList.
type DeclarationNode struct {
	Var  *Variable
	Init Node // nil if no initializer
	Next *DeclarationNode
}

func (*DeclarationNode) Kind() string { return "DeclarationNode" }

func (n *DeclarationNode) Decls() []*DeclarationNode {
	var out []*DeclarationNode
	for d := n; d != nil; d = d.Next {
		out = append(out, d)
	}
	return out
}

// FunctionDeclaration is a prototype with no body: "int f(int n);".
type FunctionDeclaration struct {
	Type string
	Name *Variable
	Args *ArgumentList
}

func (*FunctionDeclaration) Kind() string { return "FunctionDeclaration" }

// FunctionDefinition is a function with a body. Body is always a
// *CompoundStatement, never a bare statement list.
type FunctionDefinition struct {
	Type string
	Name *Variable
	Args *ArgumentList
	Body *CompoundStatement
}

func (*FunctionDefinition) Kind() string { return "FunctionDefinition" }
