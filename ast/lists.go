package ast

// StatementList, CaseList, ArgumentList and ParametersList are cons-cell
// lists: an empty list is a single node with both Head and Tail absent,
// a singleton has Tail == nil. They are built by the parser; codegen
// only ever walks them front to back.

// StatementList is a list of statements inside a CompoundStatement.
type StatementList struct {
	Head Node
	Tail *StatementList
}

func (*StatementList) Kind() string { return "StatementList" }

// Statements flattens the cons-list into a slice for convenient iteration.
func (l *StatementList) Statements() []Node {
	var out []Node
	for n := l; n != nil; n = n.Tail {
		if n.Head == nil {
			break
		}
		out = append(out, n.Head)
	}
	return out
}

// CaseList is a list of Case/Default nodes inside a Switch body.
type CaseList struct {
	Head Node
	Tail *CaseList
}

func (*CaseList) Kind() string { return "CaseList" }

func (l *CaseList) Cases() []Node {
	var out []Node
	for n := l; n != nil; n = n.Tail {
		if n.Head == nil {
			break
		}
		out = append(out, n.Head)
	}
	return out
}

// ArgumentList is the list of formal parameters of a function.
type ArgumentList struct {
	Head *Variable
	Tail *ArgumentList
}

func (*ArgumentList) Kind() string { return "ArgumentList" }

func (l *ArgumentList) Names() []string {
	var out []string
	for n := l; n != nil; n = n.Tail {
		if n.Head == nil {
			break
		}
		out = append(out, n.Head.ID)
	}
	return out
}

// ParametersList is the list of actual arguments at a call site.
type ParametersList struct {
	Head Node
	Tail *ParametersList
}

func (*ParametersList) Kind() string { return "ParametersList" }

func (l *ParametersList) Params() []Node {
	var out []Node
	for n := l; n != nil; n = n.Tail {
		if n.Head == nil {
			break
		}
		out = append(out, n.Head)
	}
	return out
}

// EnumList is a list of EnumDecl entries inside an enum declaration.
type EnumList struct {
	Head *EnumDecl
	Tail *EnumList
}

func (*EnumList) Kind() string { return "EnumList" }

func (l *EnumList) Decls() []*EnumDecl {
	var out []*EnumDecl
	for n := l; n != nil; n = n.Tail {
		if n.Head == nil {
			break
		}
		out = append(out, n.Head)
	}
	return out
}

// EnumDecl is a single enumerator, optionally with an explicit value.
type EnumDecl struct {
	ID   string
	Init Node
}

func (*EnumDecl) Kind() string { return "EnumDecl" }
