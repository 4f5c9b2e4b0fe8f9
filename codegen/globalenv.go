package codegen

import (
	"fmt"

	"cmipsc/ast"
)

// GlobalCategory classifies a root-level identifier.
type GlobalCategory int

const (
	CategoryNormal GlobalCategory = iota
	CategoryArray
	CategoryPointer
	CategoryEnum
)

// NoFuncArgumentSentinel pads extracted argument-name lists out to four
// entries. It is prefixed with a character ('?') that cannot appear in
// a real C identifier, so it can never collide with a genuine name.
const NoFuncArgumentSentinel = "?NO_FUNC_ARGUMENT"

// wordSize is the MIPS o32 word width in bytes.
const wordSize = 4

// GlobalEnvironment holds the state shared across an entire
// compilation: the registry of global identifiers, the set of
// externally-declared functions, and the monotonic label counter.
// It is populated during the first (.data) pass over the AST's roots
// and is read-only during the second (.text) pass (spec.md §3.5, §5).
type GlobalEnvironment struct {
	globals    map[string]GlobalCategory
	externFns  map[string]bool
	uniqueN    int
}

// NewGlobalEnvironment returns an empty environment.
func NewGlobalEnvironment() *GlobalEnvironment {
	return &GlobalEnvironment{
		globals:   make(map[string]GlobalCategory),
		externFns: make(map[string]bool),
	}
}

// UniqueID returns "_base_n" with a monotonically increasing n. Used
// for every compile-time-generated label; n distinct calls never
// collide (spec.md §8, "Label uniqueness").
func (g *GlobalEnvironment) UniqueID(base string) string {
	id := fmt.Sprintf("_%s_%d", base, g.uniqueN)
	g.uniqueN++
	return id
}

// AddGlobal registers id under category. Redeclaring an existing global
// is a hard abort (spec.md §9: the source's earlier revision only
// warned; this spec requires hard abort).
func (g *GlobalEnvironment) AddGlobal(id string, category GlobalCategory) error {
	if _, exists := g.globals[id]; exists {
		return unsupported("Variable", id, "redeclaration of global variable")
	}
	g.globals[id] = category
	return nil
}

// ContainsGlobal reports whether id was registered as a global.
func (g *GlobalEnvironment) ContainsGlobal(id string) bool {
	_, ok := g.globals[id]
	return ok
}

// CategoryOf returns the registered category for id.
func (g *GlobalEnvironment) CategoryOf(id string) (GlobalCategory, bool) {
	c, ok := g.globals[id]
	return c, ok
}

// AllIDs returns every registered global identifier, in the order they
// appear in the map (callers that need determinism should sort).
func (g *GlobalEnvironment) AllIDs() []string {
	ids := make([]string, 0, len(g.globals))
	for id := range g.globals {
		ids = append(ids, id)
	}
	return ids
}

// AddExternFunction records id as a function declared but not defined
// in this translation unit.
func (g *GlobalEnvironment) AddExternFunction(id string) {
	g.externFns[id] = true
}

// IsExternFunction reports whether id is only declared, never defined.
func (g *GlobalEnvironment) IsExternFunction(id string) bool {
	return g.externFns[id]
}

// ExtractArgumentNames returns the formal parameter names of argList,
// padded with NoFuncArgumentSentinel to a minimum length of four
// (spec.md §4.4 — the generator always reads four incoming argument
// slots, whether or not the function declares that many).
func ExtractArgumentNames(argList *ast.ArgumentList) []string {
	names := []string{}
	if argList != nil {
		names = argList.Names()
	}
	for len(names) < 4 {
		names = append(names, NoFuncArgumentSentinel)
	}
	return names
}

// CountDeclarationBytes recursively sums the stack storage required by
// every declaration reachable from node: 4 bytes per int or pointer,
// 4*size bytes per array (size folded at compile time). It walks
// function bodies, compound statements, statement lists, loops, and
// both branches of if/else (spec.md §4.4).
func CountDeclarationBytes(node ast.Node) (int, error) {
	if node == nil {
		return 0, nil
	}

	switch n := node.(type) {
	case *ast.FunctionDefinition:
		return CountDeclarationBytes(n.Body)

	case *ast.CompoundStatement:
		return CountDeclarationBytes(n.Body)

	case *ast.StatementList:
		total := 0
		for _, s := range n.Statements() {
			b, err := CountDeclarationBytes(s)
			if err != nil {
				return 0, err
			}
			total += b
		}
		return total, nil

	case *ast.DeclarationList:
		total := 0
		for _, d := range n.Head.Decls() {
			switch d.Var.Info {
			case ast.VarArray:
				size, err := FoldConstant(d.Var.IndexOrSize)
				if err != nil {
					return 0, err
				}
				total += wordSize * int(size)
			default:
				total += wordSize
			}
		}
		return total, nil

	case *ast.If:
		then, err := CountDeclarationBytes(n.ThenBody)
		if err != nil {
			return 0, err
		}
		els, err := CountDeclarationBytes(n.ElseBody)
		if err != nil {
			return 0, err
		}
		return then + els, nil

	case *ast.While:
		return CountDeclarationBytes(n.Body)

	case *ast.For:
		initBytes, err := CountDeclarationBytes(n.Init)
		if err != nil {
			return 0, err
		}
		bodyBytes, err := CountDeclarationBytes(n.Body)
		if err != nil {
			return 0, err
		}
		return initBytes + bodyBytes, nil

	case *ast.Switch:
		total := 0
		for _, c := range n.Body.Cases() {
			switch cn := c.(type) {
			case *ast.Case:
				b, err := CountDeclarationBytes(cn.Body)
				if err != nil {
					return 0, err
				}
				total += b
			case *ast.Default:
				b, err := CountDeclarationBytes(cn.Body)
				if err != nil {
					return 0, err
				}
				total += b
			}
		}
		return total, nil

	default:
		// Expressions, Return/Break/Continue and other leaves never
		// introduce declarations.
		return 0, nil
	}
}

// FoldConstant evaluates a compile-time constant expression: an
// IntegerConstant, a Unary(-, ~, !), any supported Binary family, or a
// Conditional, with 32-bit two's-complement wraparound semantics. It
// fails on any node that is not a constant expression (used for global
// initializers, array sizes, and case labels, per spec.md §4.4).
func FoldConstant(node ast.Node) (int32, error) {
	if node == nil {
		return 0, internal("FoldConstant", "", "nil constant expression")
	}

	switch n := node.(type) {
	case *ast.IntegerConstant:
		return int32(n.Value), nil

	case *ast.Unary:
		v, err := FoldConstant(n.Operand)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case ast.UnaryMinus:
			return -v, nil
		case ast.UnaryPlus:
			return v, nil
		case ast.UnaryBitNot:
			return ^v, nil
		case ast.UnaryNot:
			if v == 0 {
				return 1, nil
			}
			return 0, nil
		default:
			return 0, unsupported("UnaryExpression", n.Op.String(), "not a constant operator")
		}

	case *ast.Multiplicative:
		l, err := FoldConstant(n.Lhs)
		if err != nil {
			return 0, err
		}
		r, err := FoldConstant(n.Rhs)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case ast.MulOp:
			return l * r, nil
		case ast.DivOp:
			if r == 0 {
				return 0, unsupported("MultiplicativeExpression", "/", "division by zero in constant expression")
			}
			return l / r, nil
		default: // ModOp
			if r == 0 {
				return 0, unsupported("MultiplicativeExpression", "%", "modulo by zero in constant expression")
			}
			return l % r, nil
		}

	case *ast.Additive:
		l, err := FoldConstant(n.Lhs)
		if err != nil {
			return 0, err
		}
		r, err := FoldConstant(n.Rhs)
		if err != nil {
			return 0, err
		}
		if n.Op == ast.AddOp {
			return l + r, nil
		}
		return l - r, nil

	case *ast.Shift:
		l, err := FoldConstant(n.Lhs)
		if err != nil {
			return 0, err
		}
		r, err := FoldConstant(n.Rhs)
		if err != nil {
			return 0, err
		}
		shift := uint32(r) & 31
		if n.Op == ast.ShlOp {
			return int32(uint32(l) << shift), nil
		}
		// Logical shift right, matching the target's unsigned semantics
		// for constant folding (spec.md §4.4); runtime codegen for the
		// signed '>>' operator instead emits an arithmetic shift, see
		// codegen/expr.go.
		return int32(uint32(l) >> shift), nil

	case *ast.Relational:
		l, err := FoldConstant(n.Lhs)
		if err != nil {
			return 0, err
		}
		r, err := FoldConstant(n.Rhs)
		if err != nil {
			return 0, err
		}
		var b bool
		switch n.Op {
		case ast.LtOp:
			b = l < r
		case ast.GtOp:
			b = l > r
		case ast.LeOp:
			b = l <= r
		default:
			b = l >= r
		}
		return boolToInt32(b), nil

	case *ast.Equality:
		l, err := FoldConstant(n.Lhs)
		if err != nil {
			return 0, err
		}
		r, err := FoldConstant(n.Rhs)
		if err != nil {
			return 0, err
		}
		if n.Op == ast.EqOp {
			return boolToInt32(l == r), nil
		}
		return boolToInt32(l != r), nil

	case *ast.And:
		l, err := FoldConstant(n.Lhs)
		if err != nil {
			return 0, err
		}
		r, err := FoldConstant(n.Rhs)
		if err != nil {
			return 0, err
		}
		return l & r, nil

	case *ast.ExclusiveOr:
		l, err := FoldConstant(n.Lhs)
		if err != nil {
			return 0, err
		}
		r, err := FoldConstant(n.Rhs)
		if err != nil {
			return 0, err
		}
		return l ^ r, nil

	case *ast.InclusiveOr:
		l, err := FoldConstant(n.Lhs)
		if err != nil {
			return 0, err
		}
		r, err := FoldConstant(n.Rhs)
		if err != nil {
			return 0, err
		}
		return l | r, nil

	case *ast.LogicalAnd:
		l, err := FoldConstant(n.Lhs)
		if err != nil {
			return 0, err
		}
		r, err := FoldConstant(n.Rhs)
		if err != nil {
			return 0, err
		}
		return boolToInt32(l != 0 && r != 0), nil

	case *ast.LogicalOr:
		l, err := FoldConstant(n.Lhs)
		if err != nil {
			return 0, err
		}
		r, err := FoldConstant(n.Rhs)
		if err != nil {
			return 0, err
		}
		return boolToInt32(l != 0 || r != 0), nil

	case *ast.Conditional:
		c, err := FoldConstant(n.Cond)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return FoldConstant(n.Then)
		}
		return FoldConstant(n.Else)

	default:
		return 0, unsupported(node.Kind(), "", "not a constant expression")
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
