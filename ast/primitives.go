package ast

// IntegerConstant is a literal integer value.
type IntegerConstant struct {
	Value int64
}

func (*IntegerConstant) Kind() string { return "IntegerConstant" }

// Variable names a declared identifier. IndexOrSize is present for
// arrays: the subscript expression on use, or the size expression on
// declaration. It is nil for Normal and Pointer variables.
type Variable struct {
	ID          string
	Info        VarInfo
	IndexOrSize Node
}

func (*Variable) Kind() string { return "Variable" }

// IsArrayUse reports whether this Variable is an array carrying an
// IndexOrSize expression (a subscript on use such as a[i], or the size
// on a declaration such as a[4]), as opposed to a bare array name.
func (v *Variable) IsArrayUse() bool {
	return v.Info == VarArray && v.IndexOrSize != nil
}
