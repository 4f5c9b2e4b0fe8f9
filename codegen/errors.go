package codegen

import "fmt"

// UnsupportedProgramError reports valid C that this compiler's subset
// does not cover (spec.md §7, class 2): a fifth call argument,
// &non-variable, a non-constant case label, an undeclared identifier,
// and so on. The declared C type of a declaration is not inspected, so
// a non-int declaration (such as float) is not reported.
type UnsupportedProgramError struct {
	NodeKind string
	Ident    string
	Message  string
}

func (e *UnsupportedProgramError) Error() string {
	if e.Ident != "" {
		return fmt.Sprintf("unsupported program [%s %q]: %s", e.NodeKind, e.Ident, e.Message)
	}
	return fmt.Sprintf("unsupported program [%s]: %s", e.NodeKind, e.Message)
}

// InternalError reports an invariant violation in the generator itself
// (spec.md §7, class 3): an undispatchable AST variant, a double-free
// of a temporary register, a scope or label stack underflow.
type InternalError struct {
	NodeKind string
	Ident    string
	Message  string
}

func (e *InternalError) Error() string {
	if e.Ident != "" {
		return fmt.Sprintf("internal error [%s %q]: %s", e.NodeKind, e.Ident, e.Message)
	}
	return fmt.Sprintf("internal error [%s]: %s", e.NodeKind, e.Message)
}

func unsupported(kind, ident, msg string) error {
	return &UnsupportedProgramError{NodeKind: kind, Ident: ident, Message: msg}
}

func internal(kind, ident, msg string) error {
	return &InternalError{NodeKind: kind, Ident: ident, Message: msg}
}
