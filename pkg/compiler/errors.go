package compiler

import "fmt"

// ErrorKind classifies a compilation failure.
type ErrorKind int

const (
	// LexicalError: a character with no valid transition, or input ending
	// inside a string literal or comment.
	LexicalError ErrorKind = iota
	// SyntaxError: terminal mismatch or no parse-table entry for the lookahead.
	SyntaxError
	// TrailingInputError: the parse stack emptied before the input did.
	TrailingInputError
	// SemanticError: use of an undeclared variable, redeclaration, or an
	// integer literal that does not fit in 32 bits.
	SemanticError
	// InternalError: an action found its bookkeeping stack empty. This is a
	// parse-table defect, never a problem with the program being compiled.
	InternalError
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "lexical error"
	case SyntaxError:
		return "syntax error"
	case TrailingInputError:
		return "trailing input"
	case SemanticError:
		return "semantic error"
	case InternalError:
		return "internal compiler error"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the error type returned by every stage of the compiler.
type Error struct {
	Kind ErrorKind
	Line int // 1-based; 0 when no source position applies
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("line %d:%d: %s: %s", e.Line, e.Col, e.Kind, e.Msg)
}

func internalError(format string, args ...any) *Error {
	return &Error{Kind: InternalError, Msg: fmt.Sprintf(format, args...)}
}
