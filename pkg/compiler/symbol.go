package compiler

import "fmt"

// NonTerminal names a grammar placeholder that the parse table expands.
type NonTerminal int

const (
	STATEMENT_LIST NonTerminal = iota // start symbol
	SEPARATED_LIST
	STATEMENT
	ELSE_CLAUSE
	PRINT_EXPRESSION
	EXPRESSION
	ARITHMETIC_TERM
	BOOLEAN_EXPRESSION
	RELATIONAL_OP
	TERM

	numNonTerminals
)

var nonTerminalNames = [...]string{
	STATEMENT_LIST:     "STATEMENT_LIST",
	SEPARATED_LIST:     "SEPARATED_LIST",
	STATEMENT:          "STATEMENT",
	ELSE_CLAUSE:        "ELSE_CLAUSE",
	PRINT_EXPRESSION:   "PRINT_EXPRESSION",
	EXPRESSION:         "EXPRESSION",
	ARITHMETIC_TERM:    "ARITHMETIC_TERM",
	BOOLEAN_EXPRESSION: "BOOLEAN_EXPRESSION",
	RELATIONAL_OP:      "RELATIONAL_OP",
	TERM:               "TERM",
}

func (nt NonTerminal) String() string {
	if nt >= 0 && nt < numNonTerminals {
		return nonTerminalNames[nt]
	}
	return fmt.Sprintf("NonTerminal(%d)", int(nt))
}

// describeNonTerminal is used in "no production" diagnostics.
var describeNonTerminal = [...]string{
	STATEMENT_LIST:     "a statement",
	SEPARATED_LIST:     "';' or 'end'",
	STATEMENT:          "a statement",
	ELSE_CLAUSE:        "'else', ';' or 'end'",
	PRINT_EXPRESSION:   "an expression or string",
	EXPRESSION:         "an expression",
	ARITHMETIC_TERM:    "an operator",
	BOOLEAN_EXPRESSION: "a comparison",
	RELATIONAL_OP:      "a relational operator",
	TERM:               "identifier, number or '('",
}

// Action is a semantic step embedded in a production right-hand side.
type Action int

const (
	STORE Action = iota
	LOAD
	PUSH
	LOAD_CONST
	COMPUTE
	OP_PUSH
	DECLARE
	PRINT_HEADER
	PRINT_IFOOTER
	PRINT_SFOOTER
	GEN_LABELS
	POP_LABELS
	GOTO_BEGIN
	GOTO_END
	BEGIN_LABEL
	END_LABEL

	numActions
)

var actionNames = [...]string{
	STORE:         "STORE",
	LOAD:          "LOAD",
	PUSH:          "PUSH",
	LOAD_CONST:    "LOAD_CONST",
	COMPUTE:       "COMPUTE",
	OP_PUSH:       "OP_PUSH",
	DECLARE:       "DECLARE",
	PRINT_HEADER:  "PRINT_HEADER",
	PRINT_IFOOTER: "PRINT_IFOOTER",
	PRINT_SFOOTER: "PRINT_SFOOTER",
	GEN_LABELS:    "GEN_LABELS",
	POP_LABELS:    "POP_LABELS",
	GOTO_BEGIN:    "GOTO_BEGIN",
	GOTO_END:      "GOTO_END",
	BEGIN_LABEL:   "BEGIN_LABEL",
	END_LABEL:     "END_LABEL",
}

func (a Action) String() string {
	if a >= 0 && a < numActions {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// SymbolTag says which of the three symbol variants a Symbol holds.
type SymbolTag uint8

const (
	TagTerminal SymbolTag = iota
	TagNonTerminal
	TagAction
)

// Symbol is a grammar symbol: a terminal, a non-terminal or an action. It
// lets the parse stack hold all three uniformly. Build one with Term, NT or
// Act; exactly one of the payload fields is meaningful, selected by Tag.
type Symbol struct {
	Tag      SymbolTag
	Terminal TokenType
	NonTerm  NonTerminal
	Action   Action
}

// Term returns the terminal symbol for tt.
func Term(tt TokenType) Symbol { return Symbol{Tag: TagTerminal, Terminal: tt} }

// NT returns the non-terminal symbol for nt.
func NT(nt NonTerminal) Symbol { return Symbol{Tag: TagNonTerminal, NonTerm: nt} }

// Act returns the action symbol for a.
func Act(a Action) Symbol { return Symbol{Tag: TagAction, Action: a} }

func (s Symbol) IsTerminal() bool    { return s.Tag == TagTerminal }
func (s Symbol) IsNonTerminal() bool { return s.Tag == TagNonTerminal }
func (s Symbol) IsAction() bool      { return s.Tag == TagAction }

// IsOperator is true only for terminals whose token type is an operator.
func (s Symbol) IsOperator() bool { return s.Tag == TagTerminal && s.Terminal.IsOperator() }

func (s Symbol) String() string {
	switch s.Tag {
	case TagTerminal:
		return s.Terminal.String()
	case TagNonTerminal:
		return "<" + s.NonTerm.String() + ">"
	case TagAction:
		return "[" + s.Action.String() + "]"
	}
	return fmt.Sprintf("Symbol(%d)", s.Tag)
}

// Describe renders the symbol for "expected ..." diagnostics.
func (s Symbol) Describe() string {
	switch s.Tag {
	case TagTerminal:
		return s.Terminal.Describe()
	case TagNonTerminal:
		return describeNonTerminal[s.NonTerm]
	}
	return s.String()
}
