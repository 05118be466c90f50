package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// ParseTable maps (non-terminal, lookahead) to the right-hand side of the
// one production that applies. An empty right-hand side is an epsilon
// production. Every non-terminal has an inner map, so lookups never need a
// nil check.
type ParseTable map[NonTerminal]map[TokenType][]Symbol

// Productions are stored as freshly allocated slices; no two entries share
// a backing array.
func rhs(syms ...Symbol) []Symbol {
	out := make([]Symbol, len(syms))
	copy(out, syms)
	return out
}

// NewParseTable builds the LL(1) table for Lite from the FIRST and FOLLOW
// sets of its grammar:
//
//	STATEMENT_LIST     -> STATEMENT SEPARATED_LIST
//	SEPARATED_LIST     -> ; STATEMENT SEPARATED_LIST | ε
//	STATEMENT          -> identifier := EXPRESSION [STORE]
//	                    | if [GEN_LABELS] BOOLEAN_EXPRESSION then STATEMENT
//	                      [GOTO_BEGIN] [END_LABEL] ELSE_CLAUSE [BEGIN_LABEL] [POP_LABELS]
//	                    | while [GEN_LABELS] [BEGIN_LABEL] BOOLEAN_EXPRESSION do STATEMENT
//	                      [GOTO_BEGIN] [END_LABEL] [POP_LABELS]
//	                    | print [PRINT_HEADER] PRINT_EXPRESSION
//	                    | begin STATEMENT_LIST end
//	                    | variable identifier [DECLARE]
//	ELSE_CLAUSE        -> else STATEMENT | ε
//	PRINT_EXPRESSION   -> EXPRESSION [PRINT_IFOOTER] | string [LOAD_CONST] [PRINT_SFOOTER]
//	EXPRESSION         -> TERM ARITHMETIC_TERM
//	ARITHMETIC_TERM    -> op [OP_PUSH] TERM [COMPUTE] ARITHMETIC_TERM | ε
//	BOOLEAN_EXPRESSION -> EXPRESSION RELATIONAL_OP [OP_PUSH] EXPRESSION [COMPUTE]
//	RELATIONAL_OP      -> < | <= | > | >= | <> | =
//	TERM               -> identifier [LOAD] | number [PUSH] | ( EXPRESSION )
//
// FOLLOW(STATEMENT) = { ; end else EOF }. The dangling else is resolved by
// giving ELSE_CLAUSE no epsilon entry on else, which binds it to the
// innermost if. GOTO_END appears in no production; it is available to code
// that drives Context.Execute directly.
func NewParseTable() ParseTable {
	t := make(ParseTable, numNonTerminals)
	for nt := NonTerminal(0); nt < numNonTerminals; nt++ {
		t[nt] = make(map[TokenType][]Symbol)
	}

	firstOfStatement := []TokenType{IDENTIFIER, IF, WHILE, PRINT, BEGIN, VARIABLE}
	firstOfExpression := []TokenType{IDENTIFIER, NUMBER, LPAREN}
	followOfStatement := []TokenType{SEMICOLON, END, ELSE, EOF}
	relational := []TokenType{LESS, LESS_EQ, GREATER, GREATER_EQ, NOT_EQ, EQUALS}
	arithmetic := []TokenType{PLUS, MINUS, STAR, SLASH}

	// STATEMENT_LIST
	for _, tt := range firstOfStatement {
		t[STATEMENT_LIST][tt] = rhs(NT(STATEMENT), NT(SEPARATED_LIST))
	}

	// SEPARATED_LIST; FOLLOW(SEPARATED_LIST) = { end EOF }
	t[SEPARATED_LIST][SEMICOLON] = rhs(Term(SEMICOLON), NT(STATEMENT), NT(SEPARATED_LIST))
	t[SEPARATED_LIST][END] = rhs()
	t[SEPARATED_LIST][EOF] = rhs()

	// STATEMENT
	t[STATEMENT][IDENTIFIER] = rhs(
		Term(IDENTIFIER), Term(ASSIGN), NT(EXPRESSION), Act(STORE))
	t[STATEMENT][IF] = rhs(
		Term(IF), Act(GEN_LABELS), NT(BOOLEAN_EXPRESSION), Term(THEN), NT(STATEMENT),
		Act(GOTO_BEGIN), Act(END_LABEL), NT(ELSE_CLAUSE), Act(BEGIN_LABEL), Act(POP_LABELS))
	t[STATEMENT][WHILE] = rhs(
		Term(WHILE), Act(GEN_LABELS), Act(BEGIN_LABEL), NT(BOOLEAN_EXPRESSION), Term(DO), NT(STATEMENT),
		Act(GOTO_BEGIN), Act(END_LABEL), Act(POP_LABELS))
	t[STATEMENT][PRINT] = rhs(
		Term(PRINT), Act(PRINT_HEADER), NT(PRINT_EXPRESSION))
	t[STATEMENT][BEGIN] = rhs(
		Term(BEGIN), NT(STATEMENT_LIST), Term(END))
	t[STATEMENT][VARIABLE] = rhs(
		Term(VARIABLE), Term(IDENTIFIER), Act(DECLARE))

	// ELSE_CLAUSE
	t[ELSE_CLAUSE][ELSE] = rhs(Term(ELSE), NT(STATEMENT))
	for _, tt := range followOfStatement {
		if tt == ELSE {
			continue
		}
		t[ELSE_CLAUSE][tt] = rhs()
	}

	// PRINT_EXPRESSION
	for _, tt := range firstOfExpression {
		t[PRINT_EXPRESSION][tt] = rhs(NT(EXPRESSION), Act(PRINT_IFOOTER))
	}
	t[PRINT_EXPRESSION][STRING] = rhs(Term(STRING), Act(LOAD_CONST), Act(PRINT_SFOOTER))

	// EXPRESSION
	for _, tt := range firstOfExpression {
		t[EXPRESSION][tt] = rhs(NT(TERM), NT(ARITHMETIC_TERM))
	}

	// ARITHMETIC_TERM; FOLLOW(EXPRESSION) = FOLLOW(STATEMENT) ∪ { ) then do } ∪ relational
	for _, op := range arithmetic {
		t[ARITHMETIC_TERM][op] = rhs(Term(op), Act(OP_PUSH), NT(TERM), Act(COMPUTE), NT(ARITHMETIC_TERM))
	}
	followOfExpression := append([]TokenType{RPAREN, THEN, DO}, followOfStatement...)
	followOfExpression = append(followOfExpression, relational...)
	for _, tt := range followOfExpression {
		t[ARITHMETIC_TERM][tt] = rhs()
	}

	// BOOLEAN_EXPRESSION
	for _, tt := range firstOfExpression {
		t[BOOLEAN_EXPRESSION][tt] = rhs(
			NT(EXPRESSION), NT(RELATIONAL_OP), Act(OP_PUSH), NT(EXPRESSION), Act(COMPUTE))
	}

	// RELATIONAL_OP
	for _, op := range relational {
		t[RELATIONAL_OP][op] = rhs(Term(op))
	}

	// TERM
	t[TERM][IDENTIFIER] = rhs(Term(IDENTIFIER), Act(LOAD))
	t[TERM][NUMBER] = rhs(Term(NUMBER), Act(PUSH))
	t[TERM][LPAREN] = rhs(Term(LPAREN), NT(EXPRESSION), Term(RPAREN))

	return t
}

// Production returns the right-hand side selected by nt on lookahead tt.
// The returned slice is a copy; the table itself is never modified.
func (t ParseTable) Production(nt NonTerminal, tt TokenType) ([]Symbol, bool) {
	body, ok := t[nt][tt]
	if !ok {
		return nil, false
	}
	return rhs(body...), true
}

// Expected lists the lookaheads for which nt has a production, in token
// order.
func (t ParseTable) Expected(nt NonTerminal) []TokenType {
	out := make([]TokenType, 0, len(t[nt]))
	for tt := range t[nt] {
		out = append(out, tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders the table one production per line, ordered by
// non-terminal then lookahead.
func (t ParseTable) String() string {
	var sb strings.Builder
	for nt := NonTerminal(0); nt < numNonTerminals; nt++ {
		for _, tt := range t.Expected(nt) {
			fmt.Fprintf(&sb, "%-20s %-12s -> %s\n", nt, tt, renderBody(t[nt][tt]))
		}
	}
	return sb.String()
}
