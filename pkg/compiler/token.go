package compiler

import "fmt"

// TokenType identifies the lexical category of a scanned token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable name
	NUMBER     // decimal integer literal
	STRING     // string literal "..."

	// Keywords
	VARIABLE // "variable"
	PRINT    // "print"
	IF       // "if"
	THEN     // "then"
	ELSE     // "else"
	WHILE    // "while"
	DO       // "do"
	BEGIN    // "begin"
	END      // "end"

	// Punctuation
	SEMICOLON // ;
	ASSIGN    // :=
	LPAREN    // (
	RPAREN    // )

	// Relational operators
	LESS       // <
	LESS_EQ    // <=
	NOT_EQ     // <>
	EQUALS     // =
	GREATER    // >
	GREATER_EQ // >=

	// Arithmetic operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /

	// Filtered by the parse driver, never by the lexer
	WHITESPACE
	COMMENT // { ... }

	numTokenTypes
)

type tokenInfo struct {
	name string // constant name
	desc string // used in diagnostics
}

// tokenInfos is indexed by TokenType; the array length check below keeps it
// in step with the constant list.
var tokenInfos = [...]tokenInfo{
	EOF:        {"EOF", "end of input"},
	IDENTIFIER: {"IDENTIFIER", "identifier"},
	NUMBER:     {"NUMBER", "number"},
	STRING:     {"STRING", "string"},
	VARIABLE:   {"VARIABLE", "'variable'"},
	PRINT:      {"PRINT", "'print'"},
	IF:         {"IF", "'if'"},
	THEN:       {"THEN", "'then'"},
	ELSE:       {"ELSE", "'else'"},
	WHILE:      {"WHILE", "'while'"},
	DO:         {"DO", "'do'"},
	BEGIN:      {"BEGIN", "'begin'"},
	END:        {"END", "'end'"},
	SEMICOLON:  {"SEMICOLON", "';'"},
	ASSIGN:     {"ASSIGN", "':='"},
	LPAREN:     {"LPAREN", "'('"},
	RPAREN:     {"RPAREN", "')'"},
	LESS:       {"LESS", "'<'"},
	LESS_EQ:    {"LESS_EQ", "'<='"},
	NOT_EQ:     {"NOT_EQ", "'<>'"},
	EQUALS:     {"EQUALS", "'='"},
	GREATER:    {"GREATER", "'>'"},
	GREATER_EQ: {"GREATER_EQ", "'>='"},
	PLUS:       {"PLUS", "'+'"},
	MINUS:      {"MINUS", "'-'"},
	STAR:       {"STAR", "'*'"},
	SLASH:      {"SLASH", "'/'"},
	WHITESPACE: {"WHITESPACE", "whitespace"},
	COMMENT:    {"COMMENT", "comment"},
}

func (tt TokenType) String() string {
	if tt >= 0 && tt < numTokenTypes {
		return tokenInfos[tt].name
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Describe returns the human-readable form used in error messages, e.g.
// "identifier" or "':='".
func (tt TokenType) Describe() string {
	if tt >= 0 && tt < numTokenTypes {
		return tokenInfos[tt].desc
	}
	return tt.String()
}

// IsOperator reports whether tt is a relational or arithmetic operator.
// Operator tokens are recorded on the operator stack when matched.
func (tt TokenType) IsOperator() bool {
	return tt >= LESS && tt <= SLASH
}

// IsRelational reports whether tt is one of the six comparison operators.
func (tt TokenType) IsRelational() bool {
	return tt >= LESS && tt <= GREATER_EQ
}

// IsOperand reports whether tokens of this type are recorded on the operand
// stack when matched.
func (tt TokenType) IsOperand() bool {
	return tt == IDENTIFIER || tt == NUMBER || tt == STRING
}

// keywords maps the spelling of every keyword and operator to its type. The
// lexer consults it only after a symbol-shaped lexeme has been fully scanned.
var keywords = map[string]TokenType{
	"variable": VARIABLE,
	"print":    PRINT,
	"if":       IF,
	"then":     THEN,
	"else":     ELSE,
	"while":    WHILE,
	"do":       DO,
	"begin":    BEGIN,
	"end":      END,
	";":        SEMICOLON,
	":=":       ASSIGN,
	"<":        LESS,
	"<=":       LESS_EQ,
	"<>":       NOT_EQ,
	"=":        EQUALS,
	">":        GREATER,
	">=":       GREATER_EQ,
	"+":        PLUS,
	"-":        MINUS,
	"*":        STAR,
	"/":        SLASH,
	"(":        LPAREN,
	")":        RPAREN,
}

// LookupKeyword returns the type for a keyword or operator spelling.
func LookupKeyword(lexeme string) (TokenType, bool) {
	tt, ok := keywords[lexeme]
	return tt, ok
}

// Token is a single lexical unit produced by the Lexer.
//
// Identifier tokens are canonicalised through the SymbolTable, so every
// occurrence of a spelling shares one *Token and sees the Address assigned
// when the variable is declared.
type Token struct {
	Type    TokenType
	Lexeme  string // the exact source text that was matched
	Line    int    // 1-based source line of the first character
	Col     int    // 1-based column of the first character
	Address int    // local variable slot; 0 means undeclared
}

// Value returns the literal content of the token: the characters between the
// quotes of a string, between the braces of a comment, or the lexeme itself.
func (t *Token) Value() string {
	switch t.Type {
	case STRING, COMMENT:
		if len(t.Lexeme) >= 2 {
			return t.Lexeme[1 : len(t.Lexeme)-1]
		}
	}
	return t.Lexeme
}

// Describe renders the token for diagnostics.
func (t *Token) Describe() string {
	switch t.Type {
	case EOF, WHITESPACE, COMMENT:
		return t.Type.Describe()
	case IDENTIFIER, NUMBER, STRING:
		return fmt.Sprintf("%s %s", t.Type.Describe(), t.Lexeme)
	}
	return t.Type.Describe()
}

func (t *Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d:%d  address %d", t.Type, t.Lexeme, t.Line, t.Col, t.Address)
}
