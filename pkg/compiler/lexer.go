package compiler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// state is a state of the lexer's finite-state automaton.
type state int

const (
	stStart state = iota
	stInSymbol
	stInNumber
	stLess
	stLessEq
	stNotEqual
	stGreater
	stGreaterEq
	stEqual
	stColon
	stAssign
	stPlus
	stMinus
	stStar
	stSlash
	stSemicolon
	stLParen
	stRParen
	stInString
	stString
	stWhitespace
	stInComment
	stComment

	numStates
)

// stateInfo describes how a state ends a lexeme.
type stateInfo struct {
	accepting  bool
	absorbing  bool      // consume every rune but terminator
	terminator rune      // only meaningful when absorbing
	kind       TokenType // intrinsic token type of an accepting state
	lookup     bool      // classify through the keyword map instead of kind
}

var states = [numStates]stateInfo{
	stStart:      {},
	stInSymbol:   {accepting: true, lookup: true},
	stInNumber:   {accepting: true, kind: NUMBER},
	stLess:       {accepting: true, kind: LESS},
	stLessEq:     {accepting: true, kind: LESS_EQ},
	stNotEqual:   {accepting: true, kind: NOT_EQ},
	stGreater:    {accepting: true, kind: GREATER},
	stGreaterEq:  {accepting: true, kind: GREATER_EQ},
	stEqual:      {accepting: true, kind: EQUALS},
	stColon:      {},
	stAssign:     {accepting: true, kind: ASSIGN},
	stPlus:       {accepting: true, kind: PLUS},
	stMinus:      {accepting: true, kind: MINUS},
	stStar:       {accepting: true, kind: STAR},
	stSlash:      {accepting: true, kind: SLASH},
	stSemicolon:  {accepting: true, kind: SEMICOLON},
	stLParen:     {accepting: true, kind: LPAREN},
	stRParen:     {accepting: true, kind: RPAREN},
	stInString:   {absorbing: true, terminator: '"'},
	stString:     {accepting: true, kind: STRING},
	stWhitespace: {accepting: true, kind: WHITESPACE},
	stInComment:  {absorbing: true, terminator: '}'},
	stComment:    {accepting: true, kind: COMMENT},
}

// Character classes. Every letter shares one transition key and every digit
// another; all other transitions are keyed by the rune itself.
const (
	classLetter rune = -1
	classDigit  rune = -2
	classEOF    rune = -3
)

func classOf(r rune) rune {
	switch {
	case r == '_' || unicode.IsLetter(r):
		return classLetter
	case r >= '0' && r <= '9':
		return classDigit
	}
	return r
}

// transitions is dense over states: every state has a (possibly empty)
// inner map so lookups never need a nil check.
var transitions = buildTransitions()

func buildTransitions() [numStates]map[rune]state {
	var t [numStates]map[rune]state
	for s := range t {
		t[s] = make(map[rune]state)
	}

	start := t[stStart]
	start[classLetter] = stInSymbol
	start[classDigit] = stInNumber
	start['('] = stLParen
	start[')'] = stRParen
	start['<'] = stLess
	start['>'] = stGreater
	start['='] = stEqual
	start[':'] = stColon
	start['+'] = stPlus
	start['-'] = stMinus
	start['*'] = stStar
	start['/'] = stSlash
	start[';'] = stSemicolon
	start['"'] = stInString
	start['{'] = stInComment
	for _, r := range " \t\r\n" {
		start[r] = stWhitespace
		t[stWhitespace][r] = stWhitespace
	}

	t[stInSymbol][classLetter] = stInSymbol
	t[stInSymbol][classDigit] = stInSymbol

	t[stInNumber][classDigit] = stInNumber

	t[stLess]['='] = stLessEq
	t[stLess]['>'] = stNotEqual
	t[stGreater]['='] = stGreaterEq
	t[stColon]['='] = stAssign

	t[stInString]['"'] = stString
	t[stInComment]['}'] = stComment

	return t
}

// Lexer is a finite-state scanner over a rune stream. It returns one token
// per call to Next, whitespace and comments included.
type Lexer struct {
	in   io.RuneScanner
	line int // line of the next rune to read
	col  int // column of the next rune to read
	done bool

	// position before the last ReadRune, restored by unread
	prevLine, prevCol int
}

// NewLexer creates a lexer reading from r. Readers that are not already
// io.RuneScanners are wrapped in a bufio.Reader so one rune can be pushed
// back.
func NewLexer(r io.Reader) *Lexer {
	rs, ok := r.(io.RuneScanner)
	if !ok {
		rs = bufio.NewReader(r)
	}
	return &Lexer{in: rs, line: 1, col: 1}
}

func (l *Lexer) read() (rune, error) {
	r, size, err := l.in.ReadRune()
	if err != nil {
		return 0, err
	}
	if r == utf8.RuneError && size == 1 {
		return 0, &Error{Kind: LexicalError, Line: l.line, Col: l.col, Msg: "invalid UTF-8 byte in source"}
	}
	l.prevLine, l.prevCol = l.line, l.col
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, nil
}

func (l *Lexer) unread() error {
	if err := l.in.UnreadRune(); err != nil {
		return err
	}
	l.line, l.col = l.prevLine, l.prevCol
	return nil
}

// Next returns the next token. Once the input is exhausted it returns an EOF
// token on every call.
func (l *Lexer) Next() (*Token, error) {
	if l.done {
		return &Token{Type: EOF, Line: l.line, Col: l.col}, nil
	}

	line, col := l.line, l.col
	current := stStart
	var lexeme strings.Builder

	for {
		r, err := l.read()
		atEOF := false
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, err
			}
			atEOF = true
			l.done = true
			if current == stStart {
				return &Token{Type: EOF, Line: line, Col: col}, nil
			}
		}

		cls := classEOF
		if !atEOF {
			cls = classOf(r)
		}
		next, ok := transitions[current][cls]
		if ok {
			lexeme.WriteRune(r)
			current = next
			continue
		}

		info := states[current]
		switch {
		case info.accepting:
			if !atEOF {
				if err := l.unread(); err != nil {
					return nil, err
				}
			}
			return l.makeToken(current, lexeme.String(), line, col), nil

		case info.absorbing && !atEOF:
			lexeme.WriteRune(r)

		case info.absorbing:
			what := "string literal"
			if current == stInComment {
				what = "comment"
			}
			return nil, &Error{Kind: LexicalError, Line: line, Col: col,
				Msg: fmt.Sprintf("unterminated %s (input ended before %q)", what, info.terminator)}

		case atEOF:
			return nil, &Error{Kind: LexicalError, Line: line, Col: col,
				Msg: fmt.Sprintf("unexpected end of input after %q", lexeme.String())}

		case lexeme.Len() > 0:
			return nil, &Error{Kind: LexicalError, Line: l.prevLine, Col: l.prevCol,
				Msg: fmt.Sprintf("illegal character %q after %q", r, lexeme.String())}

		default:
			return nil, &Error{Kind: LexicalError, Line: l.prevLine, Col: l.prevCol,
				Msg: fmt.Sprintf("illegal character %q", r)}
		}
	}
}

func (l *Lexer) makeToken(s state, lexeme string, line, col int) *Token {
	tt := states[s].kind
	if states[s].lookup {
		tt = IDENTIFIER
		if kw, ok := LookupKeyword(lexeme); ok {
			tt = kw
		}
	}
	return &Token{Type: tt, Lexeme: lexeme, Line: line, Col: col}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first lexical error.
func Lex(src string) ([]*Token, error) {
	l := NewLexer(strings.NewReader(src))
	var tokens []*Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
