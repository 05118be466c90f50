package compiler

import (
	"fmt"
	"io"
	"strings"
)

// Parser is the table-driven LL(1) driver. It pulls tokens from a Lexer,
// expands non-terminals through a ParseTable and runs embedded actions
// against a Context as they surface on the parse stack.
type Parser struct {
	lex   *Lexer
	table ParseTable
	ctx   *Context
	stack stack[Symbol]

	look              *Token // current lookahead, canonical for identifiers
	lookLine, lookCol int    // where this occurrence of look was scanned
	trace             io.Writer
}

func NewParser(lex *Lexer, table ParseTable, ctx *Context) *Parser {
	return &Parser{lex: lex, table: table, ctx: ctx}
}

// SetTrace makes the parser log every match, expansion and action to w.
func (p *Parser) SetTrace(w io.Writer) { p.trace = w }

func (p *Parser) tracef(format string, args ...any) {
	if p.trace != nil {
		fmt.Fprintf(p.trace, format+"\n", args...)
	}
}

// fetch advances the lookahead past whitespace and comments. Identifiers are
// replaced by their canonical symbol-table token.
func (p *Parser) fetch() error {
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return err
		}
		if tok.Type == WHITESPACE || tok.Type == COMMENT {
			continue
		}
		p.lookLine, p.lookCol = tok.Line, tok.Col
		if tok.Type == IDENTIFIER {
			tok = p.ctx.Symbols.Intern(tok)
		}
		p.look = tok
		return nil
	}
}

func (p *Parser) errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: p.lookLine, Col: p.lookCol, Msg: fmt.Sprintf(format, args...)}
}

// Parse runs the driver to completion. It returns nil only if the whole
// input was consumed and every action succeeded.
func (p *Parser) Parse() error {
	p.stack.push(NT(STATEMENT_LIST))
	if err := p.fetch(); err != nil {
		return err
	}

	for !p.stack.empty() {
		top, _ := p.stack.pop()

		switch top.Tag {
		case TagTerminal:
			if top.Terminal != p.look.Type {
				if p.look.Type == EOF {
					return p.errorf(SyntaxError, "unexpected end of input, expected %s", top.Describe())
				}
				return p.errorf(SyntaxError, "expected %s, saw %s", top.Describe(), p.look.Describe())
			}
			p.tracef("match   %s %q", p.look.Type, p.look.Lexeme)
			p.ctx.record(p.look, p.lookLine, p.lookCol)
			if err := p.fetch(); err != nil {
				return err
			}

		case TagNonTerminal:
			body, ok := p.table.Production(top.NonTerm, p.look.Type)
			if !ok {
				return p.errorf(SyntaxError, "no production for %s on %s, expected %s",
					top.NonTerm, p.look.Describe(), top.Describe())
			}
			p.tracef("expand  %s on %s -> %s", top, p.look.Type, renderBody(body))
			for i := len(body) - 1; i >= 0; i-- {
				p.stack.push(body[i])
			}

		case TagAction:
			p.tracef("action  %s", top)
			if err := p.ctx.Execute(top.Action); err != nil {
				return err
			}

		default:
			return internalError("unknown symbol %s on parse stack", top)
		}
	}

	if p.look.Type != EOF {
		return p.errorf(TrailingInputError, "unexpected %s after end of program", p.look.Describe())
	}
	return nil
}

func renderBody(body []Symbol) string {
	if len(body) == 0 {
		return "ε"
	}
	parts := make([]string, len(body))
	for i, s := range body {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}
