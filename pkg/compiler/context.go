package compiler

import (
	"fmt"
	"strings"
)

// operand is a token recorded on the operand stack together with the
// position it was matched at. Canonical identifier tokens carry the position
// of their first occurrence, so diagnostics use the recorded one instead.
type operand struct {
	tok       *Token
	line, col int
}

// Context is the compile-time state shared by the parse driver and every
// action: the symbol table, the bookkeeping stacks, the label and address
// counters and the buffered output. One Context serves one compilation.
type Context struct {
	Symbols *SymbolTable

	operands    stack[operand]
	operators   stack[*Token]
	beginLabels stack[string]
	endLabels   stack[string]

	nextLabel   int // never reused
	nextAddress int // slot 0 holds main's argument array

	out strings.Builder

	// operand-stack depth of the emitted code, for .limit stack
	depth    int
	maxDepth int
}

func NewContext() *Context {
	return &Context{
		Symbols:     NewSymbolTable(),
		nextAddress: 1,
	}
}

// record pushes a matched token onto the bookkeeping stack that the
// following actions consume. Other token types are not recorded.
func (c *Context) record(tok *Token, line, col int) {
	switch {
	case tok.Type.IsOperand():
		c.operands.push(operand{tok: tok, line: line, col: col})
	case tok.Type.IsOperator():
		c.operators.push(tok)
	}
}

// emit writes one instruction line. delta is the instruction's net effect on
// the run-time operand stack.
func (c *Context) emit(delta int, format string, args ...any) {
	fmt.Fprintf(&c.out, format+"\n", args...)
	c.depth += delta
	if c.depth > c.maxDepth {
		c.maxDepth = c.depth
	}
}

func (c *Context) label(name string) {
	c.out.WriteString(name + ":\n")
}

// Code returns the instructions emitted so far, without header or footer.
func (c *Context) Code() string {
	return c.out.String()
}

// Locals is the number of local slots the program uses, argument slot
// included.
func (c *Context) Locals() int {
	return c.nextAddress
}

// MaxStack is the deepest run-time operand stack the emitted code reaches.
func (c *Context) MaxStack() int {
	return c.maxDepth
}
