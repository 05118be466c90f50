package compiler

import (
	"fmt"
	"math"
	"strconv"
)

// Jasmin text for the System.out print calls.
const (
	printHeader  = "getstatic java/lang/System/out Ljava/io/PrintStream;"
	printIFooter = "invokevirtual java/io/PrintStream/print(I)V"
	printSFooter = "invokevirtual java/io/PrintStream/print(Ljava/lang/String;)V"
)

// branchOnFalse maps a relational operator to the branch that jumps to the
// end label when the comparison does NOT hold.
var branchOnFalse = map[TokenType]string{
	LESS:       "if_icmpge",
	LESS_EQ:    "if_icmpgt",
	NOT_EQ:     "if_icmpeq",
	EQUALS:     "if_icmpne",
	GREATER:    "if_icmple",
	GREATER_EQ: "if_icmplt",
}

var arithmeticOps = map[TokenType]string{
	PLUS:  "iadd",
	MINUS: "isub",
	STAR:  "imul",
	SLASH: "idiv",
}

// Execute performs one semantic action against the context, consuming the
// bookkeeping stacks and emitting code as required.
func (c *Context) Execute(a Action) error {
	switch a {
	case STORE, LOAD:
		op, err := c.popOperand(a, IDENTIFIER)
		if err != nil {
			return err
		}
		if op.tok.Address == 0 {
			return &Error{Kind: SemanticError, Line: op.line, Col: op.col,
				Msg: fmt.Sprintf("variable %s is not declared", op.tok.Lexeme)}
		}
		if a == STORE {
			c.emit(-1, "istore %d", op.tok.Address)
		} else {
			c.emit(+1, "iload %d", op.tok.Address)
		}

	case PUSH:
		op, err := c.popOperand(a, NUMBER)
		if err != nil {
			return err
		}
		n, perr := strconv.ParseInt(op.tok.Lexeme, 10, 32)
		if perr != nil {
			return &Error{Kind: SemanticError, Line: op.line, Col: op.col,
				Msg: fmt.Sprintf("integer literal %s does not fit in 32 bits", op.tok.Lexeme)}
		}
		if n >= math.MinInt16 && n <= math.MaxInt16 {
			c.emit(+1, "sipush %d", n)
		} else {
			c.emit(+1, "ldc %d", n)
		}

	case LOAD_CONST:
		op, err := c.popOperand(a, STRING)
		if err != nil {
			return err
		}
		c.emit(+1, "ldc %s", strconv.Quote(op.tok.Value()))

	case DECLARE:
		op, err := c.popOperand(a, IDENTIFIER)
		if err != nil {
			return err
		}
		if op.tok.Address != 0 {
			return &Error{Kind: SemanticError, Line: op.line, Col: op.col,
				Msg: fmt.Sprintf("variable %s is already declared", op.tok.Lexeme)}
		}
		c.Symbols.Declare(op.tok, c.nextAddress)
		c.nextAddress++

	case OP_PUSH:
		// the operator was recorded when it was matched

	case COMPUTE:
		tok, ok := c.operators.pop()
		if !ok {
			return internalError("%s: operator stack is empty", a)
		}
		if branch, ok := branchOnFalse[tok.Type]; ok {
			end, ok := c.endLabels.peek()
			if !ok {
				return internalError("%s: label stack is empty", a)
			}
			c.emit(-2, "%s %s", branch, end)
			return nil
		}
		instr, ok := arithmeticOps[tok.Type]
		if !ok {
			return internalError("%s: %s is not an operator", a, tok.Type)
		}
		c.emit(-1, "%s", instr)

	case PRINT_HEADER:
		c.emit(+1, printHeader)
	case PRINT_IFOOTER:
		c.emit(-2, printIFooter)
	case PRINT_SFOOTER:
		c.emit(-2, printSFooter)

	case GEN_LABELS:
		c.beginLabels.push(fmt.Sprintf("begin%d", c.nextLabel))
		c.endLabels.push(fmt.Sprintf("end%d", c.nextLabel))
		c.nextLabel++

	case POP_LABELS:
		_, okBegin := c.beginLabels.pop()
		_, okEnd := c.endLabels.pop()
		if !okBegin || !okEnd {
			return internalError("%s: label stack is empty", a)
		}

	case GOTO_BEGIN, GOTO_END, BEGIN_LABEL, END_LABEL:
		labels := &c.beginLabels
		if a == GOTO_END || a == END_LABEL {
			labels = &c.endLabels
		}
		name, ok := labels.peek()
		if !ok {
			return internalError("%s: label stack is empty", a)
		}
		if a == GOTO_BEGIN || a == GOTO_END {
			c.emit(0, "goto %s", name)
		} else {
			c.label(name)
		}

	default:
		return internalError("unknown action %s", a)
	}
	return nil
}

func (c *Context) popOperand(a Action, want TokenType) (operand, error) {
	op, ok := c.operands.pop()
	if !ok {
		return op, internalError("%s: operand stack is empty", a)
	}
	if op.tok.Type != want {
		return op, internalError("%s: expected %s operand, found %s", a, want, op.tok.Type)
	}
	return op, nil
}
