package vm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

const (
	OpNOP uint8 = iota
	OpRETURN
	OpALOAD0
	OpSIPUSH
	OpLDC  // integer constant
	OpLDCS // string constant
	OpILOAD
	OpISTORE
	OpIADD
	OpISUB
	OpIMUL
	OpIDIV
	OpIFICMPEQ
	OpIFICMPNE
	OpIFICMPLT
	OpIFICMPGE
	OpIFICMPGT
	OpIFICMPLE
	OpGOTO
	OpGETSTATIC // pushes the standard output stream
	OpPRINTI    // PrintStream.print(int)
	OpPRINTS    // PrintStream.print(String)
)

var opNames = [...]string{
	OpNOP:       "nop",
	OpRETURN:    "return",
	OpALOAD0:    "aload_0",
	OpSIPUSH:    "sipush",
	OpLDC:       "ldc",
	OpLDCS:      "ldc",
	OpILOAD:     "iload",
	OpISTORE:    "istore",
	OpIADD:      "iadd",
	OpISUB:      "isub",
	OpIMUL:      "imul",
	OpIDIV:      "idiv",
	OpIFICMPEQ:  "if_icmpeq",
	OpIFICMPNE:  "if_icmpne",
	OpIFICMPLT:  "if_icmplt",
	OpIFICMPGE:  "if_icmpge",
	OpIFICMPGT:  "if_icmpgt",
	OpIFICMPLE:  "if_icmple",
	OpGOTO:      "goto",
	OpGETSTATIC: "getstatic",
	OpPRINTI:    "invokevirtual",
	OpPRINTS:    "invokevirtual",
}

// Instr is one decoded instruction. Arg holds the immediate, local slot or
// branch target; Str holds a string constant.
type Instr struct {
	Op   uint8
	Arg  int
	Str  string
	Line int // source line in the assembly text
}

func (in Instr) String() string {
	name := "?"
	if int(in.Op) < len(opNames) {
		name = opNames[in.Op]
	}
	switch in.Op {
	case OpSIPUSH, OpLDC, OpILOAD, OpISTORE:
		return fmt.Sprintf("%s %d", name, in.Arg)
	case OpLDCS:
		return name + " " + strconv.Quote(in.Str)
	case OpIFICMPEQ, OpIFICMPNE, OpIFICMPLT, OpIFICMPGE, OpIFICMPGT, OpIFICMPLE, OpGOTO:
		return fmt.Sprintf("%s @%d", name, in.Arg)
	case OpGETSTATIC:
		return name + " java/lang/System/out"
	case OpPRINTI:
		return name + " print(I)V"
	case OpPRINTS:
		return name + " print(Ljava/lang/String;)V"
	}
	return name
}

// Program is the executable form of a class's main method.
type Program struct {
	Class      string
	Code       []Instr
	Locals     int // 0 means unchecked
	StackLimit int // 0 means unchecked
}

type Kind uint8

const (
	KindInt Kind = iota
	KindString
	KindStream
	KindRef
)

// Value is an operand-stack or local-variable slot.
type Value struct {
	Kind Kind
	Int  int32
	Str  string
}

var (
	ErrHalted    = errors.New("machine halted")
	ErrStepLimit = errors.New("step limit exceeded")
)

// Machine executes a Program one instruction at a time.
type Machine struct {
	Program *Program

	PC     int
	Stack  []Value
	Locals []Value
	set    []bool // which locals have been stored

	Halted bool
	Steps  int

	// StepLimit bounds Run. Zero means no limit.
	StepLimit int

	// Output receives everything the program prints.
	// If nil, os.Stdout is used.
	Output io.Writer
}

// NewMachine prepares p for execution. Slot 0 holds main's argument array.
func NewMachine(p *Program) *Machine {
	n := p.Locals
	if n < 1 {
		n = 256
	}
	m := &Machine{
		Program: p,
		Locals:  make([]Value, n),
		set:     make([]bool, n),
	}
	m.Locals[0] = Value{Kind: KindRef}
	m.set[0] = true
	return m
}

func (m *Machine) outputSink() io.Writer {
	if m.Output != nil {
		return m.Output
	}
	return os.Stdout
}

func (m *Machine) push(in Instr, v Value) error {
	if lim := m.Program.StackLimit; lim > 0 && len(m.Stack) >= lim {
		return fmt.Errorf("operand stack overflow on line %d: limit %d", in.Line, lim)
	}
	m.Stack = append(m.Stack, v)
	return nil
}

func (m *Machine) pop(in Instr, want Kind) (Value, error) {
	if len(m.Stack) == 0 {
		return Value{}, fmt.Errorf("operand stack underflow on line %d: %s", in.Line, in)
	}
	v := m.Stack[len(m.Stack)-1]
	m.Stack = m.Stack[:len(m.Stack)-1]
	if v.Kind != want {
		return v, fmt.Errorf("type mismatch on line %d: %s found %s operand", in.Line, in, kindName(v.Kind))
	}
	return v, nil
}

func (m *Machine) popInts(in Instr) (int32, int32, error) {
	b, err := m.pop(in, KindInt)
	if err != nil {
		return 0, 0, err
	}
	a, err := m.pop(in, KindInt)
	if err != nil {
		return 0, 0, err
	}
	return a.Int, b.Int, nil
}

func (m *Machine) local(in Instr) error {
	if in.Arg < 0 || in.Arg >= len(m.Locals) {
		return fmt.Errorf("local slot %d out of range on line %d", in.Arg, in.Line)
	}
	return nil
}

// Step executes one instruction.
func (m *Machine) Step() error {
	if m.Halted {
		return ErrHalted
	}
	if m.PC < 0 || m.PC >= len(m.Program.Code) {
		m.Halted = true
		return fmt.Errorf("execution ran past the end of %s", m.Program.Class)
	}

	in := m.Program.Code[m.PC]
	m.PC++
	m.Steps++

	switch in.Op {
	case OpNOP:

	case OpRETURN:
		m.Halted = true

	case OpALOAD0:
		return m.push(in, m.Locals[0])

	case OpSIPUSH, OpLDC:
		return m.push(in, Value{Kind: KindInt, Int: int32(in.Arg)})

	case OpLDCS:
		return m.push(in, Value{Kind: KindString, Str: in.Str})

	case OpILOAD:
		if err := m.local(in); err != nil {
			return err
		}
		if !m.set[in.Arg] {
			return fmt.Errorf("local %d read before assignment on line %d", in.Arg, in.Line)
		}
		return m.push(in, m.Locals[in.Arg])

	case OpISTORE:
		if err := m.local(in); err != nil {
			return err
		}
		v, err := m.pop(in, KindInt)
		if err != nil {
			return err
		}
		m.Locals[in.Arg] = v
		m.set[in.Arg] = true

	case OpIADD, OpISUB, OpIMUL, OpIDIV:
		a, b, err := m.popInts(in)
		if err != nil {
			return err
		}
		var r int32
		switch in.Op {
		case OpIADD:
			r = a + b
		case OpISUB:
			r = a - b
		case OpIMUL:
			r = a * b
		case OpIDIV:
			if b == 0 {
				return fmt.Errorf("division by zero on line %d", in.Line)
			}
			r = a / b
		}
		return m.push(in, Value{Kind: KindInt, Int: r})

	case OpIFICMPEQ, OpIFICMPNE, OpIFICMPLT, OpIFICMPGE, OpIFICMPGT, OpIFICMPLE:
		a, b, err := m.popInts(in)
		if err != nil {
			return err
		}
		if compare(in.Op, a, b) {
			m.PC = in.Arg
		}

	case OpGOTO:
		m.PC = in.Arg

	case OpGETSTATIC:
		return m.push(in, Value{Kind: KindStream})

	case OpPRINTI:
		v, err := m.pop(in, KindInt)
		if err != nil {
			return err
		}
		if _, err := m.pop(in, KindStream); err != nil {
			return err
		}
		_, err = io.WriteString(m.outputSink(), strconv.FormatInt(int64(v.Int), 10))
		return err

	case OpPRINTS:
		v, err := m.pop(in, KindString)
		if err != nil {
			return err
		}
		if _, err := m.pop(in, KindStream); err != nil {
			return err
		}
		_, err = io.WriteString(m.outputSink(), v.Str)
		return err

	default:
		m.Halted = true
		return fmt.Errorf("unknown opcode 0x%02X on line %d", in.Op, in.Line)
	}
	return nil
}

func compare(op uint8, a, b int32) bool {
	switch op {
	case OpIFICMPEQ:
		return a == b
	case OpIFICMPNE:
		return a != b
	case OpIFICMPLT:
		return a < b
	case OpIFICMPGE:
		return a >= b
	case OpIFICMPGT:
		return a > b
	case OpIFICMPLE:
		return a <= b
	}
	return false
}

// Run executes until the program returns, an instruction fails or the step
// limit is reached.
func (m *Machine) Run() error {
	for !m.Halted {
		if m.StepLimit > 0 && m.Steps >= m.StepLimit {
			return fmt.Errorf("%w after %d steps", ErrStepLimit, m.Steps)
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

func kindName(k Kind) string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindStream:
		return "stream"
	case KindRef:
		return "reference"
	}
	return "unknown"
}
