package asm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"litec/pkg/vm"
)

const mainDescriptor = "main([Ljava/lang/String;)V"

var zeroOperandOps = map[string]uint8{
	"nop":     vm.OpNOP,
	"return":  vm.OpRETURN,
	"aload_0": vm.OpALOAD0,
	"iadd":    vm.OpIADD,
	"isub":    vm.OpISUB,
	"imul":    vm.OpIMUL,
	"idiv":    vm.OpIDIV,
}

var localOps = map[string]uint8{
	"iload":  vm.OpILOAD,
	"istore": vm.OpISTORE,
}

var branchOps = map[string]uint8{
	"if_icmpeq": vm.OpIFICMPEQ,
	"if_icmpne": vm.OpIFICMPNE,
	"if_icmplt": vm.OpIFICMPLT,
	"if_icmpge": vm.OpIFICMPGE,
	"if_icmpgt": vm.OpIFICMPGT,
	"if_icmple": vm.OpIFICMPLE,
	"goto":      vm.OpGOTO,
}

// Method references the machine implements natively, keyed by the full
// operand text.
var invokeTargets = map[string]uint8{
	"java/io/PrintStream/print(I)V":                  vm.OpPRINTI,
	"java/io/PrintStream/print(Ljava/lang/String;)V": vm.OpPRINTS,
}

const (
	stdoutField = "java/lang/System/out"
	stdoutType  = "Ljava/io/PrintStream;"
	objectInit  = "java/lang/Object/<init>()V"
)

// Assembler turns the Jasmin-style text the compiler emits into a
// vm.Program. Only the class's main method is executable; other methods are
// checked and skipped.
type Assembler struct {
	labels map[string]map[string]int // method -> label -> instruction index
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

func NewAssembler() *Assembler {
	return &Assembler{}
}

func Assemble(code string) (*vm.Program, error) {
	return NewAssembler().Assemble(code)
}

func (a *Assembler) Assemble(code string) (*vm.Program, error) {
	a.labels = make(map[string]map[string]int)
	lines := strings.Split(code, "\n")
	parsed := make([]parsedLine, 0, len(lines))
	for i, raw := range lines {
		p, err := parseLine(raw, i+1)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, p)
	}

	if err := a.pass1(parsed); err != nil {
		return nil, err
	}
	return a.pass2(parsed)
}

// pass1 checks the directive structure and records label positions.
func (a *Assembler) pass1(lines []parsedLine) error {
	method := ""
	index := 0
	sawClass := false

	for _, p := range lines {
		for _, lbl := range p.labels {
			if method == "" {
				return fmt.Errorf("label '%s' outside of a method on line %d", lbl, p.lineNo)
			}
			if _, exists := a.labels[method][lbl]; exists {
				return fmt.Errorf("duplicate label '%s' on line %d", lbl, p.lineNo)
			}
			a.labels[method][lbl] = index
		}

		switch p.mnemonic {
		case "":
			continue
		case ".class":
			if sawClass {
				return fmt.Errorf("second .class directive on line %d", p.lineNo)
			}
			if len(p.operands) == 0 {
				return fmt.Errorf(".class expects a class name on line %d", p.lineNo)
			}
			sawClass = true
		case ".super":
			if len(p.operands) != 1 {
				return fmt.Errorf(".super expects 1 operand on line %d", p.lineNo)
			}
		case ".method":
			if method != "" {
				return fmt.Errorf("nested .method on line %d", p.lineNo)
			}
			if len(p.operands) == 0 {
				return fmt.Errorf(".method expects a name on line %d", p.lineNo)
			}
			method = p.operands[len(p.operands)-1]
			if _, exists := a.labels[method]; exists {
				return fmt.Errorf("duplicate method '%s' on line %d", method, p.lineNo)
			}
			a.labels[method] = make(map[string]int)
			index = 0
		case ".end":
			if len(p.operands) != 1 || p.operands[0] != "method" {
				return fmt.Errorf("unknown directive on line %d: .end %s", p.lineNo, strings.Join(p.operands, " "))
			}
			if method == "" {
				return fmt.Errorf(".end method without .method on line %d", p.lineNo)
			}
			method = ""
		case ".limit":
			if method == "" {
				return fmt.Errorf(".limit outside of a method on line %d", p.lineNo)
			}
		default:
			if strings.HasPrefix(p.mnemonic, ".") {
				return fmt.Errorf("unknown directive on line %d: %s", p.lineNo, p.mnemonic)
			}
			if method == "" {
				return fmt.Errorf("instruction outside of a method on line %d: %s", p.lineNo, p.mnemonic)
			}
			index++
		}
	}

	if method != "" {
		return fmt.Errorf("missing .end method for '%s'", method)
	}
	if !sawClass {
		return fmt.Errorf("missing .class directive")
	}
	if _, ok := a.labels[mainDescriptor]; !ok {
		return fmt.Errorf("no %s method", mainDescriptor)
	}
	return nil
}

func (a *Assembler) pass2(lines []parsedLine) (*vm.Program, error) {
	prog := &vm.Program{}
	method := ""

	for _, p := range lines {
		ops := p.operands

		switch p.mnemonic {
		case "", ".super", ".end":
			if p.mnemonic == ".end" {
				method = ""
			}
			continue
		case ".class":
			prog.Class = ops[len(ops)-1]
			continue
		case ".method":
			method = ops[len(ops)-1]
			continue
		case ".limit":
			if err := a.limit(prog, method, p); err != nil {
				return nil, err
			}
			continue
		}

		in, err := a.instruction(method, p)
		if err != nil {
			return nil, err
		}
		if method == mainDescriptor {
			prog.Code = append(prog.Code, in)
		}
	}

	if prog.Locals > 0 {
		for _, in := range prog.Code {
			if (in.Op == vm.OpILOAD || in.Op == vm.OpISTORE) && in.Arg >= prog.Locals {
				return nil, fmt.Errorf("local slot %d exceeds .limit locals %d on line %d", in.Arg, prog.Locals, in.Line)
			}
		}
	}
	return prog, nil
}

func (a *Assembler) limit(prog *vm.Program, method string, p parsedLine) error {
	if len(p.operands) != 2 {
		return fmt.Errorf(".limit expects 2 operands on line %d", p.lineNo)
	}
	n, err := strconv.Atoi(p.operands[1])
	if err != nil || n < 0 {
		return fmt.Errorf("invalid .limit value on line %d: %s", p.lineNo, p.operands[1])
	}
	if method != mainDescriptor {
		return nil
	}
	switch p.operands[0] {
	case "locals":
		prog.Locals = n
	case "stack":
		prog.StackLimit = n
	default:
		return fmt.Errorf("unknown .limit '%s' on line %d", p.operands[0], p.lineNo)
	}
	return nil
}

func (a *Assembler) instruction(method string, p parsedLine) (vm.Instr, error) {
	mnemonic, ops := p.mnemonic, p.operands
	in := vm.Instr{Line: p.lineNo}

	if op, ok := zeroOperandOps[mnemonic]; ok {
		if len(ops) != 0 {
			return in, fmt.Errorf("%s expects 0 operands on line %d", mnemonic, p.lineNo)
		}
		in.Op = op
		return in, nil
	}

	if len(ops) != 1 && takesOneOperand(mnemonic) {
		return in, fmt.Errorf("%s expects 1 operand on line %d", mnemonic, p.lineNo)
	}

	if op, ok := localOps[mnemonic]; ok {
		slot, err := strconv.Atoi(ops[0])
		if err != nil || slot < 0 || slot > math.MaxUint16 {
			return in, fmt.Errorf("invalid local slot '%s' on line %d", ops[0], p.lineNo)
		}
		in.Op, in.Arg = op, slot
		return in, nil
	}

	if op, ok := branchOps[mnemonic]; ok {
		target, ok := a.labels[method][ops[0]]
		if !ok {
			if isIdentifier(ops[0]) {
				return in, fmt.Errorf("undefined label '%s' on line %d", ops[0], p.lineNo)
			}
			return in, fmt.Errorf("invalid label '%s' on line %d", ops[0], p.lineNo)
		}
		in.Op, in.Arg = op, target
		return in, nil
	}

	switch mnemonic {
	case "sipush":
		n, err := strconv.ParseInt(ops[0], 10, 16)
		if err != nil {
			return in, fmt.Errorf("sipush operand out of range on line %d: %s", p.lineNo, ops[0])
		}
		in.Op, in.Arg = vm.OpSIPUSH, int(n)
		return in, nil

	case "ldc":
		if strings.HasPrefix(ops[0], `"`) {
			s, err := strconv.Unquote(ops[0])
			if err != nil {
				return in, fmt.Errorf("invalid string literal on line %d", p.lineNo)
			}
			in.Op, in.Str = vm.OpLDCS, s
			return in, nil
		}
		n, err := strconv.ParseInt(ops[0], 10, 32)
		if err != nil {
			return in, fmt.Errorf("invalid ldc constant on line %d: %s", p.lineNo, ops[0])
		}
		in.Op, in.Arg = vm.OpLDC, int(n)
		return in, nil

	case "getstatic":
		if len(ops) != 2 || ops[0] != stdoutField || ops[1] != stdoutType {
			return in, fmt.Errorf("unsupported field on line %d: %s", p.lineNo, strings.Join(ops, " "))
		}
		in.Op = vm.OpGETSTATIC
		return in, nil

	case "invokevirtual":
		op, ok := invokeTargets[ops[0]]
		if !ok {
			return in, fmt.Errorf("unsupported method on line %d: %s", p.lineNo, ops[0])
		}
		in.Op = op
		return in, nil

	case "invokenonvirtual", "invokespecial":
		if ops[0] != objectInit || method == mainDescriptor {
			return in, fmt.Errorf("unsupported method on line %d: %s", p.lineNo, ops[0])
		}
		in.Op = vm.OpNOP
		return in, nil
	}

	return in, fmt.Errorf("unknown instruction on line %d: %s", p.lineNo, mnemonic)
}

func takesOneOperand(m string) bool {
	if _, ok := localOps[m]; ok {
		return true
	}
	if _, ok := branchOps[m]; ok {
		return true
	}
	switch m {
	case "sipush", "ldc", "invokevirtual", "invokenonvirtual", "invokespecial":
		return true
	}
	return false
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(raw)
	for line != "" {
		fields := strings.Fields(line)
		first := fields[0]
		if !strings.HasSuffix(first, ":") {
			break
		}
		label := strings.TrimSuffix(first, ":")
		if !isIdentifier(label) {
			return p, fmt.Errorf("invalid label '%s' on line %d", label, lineNo)
		}
		p.labels = append(p.labels, label)
		line = strings.TrimSpace(line[len(first):])
	}

	// String constants may contain anything, including the comment marker.
	if rest, ok := strings.CutPrefix(line, "ldc"); ok && strings.HasPrefix(strings.TrimSpace(rest), `"`) {
		rest = strings.TrimSpace(rest)
		lit, err := strconv.QuotedPrefix(rest)
		if err != nil {
			return p, fmt.Errorf("invalid string literal on line %d", lineNo)
		}
		if trailing := strings.TrimSpace(stripComments(rest[len(lit):])); trailing != "" {
			return p, fmt.Errorf("unexpected text after string literal on line %d: %s", lineNo, trailing)
		}
		p.mnemonic = "ldc"
		p.operands = []string{lit}
		return p, nil
	}

	line = strings.TrimSpace(stripComments(line))
	if line == "" {
		return p, nil
	}

	fields := strings.Fields(line)
	p.mnemonic = fields[0]
	if len(fields) > 1 {
		p.operands = fields[1:]
	}
	return p, nil
}

// stripComments removes a ';' comment. Type descriptors contain ';' too, so
// only a semicolon that starts the line or follows whitespace begins one.
func stripComments(line string) string {
	for i, r := range line {
		if r != ';' {
			continue
		}
		if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
			return line[:i]
		}
	}
	return line
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}
