package compiler

import (
	"bytes"
	"strings"
	"testing"
)

// assertContains checks if the generated code contains the expected substring.
func assertContains(t *testing.T, code, expected string) {
	t.Helper()
	if !strings.Contains(code, expected) {
		t.Errorf("Expected code to contain %q, but it didn't.\nCode:\n%s", expected, code)
	}
}

// parseBody runs the driver over src and returns the context, so tests can
// inspect the emitted instructions without the class header.
func parseBody(t *testing.T, src string) (*Context, error) {
	t.Helper()
	ctx := NewContext()
	err := NewParser(NewLexer(strings.NewReader(src)), NewParseTable(), ctx).Parse()
	return ctx, err
}

func mustParse(t *testing.T, src string) string {
	t.Helper()
	ctx, err := parseBody(t, src)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}
	return ctx.Code()
}

func lines(ls ...string) string { return strings.Join(ls, "\n") + "\n" }

func TestDeclarationGetsFirstAddress(t *testing.T) {
	ctx, err := parseBody(t, "variable x")
	if err != nil {
		t.Fatal(err)
	}
	x, ok := ctx.Symbols.Lookup("x")
	if !ok || x.Address != 1 {
		t.Fatalf("x = %v, %v; want address 1", x, ok)
	}
	if ctx.Code() != "" {
		t.Errorf("declaration emitted code: %q", ctx.Code())
	}
}

func TestAssignAndPrint(t *testing.T) {
	code := mustParse(t, "variable x; x := 2 + 3; print x")
	want := lines(
		"sipush 2",
		"sipush 3",
		"iadd",
		"istore 1",
		printHeader,
		"iload 1",
		printIFooter,
	)
	if code != want {
		t.Errorf("code =\n%s\nwant\n%s", code, want)
	}
}

func TestPrintString(t *testing.T) {
	code := mustParse(t, `print "hello, world"`)
	want := lines(printHeader, `ldc "hello, world"`, printSFooter)
	if code != want {
		t.Errorf("code =\n%s\nwant\n%s", code, want)
	}
}

func TestArithmeticIsLeftToRight(t *testing.T) {
	code := mustParse(t, "variable a; variable b; variable c; a := a + b * c")
	want := lines("iload 1", "iload 2", "iadd", "iload 3", "imul", "istore 1")
	if code != want {
		t.Errorf("code =\n%s\nwant\n%s", code, want)
	}
}

func TestParenthesesGroup(t *testing.T) {
	code := mustParse(t, "variable a; variable b; a := a - (b / 2)")
	want := lines("iload 1", "iload 2", "sipush 2", "idiv", "isub", "istore 1")
	if code != want {
		t.Errorf("code =\n%s\nwant\n%s", code, want)
	}
}

func TestIfThen(t *testing.T) {
	code := mustParse(t, "variable a; variable b; if a < b then print a")
	want := lines(
		"iload 1",
		"iload 2",
		"if_icmpge end0",
		printHeader,
		"iload 1",
		printIFooter,
		"goto begin0",
		"end0:",
		"begin0:",
	)
	if code != want {
		t.Errorf("code =\n%s\nwant\n%s", code, want)
	}
}

func TestElseBindsToInnermostIf(t *testing.T) {
	code := mustParse(t, "variable a; variable b; variable c; if a < b then if b < c then print 1 else print 2")
	want := lines(
		"iload 1",
		"iload 2",
		"if_icmpge end0",
		"iload 2",
		"iload 3",
		"if_icmpge end1",
		printHeader,
		"sipush 1",
		printIFooter,
		"goto begin1",
		"end1:",
		printHeader,
		"sipush 2",
		printIFooter,
		"begin1:",
		"goto begin0",
		"end0:",
		"begin0:",
	)
	if code != want {
		t.Errorf("code =\n%s\nwant\n%s", code, want)
	}
}

func TestWhileLoop(t *testing.T) {
	code := mustParse(t, "variable i; i := 0; while i < 3 do i := i + 1")
	want := lines(
		"sipush 0",
		"istore 1",
		"begin0:",
		"iload 1",
		"sipush 3",
		"if_icmpge end0",
		"iload 1",
		"sipush 1",
		"iadd",
		"istore 1",
		"goto begin0",
		"end0:",
	)
	if code != want {
		t.Errorf("code =\n%s\nwant\n%s", code, want)
	}
}

func TestRelationalOperators(t *testing.T) {
	tests := []struct {
		op, branch string
	}{
		{"<", "if_icmpge"},
		{"<=", "if_icmpgt"},
		{"<>", "if_icmpeq"},
		{"=", "if_icmpne"},
		{">", "if_icmple"},
		{">=", "if_icmplt"},
	}
	for _, tt := range tests {
		code := mustParse(t, "variable a; while a "+tt.op+" 10 + 1 do a := a + 1")
		assertContains(t, code, "sipush 10\nsipush 1\niadd\n"+tt.branch+" end0\n")
	}
}

func TestNestedLoopLabelsDoNotCollide(t *testing.T) {
	src := `variable i; variable j;
while i < 3 do begin
  j := 0;
  while j < 3 do j := j + 1;
  if i = j then print i;
  i := i + 1
end`
	code := mustParse(t, src)
	for _, label := range []string{"begin0:", "end0:", "begin1:", "end1:", "begin2:", "end2:"} {
		if n := strings.Count(code, label+"\n"); n != 1 {
			t.Errorf("label %s defined %d times", label, n)
		}
	}
	if strings.Index(code, "end1:") > strings.Index(code, "end0:") {
		t.Errorf("inner loop label placed after outer loop end:\n%s", code)
	}
}

func TestRepeatedAssignmentsShareAddress(t *testing.T) {
	code := mustParse(t, "variable x; x := 1; x := 2; print x")
	if n := strings.Count(code, "istore 1\n"); n != 2 {
		t.Errorf("istore 1 appears %d times, want 2:\n%s", n, code)
	}
	assertContains(t, code, "iload 1\n")
}

func TestCommentsAndWhitespaceIgnored(t *testing.T) {
	code := mustParse(t, "{ header }\nvariable x {after decl};\n\tx := 1 { trailing }\n")
	want := lines("sipush 1", "istore 1")
	if code != want {
		t.Errorf("code = %q, want %q", code, want)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		kind      ErrorKind
		line, col int
		msg       string
	}{
		{"Missing Identifier", "variable ;", SyntaxError, 1, 10, "expected identifier, saw ';'"},
		{"End Of Input", "variable", SyntaxError, 1, 9, "unexpected end of input, expected identifier"},
		{"Empty Program", "", SyntaxError, 1, 1, "expected a statement"},
		{"Trailing Separator", "variable x;", SyntaxError, 1, 12, "expected a statement"},
		{"Missing Then", "variable a; if a < 1 print a", SyntaxError, 1, 22, "no production for ARITHMETIC_TERM on 'print'"},
		{"Bare Expression", "variable a;\na < 1", SyntaxError, 2, 3, "expected ':='"},
		{"Missing Relational", "variable a; if a then print a", SyntaxError, 1, 18, "expected a relational operator"},
		{"String In Expression", `variable a; a := "s"`, SyntaxError, 1, 18, "on string \"s\", expected an expression"},
		{"Trailing End", "variable x end", TrailingInputError, 1, 12, "unexpected 'end'"},
		{"Lexical", `print "oops`, LexicalError, 1, 7, "unterminated string literal"},
		{"Undeclared", "y := 1", SemanticError, 1, 1, "variable y is not declared"},
		{"Redeclared", "variable y;\nvariable y", SemanticError, 2, 10, "already declared"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseBody(t, tt.src)
			cerr := wantKind(t, err, tt.kind)
			if cerr.Line != tt.line || cerr.Col != tt.col {
				t.Errorf("position = %d:%d, want %d:%d (%v)", cerr.Line, cerr.Col, tt.line, tt.col, cerr)
			}
			if !strings.Contains(cerr.Msg, tt.msg) {
				t.Errorf("message %q does not contain %q", cerr.Msg, tt.msg)
			}
		})
	}
}

func TestSyntaxErrorAssignsNoAddress(t *testing.T) {
	ctx, err := parseBody(t, "variable ;")
	wantKind(t, err, SyntaxError)
	if len(ctx.Symbols.Declared()) != 0 || ctx.Locals() != 1 {
		t.Errorf("declared %v, locals %d", ctx.Symbols.Declared(), ctx.Locals())
	}
}

func TestCompileHeaderAndFooter(t *testing.T) {
	res, err := Compile("variable n; n := 40000; print n; print \" done\"", "Hello")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	code := res.Assembly
	if !strings.HasPrefix(code, ".class public Hello\n.super java/lang/Object\n") {
		t.Errorf("unexpected header:\n%s", code)
	}
	assertContains(t, code, "invokenonvirtual java/lang/Object/<init>()V\n")
	assertContains(t, code, ".method public static main([Ljava/lang/String;)V\n")
	assertContains(t, code, ".limit locals 2\n.limit stack 2\n")
	assertContains(t, code, "ldc 40000\nistore 1\n")
	assertContains(t, code, `ldc " done"`)
	if !strings.HasSuffix(code, printSFooter+"\nreturn\n.end method\n") {
		t.Errorf("unexpected footer:\n%s", code)
	}
	if n, _ := res.Symbols.Lookup("n"); n == nil || n.Address != 1 {
		t.Errorf("symbol n = %v", n)
	}
}

func TestCompileFailureProducesNoOutput(t *testing.T) {
	res, err := Compile("print 1; print", "Broken")
	if err == nil || res != nil {
		t.Fatalf("Compile() = %v, %v; want nil result and an error", res, err)
	}
}

func TestCompileDefaultClassName(t *testing.T) {
	res, err := CompileReader(strings.NewReader("print 1"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, res.Assembly, ".class public Main\n")
}

func TestCompileTrace(t *testing.T) {
	var trace bytes.Buffer
	_, err := CompileReader(strings.NewReader("variable x"), Options{ClassName: "T", Trace: &trace})
	if err != nil {
		t.Fatal(err)
	}
	out := trace.String()
	assertContains(t, out, "expand  <STATEMENT_LIST> on VARIABLE")
	assertContains(t, out, "match   VARIABLE \"variable\"")
	assertContains(t, out, "action  [DECLARE]")
	assertContains(t, out, "expand  <SEPARATED_LIST> on EOF -> ε")
}

func TestClassName(t *testing.T) {
	tests := map[string]string{
		"prog.lite":          "prog",
		"dir/sub/Fib.lite":   "Fib",
		"noext":              "noext",
		"/abs/path/a.b.lite": "a.b",
	}
	for in, want := range tests {
		if got := ClassName(in); got != want {
			t.Errorf("ClassName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIndependentCompilations(t *testing.T) {
	a, err := Compile("variable a; a := 1", "A")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile("variable b; variable c; if b < c then print 1", "B")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Symbols.Lookup("b"); ok {
		t.Error("symbol tables leaked between compilations")
	}
	assertContains(t, b.Assembly, "if_icmpge end0")
}
