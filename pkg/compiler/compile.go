package compiler

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const codeHeader = `.class public %s
.super java/lang/Object
.method public <init>()V
aload_0
invokenonvirtual java/lang/Object/<init>()V
return
.end method
.method public static main([Ljava/lang/String;)V
.limit locals %d
.limit stack %d
`

const codeFooter = `return
.end method
`

// Options controls a single compilation.
type Options struct {
	ClassName string    // defaults to "Main"
	Trace     io.Writer // optional parse-driver trace
}

// Result is the output of a successful compilation.
type Result struct {
	Assembly string
	Symbols  *SymbolTable
}

// Compile compiles Lite source text into assembly for a class named
// className.
func Compile(src, className string) (*Result, error) {
	return CompileReader(strings.NewReader(src), Options{ClassName: className})
}

// CompileReader runs the full pipeline over r. Output is buffered, so
// nothing is produced unless the whole input compiles.
func CompileReader(r io.Reader, opts Options) (*Result, error) {
	name := opts.ClassName
	if name == "" {
		name = "Main"
	}

	ctx := NewContext()
	p := NewParser(NewLexer(r), NewParseTable(), ctx)
	if opts.Trace != nil {
		p.SetTrace(opts.Trace)
	}
	if err := p.Parse(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, codeHeader, name, ctx.Locals(), ctx.MaxStack())
	sb.WriteString(ctx.Code())
	sb.WriteString(codeFooter)
	return &Result{Assembly: sb.String(), Symbols: ctx.Symbols}, nil
}

// ClassName derives the class name from a source path: the base name
// without its extension.
func ClassName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
