package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"litec/pkg/asm"
	"litec/pkg/compiler"
	"litec/pkg/utils"
	"litec/pkg/vm"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the litec command line. It returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("litec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	trace := fs.Bool("trace", false, "log parse-driver activity to stderr")
	outPath := fs.String("out", "", "write the program to this file instead of stdout (\"-\" for default name <source>.j)")
	runProgram := fs.Bool("run", false, "assemble and run the compiled program instead of printing it")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: litec [-trace] [-out file] [-run] <source.lite>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	src, err := utils.LoadSource(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "failed to read source file %q: %v\n", fs.Arg(0), err)
		return 1
	}

	opts := compiler.Options{ClassName: src.ClassName}
	if *trace {
		opts.Trace = stderr
	}
	res, err := compiler.CompileReader(strings.NewReader(src.Text), opts)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", fs.Arg(0), err)
		return 1
	}

	if *runProgram {
		prog, err := asm.Assemble(res.Assembly)
		if err != nil {
			fmt.Fprintf(stderr, "assembly failed: %v\n", err)
			return 1
		}
		m := vm.NewMachine(prog)
		m.Output = stdout
		if err := m.Run(); err != nil {
			fmt.Fprintf(stderr, "run failed: %v\n", err)
			return 1
		}
		return 0
	}

	if *outPath == "" {
		fmt.Fprint(stdout, res.Assembly)
		return 0
	}
	target := *outPath
	if target == "-" {
		target = defaultOutputPath(src.FullPath)
	}
	if err := os.WriteFile(target, []byte(res.Assembly), 0o644); err != nil {
		fmt.Fprintf(stderr, "failed to write %q: %v\n", target, err)
		return 1
	}
	fmt.Fprintf(stdout, "compiled %s -> %s\n", fs.Arg(0), target)
	return 0
}

func defaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ".j"
	}
	return strings.TrimSuffix(inPath, ext) + ".j"
}
