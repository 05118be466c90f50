package main

import (
	"flag"
	"fmt"
	"os"

	"litec/pkg/asm"
	"litec/pkg/compiler"
	"litec/pkg/utils"
	"litec/pkg/vm"
)

func main() {
	steps := flag.Int("steps", 1_000_000, "maximum instructions to execute (0 for no limit)")
	showAsm := flag.Bool("show-asm", false, "print the generated assembly before running")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: console [-steps N] [-show-asm] <file.lite | file.j>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	src, err := utils.LoadSource(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read source file: %v\n", err)
		os.Exit(1)
	}

	assembly := src.Text
	if src.IsLite() {
		res, err := compiler.Compile(src.Text, src.ClassName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "compilation failed: %v\n", err)
			os.Exit(1)
		}
		assembly = res.Assembly
	}
	if *showAsm {
		fmt.Fprint(os.Stderr, "Generated Assembly:\n", assembly, "\n")
	}

	prog, err := asm.Assemble(assembly)
	if err != nil {
		fmt.Fprintf(os.Stderr, "assembly failed: %v\n", err)
		os.Exit(1)
	}

	m := vm.NewMachine(prog)
	m.Output = os.Stdout
	m.StepLimit = *steps
	if err := m.Run(); err != nil {
		fmt.Println()
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
}
