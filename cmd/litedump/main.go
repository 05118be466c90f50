package main

import (
	"flag"
	"fmt"
	"os"

	"litec/pkg/compiler"
	"litec/pkg/utils"
)

const testSource = `variable x;
x := 10;
if x > 5 then print "big" else print "small"
`

func main() {
	showTokens := flag.Bool("tokens", true, "dump the token stream")
	showTable := flag.Bool("table", false, "dump the parse table")
	showSymbols := flag.Bool("symbols", true, "dump the symbol table")
	flag.Parse()

	src := testSource
	className := "Test"
	if flag.NArg() > 0 {
		s, err := utils.LoadSource(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src, className = s.Text, s.ClassName
	}

	fmt.Printf("Source:\n%s\n", src)

	if *showTokens {
		tokens, err := compiler.Lex(src)
		fmt.Printf("Tokens (%d)\n", len(tokens))
		for _, tok := range tokens {
			fmt.Println(" ", tok)
		}
		fmt.Println()
		if err != nil {
			fmt.Fprintln(os.Stderr, "lex error:", err)
			os.Exit(1)
		}
	}

	if *showTable {
		fmt.Println("Parse Table")
		fmt.Print(compiler.NewParseTable())
		fmt.Println()
	}

	res, err := compiler.Compile(src, className)
	if err != nil {
		fmt.Fprintln(os.Stderr, "compile error:", err)
		os.Exit(1)
	}

	fmt.Println("Generated Assembly")
	fmt.Print(res.Assembly)
	fmt.Println()
	if *showSymbols {
		fmt.Print(res.Symbols)
	}
}
