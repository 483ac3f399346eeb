// Command minipl runs a Mini-PL source file to completion.
package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/daios-ai/minipl/internal/interp"
)

const appName = "minipl"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	dumpTokens := fs.Bool("dump-tokens", false, "print the token stream as YAML instead of running the program")
	dumpAST := fs.Bool("dump-ast", false, "print the parsed AST as YAML instead of running the program")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	paths := fs.Args()
	if len(paths) < 1 {
		fmt.Fprintln(os.Stderr, interp.Diagnose(&interp.MissingFileError{Msg: "usage: " + appName + " <source-path>"}))
		return 1
	}
	path := paths[0]

	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, interp.Diagnose(&interp.MissingFileError{Msg: fmt.Sprintf("%s: no such file", path)}))
		} else {
			fmt.Fprintln(os.Stderr, interp.Diagnose(&interp.FileOpenError{Msg: fmt.Sprintf("%s: %v", path, err)}))
		}
		return 1
	}

	lx := interp.NewLexer(string(src))
	toks, lexErr := lx.Scan()
	if lexErr != nil {
		fmt.Fprintln(os.Stderr, interp.Diagnose(lexErr))
		return 1
	}
	if *dumpTokens {
		return dumpYAML(toks)
	}

	prog, parseErr := interp.NewParser(toks).ParseProgram()
	if parseErr != nil {
		fmt.Fprintln(os.Stderr, interp.Diagnose(parseErr))
		return 1
	}
	if *dumpAST {
		return dumpYAML(prog)
	}

	ev := interp.NewEvaluator()
	ev.Stdout = func(s string) { fmt.Print(s) }
	if runErr := ev.Run(prog); runErr != nil {
		fmt.Fprintln(os.Stderr, interp.Diagnose(runErr))
		return 1
	}
	return 0
}

func dumpYAML(v any) int {
	out, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, interp.Diagnose(&interp.InternalError{Msg: err.Error()}))
		return 1
	}
	os.Stdout.Write(out)
	return 0
}
