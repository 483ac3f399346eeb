// Command minipl-repl is a line-at-a-time Mini-PL REPL: each accepted
// line is lexed, parsed, and evaluated against a store that persists
// across lines, so a later line can reference a name bound by an
// earlier one.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/daios-ai/minipl/internal/interp"
)

const (
	historyFile = ".minipl_history"
	promptMain  = ">>> "
)

var banner = "Mini-PL REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit."

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	os.Exit(runRepl())
}

func runRepl() (ret int) {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ev := interp.NewEvaluator()
	ev.Stdout = func(s string) { fmt.Print(s) }

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			break
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return 0
		}

		if err := evalLine(ev, line); err != nil {
			fmt.Fprintln(os.Stderr, red(interp.Diagnose(err)))
		}
		ln.AppendHistory(line)
	}
	return 0
}

// evalLine runs one line through the full lex/parse/evaluate pipeline.
// The REPL does not support multi-line constructs (if/while bodies):
// each accepted line is its own complete program, evaluated against the
// same Evaluator so its Store persists across lines.
func evalLine(ev *interp.Evaluator, line string) error {
	toks, err := interp.NewLexer(line + "\n").Scan()
	if err != nil {
		return err
	}
	prog, err := interp.NewParser(toks).ParseProgram()
	if err != nil {
		return err
	}
	return ev.Run(prog)
}
