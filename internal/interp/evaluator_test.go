package interp

import (
	"strings"
	"testing"
)

func runSrc(t *testing.T, src string) (string, error) {
	t.Helper()
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return "", err
	}
	prog, err := NewParser(toks).ParseProgram()
	if err != nil {
		return "", err
	}
	var out strings.Builder
	ev := NewEvaluator()
	ev.Stdout = func(s string) { out.WriteString(s) }
	if err := ev.Run(prog); err != nil {
		return out.String(), err
	}
	return out.String(), nil
}

// The six scenarios below cover assignment/arithmetic, list append and
// indexing, if/else, a while loop, break, and division by zero, in that
// order.

func TestEval_Scenario1_AssignmentAndArithmetic(t *testing.T) {
	out, err := runSrc(t, "x = 1\nx = x + 2\nprint(x)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "3\n" {
		t.Fatalf("got %q, want %q", out, "3\n")
	}
}

func TestEval_Scenario2_ListAppendAndIndex(t *testing.T) {
	out, err := runSrc(t, "l = list()\nl.append(10)\nl.append(20)\nprint(l[0] + l[1])\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "30\n" {
		t.Fatalf("got %q, want %q", out, "30\n")
	}
}

func TestEval_Scenario3_IfElse(t *testing.T) {
	out, err := runSrc(t, "if 2 < 3:\n    print(True)\nelse:\n    print(False)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "True\n" {
		t.Fatalf("got %q, want %q", out, "True\n")
	}
}

func TestEval_Scenario4_WhileLoop(t *testing.T) {
	out, err := runSrc(t, "i = 0\nwhile i < 3:\n    print(i)\n    i = i + 1\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "0\n1\n2\n" {
		t.Fatalf("got %q, want %q", out, "0\n1\n2\n")
	}
}

func TestEval_Scenario5_Break(t *testing.T) {
	src := "i = 0\nwhile True:\n    if i == 2:\n        break\n    print(i)\n    i = i + 1\n"
	out, err := runSrc(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "0\n1\n" {
		t.Fatalf("got %q, want %q", out, "0\n1\n")
	}
}

func TestEval_Scenario6_DivisionByZero(t *testing.T) {
	_, err := runSrc(t, "print(1 // 0)\n")
	if err == nil {
		t.Fatalf("expected ZERO_DIVISION error")
	}
	rt, ok := err.(*RuntimeError)
	if !ok || rt.Kind != "ZERO_DIVISION" {
		t.Fatalf("expected RuntimeError{Kind: ZERO_DIVISION}, got %#v", err)
	}
}

func TestEval_AndShortCircuit_FalseSkipsRightOperand(t *testing.T) {
	// If the right operand of `and` were evaluated, the undefined name
	// 'x' would raise a SemanticError; short-circuit must prevent that.
	out, err := runSrc(t, "print(False and x)\n")
	if err != nil {
		t.Fatalf("unexpected error (right operand should not be evaluated): %v", err)
	}
	if out != "False\n" {
		t.Fatalf("got %q, want %q", out, "False\n")
	}
}

func TestEval_OrShortCircuit_TrueSkipsRightOperand(t *testing.T) {
	out, err := runSrc(t, "print(True or x)\n")
	if err != nil {
		t.Fatalf("unexpected error (right operand should not be evaluated): %v", err)
	}
	if out != "True\n" {
		t.Fatalf("got %q, want %q", out, "True\n")
	}
}

func TestEval_TruncatingDivision(t *testing.T) {
	out, err := runSrc(t, "print(7 // 2)\nprint(-7 // 2)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "3\n-3\n" {
		t.Fatalf("got %q, want %q", out, "3\n-3\n")
	}
}

func TestEval_ScalarRetyping(t *testing.T) {
	out, err := runSrc(t, "x = True\nx = 5\nprint(x)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "5\n" {
		t.Fatalf("got %q, want %q", out, "5\n")
	}
}

func TestEval_ScalarAssignmentClearsExistingList(t *testing.T) {
	out, err := runSrc(t, "l = list()\nl.append(1)\nl = 9\nprint(l)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "9\n" {
		t.Fatalf("got %q, want %q", out, "9\n")
	}
}

func TestEval_ListDeclarationOverScalarIsSemanticError(t *testing.T) {
	_, err := runSrc(t, "x = 1\nx = list()\n")
	// x = list() is always parsed as a list declaration (the parser
	// decides by token lookahead alone); since x already holds a scalar,
	// declaring it as a list must fail at run time.
	if err == nil {
		t.Fatalf("expected a SemanticError")
	}
	rt, ok := err.(*RuntimeError)
	if !ok || rt.Kind != "SEMANTIC_ERROR" {
		t.Fatalf("expected RuntimeError{Kind: SEMANTIC_ERROR}, got %#v", err)
	}
}

func TestEval_OutOfRangeIndexIsSemanticError(t *testing.T) {
	_, err := runSrc(t, "l = list()\nl.append(1)\nprint(l[5])\n")
	if err == nil {
		t.Fatalf("expected a SemanticError")
	}
	rt, ok := err.(*RuntimeError)
	if !ok || rt.Kind != "SEMANTIC_ERROR" {
		t.Fatalf("expected RuntimeError{Kind: SEMANTIC_ERROR}, got %#v", err)
	}
}

func TestEval_TypeMismatchIsTypeError(t *testing.T) {
	_, err := runSrc(t, "print(1 + True)\n")
	if err == nil {
		t.Fatalf("expected a TypeError")
	}
	rt, ok := err.(*RuntimeError)
	if !ok || rt.Kind != "TYPE_ERROR" {
		t.Fatalf("expected RuntimeError{Kind: TYPE_ERROR}, got %#v", err)
	}
}

func TestEval_ListElementAssignmentWithNonIntIndexIsTypeError(t *testing.T) {
	_, err := runSrc(t, "l = list()\nl.append(1)\nl[True] = 2\n")
	if err == nil {
		t.Fatalf("expected a TypeError for a non-Int index on the assignment target")
	}
	rt, ok := err.(*RuntimeError)
	if !ok || rt.Kind != "TYPE_ERROR" {
		t.Fatalf("expected RuntimeError{Kind: TYPE_ERROR}, got %#v", err)
	}
}

func TestEval_UndefinedNameIsSemanticError(t *testing.T) {
	_, err := runSrc(t, "print(y)\n")
	if err == nil {
		t.Fatalf("expected a SemanticError")
	}
	rt, ok := err.(*RuntimeError)
	if !ok || rt.Kind != "SEMANTIC_ERROR" {
		t.Fatalf("expected RuntimeError{Kind: SEMANTIC_ERROR}, got %#v", err)
	}
}

func TestEval_BreakOutsideLoopIsSemanticError(t *testing.T) {
	_, err := runSrc(t, "break\n")
	if err == nil {
		t.Fatalf("expected a SemanticError for break outside a loop")
	}
	rt, ok := err.(*RuntimeError)
	if !ok || rt.Kind != "SEMANTIC_ERROR" {
		t.Fatalf("expected RuntimeError{Kind: SEMANTIC_ERROR}, got %#v", err)
	}
}

func TestEval_ContinueInNestedLoop(t *testing.T) {
	// continue must restart only the innermost loop's iteration; the
	// outer loop's remaining statements still run after the inner loop.
	src := "i = 0\nn = 0\nwhile i < 3:\n" +
		"    j = 0\n    while j < 3:\n        if j == 1:\n            j = j + 1\n            continue\n        n = n + 1\n        j = j + 1\n" +
		"    i = i + 1\nprint(n)\n"
	out, err := runSrc(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// each inner loop runs j=0,1,2; j==1 continues without incrementing n,
	// so n increments twice per outer iteration, three outer iterations.
	if out != "6\n" {
		t.Fatalf("got %q, want %q", out, "6\n")
	}
}
