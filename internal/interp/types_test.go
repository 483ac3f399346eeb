package interp

import "testing"

func parseOneExpr(t *testing.T, src string) Expression {
	t.Helper()
	toks, err := NewLexer(src).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	e, err := NewParser(toks).parseExpression()
	if err != nil {
		t.Fatalf("parseExpression error: %v", err)
	}
	return e
}

func TestDatatype_ArithmeticYieldsInt(t *testing.T) {
	e := parseOneExpr(t, "1 + 2\n")
	if got := datatype(e, NewStore()); got != TInt {
		t.Fatalf("got %v, want TInt", got)
	}
}

func TestDatatype_ComparisonYieldsBool(t *testing.T) {
	e := parseOneExpr(t, "1 < 2\n")
	if got := datatype(e, NewStore()); got != TBool {
		t.Fatalf("got %v, want TBool", got)
	}
}

func TestDatatype_MismatchYieldsUndefinedNotError(t *testing.T) {
	e := parseOneExpr(t, "1 + True\n")
	if got := datatype(e, NewStore()); got != Undefined {
		t.Fatalf("got %v, want Undefined (datatype must never raise)", got)
	}
}

func TestDatatype_EqualityRequiresSameDefinedType(t *testing.T) {
	same := parseOneExpr(t, "1 == 2\n")
	if got := datatype(same, NewStore()); got != TBool {
		t.Fatalf("got %v, want TBool for Int==Int", got)
	}
	mixed := parseOneExpr(t, "1 == True\n")
	if got := datatype(mixed, NewStore()); got != Undefined {
		t.Fatalf("got %v, want Undefined for Int==Bool", got)
	}
}

func TestDatatype_UndefinedLocationYieldsUndefined(t *testing.T) {
	e := parseOneExpr(t, "missing\n")
	if got := datatype(e, NewStore()); got != Undefined {
		t.Fatalf("got %v, want Undefined for an unbound name", got)
	}
}

func TestDatatype_ListElementResolvesCurrentElementType(t *testing.T) {
	s := NewStore()
	s.AddList("l")
	s.Append("l", IntValue(1))
	s.Append("l", BoolValue(false))
	e0 := parseOneExpr(t, "l[0]\n")
	e1 := parseOneExpr(t, "l[1]\n")
	if got := datatype(e0, s); got != TInt {
		t.Fatalf("l[0]: got %v, want TInt", got)
	}
	if got := datatype(e1, s); got != TBool {
		t.Fatalf("l[1]: got %v, want TBool", got)
	}
}

func TestDatatype_GroupExprTakesInnerType(t *testing.T) {
	e := parseOneExpr(t, "(1 < 2)\n")
	if got := datatype(e, NewStore()); got != TBool {
		t.Fatalf("got %v, want TBool", got)
	}
}
