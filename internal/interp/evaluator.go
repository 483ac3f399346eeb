package interp

import "fmt"

// flow is the control signal a statement's execution returns: an
// explicit result every statement execution threads back up to its
// caller, the same shape as a bytecode VM's run loop reporting
// OK/Return/Break/Continue, rather than a mutable loop-stack/break-flag
// pair threaded through an ad-hoc inner walk.
type flow int

const (
	flowNormal flow = iota
	flowBreak
	flowContinue
)

// RuntimeError is the evaluator's own diagnostic kind; SemanticError,
// TypeError, IndexError, ZeroDivisionError and EvaluationError are its
// named specializations, the error kinds that originate at runtime
// rather than during lexing or parsing. IndexError and EvaluationError
// are both defined for Diagnose's completeness but never constructed —
// default-branch/invariant assertions use InternalError instead, below.
type RuntimeError struct {
	Kind string // one of the wire-format ERROR_NAME values
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
}

func semanticErr(p Pos, msg string) error {
	return &RuntimeError{Kind: "SEMANTIC_ERROR", Line: p.Line, Col: p.Col, Msg: msg}
}

func typeErr(p Pos, msg string) error {
	return &RuntimeError{Kind: "TYPE_ERROR", Line: p.Line, Col: p.Col, Msg: msg}
}

func indexErr(p Pos, msg string) error {
	return &RuntimeError{Kind: "INDEX_ERROR", Line: p.Line, Col: p.Col, Msg: msg}
}

func zeroDivErr(p Pos, msg string) error {
	return &RuntimeError{Kind: "ZERO_DIVISION", Line: p.Line, Col: p.Col, Msg: msg}
}

func evaluationErr(p Pos, msg string) error {
	return &RuntimeError{Kind: "EVALUATION_ERROR", Line: p.Line, Col: p.Col, Msg: msg}
}

// internalErr marks an invariant violation: a default branch reached in
// a switch over a node type the parser can only ever produce as one of
// a fixed, already-enumerated set. It is never expected to run.
func internalErr(p Pos, msg string) error {
	return &InternalError{Line: p.Line, Col: p.Col, Msg: msg}
}

// Evaluator walks the AST and mutates a Store as its sole side effect,
// besides writing to Stdout. It tracks no explicit loop stack or
// condition-met stack: both are realized by the Go call stack plus the
// flow signal returned from statement execution.
type Evaluator struct {
	store  *Store
	Stdout func(string)
}

// NewEvaluator returns an Evaluator whose Stdout defaults to discarding
// output; callers normally override it (cmd/minipl wires it to
// os.Stdout).
func NewEvaluator() *Evaluator {
	return &Evaluator{store: NewStore(), Stdout: func(string) {}}
}

// Run executes every statement of prog in order. It returns the first
// runtime error encountered, aborting immediately: no error is locally
// recovered. A top-level Break/Continue is a SemanticError.
func (ev *Evaluator) Run(prog *Program) error {
	for _, stmt := range prog.Statements {
		f, err := ev.execStmt(stmt)
		if err != nil {
			return err
		}
		switch f {
		case flowBreak:
			return semanticErr(stmt.Pos(), "'break' outside a loop")
		case flowContinue:
			return semanticErr(stmt.Pos(), "'continue' outside a loop")
		}
	}
	return nil
}

func (ev *Evaluator) execStmt(stmt Statement) (flow, error) {
	switch s := stmt.(type) {
	case *AssignStmt:
		return flowNormal, ev.execAssign(s)
	case *ListDeclStmt:
		return flowNormal, ev.execListDecl(s)
	case *ListAppendStmt:
		return flowNormal, ev.execListAppend(s)
	case *PrintStmt:
		return flowNormal, ev.execPrint(s)
	case *BreakStmt:
		return flowBreak, nil
	case *ContinueStmt:
		return flowContinue, nil
	case *IfStmt:
		return ev.execIf(s)
	case *WhileStmt:
		return flowNormal, ev.execWhile(s)
	default:
		return flowNormal, internalErr(stmt.Pos(), "unknown statement node")
	}
}

func (ev *Evaluator) execAssign(s *AssignStmt) error {
	v, err := ev.evalTyped(s.Value)
	if err != nil {
		return err
	}
	switch t := s.Target.(type) {
	case *IdLocation:
		if ev.store.IsDefinedList(t.Name) {
			ev.store.Clear(t.Name)
		}
		ev.store.UpdateVar(t.Name, v)
		return nil
	case *ListElementLocation:
		if !ev.store.IsDefinedList(t.Name) {
			return semanticErr(t.At, fmt.Sprintf("'%s' is not a list", t.Name))
		}
		if err := ev.checkType(t.Index); err != nil {
			return err
		}
		if datatype(t.Index, ev.store) != TInt {
			return typeErr(t.At, "list index must be an Int")
		}
		idx, err := ev.evalIndex(t.Name, t.Index)
		if err != nil {
			return err
		}
		if !ev.store.UpdateElem(t.Name, idx, v) {
			return semanticErr(t.At, fmt.Sprintf("list index %d out of range for '%s'", idx, t.Name))
		}
		return nil
	default:
		return internalErr(t.Pos(), "unknown location node")
	}
}

func (ev *Evaluator) execListDecl(s *ListDeclStmt) error {
	if ev.store.IsDefined(s.Name) {
		return semanticErr(s.At, fmt.Sprintf("'%s' is already defined", s.Name))
	}
	ev.store.AddList(s.Name)
	return nil
}

func (ev *Evaluator) execListAppend(s *ListAppendStmt) error {
	if !ev.store.IsDefinedList(s.Name) {
		return semanticErr(s.At, fmt.Sprintf("'%s' is not a list", s.Name))
	}
	v, err := ev.evalTyped(s.Value)
	if err != nil {
		return err
	}
	ev.store.Append(s.Name, v)
	return nil
}

func (ev *Evaluator) execPrint(s *PrintStmt) error {
	v, err := ev.evalTyped(s.Value)
	if err != nil {
		return err
	}
	ev.Stdout(v.String() + "\n")
	return nil
}

// execIf runs a single clean pass over an if/elif/else chain: a local
// boolean tracks whether any earlier branch has already matched, living
// for exactly the duration of this call frame — nesting is handled by
// the Go call stack itself, since every nested `if` gets its own frame
// and its own local.
func (ev *Evaluator) execIf(s *IfStmt) (flow, error) {
	conditionMet := false
	for i, branch := range s.Branches {
		isElse := branch.Cond == nil
		if conditionMet && !isElse {
			continue // an elif after the winning branch is not even evaluated
		}
		if isElse {
			if conditionMet {
				continue
			}
			return ev.execBlock(branch.Statements)
		}
		v, err := ev.evalTyped(branch.Cond)
		if err != nil {
			return flowNormal, err
		}
		if v.Tag != VBool {
			return flowNormal, typeErr(branch.Cond.Pos(), "if condition must be a Bool")
		}
		if i == 0 {
			if v.Bool {
				conditionMet = true
				f, err := ev.execBlock(branch.Statements)
				if f != flowNormal || err != nil {
					return f, err
				}
			}
			continue
		}
		if v.Bool {
			conditionMet = true
			return ev.execBlock(branch.Statements)
		}
	}
	return flowNormal, nil
}

// execWhile is a natural while loop observing the flow signal from each
// statement it executes, rather than an inner ad-hoc walk gated by a
// mutable loop-stack boolean.
func (ev *Evaluator) execWhile(s *WhileStmt) error {
	for {
		v, err := ev.evalTyped(s.Cond)
		if err != nil {
			return err
		}
		if v.Tag != VBool {
			return typeErr(s.Cond.Pos(), "while condition must be a Bool")
		}
		if !v.Bool {
			return nil
		}
		f, err := ev.execBlock(s.Body.Statements)
		if err != nil {
			return err
		}
		if f == flowBreak {
			return nil
		}
		// flowContinue and flowNormal both fall through to the next
		// condition check; flowContinue short-circuited the remaining
		// statements of this iteration via execBlock below.
	}
}

// execBlock runs stmts in order, stopping early and propagating the
// signal the moment a nested statement yields Break or Continue.
func (ev *Evaluator) execBlock(stmts []Statement) (flow, error) {
	for _, stmt := range stmts {
		f, err := ev.execStmt(stmt)
		if err != nil {
			return flowNormal, err
		}
		if f != flowNormal {
			return f, nil
		}
	}
	return flowNormal, nil
}

// evalTyped checks datatype(e) immediately before evaluating any
// compound expression node. For leaves (literals, locations) there is
// nothing to guard beyond what evalExpr itself already raises.
func (ev *Evaluator) evalTyped(e Expression) (Value, error) {
	if err := ev.checkType(e); err != nil {
		return Value{}, err
	}
	return ev.evalExpr(e)
}

func (ev *Evaluator) checkType(e Expression) error { return checkTypeIn(ev.store, e) }

// checkTypeIn recurses exactly where evalExprIn will recurse, calling
// datatype on each compound node's operands and raising TypeError the
// first place they disagree: a full type pass ahead of a full value
// pass. The two passes are kept separate here because Mini-PL
// expressions are side-effect free, so duplicating the walk is
// observably harmless and keeps evalExprIn itself simple.
//
// It is a package-level function of *Store (rather than an Evaluator
// method) so that types.go's locationType can check and resolve an
// index expression without constructing a throwaway Evaluator.
func checkTypeIn(st *Store, e Expression) error {
	switch n := e.(type) {
	case *IntLit, *BoolLit:
		return nil
	case *GroupExpr:
		return checkTypeIn(st, n.Inner)
	case *LocationExpr:
		return checkLocationTypeIn(st, n.Loc)
	case *UnaryExpr:
		if err := checkTypeIn(st, n.Operand); err != nil {
			return err
		}
		t := datatype(n.Operand, st)
		switch n.Op {
		case KwNot:
			if t != TBool {
				return typeErr(n.At, "'not' requires a Bool operand")
			}
		case Minus:
			if t != TInt {
				return typeErr(n.At, "unary '-' requires an Int operand")
			}
		}
		return nil
	case *BinaryExpr:
		return checkBinaryIn(st, n)
	default:
		return internalErr(e.Pos(), "unknown expression node")
	}
}

func checkBinaryIn(st *Store, n *BinaryExpr) error {
	switch n.Op {
	case KwOr, KwAnd:
		// Short-circuit: only the left operand is type-checked and
		// evaluated unconditionally; the right is checked/evaluated only
		// if the left doesn't already decide the result.
		if err := checkTypeIn(st, n.Left); err != nil {
			return err
		}
		if datatype(n.Left, st) != TBool {
			return typeErr(n.At, fmt.Sprintf("'%s' requires Bool operands", n.Op))
		}
		return nil
	}

	if err := checkTypeIn(st, n.Left); err != nil {
		return err
	}
	if err := checkTypeIn(st, n.Right); err != nil {
		return err
	}
	lt, rt := datatype(n.Left, st), datatype(n.Right, st)
	switch n.Op {
	case Eq, Neq:
		if lt == Undefined || lt != rt {
			return typeErr(n.At, fmt.Sprintf("'%s' requires operands of the same defined type", n.Op))
		}
	case Lt, Le, Gt, Ge:
		if lt != TInt || rt != TInt {
			return typeErr(n.At, fmt.Sprintf("'%s' requires Int operands", n.Op))
		}
	case Plus, Minus, Star, SlashSlash:
		if lt != TInt || rt != TInt {
			return typeErr(n.At, fmt.Sprintf("'%s' requires Int operands", n.Op))
		}
	default:
		return internalErr(n.At, "unknown binary operator")
	}
	return nil
}

func checkLocationTypeIn(st *Store, loc Location) error {
	switch l := loc.(type) {
	case *IdLocation:
		if !st.IsDefinedVar(l.Name) {
			return semanticErr(l.At, fmt.Sprintf("'%s' is not defined", l.Name))
		}
		return nil
	case *ListElementLocation:
		if !st.IsDefinedList(l.Name) {
			return semanticErr(l.At, fmt.Sprintf("'%s' is not a list", l.Name))
		}
		if err := checkTypeIn(st, l.Index); err != nil {
			return err
		}
		if datatype(l.Index, st) != TInt {
			return typeErr(l.At, "list index must be an Int")
		}
		idx, err := evalIndexIn(st, l.Name, l.Index)
		if err != nil {
			return err
		}
		if _, ok := st.GetElem(l.Name, idx); !ok {
			return semanticErr(l.At, fmt.Sprintf("list index %d out of range for '%s'", idx, l.Name))
		}
		return nil
	default:
		return internalErr(loc.Pos(), "unknown location node")
	}
}

// evalIndex evaluates an index expression and rejects negative values;
// the upper bound against the named list's current size is checked by
// the caller, through the store's UpdateElem/GetElem result.
func (ev *Evaluator) evalIndex(listName string, idxExpr Expression) (int, error) {
	return evalIndexIn(ev.store, listName, idxExpr)
}

func evalIndexIn(st *Store, listName string, idxExpr Expression) (int, error) {
	v, err := evalExprIn(st, idxExpr)
	if err != nil {
		return 0, err
	}
	idx := int(v.Int)
	if idx < 0 {
		return 0, semanticErr(idxExpr.Pos(), fmt.Sprintf("negative list index %d", idx))
	}
	return idx, nil
}

// evalExpr is the value pass: it assumes checkType has already passed
// for this node (evalTyped is the only normal entry point) and simply
// computes, never itself consulting datatype.
//
// It is a thin method wrapper around the package-level evalExprIn, which
// takes the store explicitly so types.go's index resolution can call
// straight into the value pass without constructing an Evaluator.
func (ev *Evaluator) evalExpr(e Expression) (Value, error) {
	return evalExprIn(ev.store, e)
}

func evalExprIn(st *Store, e Expression) (Value, error) {
	switch n := e.(type) {
	case *IntLit:
		return IntValue(n.Value), nil
	case *BoolLit:
		return BoolValue(n.Value), nil
	case *GroupExpr:
		return evalExprIn(st, n.Inner)
	case *LocationExpr:
		return evalLocationIn(st, n.Loc)
	case *UnaryExpr:
		v, err := evalExprIn(st, n.Operand)
		if err != nil {
			return Value{}, err
		}
		switch n.Op {
		case KwNot:
			return BoolValue(!v.Bool), nil
		case Minus:
			return IntValue(-v.Int), nil
		}
		return Value{}, internalErr(n.At, "unknown unary operator")
	case *BinaryExpr:
		return evalBinaryIn(st, n)
	default:
		return Value{}, internalErr(e.Pos(), "unknown expression node")
	}
}

func evalBinaryIn(st *Store, n *BinaryExpr) (Value, error) {
	if n.Op == KwOr || n.Op == KwAnd {
		l, err := evalExprIn(st, n.Left)
		if err != nil {
			return Value{}, err
		}
		if n.Op == KwOr && l.Bool {
			return BoolValue(true), nil
		}
		if n.Op == KwAnd && !l.Bool {
			return BoolValue(false), nil
		}
		if err := checkTypeIn(st, n.Right); err != nil {
			return Value{}, err
		}
		if datatype(n.Right, st) != TBool {
			return Value{}, typeErr(n.At, fmt.Sprintf("'%s' requires Bool operands", n.Op))
		}
		return evalExprIn(st, n.Right)
	}

	l, err := evalExprIn(st, n.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := evalExprIn(st, n.Right)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case Eq:
		return BoolValue(valuesEqual(l, r)), nil
	case Neq:
		return BoolValue(!valuesEqual(l, r)), nil
	case Lt:
		return BoolValue(l.Int < r.Int), nil
	case Le:
		return BoolValue(l.Int <= r.Int), nil
	case Gt:
		return BoolValue(l.Int > r.Int), nil
	case Ge:
		return BoolValue(l.Int >= r.Int), nil
	case Plus:
		return IntValue(l.Int + r.Int), nil
	case Minus:
		return IntValue(l.Int - r.Int), nil
	case Star:
		return IntValue(l.Int * r.Int), nil
	case SlashSlash:
		if r.Int == 0 {
			return Value{}, zeroDivErr(n.At, "division by zero")
		}
		return IntValue(truncDiv(l.Int, r.Int)), nil
	default:
		return Value{}, internalErr(n.At, "unknown binary operator")
	}
}

// truncDiv divides truncating toward zero, which is exactly what Go's
// integer division already does — called out by name so the rounding
// direction is visible at the call site rather than implicit.
func truncDiv(a, b int64) int64 { return a / b }

func valuesEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	if a.Tag == VInt {
		return a.Int == b.Int
	}
	return a.Bool == b.Bool
}

func (ev *Evaluator) evalLocation(loc Location) (Value, error) {
	return evalLocationIn(ev.store, loc)
}

func evalLocationIn(st *Store, loc Location) (Value, error) {
	switch l := loc.(type) {
	case *IdLocation:
		v, ok := st.GetVar(l.Name)
		if !ok {
			return Value{}, semanticErr(l.At, fmt.Sprintf("'%s' is not defined", l.Name))
		}
		return v, nil
	case *ListElementLocation:
		idx, err := evalIndexIn(st, l.Name, l.Index)
		if err != nil {
			return Value{}, err
		}
		v, ok := st.GetElem(l.Name, idx)
		if !ok {
			return Value{}, semanticErr(l.At, fmt.Sprintf("list index %d out of range for '%s'", idx, l.Name))
		}
		return v, nil
	default:
		return Value{}, internalErr(loc.Pos(), "unknown location node")
	}
}
