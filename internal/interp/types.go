package interp

// datatype computes the static type of an expression node, returning
// Undefined whenever the operator's expected operand types disagree
// — it never raises; the evaluator is the one that turns a
// mismatch into a TypeError immediately before evaluating.
//
// Id/ListElement lookups need the store to know a variable's or list
// element's current tag, so datatype takes one as context. A name or
// index that can't be resolved also yields Undefined here; the
// evaluator is responsible for raising the more specific SemanticError
// (or TypeError for a non-Int index) in that case.
func datatype(e Expression, st *Store) DataType {
	switch n := e.(type) {
	case *IntLit:
		return TInt
	case *BoolLit:
		return TBool
	case *GroupExpr:
		return datatype(n.Inner, st)
	case *LocationExpr:
		return locationType(n.Loc, st)
	case *UnaryExpr:
		switch n.Op {
		case KwNot:
			if datatype(n.Operand, st) == TBool {
				return TBool
			}
			return Undefined
		case Minus:
			if datatype(n.Operand, st) == TInt {
				return TInt
			}
			return Undefined
		default:
			return Undefined
		}
	case *BinaryExpr:
		lt, rt := datatype(n.Left, st), datatype(n.Right, st)
		switch n.Op {
		case KwAnd, KwOr:
			if lt == TBool && rt == TBool {
				return TBool
			}
			return Undefined
		case Eq, Neq:
			if lt != Undefined && lt == rt {
				return TBool
			}
			return Undefined
		case Lt, Le, Gt, Ge:
			if lt == TInt && rt == TInt {
				return TBool
			}
			return Undefined
		case Plus, Minus, Star, SlashSlash:
			if lt == TInt && rt == TInt {
				return TInt
			}
			return Undefined
		default:
			return Undefined
		}
	default:
		return Undefined
	}
}

// locationType resolves the current type of a Location against the
// store without raising: an undefined name, an out-of-range index, or a
// non-Int index expression all yield Undefined, matching datatype's
// never-raise contract.
func locationType(loc Location, st *Store) DataType {
	switch l := loc.(type) {
	case *IdLocation:
		if !st.IsDefinedVar(l.Name) {
			return Undefined
		}
		v, _ := st.GetVar(l.Name)
		return v.Type()
	case *ListElementLocation:
		if !st.IsDefinedList(l.Name) {
			return Undefined
		}
		if datatype(l.Index, st) != TInt {
			return Undefined
		}
		idx, err := evalIntIndexNoRaise(l.Index, st)
		if err != nil {
			return Undefined
		}
		v, ok := st.GetElem(l.Name, idx)
		if !ok {
			return Undefined
		}
		return v.Type()
	default:
		return Undefined
	}
}

// evalIntIndexNoRaise evaluates an expression already known (by datatype)
// to be an Int, for use inside datatype's own index resolution. It calls
// straight into the package-level value pass (evalExprIn) rather than
// constructing an Evaluator purely to reach it, since datatype only ever
// has a *Store in hand, never a full Evaluator. It must not itself have
// side effects beyond those any other evaluation of the same expression
// would have (none of Mini-PL's expressions have side effects); it
// returns any error, which locationType discards because datatype
// never raises. The
// return type matches GetElem's index parameter so callers never need to
// convert.
func evalIntIndexNoRaise(e Expression, st *Store) (int, error) {
	v, err := evalExprIn(st, e)
	if err != nil {
		return 0, err
	}
	return int(v.Int), nil
}
