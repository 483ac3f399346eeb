package interp

import "fmt"

// SyntaxError is raised by the Parser when the token stream does not
// match the grammar at the current position.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// InternalError marks an invariant violation: a default branch reached
// in a switch over an AST node type or value tag that the parser/type
// checker can only ever produce as one of an already-enumerated closed
// set. evaluator.go's internalErr constructs it at each such assertion
// site. It is not reachable through any well-formed program — reaching
// one means a prior pass failed to guard a case it was supposed to.
type InternalError struct {
	Line int
	Col  int
	Msg  string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// MissingFileError and FileOpenError are raised by cmd/minipl, not by
// this package's lexer/parser/evaluator, but live here so Diagnose can
// format every ERROR_NAME from one place.
type MissingFileError struct{ Msg string }

func (e *MissingFileError) Error() string { return e.Msg }

type FileOpenError struct{ Msg string }

func (e *FileOpenError) Error() string { return e.Msg }

// Diagnose renders any error this package or cmd/minipl can produce
// into the exact wire format:
//
//	Error: <ERROR_NAME> [<line>:<column>] - <message>
//
// MissingFileError and FileOpenError carry no position — there is no
// source to point into before a file is even open — so they report the
// span as [0:0] rather than omitting it, keeping one fixed template for
// all twelve error kinds. Every other kind is dispatched by its concrete
// Go type, one central formatting site switching on error kind rather
// than letting each error type format itself inconsistently.
func Diagnose(err error) string {
	switch e := err.(type) {
	case *MissingFileError:
		return diagnoseAt("MISSING_FILE_ERROR", 0, 0, e.Msg)
	case *FileOpenError:
		return diagnoseAt("FILE_OPEN_ERROR", 0, 0, e.Msg)
	case *IndentationError:
		return diagnoseAt("INDENTATION_ERROR", e.Line, e.Col, e.Msg)
	case *LexError:
		return diagnoseAt("LEXICAL_ERROR", e.Line, e.Col, e.Msg)
	case *SyntaxError:
		return diagnoseAt("SYNTAX_ERROR", e.Line, e.Col, e.Msg)
	case *InternalError:
		return diagnoseAt("INTERNAL_ERROR", e.Line, e.Col, e.Msg)
	case *RuntimeError:
		return diagnoseAt(e.Kind, e.Line, e.Col, e.Msg)
	default:
		return fmt.Sprintf("Error: INTERNAL_ERROR - %s", err.Error())
	}
}

func diagnoseAt(name string, line, col int, msg string) string {
	return fmt.Sprintf("Error: %s [%d:%d] - %s", name, line, col, msg)
}
