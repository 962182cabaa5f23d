package jqi

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorValue is the distinguished soft-error value §7 describes: field
// access on a non-object embeds one of these in the output stream instead
// of aborting evaluation. Every ErrorValue compares equal to every other
// one, mirroring original_source/jqi/error.py's Error.__eq__.
type ErrorValue string

func (ErrorValue) jsonValue() {}

// newErrorValue builds an ErrorValue carrying a message, grounded on
// original_source/jqi/parser.py's Error.from_exception.
func newErrorValue(err error) ErrorValue {
	return ErrorValue(err.Error())
}

// LexError reports a malformed literal or unrecognized character.
type LexError struct {
	Pos Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d: %s", e.Pos.Start, e.Msg)
}

// ParseError reports an unexpected token or an unmatched grammar
// construct outside completion mode.
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Pos.Start, e.Msg)
}

// EvalError is a hard evaluation failure: iteration over a scalar, an
// unknown function/variable lookup, or any other condition that must
// abort the whole evaluation rather than embed a soft Error.
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string { return e.Msg }

func evalErrorf(format string, args ...any) error {
	return errors.WithStack(&EvalError{Msg: fmt.Sprintf(format, args...)})
}

// PatternError reports a destructuring pattern applied to a value of the
// wrong shape (e.g. an array pattern against a non-array, non-null value).
type PatternError struct {
	Msg string
}

func (e *PatternError) Error() string { return e.Msg }

func patternErrorf(format string, args ...any) error {
	return errors.WithStack(&PatternError{Msg: fmt.Sprintf(format, args...)})
}

// Completion is the non-local-exit signal §4.7/§7 describes: raised from
// deep inside evaluation when the lexer consumed a cursor token, carrying
// the candidate continuations and the source span they should replace.
// It satisfies error only so it can travel the same return channel as a
// hard error; callers distinguish it with errors.As.
type Completion struct {
	Candidates []Token
	Pos        Position
}

func (c *Completion) Error() string {
	return fmt.Sprintf("completion requested at %d-%d", c.Pos.Start, c.Pos.End)
}

// AsCompletion reports whether err is (or wraps) a *Completion signal.
func AsCompletion(err error) (*Completion, bool) {
	var c *Completion
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}
