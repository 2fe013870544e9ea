package e2e

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies the error that stopped a scenario.
type FailureKind string

const (
	FailureNone    FailureKind = ""
	FailureCompare FailureKind = "COMPARE" // equality assertion failed
	FailureShould  FailureKind = "SHOULD"  // any other assertion failed
	FailureAction  FailureKind = "ACTION"  // the driver rejected an action
	FailureOther   FailureKind = "ERROR"
)

// BaseError is the root of the harness's failure taxonomy.
type BaseError struct {
	Message string
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.Message
}

// ShouldError reports a failed assertion. Chain is the narrative of the
// assertion up to and including the failing terminal, e.g.
// ["You", "see", "#welcome", "to", "exist"].
type ShouldError struct {
	BaseError
	Chain []string
}

// Error implements the error interface.
func (e *ShouldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Narrative())
}

// Unwrap exposes the BaseError for errors.As.
func (e *ShouldError) Unwrap() error {
	return &e.BaseError
}

// Narrative joins the chain into a sentence.
func (e *ShouldError) Narrative() string {
	return strings.Join(e.Chain, " ")
}

// CompareError reports an equality assertion whose transformed subject
// differed from the expected value.
type CompareError struct {
	ShouldError
	Got      any
	Expected any
}

// Error implements the error interface.
func (e *CompareError) Error() string {
	return fmt.Sprintf("%s: %s | Got: '%v' Expected: '%v'", e.Message, e.Narrative(), e.Got, e.Expected)
}

// Unwrap exposes the ShouldError for errors.As.
func (e *CompareError) Unwrap() error {
	return &e.ShouldError
}

// ActionError reports a driver failure during an action. Action is the
// action name and Detail describes its arguments, e.g. "'#user' with 'admin'".
type ActionError struct {
	BaseError
	Action string
	Detail string
	Err    error
}

func newActionError(action, detail string, err error) *ActionError {
	return &ActionError{
		BaseError: BaseError{Message: err.Error()},
		Action:    action,
		Detail:    detail,
		Err:       err,
	}
}

// Error implements the error interface.
func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Detail, e.Err)
}

// Unwrap exposes both the BaseError and the driver's error.
func (e *ActionError) Unwrap() []error {
	return []error{&e.BaseError, e.Err}
}

// Lines returns the narration printed when the action fails.
func (e *ActionError) Lines() []string {
	head := "You " + e.Action
	if e.Detail != "" {
		head += " " + e.Detail
	}
	return []string{
		"\t\t" + head + " failed",
		"\t\t\twith error",
		e.Err.Error(),
	}
}

// Classify returns the most specific kind of err.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var cmp *CompareError
	if errors.As(err, &cmp) {
		return FailureCompare
	}
	var should *ShouldError
	if errors.As(err, &should) {
		return FailureShould
	}
	var action *ActionError
	if errors.As(err, &action) {
		return FailureAction
	}
	return FailureOther
}
