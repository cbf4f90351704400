// Package command executes structured drawing operations issued by an
// external agent. Each command names an action from the Registry; its
// parameters are validated against the action's schema once, symbolic
// references are resolved against the selection and earlier results, and the
// action runs against the same geometry and transform code the tools use.
package command

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/geom"
)

var (
	ErrUnknownAction       = errors.New("unknown action")
	ErrValidation          = errors.New("invalid parameter")
	ErrUnresolvedReference = errors.New("unresolved reference")
)

// Command is one operation in a batch.
type Command struct {
	Action   string         `json:"action"`
	Params   map[string]any `json:"params,omitempty"`
	ResultID string         `json:"resultId,omitempty"`
}

// ErrorKind classifies a failed command.
type ErrorKind string

const (
	KindUnknownAction       ErrorKind = "UnknownAction"
	KindValidation          ErrorKind = "ValidationError"
	KindUnresolvedReference ErrorKind = "UnresolvedReference"
	KindEmptyTarget         ErrorKind = "EmptyTarget"
	KindInvalidGeometry     ErrorKind = "InvalidGeometry"
)

// Error describes the command that halted a batch.
type Error struct {
	Kind       ErrorKind
	Index      int
	Action     string
	Param      string
	Constraint string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("command %d (%s): %s", e.Index, e.Action, e.Kind)
	if e.Param != "" {
		msg += fmt.Sprintf(": param %q", e.Param)
	}
	if e.Constraint != "" {
		msg += fmt.Sprintf(" (%s)", e.Constraint)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind       ErrorKind `json:"kind"`
		Index      int       `json:"index"`
		Action     string    `json:"action"`
		Param      string    `json:"param,omitempty"`
		Constraint string    `json:"constraint,omitempty"`
		Message    string    `json:"message"`
	}{e.Kind, e.Index, e.Action, e.Param, e.Constraint, e.Error()})
}

func validationError(param, constraint string) *Error {
	return &Error{Kind: KindValidation, Param: param, Constraint: constraint, Err: ErrValidation}
}

func unresolved(param, ref string) *Error {
	return &Error{Kind: KindUnresolvedReference, Param: param, Constraint: ref, Err: ErrUnresolvedReference}
}

// Measurement is a value computed by a measuring action.
type Measurement struct {
	Index      int          `json:"index"`
	Action     string       `json:"action"`
	ResultID   string       `json:"resultId,omitempty"`
	ElementIDs []string     `json:"elementIds,omitempty"`
	Value      float64      `json:"value"`
	Points     []geom.Point `json:"points,omitempty"`
}

// Result is the outcome of a batch. Elements is the working set after the
// last successful command. Produced lists the elements created or changed by
// the batch, in order.
type Result struct {
	Success      bool               `json:"success"`
	Elements     []document.Element `json:"elements"`
	Produced     []document.Element `json:"produced"`
	Measurements []Measurement      `json:"measurements"`
	Error        *Error             `json:"error,omitempty"`
}
