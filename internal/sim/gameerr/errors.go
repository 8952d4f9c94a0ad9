// Package gameerr defines the typed failures returned by the simulation.
package gameerr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeInvalidMapObject     Code = "InvalidMapObject"
	CodeNoSuchUnit           Code = "NoSuchUnit"
	CodeTeamNotAllowed       Code = "TeamNotAllowed"
	CodeInappropriateUnit    Code = "InappropriateUnitType"
	CodeInvalidLocation      Code = "InvalidLocation"
	CodeInvalidAction        Code = "InvalidAction"
	CodeInvalidResearchLevel Code = "InvalidResearchLevel"
	CodeInternalEngine       Code = "InternalEngineError"
)

// Error is a game failure. Two errors match under errors.Is when their codes match,
// so callers compare against the sentinels below regardless of Detail.
type Error struct {
	Code   Code
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Detail
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidMapObject     = &Error{Code: CodeInvalidMapObject}
	ErrNoSuchUnit           = &Error{Code: CodeNoSuchUnit}
	ErrTeamNotAllowed       = &Error{Code: CodeTeamNotAllowed}
	ErrInappropriateUnit    = &Error{Code: CodeInappropriateUnit}
	ErrInvalidLocation      = &Error{Code: CodeInvalidLocation}
	ErrInvalidAction        = &Error{Code: CodeInvalidAction}
	ErrInvalidResearchLevel = &Error{Code: CodeInvalidResearchLevel}
	ErrInternalEngine       = &Error{Code: CodeInternalEngine}
)

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// CodeOf returns the game code carried by err, or "" when err is nil or not a game error.
func CodeOf(err error) Code {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}
