// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"errors"
	"fmt"
)

// Kind classifies a hierarchy failure.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindInvalidOperation
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindInvalidOperation:
		return "invalid operation"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a domain failure raised by the Manager. It carries a Kind for
// the HTTP boundary and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound)
// holds for every not-found failure regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrInvalidOperation = &Error{Kind: KindInvalidOperation}
	ErrValidation       = &Error{Kind: KindValidation}
)

func notFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func invalidOperation(msg string) error {
	return &Error{Kind: KindInvalidOperation, Message: msg}
}

func validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf returns the Kind of a domain error, or zero for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
