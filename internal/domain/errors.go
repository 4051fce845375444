package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrBadPassword       = errors.New("incorrect password")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("you do not have access to this record")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnavailable       = errors.New("service temporarily unavailable")
	ErrInvalidInput      = errors.New("invalid input")
)

// NotFoundError names the missing entity.
type NotFoundError struct {
	Kind string // user | client | product | order
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NotFound(kind, id string) error { return &NotFoundError{Kind: kind, ID: id} }

// StockError is returned when a line item asks for more than is available.
type StockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("the item %s exceeds the available quantity", e.ProductName)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// ExistsError names the field that collided.
type ExistsError struct {
	Kind  string
	Field string
	Value string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s with %s %s is already registered", e.Kind, e.Field, e.Value)
}

func (e *ExistsError) Unwrap() error { return ErrAlreadyExists }

// InputError carries a user-displayable validation message.
type InputError struct{ Msg string }

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func Invalid(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// ForbiddenError names what the actor tried to reach.
type ForbiddenError struct {
	Kind string
	ID   string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("you do not have access to %s %s", e.Kind, e.ID)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }
