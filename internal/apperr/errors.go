// Package apperr defines the error kinds the domain services raise.
// Handlers translate them to HTTP statuses; services never format
// user-facing messages beyond the context carried here.
package apperr

import (
	"errors"
	"fmt"
)

// ErrHeadquartersReadOnly rejects any mutation attempted from the
// headquarters tenant before a transaction is opened.
var ErrHeadquartersReadOnly = NewAuthorization("headquarters has read-only access across sites")

// AuthorizationError means the actor is not allowed to perform the
// operation (missing privilege, wrong tenant, headquarters mutation).
type AuthorizationError struct {
	Reason string
}

func NewAuthorization(reason string) *AuthorizationError {
	return &AuthorizationError{Reason: reason}
}

func (e *AuthorizationError) Error() string {
	return "authorization: " + e.Reason
}

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// InsufficientStockError rejects an exit that would drive stock negative.
// It carries enough context for the caller to build a useful message.
type InsufficientStockError struct {
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.ItemName, e.Requested, e.Available)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

// IntegrityError means an operation would break a relational invariant
// (deleting an item that still has movements, a site that still owns
// zones). It is raised before the database gets a chance to.
type IntegrityError struct {
	Reason string
}

func NewIntegrity(reason string) *IntegrityError {
	return &IntegrityError{Reason: reason}
}

func (e *IntegrityError) Error() string {
	return "integrity: " + e.Reason
}

// IsIntegrity reports whether err is an IntegrityError.
func IsIntegrity(err error) bool {
	var target *IntegrityError
	return errors.As(err, &target)
}
