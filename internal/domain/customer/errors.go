package customer

import (
	"github.com/google/uuid"

	"github.com/customerhub/backend/internal/domain/shared"
)

// Error codes raised by the customer context
const (
	CodeEmailTaken      = "EMAIL_ALREADY_EXISTS"
	CodeDuplicatePerson = "CUSTOMER_ALREADY_EXISTS"
	CodeNotFound        = "CUSTOMER_NOT_FOUND"
)

// ErrEmailTaken is returned when another customer already uses the email
func ErrEmailTaken() *shared.DomainError {
	return shared.NewConflictError(CodeEmailTaken, "Customer with this email already exists")
}

// ErrDuplicatePerson is returned when another customer has the same name and date of birth
func ErrDuplicatePerson() *shared.DomainError {
	return shared.NewConflictError(CodeDuplicatePerson, "Customer with this name and date of birth already exists")
}

// ErrNotFoundByID is returned when no customer has the given ID
func ErrNotFoundByID(id uuid.UUID) *shared.DomainError {
	return shared.NewNotFoundError(CodeNotFound, "Customer with ID %s not found", id)
}

// ErrNotFoundByEmail is returned when no customer has the given email
func ErrNotFoundByEmail(email string) *shared.DomainError {
	return shared.NewNotFoundError(CodeNotFound, "Customer with email %s not found", email)
}
