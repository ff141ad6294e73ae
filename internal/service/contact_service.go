package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/aurasat/backend/internal/model"
)

var (
	// ErrValidation wraps every submission validation failure; see ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidStatus is returned when a status update names a value outside new/read/replied.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidTransition is returned in strict mode for moves other than new→read and read→replied.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Validation codes reported to clients.
const (
	CodeFieldsRequired = "fields_required"
	CodeInvalidEmail   = "invalid_email"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError reports why a submission was rejected. It matches ErrValidation.
type ValidationError struct {
	Code string
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Code }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ContactSubmission is the public contact form payload.
type ContactSubmission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Validate checks that every field is present and the email looks like local@domain.tld.
func (s ContactSubmission) Validate() error {
	if s.Name == "" || s.Email == "" || s.Subject == "" || s.Message == "" {
		return &ValidationError{Code: CodeFieldsRequired}
	}
	if !emailPattern.MatchString(s.Email) {
		return &ValidationError{Code: CodeInvalidEmail}
	}
	return nil
}

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit validates sub and stores it with status "new".
	Submit(ctx context.Context, sub ContactSubmission) (*model.Contact, error)

	// List returns every submission, newest first.
	List(ctx context.Context) ([]*model.Contact, error)

	// UpdateStatus sets the triage status and refreshes UpdatedAt.
	UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error)

	// Delete removes a submission permanently.
	Delete(ctx context.Context, id string) error
}
