package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aurasat/backend/internal/model"
	"github.com/aurasat/backend/internal/repository"
)

// ContactConfig tunes the contact service.
type ContactConfig struct {
	// StrictTransitions rejects status moves other than new→read and read→replied.
	StrictTransitions bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo   repository.ContactRepository
	strict bool
	now    func() time.Time
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository, cfg ContactConfig) ContactService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &contactServiceImpl{repo: repo, strict: cfg.StrictTransitions, now: now}
}

// timestamp is truncated to Postgres precision so both stores round-trip it.
func (s *contactServiceImpl) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Submit validates the submission, sets status "new" and CreatedAt/UpdatedAt,
// then persists it.
func (s *contactServiceImpl) Submit(ctx context.Context, sub ContactSubmission) (*model.Contact, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	now := s.timestamp()
	c := &model.Contact{
		Name:      sub.Name,
		Email:     sub.Email,
		Subject:   sub.Subject,
		Message:   sub.Message,
		Status:    model.ContactStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("save contact: %w", err)
	}
	return c, nil
}

func (s *contactServiceImpl) List(ctx context.Context) ([]*model.Contact, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// UpdateStatus changes the status of a contact. Without strict mode any of the
// three values is accepted whatever the current status is.
func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if s.strict {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !current.Status.CanTransitionTo(status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
		}
	}
	return s.repo.UpdateStatus(ctx, id, status, s.timestamp())
}

func (s *contactServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
