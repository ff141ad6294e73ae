package repository

import (
	"context"
	"time"

	"github.com/aurasat/backend/internal/model"
)

// DB checks that the backing store is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository defines the persistence interface for contact submissions.
// It is defined here (in repository) to avoid an import cycle with service.
type ContactRepository interface {
	// Create inserts c and populates c.ID. CreatedAt, UpdatedAt and Status are
	// stored as given.
	Create(ctx context.Context, c *model.Contact) error
	// List returns every contact, newest CreatedAt first.
	List(ctx context.Context) ([]*model.Contact, error)
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*model.Contact, error)
	// UpdateStatus overwrites status and updated_at and returns the stored row.
	UpdateStatus(ctx context.Context, id string, status model.ContactStatus, updatedAt time.Time) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

// Store is a ContactRepository that owns its connection.
type Store interface {
	ContactRepository
	DB
	Close()
}
