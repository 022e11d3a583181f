package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	ID() uuid.UUID
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

// Identity holds the storage-assigned identifier and timestamps of an entity.
// The zero value describes an entity that has not been persisted yet.
type Identity struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewIdentity creates an identity for a persisted entity
func NewIdentity(id uuid.UUID, createdAt, updatedAt time.Time) Identity {
	return Identity{id: id, createdAt: createdAt, updatedAt: updatedAt}
}

// ID returns the entity ID, uuid.Nil if not yet persisted
func (i Identity) ID() uuid.UUID {
	return i.id
}

// CreatedAt returns the creation timestamp
func (i Identity) CreatedAt() time.Time {
	return i.createdAt
}

// UpdatedAt returns the last update timestamp
func (i Identity) UpdatedAt() time.Time {
	return i.updatedAt
}

// IsPersisted returns true once the storage layer has assigned an ID
func (i Identity) IsPersisted() bool {
	return i.id != uuid.Nil
}
