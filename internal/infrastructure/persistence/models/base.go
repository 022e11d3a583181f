// Package models holds the GORM persistence models and their mapping to domain types.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/customerhub/backend/internal/domain/shared"
)

// BaseModel provides the identity columns shared by all tables.
// Timestamps are owned by the domain, so GORM never sets them.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

// Identity converts the columns to a domain identity
func (m *BaseModel) Identity() shared.Identity {
	return shared.NewIdentity(m.ID, m.CreatedAt.UTC(), m.UpdatedAt.UTC())
}

// FromIdentity populates the columns from a domain identity, truncated to
// the microsecond precision PostgreSQL keeps
func (m *BaseModel) FromIdentity(id shared.Identity) {
	m.ID = id.ID()
	m.CreatedAt = id.CreatedAt().Truncate(time.Microsecond)
	m.UpdatedAt = id.UpdatedAt().Truncate(time.Microsecond)
}
