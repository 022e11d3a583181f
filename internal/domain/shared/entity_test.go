package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	var zero Identity
	assert.False(t, zero.IsPersisted())
	assert.Equal(t, uuid.Nil, zero.ID())

	id := uuid.New()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	ident := NewIdentity(id, created, updated)
	assert.True(t, ident.IsPersisted())
	assert.Equal(t, id, ident.ID())
	assert.Equal(t, created, ident.CreatedAt())
	assert.Equal(t, updated, ident.UpdatedAt())
}
