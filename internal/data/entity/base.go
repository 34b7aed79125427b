package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base is a row that is soft deleted: users and stations stay referenced by
// bookings after removal.
type Base struct {
	ID        uuid.UUID  `db:"id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (b *Base) Deleted() bool {
	return b.DeletedAt != nil
}

// Record is a row that is never deleted, only moved forward in state.
type Record struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Stamp carries only identity and creation time.
type Stamp struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}
