package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session backs one issued login token. Token is the JWT "jti" claim, so a
// token stays usable only while its session row is neither revoked nor expired.
type Session struct {
	Stamp
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

func (s *Session) Valid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
