package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("account not found")

// Account is a user's bank account. Balance mirrors the most recent
// statement line imported into it.
type Account struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}
