package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a persisted statement line. Amounts are in minor units and
// at most one of PaidIn and PaidOut is set.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	AccountID   uuid.UUID
	ImportID    *uuid.UUID
	Date        time.Time
	Balance     int64 // Balance in minor units after this line
	PaidIn      *int64
	PaidOut     *int64
	Description *string
	UniqueHash  string
	TagIDs      []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Amount returns the signed movement: positive for money in.
func (t *Transaction) Amount() int64 {
	switch {
	case t.PaidIn != nil:
		return *t.PaidIn
	case t.PaidOut != nil:
		return -*t.PaidOut
	}

	return 0
}
