package tag

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("tag not found")
	ErrNotOwned  = errors.New("tag does not belong to user")
	ErrNameTaken = errors.New("tag name already in use")
)

type Tag struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
}

// OwnershipError lists the requested tag ids the user does not own.
type OwnershipError struct {
	Missing []uuid.UUID
}

func (e *OwnershipError) Error() string {
	ids := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		ids[i] = id.String()
	}

	return fmt.Sprintf("tags not owned by user: %s", strings.Join(ids, ", "))
}

func (e *OwnershipError) Unwrap() error {
	return ErrNotOwned
}
