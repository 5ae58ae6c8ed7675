package importer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an import.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var (
	ErrNotFound          = errors.New("import not found")
	ErrInvalidTransition = errors.New("invalid import status transition")
)

// Import records one confirmed upload. It moves pending -> processing ->
// completed or failed; the last two are terminal.
type Import struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	AccountID uuid.UUID
	SchemaID  *uuid.UUID
	Filename  string
	Status    Status

	TotalRows     int
	ProcessedRows int
	ImportedRows  int
	DuplicateRows int

	ErrorMessage *string
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (i *Import) transition(from, to Status) error {
	if i.Status != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.Status, to)
	}

	i.Status = to

	return nil
}

func (i *Import) Start(now time.Time) error {
	if err := i.transition(StatusPending, StatusProcessing); err != nil {
		return err
	}

	i.StartedAt = &now

	return nil
}

func (i *Import) Complete(now time.Time) error {
	if err := i.transition(StatusProcessing, StatusCompleted); err != nil {
		return err
	}

	i.CompletedAt = &now

	return nil
}

func (i *Import) Fail(now time.Time, message string) error {
	if err := i.transition(StatusProcessing, StatusFailed); err != nil {
		return err
	}

	i.CompletedAt = &now
	i.ErrorMessage = &message

	return nil
}

func (i *Import) Terminal() bool {
	return i.Status == StatusCompleted || i.Status == StatusFailed
}
