package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/importer"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateImport(ctx context.Context, imp *importer.Import) error {
	query := `
		INSERT INTO imports (user_id, account_id, schema_id, filename, status, total_rows, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		imp.UserID,
		imp.AccountID,
		imp.SchemaID,
		imp.Filename,
		imp.Status,
		imp.TotalRows,
	).Scan(&imp.ID, &imp.CreatedAt, &imp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating import: %w", err)
	}

	return nil
}

func (s *Store) UpdateImport(ctx context.Context, imp *importer.Import) error {
	query := `
		UPDATE imports
		SET status = $2, total_rows = $3, processed_rows = $4, imported_rows = $5,
			duplicate_rows = $6, error_message = $7, started_at = $8, completed_at = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		imp.ID,
		imp.Status,
		imp.TotalRows,
		imp.ProcessedRows,
		imp.ImportedRows,
		imp.DuplicateRows,
		imp.ErrorMessage,
		imp.StartedAt,
		imp.CompletedAt,
	).Scan(&imp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return importer.ErrNotFound
		}

		return fmt.Errorf("updating import: %w", err)
	}

	return nil
}

func (s *Store) GetImport(ctx context.Context, userID, id uuid.UUID) (*importer.Import, error) {
	query := `
		SELECT id, user_id, account_id, schema_id, filename, status, total_rows,
			processed_rows, imported_rows, duplicate_rows, error_message,
			started_at, completed_at, created_at, updated_at
		FROM imports
		WHERE id = $1 AND user_id = $2
	`

	var imp importer.Import

	var status string

	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&imp.ID, &imp.UserID, &imp.AccountID, &imp.SchemaID, &imp.Filename, &status, &imp.TotalRows,
		&imp.ProcessedRows, &imp.ImportedRows, &imp.DuplicateRows, &imp.ErrorMessage,
		&imp.StartedAt, &imp.CompletedAt, &imp.CreatedAt, &imp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, importer.ErrNotFound
		}

		return nil, fmt.Errorf("getting import: %w", err)
	}

	imp.Status = importer.Status(status)

	return &imp, nil
}
