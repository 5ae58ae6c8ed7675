package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/penny/internal/tag"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateTag(ctx context.Context, t *tag.Tag) error {
	query := `
		INSERT INTO tags (user_id, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, t.UserID, t.Name).Scan(&t.ID, &t.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return tag.ErrNameTaken
		}

		return fmt.Errorf("creating tag: %w", err)
	}

	return nil
}

func (s *Store) ListTags(ctx context.Context, userID uuid.UUID) ([]*tag.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at FROM tags WHERE user_id = $1 ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []*tag.Tag

	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}

		tags = append(tags, &t)
	}

	return tags, rows.Err()
}

func (s *Store) OwnedTagIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM tags WHERE user_id = $1 AND id = ANY($2::uuid[])`, userID, strIDs)
	if err != nil {
		return nil, fmt.Errorf("checking tag ownership: %w", err)
	}
	defer rows.Close()

	var owned []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning tag id: %w", err)
		}

		owned = append(owned, id)
	}

	return owned, rows.Err()
}
