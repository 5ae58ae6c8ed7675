package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatches(ctx context.Context, userID uuid.UUID, description string) ([]uuid.UUID, error) {
	query := `
		SELECT tag_id
		FROM tag_rules
		WHERE user_id = $1 AND $2 ILIKE '%' || pattern || '%'
		GROUP BY tag_id
		ORDER BY MAX(LENGTH(pattern)) DESC, MAX(created_at) DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, description)
	if err != nil {
		return nil, fmt.Errorf("finding matches: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (s *Store) ListRules(ctx context.Context, userID uuid.UUID) ([]matching.Rule, error) {
	query := `
		SELECT id, user_id, pattern, tag_id, created_at
		FROM tag_rules
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []matching.Rule

	for rows.Next() {
		var r matching.Rule
		if err := rows.Scan(&r.ID, &r.UserID, &r.Pattern, &r.TagID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, r)
	}

	return rules, rows.Err()
}

func (s *Store) CreateRule(ctx context.Context, r *matching.Rule) error {
	query := `
		INSERT INTO tag_rules (user_id, pattern, tag_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, r.UserID, r.Pattern, r.TagID).Scan(&r.ID, &r.CreatedAt); err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}
