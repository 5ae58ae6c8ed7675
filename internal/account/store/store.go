package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/account"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (user_id, name, balance, created_at, updated_at)
		VALUES ($1, $2, 0, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, a.UserID, a.Name).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, user_id, name, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND user_id = $2
	`

	var a account.Account

	err := s.db.QueryRowContext(ctx, query, id, userID).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return &a, nil
}

func (s *Store) ListAccounts(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	query := `
		SELECT id, user_id, name, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		var a account.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, &a)
	}

	return accounts, rows.Err()
}

// RecomputeBalance sets the account balance to that of its latest
// transaction, or zero when none remain.
func (s *Store) RecomputeBalance(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE accounts
		SET balance = COALESCE((
			SELECT t.balance FROM transactions t
			WHERE t.account_id = $1
			ORDER BY t.date DESC, t.created_at DESC
			LIMIT 1
		), 0), updated_at = NOW()
		WHERE id = $1
	`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("recomputing balance: %w", err)
	}

	return nil
}
