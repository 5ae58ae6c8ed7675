package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a row in selectTransactionColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var paidIn, paidOut sql.NullInt64

	var description sql.NullString

	var tagIDs string

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.AccountID, &tx.ImportID, &tx.Date, &tx.Balance,
		&paidIn, &paidOut, &description, &tx.UniqueHash, &tagIDs,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if paidIn.Valid {
		tx.PaidIn = &paidIn.Int64
	}

	if paidOut.Valid {
		tx.PaidOut = &paidOut.Int64
	}

	if description.Valid {
		tx.Description = &description.String
	}

	ids, err := parseTagIDs(tagIDs)
	if err != nil {
		return nil, err
	}

	tx.TagIDs = ids

	return &tx, nil
}

func parseTagIDs(joined string) ([]uuid.UUID, error) {
	if joined == "" {
		return nil, nil
	}

	parts := strings.Split(joined, ",")
	ids := make([]uuid.UUID, len(parts))

	for i, p := range parts {
		id, err := uuid.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("parsing tag id: %w", err)
		}

		ids[i] = id
	}

	return ids, nil
}

const selectTransactionColumns = `
	t.id, t.user_id, t.account_id, t.import_id, t.date, t.balance,
	t.paid_in, t.paid_out, t.description, t.unique_hash,
	COALESCE((SELECT string_agg(tt.tag_id::text, ',' ORDER BY tt.tag_id)
		FROM transaction_tags tt WHERE tt.transaction_id = t.id), '') AS tag_ids,
	t.created_at, t.updated_at
`

func (s *Store) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.user_id = $2`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1`

	args := []any{userID}

	argIdx := 2

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND t.account_id = $%d", argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.ImportID != nil {
		query += fmt.Sprintf(" AND t.import_id = $%d", argIdx)

		args = append(args, *filter.ImportID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY t.date ASC, t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) ExistingHashes(ctx context.Context, userID uuid.UUID, hashes []string) (map[string]bool, error) {
	query := `SELECT unique_hash FROM transactions WHERE user_id = $1 AND unique_hash = ANY($2)`

	rows, err := s.db.QueryContext(ctx, query, userID, hashes)
	if err != nil {
		return nil, fmt.Errorf("finding existing hashes: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool)

	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scanning hash: %w", err)
		}

		found[h] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hashes: %w", err)
	}

	return found, nil
}

// importLockKey serialises concurrent imports for the same user.
func importLockKey(userID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("import"))
	h.Write([]byte{0})
	h.Write(userID[:])

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context, userID uuid.UUID) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(userID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

// CreateTransaction inserts one line under a savepoint so a unique violation
// leaves the surrounding transaction usable.
func (itx *importTx) CreateTransaction(ctx context.Context, tx *transaction.Transaction) (bool, error) {
	if _, err := itx.tx.ExecContext(ctx, "SAVEPOINT import_row"); err != nil {
		return false, fmt.Errorf("creating savepoint: %w", err)
	}

	query := `
		INSERT INTO transactions (
			user_id, account_id, import_id, date, balance, paid_in, paid_out,
			description, unique_hash, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (user_id, unique_hash) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := itx.tx.QueryRowContext(ctx, query,
		tx.UserID,
		tx.AccountID,
		tx.ImportID,
		tx.Date,
		tx.Balance,
		tx.PaidIn,
		tx.PaidOut,
		tx.Description,
		tx.UniqueHash,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)

	var pgErr *pgconn.PgError

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, itx.release(ctx)
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		if _, err := itx.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT import_row"); err != nil {
			return false, fmt.Errorf("rolling back savepoint: %w", err)
		}

		return false, nil
	case err != nil:
		return false, fmt.Errorf("creating transaction: %w", err)
	}

	return true, itx.release(ctx)
}

func (itx *importTx) release(ctx context.Context) error {
	if _, err := itx.tx.ExecContext(ctx, "RELEASE SAVEPOINT import_row"); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}

	return nil
}

func (itx *importTx) AttachTags(ctx context.Context, txID uuid.UUID, tagIDs []uuid.UUID) error {
	query := `
		INSERT INTO transaction_tags (transaction_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	for _, tagID := range tagIDs {
		if _, err := itx.tx.ExecContext(ctx, query, txID, tagID); err != nil {
			return fmt.Errorf("attaching tag %s: %w", tagID, err)
		}
	}

	return nil
}
