package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/penny/internal/dateparse"
	"github.com/MrJamesThe3rd/penny/internal/schema"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectSchemaColumns = `
	id, user_id, name, transaction_data_start, date_column, balance_column,
	amount_column, paid_in_column, paid_out_column, description_column,
	date_format, created_at, updated_at
`

func scanSchema(s scanner) (*schema.Schema, error) {
	var sc schema.Schema

	var dateFormat sql.NullString

	if err := s.Scan(
		&sc.ID, &sc.UserID, &sc.Name, &sc.TransactionDataStart, &sc.DateColumn, &sc.BalanceColumn,
		&sc.AmountColumn, &sc.PaidInColumn, &sc.PaidOutColumn, &sc.DescriptionColumn,
		&dateFormat, &sc.CreatedAt, &sc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	sc.DateFormat = dateparse.Format(dateFormat.String)

	return &sc, nil
}

func nullFormat(f dateparse.Format) sql.NullString {
	return sql.NullString{String: string(f), Valid: f != ""}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) CreateSchema(ctx context.Context, sc *schema.Schema) error {
	query := `
		INSERT INTO import_schemas (
			user_id, name, transaction_data_start, date_column, balance_column,
			amount_column, paid_in_column, paid_out_column, description_column,
			date_format, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		sc.UserID, sc.Name, sc.TransactionDataStart, sc.DateColumn, sc.BalanceColumn,
		sc.AmountColumn, sc.PaidInColumn, sc.PaidOutColumn, sc.DescriptionColumn,
		nullFormat(sc.DateFormat),
	).Scan(&sc.ID, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return schema.ErrNameTaken
		}

		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

func (s *Store) GetSchema(ctx context.Context, userID, id uuid.UUID) (*schema.Schema, error) {
	query := `SELECT ` + selectSchemaColumns + ` FROM import_schemas WHERE id = $1 AND user_id = $2`

	sc, err := scanSchema(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schema.ErrNotFound
		}

		return nil, fmt.Errorf("getting schema: %w", err)
	}

	return sc, nil
}

func (s *Store) ListSchemas(ctx context.Context, userID uuid.UUID) ([]*schema.Schema, error) {
	query := `SELECT ` + selectSchemaColumns + ` FROM import_schemas WHERE user_id = $1 ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing schemas: %w", err)
	}
	defer rows.Close()

	var schemas []*schema.Schema

	for rows.Next() {
		sc, err := scanSchema(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning schema: %w", err)
		}

		schemas = append(schemas, sc)
	}

	return schemas, rows.Err()
}

func (s *Store) ListNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM import_schemas WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing schema names: %w", err)
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning schema name: %w", err)
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

func (s *Store) UpdateSchema(ctx context.Context, sc *schema.Schema) error {
	query := `
		UPDATE import_schemas
		SET name = $3, transaction_data_start = $4, date_column = $5, balance_column = $6,
			amount_column = $7, paid_in_column = $8, paid_out_column = $9,
			description_column = $10, date_format = $11, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		sc.ID, sc.UserID, sc.Name, sc.TransactionDataStart, sc.DateColumn, sc.BalanceColumn,
		sc.AmountColumn, sc.PaidInColumn, sc.PaidOutColumn, sc.DescriptionColumn,
		nullFormat(sc.DateFormat),
	).Scan(&sc.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return schema.ErrNotFound
		case isUniqueViolation(err):
			return schema.ErrNameTaken
		}

		return fmt.Errorf("updating schema: %w", err)
	}

	return nil
}

func (s *Store) DeleteSchema(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM import_schemas WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting schema: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}

	if n == 0 {
		return schema.ErrNotFound
	}

	return nil
}
