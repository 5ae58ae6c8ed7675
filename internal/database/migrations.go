package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration is one forward-only schema change.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(queries ...string) func(*sql.Tx) error {
	return func(tx *sql.Tx) error {
		for _, q := range queries {
			if _, err := tx.Exec(q); err != nil {
				return fmt.Errorf("executing query: %w", err)
			}
		}

		return nil
	}
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Accounts and tags",
		Up: execAll(
			`CREATE TABLE accounts (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id UUID NOT NULL,
				name TEXT NOT NULL,
				balance BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ
			)`,
			`CREATE INDEX idx_accounts_user ON accounts(user_id)`,
			`CREATE TABLE tags (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id UUID NOT NULL,
				name TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (user_id, name)
			)`,
		),
	},
	{
		Version:     2,
		Description: "Import schemas",
		Up: execAll(
			`CREATE TABLE import_schemas (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id UUID NOT NULL,
				name TEXT NOT NULL,
				transaction_data_start INTEGER NOT NULL CHECK (transaction_data_start >= 1),
				date_column INTEGER NOT NULL CHECK (date_column >= 1),
				balance_column INTEGER NOT NULL CHECK (balance_column >= 1),
				amount_column INTEGER NOT NULL DEFAULT 0 CHECK (amount_column >= 0),
				paid_in_column INTEGER NOT NULL DEFAULT 0 CHECK (paid_in_column >= 0),
				paid_out_column INTEGER NOT NULL DEFAULT 0 CHECK (paid_out_column >= 0),
				description_column INTEGER NOT NULL DEFAULT 0 CHECK (description_column >= 0),
				date_format TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ,
				UNIQUE (user_id, name)
			)`,
		),
	},
	{
		Version:     3,
		Description: "Imports and transactions",
		Up: execAll(
			`CREATE TABLE imports (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id UUID NOT NULL,
				account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
				schema_id UUID REFERENCES import_schemas(id) ON DELETE SET NULL,
				filename TEXT NOT NULL,
				status TEXT NOT NULL CHECK (status IN ('pending', 'processing', 'completed', 'failed')),
				total_rows INTEGER NOT NULL DEFAULT 0,
				processed_rows INTEGER NOT NULL DEFAULT 0,
				imported_rows INTEGER NOT NULL DEFAULT 0,
				duplicate_rows INTEGER NOT NULL DEFAULT 0,
				error_message TEXT,
				started_at TIMESTAMPTZ,
				completed_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ
			)`,
			`CREATE INDEX idx_imports_user ON imports(user_id)`,
			`CREATE TABLE transactions (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id UUID NOT NULL,
				account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
				import_id UUID REFERENCES imports(id) ON DELETE SET NULL,
				date DATE NOT NULL,
				balance BIGINT NOT NULL,
				paid_in BIGINT,
				paid_out BIGINT,
				description TEXT,
				unique_hash TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ,
				UNIQUE (user_id, unique_hash),
				CHECK (paid_in IS NULL OR paid_out IS NULL)
			)`,
			`CREATE INDEX idx_transactions_account_date ON transactions(account_id, date)`,
			`CREATE INDEX idx_transactions_import ON transactions(import_id)`,
			`CREATE TABLE transaction_tags (
				transaction_id UUID NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
				tag_id UUID NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
				PRIMARY KEY (transaction_id, tag_id)
			)`,
		),
	},
	{
		Version:     4,
		Description: "Tag rules",
		Up: execAll(
			`CREATE TABLE tag_rules (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id UUID NOT NULL,
				pattern TEXT NOT NULL CHECK (pattern <> ''),
				tag_id UUID NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX idx_tag_rules_user ON tag_rules(user_id)`,
		),
	},
}

// LatestVersion is the schema version after every migration has run.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// Migrate applies pending migrations, each in its own transaction, and
// records them in schema_migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	current, err := CurrentVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range pending(current) {
		if err := apply(ctx, db, m); err != nil {
			return err
		}

		slog.InfoContext(ctx, "applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}

func CurrentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var current int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}

	return current, nil
}

func pending(current int) []Migration {
	var out []Migration

	for _, m := range migrations {
		if m.Version > current {
			out = append(out, m)
		}
	}

	return out
}

func apply(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if err := m.Up(tx); err != nil {
		return fmt.Errorf("migration %d failed: %w", m.Version, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, description) VALUES ($1, $2)`, m.Version, m.Description); err != nil {
		return fmt.Errorf("recording migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", m.Version, err)
	}

	return nil
}
