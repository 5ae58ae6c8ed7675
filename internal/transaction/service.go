package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error

	// ExistingHashes returns the subset of hashes already stored for the user.
	ExistingHashes(ctx context.Context, userID uuid.UUID, hashes []string) (map[string]bool, error)

	BeginImport(ctx context.Context, userID uuid.UUID) (ImportTx, error)
}

// ImportTx inserts a batch inside one database transaction. CreateTransaction
// reports false when the line already exists for the user.
type ImportTx interface {
	CreateTransaction(ctx context.Context, tx *Transaction) (bool, error)
	AttachTags(ctx context.Context, txID uuid.UUID, tagIDs []uuid.UUID) error
	Commit() error
	Rollback() error
}

// BalanceHook is notified whenever an account's transactions change.
type BalanceHook interface {
	RecomputeBalance(ctx context.Context, accountID uuid.UUID) error
}

type Service struct {
	repo     Repository
	balances BalanceHook
}

func NewService(repo Repository, balances BalanceHook) *Service {
	return &Service{repo: repo, balances: balances}
}

type CreateParams struct {
	ImportID    *uuid.UUID
	Date        time.Time
	Balance     int64
	PaidIn      *int64
	PaidOut     *int64
	Description *string
	UniqueHash  string
	TagIDs      []uuid.UUID
}

type ListFilter struct {
	AccountID *uuid.UUID
	ImportID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

// Delete removes the transaction outright so the same line can be imported
// again later.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}

	s.recompute(ctx, tx.AccountID)

	return nil
}

func (s *Service) ExistsByHash(ctx context.Context, userID uuid.UUID, hash string) (bool, error) {
	found, err := s.repo.ExistingHashes(ctx, userID, []string{hash})
	if err != nil {
		return false, err
	}

	return found[hash], nil
}

func (s *Service) ExistingHashes(ctx context.Context, userID uuid.UUID, hashes []string) (map[string]bool, error) {
	if len(hashes) == 0 {
		return map[string]bool{}, nil
	}

	return s.repo.ExistingHashes(ctx, userID, hashes)
}

type ImportResult struct {
	Imported   []*Transaction
	Duplicates int
}

// ImportBatch inserts every line or none. Lines whose fingerprint already
// exists for the user are counted as duplicates and skipped.
func (s *Service) ImportBatch(ctx context.Context, userID, accountID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for i, p := range params {
		if p.PaidIn != nil && p.PaidOut != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, ErrBothAmounts)
		}
	}

	itx, err := s.repo.BeginImport(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	result := &ImportResult{}

	for _, p := range params {
		tx := &Transaction{
			UserID:      userID,
			AccountID:   accountID,
			ImportID:    p.ImportID,
			Date:        p.Date,
			Balance:     p.Balance,
			PaidIn:      p.PaidIn,
			PaidOut:     p.PaidOut,
			Description: p.Description,
			UniqueHash:  p.UniqueHash,
			TagIDs:      p.TagIDs,
		}

		created, err := itx.CreateTransaction(ctx, tx)
		if err != nil {
			return nil, fmt.Errorf("create transaction: %w", err)
		}

		if !created {
			result.Duplicates++
			continue
		}

		if len(p.TagIDs) > 0 {
			if err := itx.AttachTags(ctx, tx.ID, p.TagIDs); err != nil {
				return nil, fmt.Errorf("attach tags: %w", err)
			}
		}

		result.Imported = append(result.Imported, tx)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	if len(result.Imported) > 0 {
		s.recompute(ctx, accountID)
	}

	return result, nil
}

// recompute runs the balance hook. Failures are logged; the data change has
// already been committed.
func (s *Service) recompute(ctx context.Context, accountID uuid.UUID) {
	if s.balances == nil {
		return
	}

	if err := s.balances.RecomputeBalance(ctx, accountID); err != nil {
		slog.WarnContext(ctx, "failed to recompute account balance", "account_id", accountID, "error", err)
	}
}
