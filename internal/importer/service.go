// Package importer runs the CSV import pipeline: inspect a file, preview its
// transactions against what is already stored, then persist the rows a user
// approved.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/account"
	"github.com/MrJamesThe3rd/penny/internal/importer/csvreader"
	"github.com/MrJamesThe3rd/penny/internal/importer/extract"
	"github.com/MrJamesThe3rd/penny/internal/matching"
	"github.com/MrJamesThe3rd/penny/internal/schema"
	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=importer
type Repository interface {
	CreateImport(ctx context.Context, imp *Import) error
	UpdateImport(ctx context.Context, imp *Import) error
	GetImport(ctx context.Context, userID, id uuid.UUID) (*Import, error)
}

type Transactions interface {
	ExistingHashes(ctx context.Context, userID uuid.UUID, hashes []string) (map[string]bool, error)
	ImportBatch(ctx context.Context, userID, accountID uuid.UUID, params []transaction.CreateParams) (*transaction.ImportResult, error)
}

type Accounts interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*account.Account, error)
}

type Tags interface {
	EnsureOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

type TagSuggester interface {
	Matcher(ctx context.Context, userID uuid.UUID) (*matching.Matcher, error)
}

type Service struct {
	repo      Repository
	txs       Transactions
	accounts  Accounts
	tags      Tags
	suggester TagSuggester
	reader    *csvreader.Reader
	now       func() time.Time
}

// NewService wires the pipeline. suggester may be nil, in which case previews
// carry no tag suggestions.
func NewService(repo Repository, txs Transactions, accounts Accounts, tags Tags, suggester TagSuggester) *Service {
	return &Service{
		repo:      repo,
		txs:       txs,
		accounts:  accounts,
		tags:      tags,
		suggester: suggester,
		reader:    csvreader.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// DuplicateReason says what a previewed row collides with.
type DuplicateReason string

const (
	DuplicateExisting DuplicateReason = "existing"
	DuplicateInFile   DuplicateReason = "file"
)

type PreviewTransaction struct {
	extract.CanonicalTransaction

	IsDuplicate     bool            `json:"is_duplicate"`
	DuplicateReason DuplicateReason `json:"duplicate_reason,omitempty"`
	SuggestedTagIDs []uuid.UUID     `json:"suggested_tag_ids,omitempty"`
}

type PreviewResult struct {
	Transactions   []PreviewTransaction `json:"transactions"`
	Errors         []extract.RowError   `json:"errors"`
	TotalRows      int                  `json:"total_rows"`
	DuplicateCount int                  `json:"duplicate_count"`
	ValidCount     int                  `json:"valid_count"`
}

// ReviewStatus is the decision a user made about a previewed row.
type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "pending"
	ReviewApproved  ReviewStatus = "approved"
	ReviewDiscarded ReviewStatus = "discarded"
	ReviewDuplicate ReviewStatus = "duplicate"
)

type ReviewedTransaction struct {
	extract.CanonicalTransaction

	Status ReviewStatus `json:"status"`
	TagIDs []uuid.UUID  `json:"tag_ids,omitempty"`
}

type ImportParams struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
	SchemaID  *uuid.UUID
	Filename  string
	// TotalRows is the row count of the original file, when known. It never
	// drops below the number of reviewed rows.
	TotalRows    int
	Transactions []ReviewedTransaction
}

// PayloadError reports a reviewed row that cannot be persisted as sent.
type PayloadError struct {
	RowNumber int
	Message   string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("row %d: %s", e.RowNumber, e.Message)
}

// Inspect previews a file before any schema exists so the user can map its
// columns.
func (s *Service) Inspect(r io.Reader, maxRows int) (*csvreader.Preview, error) {
	return s.reader.ParseForPreview(r, maxRows)
}

// PreviewTransactions extracts every row of the file and flags duplicates,
// both against stored transactions and against earlier rows of the same
// file. Nothing is persisted.
func (s *Service) PreviewTransactions(ctx context.Context, r io.Reader, sc schema.Schema, userID uuid.UUID) (*PreviewResult, error) {
	rows, err := s.reader.ParseWithSchema(r, sc)
	if err != nil {
		return nil, err
	}

	txs, rowErrs := extract.ExtractAll(rows, sc, userID)

	hashes := make([]string, 0, len(txs))
	for _, tx := range txs {
		hashes = append(hashes, tx.UniqueHash)
	}

	existing, err := s.txs.ExistingHashes(ctx, userID, hashes)
	if err != nil {
		return nil, fmt.Errorf("check existing hashes: %w", err)
	}

	matcher := s.matcher(ctx, userID)

	result := &PreviewResult{
		Transactions: make([]PreviewTransaction, 0, len(txs)),
		Errors:       rowErrs,
		TotalRows:    len(rows),
	}

	if result.Errors == nil {
		result.Errors = []extract.RowError{}
	}

	seen := make(map[string]struct{}, len(txs))

	for _, tx := range txs {
		pt := PreviewTransaction{CanonicalTransaction: tx}

		if existing[tx.UniqueHash] {
			pt.IsDuplicate = true
			pt.DuplicateReason = DuplicateExisting
		} else if _, ok := seen[tx.UniqueHash]; ok {
			pt.IsDuplicate = true
			pt.DuplicateReason = DuplicateInFile
		}

		seen[tx.UniqueHash] = struct{}{}

		if tx.Description != nil {
			pt.SuggestedTagIDs = matcher.Suggest(*tx.Description)
		}

		if pt.IsDuplicate {
			result.DuplicateCount++
		} else {
			result.ValidCount++
		}

		result.Transactions = append(result.Transactions, pt)
	}

	return result, nil
}

// matcher returns nil when suggestions are unavailable; a nil Matcher
// suggests nothing.
func (s *Service) matcher(ctx context.Context, userID uuid.UUID) *matching.Matcher {
	if s.suggester == nil {
		return nil
	}

	m, err := s.suggester.Matcher(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load tag rules", "user_id", userID, "error", err)
		return nil
	}

	return m
}

// ImportReviewedTransactions persists the approved rows of a reviewed preview
// as one all-or-nothing batch and records the outcome as an Import.
//
// Account and tag ownership are checked before any record is written. Once
// the import exists, failures mark it failed and it is returned alongside the
// error.
func (s *Service) ImportReviewedTransactions(ctx context.Context, p ImportParams) (*Import, error) {
	if _, err := s.accounts.Get(ctx, p.UserID, p.AccountID); err != nil {
		return nil, err
	}

	if err := s.tags.EnsureOwned(ctx, p.UserID, approvedTagIDs(p.Transactions)); err != nil {
		return nil, err
	}

	imp := &Import{
		UserID:    p.UserID,
		AccountID: p.AccountID,
		SchemaID:  p.SchemaID,
		Filename:  p.Filename,
		Status:    StatusPending,
		TotalRows: max(p.TotalRows, len(p.Transactions)),
	}

	if err := s.repo.CreateImport(ctx, imp); err != nil {
		return nil, fmt.Errorf("create import: %w", err)
	}

	if err := imp.Start(s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateImport(ctx, imp); err != nil {
		return nil, fmt.Errorf("start import: %w", err)
	}

	params, duplicates, err := buildParams(p, imp.ID)
	if err != nil {
		return s.fail(ctx, imp, err)
	}

	result, err := s.txs.ImportBatch(ctx, p.UserID, p.AccountID, params)
	if err != nil {
		return s.fail(ctx, imp, fmt.Errorf("import batch: %w", err))
	}

	// Discarded and pending rows were never submitted, so they are not
	// processed and never surface as error rows.
	imp.ProcessedRows = len(params) + duplicates
	imp.ImportedRows = len(result.Imported)
	imp.DuplicateRows = duplicates + result.Duplicates

	if err := imp.Complete(s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateImport(ctx, imp); err != nil {
		return imp, fmt.Errorf("complete import: %w", err)
	}

	slog.InfoContext(ctx, "import completed",
		"import_id", imp.ID,
		"user_id", imp.UserID,
		"rows", imp.ProcessedRows,
		"imported", imp.ImportedRows,
		"duplicates", imp.DuplicateRows,
	)

	return imp, nil
}

func (s *Service) fail(ctx context.Context, imp *Import, cause error) (*Import, error) {
	if err := imp.Fail(s.now(), cause.Error()); err != nil {
		return nil, errors.Join(cause, err)
	}

	if err := s.repo.UpdateImport(ctx, imp); err != nil {
		slog.ErrorContext(ctx, "failed to record import failure", "import_id", imp.ID, "error", err)
	}

	slog.WarnContext(ctx, "import failed", "import_id", imp.ID, "user_id", imp.UserID, "error", cause)

	return imp, cause
}

// Get returns the import if it belongs to the user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Import, error) {
	return s.repo.GetImport(ctx, userID, id)
}

func approvedTagIDs(rows []ReviewedTransaction) []uuid.UUID {
	var ids []uuid.UUID

	for _, rt := range rows {
		if rt.Status == ReviewApproved {
			ids = append(ids, rt.TagIDs...)
		}
	}

	return ids
}

// buildParams validates the reviewed rows and turns the approved ones into
// insert parameters. Fingerprints are recomputed rather than trusted.
func buildParams(p ImportParams, importID uuid.UUID) ([]transaction.CreateParams, int, error) {
	var (
		params     []transaction.CreateParams
		duplicates int
	)

	for i, rt := range p.Transactions {
		row := rt.RowNumber
		if row == 0 {
			row = i + 1
		}

		switch rt.Status {
		case ReviewApproved:
		case ReviewDuplicate:
			duplicates++
			continue
		case ReviewDiscarded, ReviewPending:
			continue
		default:
			return nil, 0, &PayloadError{RowNumber: row, Message: fmt.Sprintf("unknown review status %q", rt.Status)}
		}

		date, err := time.Parse(time.DateOnly, rt.Date)
		if err != nil {
			return nil, 0, &PayloadError{RowNumber: row, Message: fmt.Sprintf("invalid date %q", rt.Date)}
		}

		switch {
		case rt.PaidIn != nil && rt.PaidOut != nil:
			return nil, 0, &PayloadError{RowNumber: row, Message: "paid_in and paid_out are mutually exclusive"}
		case rt.PaidIn == nil && rt.PaidOut == nil:
			return nil, 0, &PayloadError{RowNumber: row, Message: "paid_in or paid_out required"}
		case (rt.PaidIn != nil && *rt.PaidIn < 0) || (rt.PaidOut != nil && *rt.PaidOut < 0):
			return nil, 0, &PayloadError{RowNumber: row, Message: "amounts must not be negative"}
		}

		var description *string
		if rt.Description != nil {
			if d := strings.TrimSpace(*rt.Description); d != "" {
				description = &d
			}
		}

		params = append(params, transaction.CreateParams{
			ImportID:    &importID,
			Date:        date,
			Balance:     rt.Balance,
			PaidIn:      rt.PaidIn,
			PaidOut:     rt.PaidOut,
			Description: description,
			UniqueHash:  extract.UniqueHash(p.UserID, rt.Date, rt.Balance, rt.PaidIn, rt.PaidOut),
			TagIDs:      rt.TagIDs,
		})
	}

	return params, duplicates, nil
}
