// Package extract turns mapped CSV rows into canonical transactions.
package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/dateparse"
	"github.com/MrJamesThe3rd/penny/internal/importer/csvreader"
	"github.com/MrJamesThe3rd/penny/internal/schema"
)

// CanonicalTransaction is one statement line normalised to minor units and an
// ISO date. At most one of PaidIn and PaidOut is set.
type CanonicalTransaction struct {
	Date        string  `json:"date"`
	Balance     int64   `json:"balance"`
	PaidIn      *int64  `json:"paid_in"`
	PaidOut     *int64  `json:"paid_out"`
	Description *string `json:"description"`
	UniqueHash  string  `json:"unique_hash"`
	RowNumber   int     `json:"row_number"`
}

// RowError reports a row that could not be extracted.
type RowError struct {
	RowNumber int      `json:"row_number"`
	Message   string   `json:"error"`
	RawRow    []string `json:"row_data"`

	Err error `json:"-"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.RowNumber, e.Message)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

var (
	ErrBothAmounts     = errors.New("both paid in and paid out present")
	ErrNoAmount        = errors.New("paid in or paid out required")
	ErrAmountRequired  = errors.New("amount required")
	ErrBalanceRequired = errors.New("balance required")
)

func rowError(row csvreader.Row, err error) *RowError {
	return &RowError{RowNumber: row.Number, Message: err.Error(), RawRow: row.Raw, Err: err}
}

// Extract converts one row using the schema's column mapping and date format.
// Failures are returned as *RowError.
func Extract(row csvreader.Row, s schema.Schema, userID uuid.UUID) (*CanonicalTransaction, error) {
	date, err := dateparse.Parse(row.Date.Value, s.DateFormat)
	if err != nil {
		return nil, rowError(row, err)
	}

	if !row.Balance.Present() {
		return nil, rowError(row, ErrBalanceRequired)
	}

	balance, err := parseMinorUnits(row.Balance.Value)
	if err != nil {
		return nil, rowError(row, fmt.Errorf("invalid balance %q", row.Balance.Value))
	}

	var paidIn, paidOut *int64

	if s.UsesSingleAmountColumn() {
		paidIn, paidOut, err = signedAmount(row.Amount)
	} else {
		paidIn, paidOut, err = splitAmounts(row.PaidIn, row.PaidOut)
	}

	if err != nil {
		return nil, rowError(row, err)
	}

	tx := &CanonicalTransaction{
		Date:      date,
		Balance:   balance,
		PaidIn:    paidIn,
		PaidOut:   paidOut,
		RowNumber: row.Number,
	}

	if row.Description.Present() {
		tx.Description = &row.Description.Value
	}

	tx.UniqueHash = UniqueHash(userID, tx.Date, tx.Balance, tx.PaidIn, tx.PaidOut)

	return tx, nil
}

func signedAmount(c csvreader.Cell) (*int64, *int64, error) {
	if !c.Present() {
		return nil, nil, ErrAmountRequired
	}

	v, err := parseMinorUnits(c.Value)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid amount %q", c.Value)
	}

	if v < 0 {
		return nil, new(-v), nil
	}

	return new(v), nil, nil
}

// splitAmounts treats a zero cell as absent: banks commonly print 0.00 in the
// unused column.
func splitAmounts(in, out csvreader.Cell) (*int64, *int64, error) {
	paidIn, err := optionalAbs(in, "paid in")
	if err != nil {
		return nil, nil, err
	}

	paidOut, err := optionalAbs(out, "paid out")
	if err != nil {
		return nil, nil, err
	}

	switch {
	case paidIn != nil && paidOut != nil:
		return nil, nil, ErrBothAmounts
	case paidIn == nil && paidOut == nil:
		return nil, nil, ErrNoAmount
	}

	return paidIn, paidOut, nil
}

func optionalAbs(c csvreader.Cell, name string) (*int64, error) {
	if !c.Present() {
		return nil, nil
	}

	v, err := parseMinorUnits(c.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, c.Value)
	}

	if v == 0 {
		return nil, nil
	}

	if v < 0 {
		v = -v
	}

	return &v, nil
}

// ExtractAll extracts every row in order, collecting row failures rather than
// stopping at the first one. When the schema has no date format, the dominant
// format across the file's date cells is detected once and used as the hint.
func ExtractAll(rows []csvreader.Row, s schema.Schema, userID uuid.UUID) ([]CanonicalTransaction, []RowError) {
	if s.DateFormat == "" {
		samples := make([]string, 0, len(rows))
		for _, r := range rows {
			samples = append(samples, r.Date.Value)
		}

		if f, ok := dateparse.DetectFormat(samples); ok {
			s.DateFormat = f
		}
	}

	var (
		txs    []CanonicalTransaction
		errs   []RowError
		rowErr *RowError
	)

	for _, row := range rows {
		tx, err := Extract(row, s, userID)
		if err != nil {
			if errors.As(err, &rowErr) {
				errs = append(errs, *rowErr)
			}

			continue
		}

		txs = append(txs, *tx)
	}

	return txs, errs
}

// UniqueHash fingerprints a statement line for deduplication. The description
// is not part of the fingerprint. A nil amount hashes differently from zero.
func UniqueHash(userID uuid.UUID, date string, balance int64, paidIn, paidOut *int64) string {
	parts := []string{
		userID.String(),
		date,
		strconv.FormatInt(balance, 10),
		optionalInt(paidIn),
		optionalInt(paidOut),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))

	return hex.EncodeToString(sum[:])
}

func optionalInt(v *int64) string {
	if v == nil {
		return ""
	}

	return strconv.FormatInt(*v, 10)
}
