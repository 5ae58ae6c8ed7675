package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

// Lister is the slice of the transaction service an export needs.
type Lister interface {
	List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Row is one line of the exported CSV. Amounts are decimal strings in major
// units; an empty amount column means the line moved money the other way.
type Row struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	PaidIn      string `csv:"paid_in"`
	PaidOut     string `csv:"paid_out"`
	Balance     string `csv:"balance"`
}

// Summary totals an export, in minor units.
type Summary struct {
	Count   int
	PaidIn  int64
	PaidOut int64
}

func (s Summary) Net() int64 {
	return s.PaidIn - s.PaidOut
}

func (s Summary) String() string {
	return fmt.Sprintf("%d transactions | in %s | out %s | net %s",
		s.Count, FormatMinor(s.PaidIn), FormatMinor(s.PaidOut), FormatMinor(s.Net()))
}

// Service exports stored transactions as CSV.
type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

// Export writes the user's transactions matching filter to w and returns
// their totals.
func (s *Service) Export(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter, w io.Writer) (Summary, error) {
	txs, err := s.transactions.List(ctx, userID, filter)
	if err != nil {
		return Summary{}, fmt.Errorf("listing transactions: %w", err)
	}

	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, ToRow(tx))
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return Summary{}, fmt.Errorf("writing csv: %w", err)
	}

	return Summarize(txs), nil
}

func ToRow(tx *transaction.Transaction) Row {
	row := Row{
		Date:    tx.Date.Format(time.DateOnly),
		Balance: FormatMinor(tx.Balance),
	}

	if tx.Description != nil {
		row.Description = *tx.Description
	}

	if tx.PaidIn != nil {
		row.PaidIn = FormatMinor(*tx.PaidIn)
	}

	if tx.PaidOut != nil {
		row.PaidOut = FormatMinor(*tx.PaidOut)
	}

	return row
}

func Summarize(txs []*transaction.Transaction) Summary {
	sum := Summary{Count: len(txs)}

	for _, tx := range txs {
		if tx.PaidIn != nil {
			sum.PaidIn += *tx.PaidIn
		}

		if tx.PaidOut != nil {
			sum.PaidOut += *tx.PaidOut
		}
	}

	return sum
}

// FormatMinor renders minor units as a two-decimal string: 123456 -> "1234.56".
func FormatMinor(v int64) string {
	return decimal.New(v, -2).StringFixed(2)
}
