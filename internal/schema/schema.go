package schema

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/dateparse"
)

// Field is a semantic column of a bank statement.
type Field string

const (
	FieldDate        Field = "date"
	FieldBalance     Field = "balance"
	FieldAmount      Field = "amount"
	FieldPaidIn      Field = "paid_in"
	FieldPaidOut     Field = "paid_out"
	FieldDescription Field = "description"
)

// Schema maps 1-based CSV column indices to semantic fields for one
// statement layout. A column value of 0 means the field is not mapped.
type Schema struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string

	// TransactionDataStart is the 1-based row where transaction data begins.
	TransactionDataStart int

	DateColumn        int
	BalanceColumn     int
	AmountColumn      int // single signed amount column
	PaidInColumn      int // split mode
	PaidOutColumn     int // split mode
	DescriptionColumn int

	// DateFormat is optional; when empty the format is detected per file.
	DateFormat dateparse.Format

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// UsesSingleAmountColumn reports whether amounts come from one signed column.
func (s Schema) UsesSingleAmountColumn() bool {
	return s.AmountColumn > 0 && s.PaidInColumn == 0 && s.PaidOutColumn == 0
}

// UsesSeparateAmountColumns reports whether amounts come from paid in/paid out
// columns.
func (s Schema) UsesSeparateAmountColumns() bool {
	return s.AmountColumn == 0 && (s.PaidInColumn > 0 || s.PaidOutColumn > 0)
}

// ColumnMapping returns the populated fields only. The amount group and the
// paid in/paid out group are never returned together.
func (s Schema) ColumnMapping() map[Field]int {
	mapping := make(map[Field]int)

	set := func(f Field, col int) {
		if col > 0 {
			mapping[f] = col
		}
	}

	set(FieldDate, s.DateColumn)
	set(FieldBalance, s.BalanceColumn)
	set(FieldDescription, s.DescriptionColumn)

	switch {
	case s.UsesSingleAmountColumn():
		set(FieldAmount, s.AmountColumn)
	case s.UsesSeparateAmountColumns():
		set(FieldPaidIn, s.PaidInColumn)
		set(FieldPaidOut, s.PaidOutColumn)
	}

	return mapping
}

// Validate checks the schema is complete enough to parse a file. Checks run
// in a fixed order and the first failure is returned.
func (s Schema) Validate() error {
	switch {
	case s.TransactionDataStart < 1:
		return ErrStartRow
	case s.DateColumn <= 0:
		return ErrDateColumnRequired
	case s.BalanceColumn <= 0:
		return ErrBalanceColumnRequired
	case s.AmountColumn <= 0 && s.PaidInColumn <= 0 && s.PaidOutColumn <= 0:
		return ErrAmountRequired
	case s.AmountColumn > 0 && (s.PaidInColumn > 0 || s.PaidOutColumn > 0):
		return ErrAmountModesExclusive
	}

	for _, col := range []int{s.AmountColumn, s.PaidInColumn, s.PaidOutColumn, s.DescriptionColumn} {
		if col < 0 {
			return ErrNegativeColumn
		}
	}

	if s.DateFormat != "" && !dateparse.Known(s.DateFormat) {
		return ErrUnknownDateFormat
	}

	return nil
}

// CloneFrom copies every field except identity and name.
func (s Schema) CloneFrom(src Schema) Schema {
	s.TransactionDataStart = src.TransactionDataStart
	s.DateColumn = src.DateColumn
	s.BalanceColumn = src.BalanceColumn
	s.AmountColumn = src.AmountColumn
	s.PaidInColumn = src.PaidInColumn
	s.PaidOutColumn = src.PaidOutColumn
	s.DescriptionColumn = src.DescriptionColumn
	s.DateFormat = src.DateFormat

	return s
}
