// Package profile recognises well-known statement layouts by their header
// row and proposes a schema for them.
package profile

import (
	"strings"

	"github.com/MrJamesThe3rd/penny/internal/schema"
)

// amountMode determines how amounts are laid out in a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Montante" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate paid in and paid out columns.
	amountSplit
)

// Profile describes the header names of a statement layout. Each field lists
// the accepted names, compared case-insensitively.
type Profile struct {
	Name        string
	Date        []string
	Description []string
	Balance     []string
	AmountMode  amountMode
	Amount      []string // used when AmountMode == amountSingle
	PaidIn      []string // used when AmountMode == amountSplit
	PaidOut     []string // used when AmountMode == amountSplit
}

var (
	dateNames        = []string{"date", "transaction date", "posted date", "posting date", "data", "data mov."}
	descriptionNames = []string{"description", "details", "memo", "narrative", "payee", "reference", "descrição"}
	balanceNames     = []string{"balance", "running balance", "balance after", "saldo", "saldo contabilístico após movimento"}
)

// profiles is the ordered list of layouts tried during detection. More
// specific profiles come first to avoid false matches.
var profiles = []Profile{
	{
		Name:        "CGD conta",
		Date:        []string{"data mov."},
		Description: []string{"descrição"},
		Balance:     []string{"saldo contabilístico após movimento"},
		AmountMode:  amountSingle,
		Amount:      []string{"montante"},
	},
	{
		Name:        "CGD extrato",
		Date:        []string{"data mov."},
		Description: []string{"descrição"},
		Balance:     []string{"saldo contabilístico após movimento"},
		AmountMode:  amountSingle,
		Amount:      []string{"movimento"},
	},
	{
		Name:        "Paid in / paid out",
		Date:        dateNames,
		Description: descriptionNames,
		Balance:     balanceNames,
		AmountMode:  amountSplit,
		PaidIn:      []string{"paid in", "money in", "credit", "credit amount", "deposit", "deposits", "crédito"},
		PaidOut:     []string{"paid out", "money out", "debit", "debit amount", "withdrawal", "withdrawals", "débito"},
	},
	{
		Name:        "Signed amount",
		Date:        dateNames,
		Description: descriptionNames,
		Balance:     balanceNames,
		AmountMode:  amountSingle,
		Amount:      []string{"amount", "value", "montante", "movimento"},
	},
}

// Line is one physical CSV record.
type Line struct {
	Number int // 1-based line number
	Fields []string
}

// Match is a recognised header row and the schema it implies. The schema has
// no identity and no date format; callers fill those in.
type Match struct {
	Profile    string
	HeaderLine int
	Schema     schema.Schema
}

// colIndex maps a normalised header name to its 1-based column.
type colIndex map[string]int

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func index(fields []string) colIndex {
	cols := make(colIndex)

	for i, cell := range fields {
		name := normalize(cell)
		if name == "" {
			continue
		}

		if _, ok := cols[name]; !ok {
			cols[name] = i + 1
		}
	}

	return cols
}

// find returns the column of the first accepted name present, or 0.
func (c colIndex) find(names []string) int {
	for _, n := range names {
		if col, ok := c[n]; ok {
			return col
		}
	}

	return 0
}

// apply maps the header onto a schema. It reports false unless the date,
// balance and amount columns are all present.
func (p Profile) apply(cols colIndex) (schema.Schema, bool) {
	s := schema.Schema{
		Name:              p.Name,
		DateColumn:        cols.find(p.Date),
		BalanceColumn:     cols.find(p.Balance),
		DescriptionColumn: cols.find(p.Description),
	}

	if s.DateColumn == 0 || s.BalanceColumn == 0 {
		return schema.Schema{}, false
	}

	switch p.AmountMode {
	case amountSingle:
		s.AmountColumn = cols.find(p.Amount)
		if s.AmountColumn == 0 {
			return schema.Schema{}, false
		}
	case amountSplit:
		s.PaidInColumn = cols.find(p.PaidIn)
		s.PaidOutColumn = cols.find(p.PaidOut)

		if s.PaidInColumn == 0 || s.PaidOutColumn == 0 {
			return schema.Schema{}, false
		}
	}

	return s, true
}

// Detect scans lines for a header that matches a known profile. Data is
// assumed to start on the line after the header.
func Detect(lines []Line) (*Match, bool) {
	for i, line := range lines {
		cols := index(line.Fields)

		for _, p := range profiles {
			s, ok := p.apply(cols)
			if !ok {
				continue
			}

			s.TransactionDataStart = line.Number + 1
			if i+1 < len(lines) {
				s.TransactionDataStart = lines[i+1].Number
			}

			return &Match{Profile: p.Name, HeaderLine: line.Number, Schema: s}, true
		}
	}

	return nil, false
}

// Names lists the known profiles in detection order.
func Names() []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}

	return names
}
