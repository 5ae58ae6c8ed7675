package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/penny/internal/dateparse"
	"github.com/MrJamesThe3rd/penny/internal/schema"
)

func validSingle() schema.Schema {
	return schema.Schema{
		Name:                 "Barclays",
		TransactionDataStart: 2,
		DateColumn:           1,
		BalanceColumn:        4,
		AmountColumn:         3,
		DescriptionColumn:    2,
	}
}

func TestSchema_Validate(t *testing.T) {
	type testCase struct {
		name   string
		mutate func(s *schema.Schema)
		want   error
	}

	tests := []testCase{
		{name: "Valid single amount", mutate: func(*schema.Schema) {}},
		{
			name: "Valid split amounts",
			mutate: func(s *schema.Schema) {
				s.AmountColumn = 0
				s.PaidInColumn = 3
				s.PaidOutColumn = 5
			},
		},
		{
			name: "Valid with only paid out",
			mutate: func(s *schema.Schema) {
				s.AmountColumn = 0
				s.PaidOutColumn = 5
			},
		},
		{
			name:   "Valid with known date format",
			mutate: func(s *schema.Schema) { s.DateFormat = dateparse.FormatDayFirst },
		},
		{name: "Start row zero", mutate: func(s *schema.Schema) { s.TransactionDataStart = 0 }, want: schema.ErrStartRow},
		{name: "Missing date column", mutate: func(s *schema.Schema) { s.DateColumn = 0 }, want: schema.ErrDateColumnRequired},
		{name: "Missing balance column", mutate: func(s *schema.Schema) { s.BalanceColumn = 0 }, want: schema.ErrBalanceColumnRequired},
		{name: "No amount columns", mutate: func(s *schema.Schema) { s.AmountColumn = 0 }, want: schema.ErrAmountRequired},
		{
			name:   "Both amount modes",
			mutate: func(s *schema.Schema) { s.PaidInColumn = 5 },
			want:   schema.ErrAmountModesExclusive,
		},
		{
			name:   "Negative description column",
			mutate: func(s *schema.Schema) { s.DescriptionColumn = -1 },
			want:   schema.ErrNegativeColumn,
		},
		{
			name:   "Unknown date format",
			mutate: func(s *schema.Schema) { s.DateFormat = "YYYY/MM" },
			want:   schema.ErrUnknownDateFormat,
		},
		{
			name: "Start row checked before date column",
			mutate: func(s *schema.Schema) {
				s.TransactionDataStart = 0
				s.DateColumn = 0
			},
			want: schema.ErrStartRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSingle()
			tt.mutate(&s)

			err := s.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.want)

			var vErr *schema.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestSchema_AmountModes(t *testing.T) {
	single := validSingle()
	assert.True(t, single.UsesSingleAmountColumn())
	assert.False(t, single.UsesSeparateAmountColumns())

	split := validSingle()
	split.AmountColumn = 0
	split.PaidInColumn = 3
	assert.False(t, split.UsesSingleAmountColumn())
	assert.True(t, split.UsesSeparateAmountColumns())

	both := validSingle()
	both.PaidOutColumn = 6
	assert.False(t, both.UsesSingleAmountColumn())
	assert.False(t, both.UsesSeparateAmountColumns())
}

func TestSchema_ColumnMapping(t *testing.T) {
	assert.Equal(t, map[schema.Field]int{
		schema.FieldDate:        1,
		schema.FieldDescription: 2,
		schema.FieldAmount:      3,
		schema.FieldBalance:     4,
	}, validSingle().ColumnMapping())

	split := validSingle()
	split.AmountColumn = 0
	split.DescriptionColumn = 0
	split.PaidInColumn = 5
	split.PaidOutColumn = 6

	assert.Equal(t, map[schema.Field]int{
		schema.FieldDate:    1,
		schema.FieldBalance: 4,
		schema.FieldPaidIn:  5,
		schema.FieldPaidOut: 6,
	}, split.ColumnMapping())
}

func TestNextCopyName(t *testing.T) {
	assert.Equal(t, "Monzo (copy)", schema.NextCopyName("Monzo", []string{"Monzo"}))
	assert.Equal(t, "Monzo (copy 2)", schema.NextCopyName("Monzo", []string{"Monzo", "Monzo (copy)"}))
	assert.Equal(t, "Monzo (copy 3)", schema.NextCopyName("Monzo", []string{"Monzo (copy)", "Monzo (copy 2)"}))
	assert.Equal(t, "Monzo (copy)", schema.NextCopyName("Monzo", nil))
}
