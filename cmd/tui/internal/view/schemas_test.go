package view

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/penny/internal/dateparse"
	"github.com/MrJamesThe3rd/penny/internal/schema"
)

func TestSchemaForm_ToSchema(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name    string
		form    schemaForm
		want    schema.Schema
		wantErr string
	}

	tests := []testCase{
		{
			name: "Split amounts",
			form: schemaForm{
				Name: " Monzo ", DataStart: "2", Date: "1", Balance: "5",
				PaidIn: "3", PaidOut: "4", Description: " 2 ", DateFormat: "d/m/Y",
			},
			want: schema.Schema{
				UserID: userID, Name: "Monzo", TransactionDataStart: 2,
				DateColumn: 1, BalanceColumn: 5, PaidInColumn: 3, PaidOutColumn: 4,
				DescriptionColumn: 2, DateFormat: dateparse.FormatDayFirst,
			},
		},
		{
			name: "Single amount with detected format",
			form: schemaForm{Name: "Chase", DataStart: "1", Date: "1", Balance: "4", Amount: "3"},
			want: schema.Schema{
				UserID: userID, Name: "Chase", TransactionDataStart: 1,
				DateColumn: 1, BalanceColumn: 4, AmountColumn: 3,
			},
		},
		{
			name:    "Blank name",
			form:    schemaForm{Name: "  ", DataStart: "1", Date: "1", Balance: "2", Amount: "3"},
			wantErr: "name is required",
		},
		{
			name:    "Non numeric column",
			form:    schemaForm{Name: "X", DataStart: "1", Date: "one", Balance: "2", Amount: "3"},
			wantErr: "date column must be a column number",
		},
		{
			name:    "Schema validation applies",
			form:    schemaForm{Name: "X", DataStart: "1", Date: "1", Balance: "2", Amount: "3", PaidIn: "4"},
			wantErr: schema.ErrAmountModesExclusive.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.form.toSchema(userID)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountCell(t *testing.T) {
	assert.Equal(t, "3", amountCell(&schema.Schema{AmountColumn: 3}))
	assert.Equal(t, "in 3 / out -", amountCell(&schema.Schema{PaidInColumn: 3}))
}
