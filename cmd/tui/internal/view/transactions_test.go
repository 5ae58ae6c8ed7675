package view

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/penny/internal/tag"
	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

func TestRuleDraft_Target(t *testing.T) {
	existing := uuid.New()

	type testCase struct {
		name     string
		draft    ruleDraft
		wantID   uuid.UUID
		wantName string
		wantErr  error
	}

	tests := []testCase{
		{name: "Existing tag", draft: ruleDraft{tagID: existing.String(), newTag: "ignored"}, wantID: existing},
		{name: "New tag", draft: ruleDraft{newTag: "  Groceries "}, wantName: "Groceries"},
		{name: "Neither", draft: ruleDraft{newTag: "  "}, wantErr: errNoRuleTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, name, err := tt.draft.target()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestRuleDraft_TargetInvalidID(t *testing.T) {
	_, _, err := ruleDraft{tagID: "nope"}.target()
	assert.Error(t, err)
}

func TestTxItems(t *testing.T) {
	food := &tag.Tag{ID: uuid.New(), Name: "Food"}
	bills := &tag.Tag{ID: uuid.New(), Name: "Bills"}

	txs := []*transaction.Transaction{
		{
			Date:        time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			Balance:     150000,
			PaidOut:     new(int64(2350)),
			Description: new("Mercadona"),
			TagIDs:      []uuid.UUID{food.ID, uuid.New(), bills.ID},
		},
		{
			Date:    time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
			Balance: 140000,
		},
	}

	items := txItems(txs, []*tag.Tag{food, bills})
	require.Len(t, items, 2)

	first := items[0].(txItem)
	assert.Equal(t, "2024-03-02      -23.50  Mercadona", first.Title())
	assert.Equal(t, "balance 1500.00  tags: Food, Bills", first.Description())
	assert.Equal(t, "Mercadona", first.FilterValue())

	second := items[1].(txItem)
	assert.Equal(t, "balance 1400.00", second.Description())
}
