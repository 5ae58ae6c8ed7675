package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

type transactionResponse struct {
	ID          uuid.UUID   `json:"id"`
	AccountID   uuid.UUID   `json:"account_id"`
	ImportID    *uuid.UUID  `json:"import_id,omitempty"`
	Date        string      `json:"date"`
	Balance     int64       `json:"balance"`
	PaidIn      *int64      `json:"paid_in"`
	PaidOut     *int64      `json:"paid_out"`
	Amount      int64       `json:"amount"`
	Description *string     `json:"description"`
	UniqueHash  string      `json:"unique_hash"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	tagIDs := tx.TagIDs
	if tagIDs == nil {
		tagIDs = []uuid.UUID{}
	}

	return transactionResponse{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		ImportID:    tx.ImportID,
		Date:        tx.Date.Format(time.DateOnly),
		Balance:     tx.Balance,
		PaidIn:      tx.PaidIn,
		PaidOut:     tx.PaidOut,
		Amount:      tx.Amount(),
		Description: tx.Description,
		UniqueHash:  tx.UniqueHash,
		TagIDs:      tagIDs,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
