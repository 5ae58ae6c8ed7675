package view

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/penny/internal/importer"
	"github.com/MrJamesThe3rd/penny/internal/importer/extract"
)

func previewRows() []importer.PreviewTransaction {
	return []importer.PreviewTransaction{
		{CanonicalTransaction: extract.CanonicalTransaction{RowNumber: 2, Date: "2023-01-15", PaidOut: new(int64(350))}},
		{
			CanonicalTransaction: extract.CanonicalTransaction{RowNumber: 3, Date: "2023-01-16", PaidIn: new(int64(200000))},
			IsDuplicate:          true,
			DuplicateReason:      importer.DuplicateExisting,
		},
		{
			CanonicalTransaction: extract.CanonicalTransaction{RowNumber: 4, Date: "2023-01-17", PaidOut: new(int64(1200))},
			SuggestedTagIDs:      []uuid.UUID{uuid.New()},
		},
	}
}

func statuses(rs *reviewSet) []importer.ReviewStatus {
	out := make([]importer.ReviewStatus, 0, len(rs.statuses))
	for _, r := range rs.reviewed() {
		out = append(out, r.Status)
	}

	return out
}

func TestReviewSet_Defaults(t *testing.T) {
	rs := newReviewSet(previewRows())

	assert.Equal(t, []importer.ReviewStatus{
		importer.ReviewApproved,
		importer.ReviewDuplicate,
		importer.ReviewApproved,
	}, statuses(rs))
	assert.Equal(t, 2, rs.approved())
}

func TestReviewSet_Toggle(t *testing.T) {
	rs := newReviewSet(previewRows())

	rs.toggle(0)
	rs.toggle(1)
	rs.toggle(7)

	assert.Equal(t, []importer.ReviewStatus{
		importer.ReviewDiscarded,
		importer.ReviewApproved,
		importer.ReviewApproved,
	}, statuses(rs))

	rs.toggle(0)
	assert.Equal(t, importer.ReviewApproved, rs.statuses[0])
}

func TestReviewSet_SetAllLeavesDuplicates(t *testing.T) {
	rs := newReviewSet(previewRows())

	rs.setAll(importer.ReviewDiscarded)

	assert.Equal(t, []importer.ReviewStatus{
		importer.ReviewDiscarded,
		importer.ReviewDuplicate,
		importer.ReviewDiscarded,
	}, statuses(rs))
	assert.Equal(t, 0, rs.approved())
}

func TestReviewSet_ReviewedCarriesSuggestedTags(t *testing.T) {
	rows := previewRows()
	got := newReviewSet(rows).reviewed()

	assert.Equal(t, rows[2].SuggestedTagIDs, got[2].TagIDs)
	assert.Equal(t, rows[0].CanonicalTransaction, got[0].CanonicalTransaction)
}
