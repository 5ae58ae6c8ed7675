package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

type fakeLister struct {
	listFunc func(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

func (f *fakeLister) List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	return f.listFunc(ctx, userID, filter)
}

func TestService_Export(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	desc := "Coffee, large"

	lister := &fakeLister{
		listFunc: func(_ context.Context, gotUser uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
			assert.Equal(t, userID, gotUser)
			assert.Equal(t, &start, filter.StartDate)

			return []*transaction.Transaction{
				{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Balance: 99650, PaidOut: new(int64(350)), Description: &desc},
				{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Balance: 219650, PaidIn: new(int64(120000))},
			}, nil
		},
	}

	var buf bytes.Buffer

	sum, err := NewService(lister).Export(context.Background(), userID, transaction.ListFilter{StartDate: &start}, &buf)
	require.NoError(t, err)

	want := "date,description,paid_in,paid_out,balance\n" +
		"2024-01-02,\"Coffee, large\",,3.50,996.50\n" +
		"2024-01-03,,1200.00,,2196.50\n"
	assert.Equal(t, want, buf.String())

	assert.Equal(t, Summary{Count: 2, PaidIn: 120000, PaidOut: 350}, sum)
	assert.Equal(t, int64(119650), sum.Net())
	assert.Equal(t, "2 transactions | in 1200.00 | out 3.50 | net 1196.50", sum.String())
}

func TestService_Export_ListError(t *testing.T) {
	lister := &fakeLister{
		listFunc: func(context.Context, uuid.UUID, transaction.ListFilter) ([]*transaction.Transaction, error) {
			return nil, errors.New("db error")
		},
	}

	var buf bytes.Buffer

	_, err := NewService(lister).Export(context.Background(), uuid.New(), transaction.ListFilter{}, &buf)
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "0.00", FormatMinor(0))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "-12.34", FormatMinor(-1234))
	assert.Equal(t, "1234.56", FormatMinor(123456))
}
