package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/penny/internal/transaction"
)

var (
	userID    = uuid.MustParse("0b7e0a52-62e4-4a8d-9d55-1f0a3c7d9e21")
	accountID = uuid.MustParse("9c1f5d2a-8b3e-4f6a-a1d7-2e4b6c8d0f13")
)

func TestService_List(t *testing.T) {
	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{AccountID: &accountID}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), userID, transaction.ListFilter{AccountID: &accountID}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
			wantErr: false,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), userID, transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantLen: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo, nil)
			got, err := svc.List(context.Background(), userID, tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("Recomputes balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := transaction.NewMockRepository(ctrl)
		hook := transaction.NewMockBalanceHook(ctrl)

		repo.EXPECT().GetTransaction(gomock.Any(), userID, id).
			Return(&transaction.Transaction{ID: id, AccountID: accountID}, nil)
		repo.EXPECT().DeleteTransaction(gomock.Any(), userID, id).Return(nil)
		hook.EXPECT().RecomputeBalance(gomock.Any(), accountID).Return(nil)

		require.NoError(t, transaction.NewService(repo, hook).Delete(context.Background(), userID, id))
	})

	t.Run("Not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := transaction.NewMockRepository(ctrl)

		repo.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(nil, transaction.ErrNotFound)

		err := transaction.NewService(repo, nil).Delete(context.Background(), userID, id)
		assert.ErrorIs(t, err, transaction.ErrNotFound)
	})
}

func TestService_ExistsByHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	repo.EXPECT().ExistingHashes(gomock.Any(), userID, []string{"abc"}).Return(map[string]bool{"abc": true}, nil)
	repo.EXPECT().ExistingHashes(gomock.Any(), userID, []string{"def"}).Return(map[string]bool{}, nil)

	svc := transaction.NewService(repo, nil)

	found, err := svc.ExistsByHash(context.Background(), userID, "abc")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = svc.ExistsByHash(context.Background(), userID, "def")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestService_ExistingHashes_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	got, err := transaction.NewService(repo, nil).ExistingHashes(context.Background(), userID, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func batchParams() []transaction.CreateParams {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	tagID := uuid.New()

	return []transaction.CreateParams{
		{Date: date, Balance: 1000, PaidOut: new(int64(350)), UniqueHash: "h1", TagIDs: []uuid.UUID{tagID}},
		{Date: date, Balance: 1350, PaidIn: new(int64(350)), UniqueHash: "h2"},
	}
}

func TestService_ImportBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	hook := transaction.NewMockBalanceHook(ctrl)
	svc := transaction.NewService(repo, hook)

	params := batchParams()

	repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
	itx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) (bool, error) {
			tx.ID = uuid.New()
			assert.Equal(t, userID, tx.UserID)
			assert.Equal(t, accountID, tx.AccountID)

			return true, nil
		}).Times(2)
	itx.EXPECT().AttachTags(gomock.Any(), gomock.Any(), params[0].TagIDs).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)
	hook.EXPECT().RecomputeBalance(gomock.Any(), accountID).Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, accountID, params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 2)
	assert.Zero(t, result.Duplicates)
}

func TestService_ImportBatch_ConflictsCountAsDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	hook := transaction.NewMockBalanceHook(ctrl)
	svc := transaction.NewService(repo, hook)

	params := batchParams()

	repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
	gomock.InOrder(
		itx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(false, nil),
		itx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(true, nil),
	)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)
	hook.EXPECT().RecomputeBalance(gomock.Any(), accountID).Return(errors.New("hook down"))

	result, err := svc.ImportBatch(context.Background(), userID, accountID, params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Equal(t, 1, result.Duplicates)
}

func TestService_ImportBatch_RollsBackOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo, transaction.NewMockBalanceHook(ctrl))

	repo.EXPECT().BeginImport(gomock.Any(), userID).Return(itx, nil)
	gomock.InOrder(
		itx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(true, nil),
		itx.EXPECT().AttachTags(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		itx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(false, errors.New("connection reset")),
	)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, accountID, batchParams())
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestService_ImportBatch_RejectsBothAmounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	params := []transaction.CreateParams{{PaidIn: new(int64(1)), PaidOut: new(int64(1)), UniqueHash: "h"}}

	_, err := transaction.NewService(repo, nil).ImportBatch(context.Background(), userID, accountID, params)
	assert.ErrorIs(t, err, transaction.ErrBothAmounts)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, nil)

	result, err := svc.ImportBatch(context.Background(), userID, accountID, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Zero(t, result.Duplicates)
}

func TestTransaction_Amount(t *testing.T) {
	assert.Equal(t, int64(500), (&transaction.Transaction{PaidIn: new(int64(500))}).Amount())
	assert.Equal(t, int64(-250), (&transaction.Transaction{PaidOut: new(int64(250))}).Amount())
	assert.Zero(t, (&transaction.Transaction{}).Amount())
}
