package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/penny/internal/schema"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		schema    schema.Schema
		setupMock func(m *schema.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			schema: validSingle(),
			setupMock: func(m *schema.MockRepository) {
				m.EXPECT().CreateSchema(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, s *schema.Schema) error {
						s.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "Invalid schema never reaches the repository",
			schema:  schema.Schema{Name: "Broken"},
			wantErr: schema.ErrStartRow,
		},
		{
			name:   "Name taken",
			schema: validSingle(),
			setupMock: func(m *schema.MockRepository) {
				m.EXPECT().CreateSchema(gomock.Any(), gomock.Any()).Return(schema.ErrNameTaken)
			},
			wantErr: schema.ErrNameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := schema.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := schema.NewService(repo)
			s := tt.schema

			err := svc.Create(context.Background(), &s)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, s.ID)
		})
	}
}

func TestService_Update_Validates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := schema.NewMockRepository(ctrl)

	s := validSingle()
	s.BalanceColumn = 0

	err := schema.NewService(repo).Update(context.Background(), &s)
	assert.ErrorIs(t, err, schema.ErrBalanceColumnRequired)
}

func TestService_Clone(t *testing.T) {
	userID := uuid.New()
	srcID := uuid.New()

	src := validSingle()
	src.ID = srcID
	src.UserID = userID
	src.Name = "HSBC"

	type testCase struct {
		name      string
		cloneName string
		setupMock func(m *schema.MockRepository)
		wantName  string
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Generates copy name",
			setupMock: func(m *schema.MockRepository) {
				m.EXPECT().GetSchema(gomock.Any(), userID, srcID).Return(&src, nil)
				m.EXPECT().ListNames(gomock.Any(), userID).Return([]string{"HSBC", "HSBC (copy)"}, nil)
				m.EXPECT().CreateSchema(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantName: "HSBC (copy 2)",
		},
		{
			name:      "Explicit name",
			cloneName: "HSBC business",
			setupMock: func(m *schema.MockRepository) {
				m.EXPECT().GetSchema(gomock.Any(), userID, srcID).Return(&src, nil)
				m.EXPECT().CreateSchema(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantName: "HSBC business",
		},
		{
			name: "Source not found",
			setupMock: func(m *schema.MockRepository) {
				m.EXPECT().GetSchema(gomock.Any(), userID, srcID).Return(nil, schema.ErrNotFound)
			},
			wantErr: schema.ErrNotFound,
		},
		{
			name: "Listing names fails",
			setupMock: func(m *schema.MockRepository) {
				m.EXPECT().GetSchema(gomock.Any(), userID, srcID).Return(&src, nil)
				m.EXPECT().ListNames(gomock.Any(), userID).Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := schema.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := schema.NewService(repo).Clone(context.Background(), userID, srcID, tt.cloneName)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, userID, got.UserID)
			assert.Equal(t, src.ColumnMapping(), got.ColumnMapping())
			assert.Equal(t, src.TransactionDataStart, got.TransactionDataStart)
			assert.NotEqual(t, srcID, got.ID)
		})
	}
}
