package account

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, userID, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]*Account, error)
	RecomputeBalance(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*Account, error) {
	a := &Account{UserID: userID, Name: name}
	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

// Get returns ErrNotFound when the account belongs to another user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Account, error) {
	return s.repo.ListAccounts(ctx, userID)
}

func (s *Service) RecomputeBalance(ctx context.Context, id uuid.UUID) error {
	return s.repo.RecomputeBalance(ctx, id)
}
