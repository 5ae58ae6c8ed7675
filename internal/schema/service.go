package schema

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=schema
type Repository interface {
	CreateSchema(ctx context.Context, s *Schema) error
	GetSchema(ctx context.Context, userID, id uuid.UUID) (*Schema, error)
	ListSchemas(ctx context.Context, userID uuid.UUID) ([]*Schema, error)
	ListNames(ctx context.Context, userID uuid.UUID) ([]string, error)
	UpdateSchema(ctx context.Context, s *Schema) error
	DeleteSchema(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, sc *Schema) error {
	if err := sc.Validate(); err != nil {
		return err
	}

	return s.repo.CreateSchema(ctx, sc)
}

// Get returns ErrNotFound for schemas owned by another user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Schema, error) {
	return s.repo.GetSchema(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Schema, error) {
	return s.repo.ListSchemas(ctx, userID)
}

func (s *Service) Update(ctx context.Context, sc *Schema) error {
	if err := sc.Validate(); err != nil {
		return err
	}

	return s.repo.UpdateSchema(ctx, sc)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteSchema(ctx, userID, id)
}

// Clone copies a schema under a new name. An empty name picks the first
// free "<name> (copy)" variant.
func (s *Service) Clone(ctx context.Context, userID, id uuid.UUID, name string) (*Schema, error) {
	src, err := s.repo.GetSchema(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if name == "" {
		existing, err := s.repo.ListNames(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list schema names: %w", err)
		}

		name = NextCopyName(src.Name, existing)
	}

	clone := Schema{UserID: userID, Name: name}.CloneFrom(*src)
	if err := s.repo.CreateSchema(ctx, &clone); err != nil {
		return nil, err
	}

	return &clone, nil
}

// NextCopyName returns "<name> (copy)", then "<name> (copy 2)" and so on,
// skipping names already in existing.
func NextCopyName(name string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[n] = struct{}{}
	}

	candidate := name + " (copy)"

	for i := 2; ; i++ {
		if _, ok := taken[candidate]; !ok {
			return candidate
		}

		candidate = fmt.Sprintf("%s (copy %d)", name, i)
	}
}
