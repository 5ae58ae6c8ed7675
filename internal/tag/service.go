package tag

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=tag
type Repository interface {
	CreateTag(ctx context.Context, t *Tag) error
	ListTags(ctx context.Context, userID uuid.UUID) ([]*Tag, error)
	// OwnedTagIDs returns the subset of ids that belong to the user.
	OwnedTagIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*Tag, error) {
	t := &Tag{UserID: userID, Name: strings.TrimSpace(name)}
	if err := s.repo.CreateTag(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Tag, error) {
	return s.repo.ListTags(ctx, userID)
}

// EnsureOwned returns an *OwnershipError when any id does not belong to the
// user. Duplicate ids are checked once.
func (s *Service) EnsureOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	owned, err := s.repo.OwnedTagIDs(ctx, userID, unique)
	if err != nil {
		return err
	}

	ownedSet := make(map[uuid.UUID]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}

	var missing []uuid.UUID

	for _, id := range unique {
		if _, ok := ownedSet[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		return &OwnershipError{Missing: missing}
	}

	return nil
}
