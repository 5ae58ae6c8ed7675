package matching

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrEmptyPattern = errors.New("pattern is required")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatches(ctx context.Context, userID uuid.UUID, description string) ([]uuid.UUID, error)
	ListRules(ctx context.Context, userID uuid.UUID) ([]Rule, error)
	CreateRule(ctx context.Context, r *Rule) error
}

type TagOwnership interface {
	EnsureOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

type Service struct {
	repo Repository
	tags TagOwnership
}

func NewService(repo Repository, tags TagOwnership) *Service {
	return &Service{repo: repo, tags: tags}
}

// Suggest returns the tags whose pattern appears in the description.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, description string) ([]uuid.UUID, error) {
	if strings.TrimSpace(description) == "" {
		return nil, nil
	}

	return s.repo.FindMatches(ctx, userID, description)
}

// Matcher loads all of the user's rules for repeated in-memory matching.
func (s *Service) Matcher(ctx context.Context, userID uuid.UUID) (*Matcher, error) {
	rules, err := s.repo.ListRules(ctx, userID)
	if err != nil {
		return nil, err
	}

	return NewMatcher(rules), nil
}

// Learn remembers that descriptions containing pattern get tagID.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, pattern string, tagID uuid.UUID) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	if err := s.tags.EnsureOwned(ctx, userID, []uuid.UUID{tagID}); err != nil {
		return nil, err
	}

	r := &Rule{UserID: userID, Pattern: pattern, TagID: tagID}
	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}
