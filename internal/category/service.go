package category

import (
	"context"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	FindCategory(ctx context.Context, name string) (string, error)
	CreateMapping(ctx context.Context, pattern, category string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest tries to find a category for the given subscription name.
// Returns empty string if no match found.
func (s *Service) Suggest(ctx context.Context, name string) (string, error) {
	return s.repo.FindCategory(ctx, name)
}

// Learn remembers a new mapping between a name pattern and a category.
func (s *Service) Learn(ctx context.Context, pattern, category string) error {
	return s.repo.CreateMapping(ctx, pattern, category)
}
