package notification

import (
	"context"
	"fmt"
	"log/slog"
)

// Service exposes the inbox operations. Every mutation rewrites the whole
// list; a persistence failure is logged and the in-memory result returned, so
// the caller's view stays consistent within the session.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	items, err := s.repo.LoadItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading notifications: %w", err)
	}

	return items, nil
}

// MarkRead flags a single item as read. Unknown ids are a no-op.
func (s *Service) MarkRead(ctx context.Context, userID, id string) ([]Item, error) {
	return s.rewrite(ctx, userID, func(items []Item) []Item {
		for i := range items {
			if items[i].ID == id {
				items[i].Read = true
			}
		}

		return items
	})
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) ([]Item, error) {
	return s.rewrite(ctx, userID, func(items []Item) []Item {
		for i := range items {
			items[i].Read = true
		}

		return items
	})
}

// Delete removes a single item. Deterministic ids mean a later evaluation run
// may legitimately recreate it.
func (s *Service) Delete(ctx context.Context, userID, id string) ([]Item, error) {
	return s.rewrite(ctx, userID, func(items []Item) []Item {
		kept := items[:0]

		for _, it := range items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}

		return kept
	})
}

func (s *Service) Clear(ctx context.Context, userID string) ([]Item, error) {
	return s.rewrite(ctx, userID, func([]Item) []Item {
		return []Item{}
	})
}

func (s *Service) rewrite(ctx context.Context, userID string, transform func([]Item) []Item) ([]Item, error) {
	items, err := s.repo.LoadItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading notifications: %w", err)
	}

	items = transform(items)

	if err := s.repo.SaveItems(ctx, userID, items); err != nil {
		slog.Error("persisting notifications", "user", userID, "error", err)
	}

	return items, nil
}
