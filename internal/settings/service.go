package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned by a Repository when a user has no persisted
// settings yet.
var ErrNotFound = errors.New("settings not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=settings
type Repository interface {
	LoadSettings(ctx context.Context, userID string) ([]byte, error)
	SaveSettings(ctx context.Context, userID string, payload []byte) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the user's settings, substituting defaults when nothing is
// persisted or the stored blob no longer parses.
func (s *Service) Get(ctx context.Context, userID string) (AppSettings, error) {
	payload, err := s.repo.LoadSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Defaults(), nil
		}

		return Defaults(), fmt.Errorf("loading settings: %w", err)
	}

	var settings AppSettings
	if err := json.Unmarshal(payload, &settings); err != nil {
		slog.Warn("discarding malformed settings blob", "user", userID, "error", err)
		return Defaults(), nil
	}

	if len(settings.ReminderDays) == 0 {
		settings.ReminderDays = Defaults().ReminderDays
	}

	return settings, nil
}

// Update overwrites the user's settings wholesale.
func (s *Service) Update(ctx context.Context, userID string, settings AppSettings) error {
	for _, d := range settings.ReminderDays {
		if d < 0 {
			return fmt.Errorf("reminder lead time must not be negative, got %d", d)
		}
	}

	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := s.repo.SaveSettings(ctx, userID, payload); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}
