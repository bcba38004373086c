package assistant

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/subslayer/subslayer/internal/money"
	"github.com/subslayer/subslayer/internal/settings"
	"github.com/subslayer/subslayer/internal/subscription"
)

// Service wires the chat widget to the hosted agent. The first turn of a
// conversation carries a serialized snapshot of the user's subscriptions so
// the agent can give grounded advice without any local reasoning.
type Service struct {
	client        *Client
	subscriptions *subscription.Service
	settings      *settings.Service
}

func NewService(client *Client, subs *subscription.Service, prefs *settings.Service) *Service {
	return &Service{
		client:        client,
		subscriptions: subs,
		settings:      prefs,
	}
}

// Chat sends one turn. An empty runID starts a new conversation seeded with
// the state snapshot; the returned id addresses the follow-up turns. The
// caller owns the stream.
func (s *Service) Chat(ctx context.Context, userID, runID, message string) (string, io.ReadCloser, error) {
	if runID != "" {
		stream, err := s.client.Send(ctx, runID, message)
		if err != nil {
			return "", nil, fmt.Errorf("sending chat turn: %w", err)
		}

		return runID, stream, nil
	}

	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	runID, stream, err := s.client.Start(ctx, snapshot+"\n\n"+message)
	if err != nil {
		return "", nil, fmt.Errorf("starting conversation: %w", err)
	}

	return runID, stream, nil
}

// snapshot renders the user's subscriptions and preferences as plain text.
// The agent consumes prose, not JSON.
func (s *Service) snapshot(ctx context.Context, userID string) (string, error) {
	subs, err := s.subscriptions.List(ctx, userID, subscription.ListFilter{})
	if err != nil {
		return "", fmt.Errorf("listing subscriptions: %w", err)
	}

	prefs, err := s.settings.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("loading settings: %w", err)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "The user tracks %d subscription(s). Display currency: %s.\n", len(subs), prefs.Currency)

	for _, sub := range subs {
		fmt.Fprintf(&sb, "- %s: %s per %s cycle, next billing %s, category %s, status %s\n",
			sub.Name,
			money.Format(sub.Currency, sub.Cost),
			sub.Cycle,
			sub.NextBilling.Format("2006-01-02"),
			sub.DisplayCategory(),
			sub.Status,
		)
	}

	return sb.String(), nil
}
