package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/subslayer/subslayer/internal/subscription"
)

var header = []string{"name", "description", "cost", "currency", "cycle", "next_billing", "category", "status"}

// Service renders a user's subscriptions as CSV. The column set matches what
// the importer accepts, so an export can be re-imported unchanged.
type Service struct {
	subscriptions *subscription.Service
}

func NewService(subs *subscription.Service) *Service {
	return &Service{subscriptions: subs}
}

func (s *Service) CSV(ctx context.Context, userID string, filter subscription.ListFilter, w io.Writer) error {
	subs, err := s.subscriptions.List(ctx, userID, filter)
	if err != nil {
		return fmt.Errorf("listing subscriptions: %w", err)
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, sub := range subs {
		row := []string{
			sub.Name,
			sub.Description,
			sub.Cost.StringFixed(2),
			sub.Currency,
			string(sub.Cycle),
			sub.NextBilling.Format("2006-01-02"),
			sub.Category,
			string(sub.Status),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", sub.Name, err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}
