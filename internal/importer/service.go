package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/subslayer/subslayer/internal/category"
	"github.com/subslayer/subslayer/internal/importer/csvsub"
	"github.com/subslayer/subslayer/internal/subscription"
)

type Service struct {
	csvImporter Importer
	categories  *category.Service
}

func NewService(categories *category.Service) *Service {
	return &Service{
		csvImporter: csvsub.New(),
		categories:  categories,
	}
}

// Import parses the input and fills in missing categories from the learned
// name mappings. A failed suggestion leaves the row uncategorized.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) ([]subscription.CreateParams, error) {
	var imp Importer

	switch format {
	case FormatCSV:
		imp = s.csvImporter
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	params, err := imp.Parse(r)
	if err != nil {
		return nil, err
	}

	if s.categories == nil {
		return params, nil
	}

	for i := range params {
		if params[i].Category != "" {
			continue
		}

		suggested, err := s.categories.Suggest(ctx, params[i].Name)
		if err != nil {
			slog.Warn("suggesting category", "name", params[i].Name, "error", err)
			continue
		}

		params[i].Category = suggested
	}

	return params, nil
}
