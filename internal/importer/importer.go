package importer

import (
	"io"

	"github.com/subslayer/subslayer/internal/subscription"
)

type Format string

const (
	FormatCSV Format = "csv"
)

type Importer interface {
	Parse(r io.Reader) ([]subscription.CreateParams, error)
}
