package handlers

import (
	"context"

	"github.com/ternarybob/divcast/internal/services/research"
)

// Researcher produces dividend reports.
type Researcher interface {
	Research(ctx context.Context, ticker string) (*research.Report, error)
	Refresh(ctx context.Context, ticker string) (*research.Report, error)
	ResearchBatch(ctx context.Context, tickers []string) ([]*research.Report, error)
}

// CacheClearer defines the interface for clearing cached research inputs.
type CacheClearer interface {
	Clear(ctx context.Context) (int, error)
}
