// Package interfaces provides service interfaces for dependency injection.
package interfaces

import (
	"context"

	"github.com/ternarybob/divcast/internal/dividend"
)

// DividendDataProvider fetches the raw inputs for dividend estimation.
// The symbol is in provider format (e.g. "AAPL.US").
type DividendDataProvider interface {
	Fetch(ctx context.Context, symbol string) (*dividend.Inputs, error)
}
