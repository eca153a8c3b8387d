package eodhd

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/divcast/internal/common"
	"github.com/ternarybob/divcast/internal/dividend"
)

// priceLookback is how far back GetEOD looks for a previous close when the
// real-time quote is unavailable.
const priceLookback = 10 * 24 * time.Hour

// Provider fetches everything the dividend engine needs for one symbol.
type Provider struct {
	client *Client
	retry  common.RetryConfig
	logger arbor.ILogger
	now    func() time.Time
}

// ProviderOption configures the Provider.
type ProviderOption func(*Provider)

// WithRetryConfig overrides the retry policy applied to every upstream call.
func WithRetryConfig(cfg common.RetryConfig) ProviderOption {
	return func(p *Provider) {
		p.retry = cfg
	}
}

// NewProvider creates a Provider backed by client.
func NewProvider(client *Client, logger arbor.ILogger, opts ...ProviderOption) *Provider {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	p := &Provider{
		client: client,
		retry:  common.NewDefaultRetryConfig(),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch retrieves fundamentals, dividend history and price for symbol
// (EODHD format, e.g. "AAPL.US") and maps them to engine inputs. Fundamentals
// and dividends are required; price lookups degrade to empty values.
func (p *Provider) Fetch(ctx context.Context, symbol string) (*dividend.Inputs, error) {
	var (
		fundamentals *FundamentalsResponse
		divs         DividendsResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fundamentals, err = common.Retry(gctx, p.retry, p.logger, "eodhd.fundamentals", func(ctx context.Context) (*FundamentalsResponse, error) {
			return p.client.GetFundamentals(ctx, symbol)
		})
		if err != nil {
			return fmt.Errorf("failed to fetch fundamentals for %s: %w", symbol, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		divs, err = common.Retry(gctx, p.retry, p.logger, "eodhd.dividends", func(ctx context.Context) (DividendsResponse, error) {
			return p.client.GetDividends(ctx, symbol)
		})
		if err != nil {
			return fmt.Errorf("failed to fetch dividends for %s: %w", symbol, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	price := p.fetchPrice(ctx, symbol)

	inputs := &dividend.Inputs{
		Info:     ToStockInfo(symbol, fundamentals, price),
		Calendar: ToCalendar(fundamentals, divs),
		Series:   ToSeries(divs),
	}

	p.logger.Debug().
		Str("symbol", symbol).
		Int("dividends", len(inputs.Series)).
		Bool("calendar", inputs.Calendar.HasBoth()).
		Msg("Fetched dividend inputs")

	return inputs, nil
}

// fetchPrice tries the real-time quote, then the most recent EOD close.
func (p *Provider) fetchPrice(ctx context.Context, symbol string) PriceData {
	quote, err := common.Retry(ctx, p.retry, p.logger, "eodhd.quote", func(ctx context.Context) (*RealTimeQuote, error) {
		return p.client.GetRealTimeQuote(ctx, symbol)
	})
	if err == nil && quote != nil && quote.Close != 0 {
		return PriceData{Current: float64(quote.Close), PreviousClose: float64(quote.PreviousClose)}
	}
	if err != nil {
		p.logger.Debug().Err(err).Str("symbol", symbol).Msg("Real-time quote unavailable, falling back to EOD")
	}

	now := p.now()
	eod, err := common.Retry(ctx, p.retry, p.logger, "eodhd.eod", func(ctx context.Context) (EODResponse, error) {
		return p.client.GetEOD(ctx, symbol, WithDateRange(now.Add(-priceLookback), now), WithOrder("d"))
	})
	if err != nil || len(eod) == 0 {
		p.logger.Warn().Err(err).Str("symbol", symbol).Msg("No price data available")
		return PriceData{}
	}

	return PriceData{PreviousClose: eod[0].Close}
}
