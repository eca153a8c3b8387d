// Package research assembles dividend reports for tickers. It resolves
// provider inputs through a two-tier cache, runs the estimation engine and
// records which estimation paths were taken.
package research

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/divcast/internal/common"
	"github.com/ternarybob/divcast/internal/dividend"
	"github.com/ternarybob/divcast/internal/interfaces"
)

const (
	// DefaultConcurrency bounds parallel lookups in ResearchBatch.
	DefaultConcurrency = 4

	// MethodAnalysisFailed marks a report whose analysis panicked.
	MethodAnalysisFailed = "analysis_failed"
)

// ErrInvalidTicker is returned for blank or unparseable tickers.
var ErrInvalidTicker = errors.New("invalid ticker")

// Service produces research reports.
type Service struct {
	provider    interfaces.DividendDataProvider
	cache       *Cache
	logger      arbor.ILogger
	counters    *counters
	now         func() time.Time
	concurrency int

	build func(r *Report, analyzer *dividend.Analyzer, inputs dividend.Inputs)
}

// NewService creates a research service. cache may be nil to always fetch.
// Counters are registered on reg when it is non-nil.
func NewService(provider interfaces.DividendDataProvider, cache *Cache, logger arbor.ILogger, reg prometheus.Registerer) *Service {
	return &Service{
		provider:    provider,
		cache:       cache,
		logger:      logger,
		counters:    newCounters(reg),
		now:         time.Now,
		concurrency: DefaultConcurrency,
		build:       buildReport,
	}
}

// WithClock sets the clock used for "today" and report timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	if s.cache != nil {
		s.cache.now = now
	}
	return s
}

// WithConcurrency sets the batch concurrency limit.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// Cache returns the service cache, which may be nil.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Research builds a report for ticker, using cached inputs when fresh.
func (s *Service) Research(ctx context.Context, ticker string) (*Report, error) {
	return s.research(ctx, ticker, true)
}

// Refresh builds a report from freshly fetched inputs and updates the cache.
func (s *Service) Refresh(ctx context.Context, ticker string) (*Report, error) {
	return s.research(ctx, ticker, false)
}

func (s *Service) research(ctx context.Context, ticker string, useCache bool) (*Report, error) {
	parsed := common.ParseTicker(ticker)
	if parsed.Code == "" {
		return nil, fmt.Errorf("%w %q", ErrInvalidTicker, ticker)
	}
	symbol := parsed.EODHDSymbol()
	start := s.now()

	report := &Report{
		RunID:       common.NewRunID(),
		Ticker:      parsed.String(),
		Symbol:      symbol,
		GeneratedAt: start,
	}

	snap, fromCache, err := s.resolveInputs(ctx, symbol, useCache)
	if err != nil {
		s.counters.observeFetch(SourceError)
		return nil, err
	}
	report.FromCache = fromCache
	report.FetchedAt = snap.FetchedAt

	s.analyse(report, snap.Inputs)
	report.DurationMs = s.now().Sub(start).Milliseconds()
	s.counters.observeReport(report)

	s.logger.Debug().
		Str("run_id", report.RunID).
		Str("symbol", symbol).
		Bool("from_cache", fromCache).
		Str("last_dividend_method", report.LastDividend.Method).
		Msgf("Research completed in %dms", report.DurationMs)

	return report, nil
}

func (s *Service) resolveInputs(ctx context.Context, symbol string, useCache bool) (*Snapshot, bool, error) {
	if useCache && s.cache != nil {
		if snap, ok := s.cache.Get(ctx, symbol); ok {
			s.counters.observeFetch(SourceCache)
			s.logger.Debug().Str("symbol", symbol).Msg("Using cached dividend inputs")
			return snap, true, nil
		}
	}

	fetchStart := time.Now()
	inputs, err := s.provider.Fetch(ctx, symbol)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch %s: %w", symbol, err)
	}
	s.counters.observeFetch(SourceProvider)
	s.logger.Debug().Str("symbol", symbol).Msgf("Fetched dividend inputs in %s", time.Since(fetchStart))

	snap := &Snapshot{Symbol: symbol, Inputs: *inputs, FetchedAt: s.now()}
	if s.cache != nil {
		if err := s.cache.Set(ctx, snap); err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache dividend inputs")
		}
	}
	return snap, false, nil
}

// analyse runs the engine. A panic leaves the report with a failed gap.
func (s *Service) analyse(report *Report, inputs dividend.Inputs) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("symbol", report.Symbol).Msgf("Dividend analysis panicked: %v", r)
			report.Metrics.Gap = dividend.GapResult{GapDays: 0, Confidence: dividend.ConfidenceLow, Method: MethodAnalysisFailed}
			report.Status.HasError = true
			report.Error = fmt.Sprintf("analysis failed: %v", r)
		}
	}()

	analyzer := dividend.NewAnalyzer(s.logger, dividend.WithClock(s.now))
	s.build(report, analyzer, inputs)
}

// errorReport describes a ticker whose inputs could not be fetched. It is
// analysed against empty inputs so every section carries its sentinel.
func (s *Service) errorReport(ticker string, err error) *Report {
	parsed := common.ParseTicker(ticker)
	report := &Report{
		RunID:       common.NewRunID(),
		Ticker:      parsed.String(),
		Symbol:      parsed.EODHDSymbol(),
		GeneratedAt: s.now(),
	}
	s.analyse(report, dividend.Inputs{})
	report.Status.HasError = true
	report.Error = err.Error()
	return report
}

// ResearchBatch researches tickers concurrently. Results keep input order;
// a failed ticker yields a report with Status.HasError set rather than
// failing the batch. Only context cancellation is returned as an error.
func (s *Service) ResearchBatch(ctx context.Context, tickers []string) ([]*Report, error) {
	reports := make([]*Report, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, ticker := range tickers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.Research(gctx, ticker)
			if err != nil {
				s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Research failed")
				report = s.errorReport(ticker, err)
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// DividendPayingOnly keeps reports whose ticker has a detectable cadence.
func DividendPayingOnly(reports []*Report) []*Report {
	out := make([]*Report, 0, len(reports))
	for _, r := range reports {
		if r != nil && r.Status.IsDividendStock {
			out = append(out, r)
		}
	}
	return out
}
