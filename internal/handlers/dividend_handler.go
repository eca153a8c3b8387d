package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/divcast/internal/common"
	"github.com/ternarybob/divcast/internal/services/research"
)

// MaxBatchTickers caps the tickers accepted by one batch request.
const MaxBatchTickers = 50

// DividendHandler serves dividend research reports.
type DividendHandler struct {
	researcher Researcher
	cache      CacheClearer
	logger     arbor.ILogger
}

// NewDividendHandler creates a DividendHandler. cache may be nil.
func NewDividendHandler(researcher Researcher, cache CacheClearer, logger arbor.ILogger) *DividendHandler {
	return &DividendHandler{
		researcher: researcher,
		cache:      cache,
		logger:     logger,
	}
}

// GetDividendHandler handles GET /api/dividends/{ticker}.
// ?refresh=true bypasses cached inputs.
func (h *DividendHandler) GetDividendHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/api/dividends/"))
	if err != nil || strings.TrimSpace(ticker) == "" {
		WriteError(w, http.StatusBadRequest, "Missing ticker")
		return
	}

	var report *research.Report
	if QueryBool(r, "refresh") {
		report, err = h.researcher.Refresh(r.Context(), ticker)
	} else {
		report, err = h.researcher.Research(r.Context(), ticker)
	}
	if err != nil {
		if errors.Is(err, research.ErrInvalidTicker) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Warn().Err(err).Str("ticker", ticker).Msg("Dividend research failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// ListDividendsHandler handles GET /api/dividends?tickers=A,B.
// ?paying_only=true drops tickers without a detectable cadence.
func (h *DividendHandler) ListDividendsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	tickers := common.RawTickers(common.ParseTickers(QueryList(r, "tickers")))
	if len(tickers) == 0 {
		WriteError(w, http.StatusBadRequest, "Missing tickers parameter")
		return
	}
	if len(tickers) > MaxBatchTickers {
		WriteError(w, http.StatusBadRequest, "Too many tickers")
		return
	}

	reports, err := h.researcher.ResearchBatch(r.Context(), tickers)
	if err != nil {
		h.logger.Warn().Err(err).Int("count", len(tickers)).Msg("Batch research cancelled")
		WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if QueryBool(r, "paying_only") {
		reports = research.DividendPayingOnly(reports)
	}

	h.logger.Debug().Int("requested", len(tickers)).Int("returned", len(reports)).Msg("Batch research complete")
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(reports),
		"reports": reports,
	})
}

// ClearCacheHandler handles DELETE /api/cache.
func (h *DividendHandler) ClearCacheHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	if h.cache == nil {
		WriteError(w, http.StatusNotFound, "Cache not configured")
		return
	}

	deleted, err := h.cache.Clear(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to clear cache")
		WriteError(w, http.StatusInternalServerError, "Failed to clear cache")
		return
	}

	h.logger.Info().Int("deleted", deleted).Msg("Research cache cleared")
	WriteSuccess(w, fmt.Sprintf("Cleared %d cached snapshots", deleted))
}
