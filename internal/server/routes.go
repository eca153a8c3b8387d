package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ternarybob/divcast/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.app.StatusHandler.HealthHandler) // GET

	// Dividend research
	mux.HandleFunc("/api/dividends", s.app.DividendHandler.ListDividendsHandler) // GET ?tickers=A,B
	mux.HandleFunc("/api/dividends/", s.app.DividendHandler.GetDividendHandler)  // GET /{ticker}
	mux.HandleFunc("/api/cache", s.handleCacheRoute)                            // DELETE

	mux.Handle("/metrics", promhttp.HandlerFor(s.app.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

func (s *Server) handleCacheRoute(w http.ResponseWriter, r *http.Request) {
	RouteByMethod(w, r, MethodRouter{
		http.MethodDelete: s.app.DividendHandler.ClearCacheHandler,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "Not found")
}
