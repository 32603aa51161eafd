package httpserver

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/mselser95/sportsbook-arb/internal/arbitrage"
	"github.com/mselser95/sportsbook-arb/internal/report"
	"github.com/mselser95/sportsbook-arb/pkg/oddsmath"
	"go.uber.org/zap"
)

// ResultsProvider exposes the most recent result set.
type ResultsProvider interface {
	// Latest returns nil until the first scan completes.
	Latest() *arbitrage.ResultSet
}

// OpportunitiesHandler serves the latest arbitrage results.
type OpportunitiesHandler struct {
	results ResultsProvider
	logger  *zap.Logger
}

// NewOpportunitiesHandler creates a new opportunities handler.
func NewOpportunitiesHandler(results ResultsProvider, logger *zap.Logger) *OpportunitiesHandler {
	return &OpportunitiesHandler{
		results: results,
		logger:  logger,
	}
}

// OpportunitiesResponse is the body of GET /api/opportunities.
type OpportunitiesResponse struct {
	ScanID          string              `json:"scan_id"`
	GeneratedAt     time.Time           `json:"generated_at"`
	ReferenceStake  float64             `json:"reference_stake"`
	PriceFormat     oddsmath.Format     `json:"price_format"`
	EventsProcessed int                 `json:"events_processed"`
	Count           int                 `json:"count"`
	Results         []*arbitrage.Result `json:"results"`
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleOpportunities handles GET /api/opportunities.
//
// Query parameters:
//   - format: decimal or moneyline; defaults to the scan's format
//   - sport: only results with this sport key
//   - min_profit_bps: only results at or above this profit
func (h *OpportunitiesHandler) HandleOpportunities(w http.ResponseWriter, r *http.Request) {
	set := h.results.Latest()
	if set == nil {
		h.writeError(w, "no scan has completed yet", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()

	format, ok := h.parseFormat(w, query.Get("format"), set.PriceFormat)
	if !ok {
		return
	}

	minBPS := 0
	if raw := query.Get("min_profit_bps"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, "min_profit_bps must be an integer", http.StatusBadRequest)
			return
		}
		minBPS = v
	}

	sport := query.Get("sport")

	results := make([]*arbitrage.Result, 0, len(set.Results))
	for _, result := range set.Results {
		if sport != "" && result.SportKey != sport {
			continue
		}
		if result.ProfitBPS < minBPS {
			continue
		}
		results = append(results, withFormat(result, format))
	}

	h.logger.Debug("opportunities-request-served",
		zap.String("scan-id", set.ScanID),
		zap.String("format", string(format)),
		zap.Int("count", len(results)))

	h.writeJSON(w, http.StatusOK, OpportunitiesResponse{
		ScanID:          set.ScanID,
		GeneratedAt:     set.GeneratedAt,
		ReferenceStake:  set.ReferenceStake,
		PriceFormat:     format,
		EventsProcessed: set.EventsProcessed,
		Count:           len(results),
		Results:         results,
	})
}

// HandleOpportunity handles GET /api/opportunities/{eventID}.
func (h *OpportunitiesHandler) HandleOpportunity(w http.ResponseWriter, r *http.Request) {
	set := h.results.Latest()
	if set == nil {
		h.writeError(w, "no scan has completed yet", http.StatusServiceUnavailable)
		return
	}

	format, ok := h.parseFormat(w, r.URL.Query().Get("format"), set.PriceFormat)
	if !ok {
		return
	}

	eventID := chi.URLParam(r, "eventID")
	for _, result := range set.Results {
		if result.EventID == eventID {
			h.writeJSON(w, http.StatusOK, withFormat(result, format))
			return
		}
	}

	h.writeError(w, "no opportunity for event", http.StatusNotFound)
}

// HandleReport handles GET /api/report.csv with the tabular report of the latest scan.
func (h *OpportunitiesHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	set := h.results.Latest()
	if set == nil {
		h.writeError(w, "no scan has completed yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="bets.csv"`)
	w.WriteHeader(http.StatusOK)

	err := csv.NewWriter(w).WriteAll(report.Table(set))
	if err != nil {
		h.logger.Error("failed-to-write-report", zap.Error(err))
	}
}

func (h *OpportunitiesHandler) parseFormat(w http.ResponseWriter, raw string, fallback oddsmath.Format) (oddsmath.Format, bool) {
	if raw == "" {
		return fallback, true
	}

	format, err := oddsmath.ParseFormat(raw)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return "", false
	}

	return format, true
}

// withFormat returns result with display prices in format. The stored result is
// never modified. If any price cannot be converted the copy stays in decimal.
func withFormat(result *arbitrage.Result, format oddsmath.Format) *arbitrage.Result {
	if result.PriceFormat == format {
		return result
	}

	outcomes := make([]arbitrage.OutcomeStake, len(result.Outcomes))
	copy(outcomes, result.Outcomes)

	converted := format
	for i := range outcomes {
		v, err := format.Display(outcomes[i].DecimalPrice)
		if err != nil {
			converted = oddsmath.FormatDecimal
			break
		}
		outcomes[i].DisplayPrice = v
	}

	if converted == oddsmath.FormatDecimal {
		for i := range outcomes {
			outcomes[i].DisplayPrice = outcomes[i].DecimalPrice
		}
	}

	clone := *result
	clone.PriceFormat = converted
	clone.Outcomes = outcomes
	return &clone
}

func (h *OpportunitiesHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func (h *OpportunitiesHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, statusCode, ErrorResponse{Error: message})
}
