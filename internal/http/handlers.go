package http

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"finanzas/internal/core"
	"finanzas/internal/log"
	"finanzas/internal/services"
)

// recordView is one dashboard row: canonical fields plus the derived
// display fields, which are read-only for the client.
type recordView struct {
	Category  string  `json:"category"`
	Icon      string  `json:"icon"`
	Item      string  `json:"item"`
	AmountARS float64 `json:"amount_ars"`
	AmountUSD float64 `json:"amount_usd"`
	DueDate   string  `json:"due_date"` // ISO or empty
	Paid      bool    `json:"paid"`
	Status    string  `json:"status"`
	Weight    float64 `json:"weight"`
}

type categoryView struct {
	Category  string  `json:"category"`
	Icon      string  `json:"icon"`
	AmountARS float64 `json:"amount_ars"`
	Weight    float64 `json:"weight"`
}

type aggregatesView struct {
	TotalARS   float64        `json:"total_ars"`
	TotalUSD   float64        `json:"total_usd"`
	Count      int            `json:"count"`
	ByCategory []categoryView `json:"by_category"`
}

type warningView struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type dashboardResponse struct {
	Records    []recordView   `json:"records"`
	Aggregates aggregatesView `json:"aggregates"`
	Warnings   []warningView  `json:"warnings"`
	Rate       float64        `json:"rate"`
}

type replaceResponse struct {
	Rows int `json:"rows"`
}

// handleDashboard loads raw rows and the exchange rate concurrently, then
// runs the normalize/derive/sort pipeline and returns the full dashboard
// state as JSON.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	logger := log.FromContext(r.Context())
	today := s.now()

	var (
		rows     []core.RawRow
		usdRate  float64
		loadErr  error
		loadSpan time.Duration
	)

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		start := time.Now()
		rows, loadErr = s.store.Load(gctx)
		loadSpan = time.Since(start)
		return loadErr
	})
	g.Go(func() error {
		// Rate providers never fail; they fall back instead.
		usdRate = s.rates.Rate(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.ErrorContext(r.Context(), "Store load failed", log.FieldError, err)
		writeError(w, http.StatusBadGateway, "record store unavailable")
		return
	}

	records, report := s.normalizer.Normalize(rows, today)
	display, aggregates := s.engine.Derive(records, usdRate, today)
	services.SortCanonical(display)

	logger.DebugContext(r.Context(), "Dashboard assembled",
		log.FieldRows, len(display),
		log.FieldWarnings, len(report.Warnings),
		log.FieldRate, usdRate,
		log.FieldTotalARS, aggregates.TotalARS.Cents,
		"load_ms", loadSpan.Milliseconds())

	writeJSON(w, http.StatusOK, dashboardToResponse(display, aggregates, report, usdRate))
}

// handleReplaceRecords accepts the full edited row set, reconciles it into
// canonical records and replaces the store contents. On store failure the
// store is left as-is and the client keeps its edits.
func (s *Server) handleReplaceRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.Header().Set("Allow", http.MethodPut)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	logger := log.FromContext(r.Context())

	var edited []services.EditedRow
	if err := readJSON(w, r, &edited); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records := s.reconciler.Reconcile(edited)

	if err := s.store.ReplaceAll(r.Context(), records); err != nil {
		logger.ErrorContext(r.Context(), "Store replace failed",
			log.FieldError, err, log.FieldRows, len(records))
		writeError(w, http.StatusBadGateway, "record store write failed")
		return
	}

	logger.InfoContext(r.Context(), "Records replaced",
		log.FieldRows, len(records), log.FieldBackend, s.storeName)

	// Notification is best effort; a broker outage must not fail the save.
	if s.notifier != nil {
		if err := s.notifier.PublishRecordsReplaced(r.Context(), len(records), s.storeName); err != nil {
			logger.WarnContext(r.Context(), "Save notification failed", log.FieldError, err)
		}
	}

	writeJSON(w, http.StatusOK, replaceResponse{Rows: len(records)})
}

func dashboardToResponse(display []services.DisplayRecord, aggregates services.Aggregates, report services.Report, usdRate float64) dashboardResponse {
	resp := dashboardResponse{
		Records:  make([]recordView, 0, len(display)),
		Warnings: make([]warningView, 0, len(report.Warnings)),
		Rate:     usdRate,
		Aggregates: aggregatesView{
			TotalARS:   aggregates.TotalARS.Pesos(),
			TotalUSD:   aggregates.TotalUSD,
			Count:      aggregates.Count,
			ByCategory: make([]categoryView, 0, len(aggregates.ByCategory)),
		},
	}

	for _, rec := range display {
		resp.Records = append(resp.Records, recordView{
			Category:  string(rec.Category),
			Icon:      rec.Icon,
			Item:      rec.Item,
			AmountARS: rec.Amount.Pesos(),
			AmountUSD: rec.AmountUSD,
			DueDate:   rec.DueDate.ISO(),
			Paid:      rec.Paid,
			Status:    string(rec.Status),
			Weight:    rec.Weight,
		})
	}

	for _, share := range aggregates.ByCategory {
		resp.Aggregates.ByCategory = append(resp.Aggregates.ByCategory, categoryView{
			Category:  string(share.Category),
			Icon:      share.Icon,
			AmountARS: share.Amount.Pesos(),
			Weight:    share.Weight,
		})
	}

	for _, warning := range report.Warnings {
		resp.Warnings = append(resp.Warnings, warningView{
			Row:    warning.Row,
			Field:  warning.Field,
			Reason: warning.Reason,
		})
	}

	return resp
}
