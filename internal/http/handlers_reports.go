package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"lapak/internal/core"
	"lapak/internal/export"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	const key = "summary"
	summary, found := s.summaryCache.Get(key)
	if !found {
		var err error
		summary, err = s.service.Summary(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.summaryCache.Set(key, summary)
	} else {
		slog.DebugContext(r.Context(), "Summary cache hit")
	}

	if r.URL.Query().Get("clamped") == "1" {
		summary = summary.ClampDisplay()
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	start, end := dateBounds(r)
	groups, err := s.cachedReport(r, "daily:"+start+":"+end, func() ([]core.GroupSums, error) {
		return s.service.DailyReport(r.Context(), start, end)
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleProductReport(w http.ResponseWriter, r *http.Request) {
	start, end := dateBounds(r)
	groups, err := s.cachedReport(r, "products:"+start+":"+end, func() ([]core.GroupSums, error) {
		return s.service.ProductReport(r.Context(), start, end)
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Optional ranking: ?rank=quantity|revenue&top=N
	if rank := r.URL.Query().Get("rank"); rank != "" {
		n := 0
		if v := r.URL.Query().Get("top"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				n = parsed
			}
		}
		switch rank {
		case "quantity":
			groups = core.TopByQuantity(groups, n)
		case "revenue":
			groups = core.TopByRevenue(groups, n)
		default:
			writeError(w, http.StatusBadRequest, "rank must be quantity or revenue")
			return
		}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	months, err := s.service.Months(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

// handleExport streams a CSV download of transactions or report buckets.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	start, end := dateBounds(r)
	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = "transactions"
	}

	var (
		headers []string
		rows    [][]string
	)
	switch kind {
	case "transactions":
		txs, err := s.service.RangedTransactions(r.Context(), start, end)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		headers, rows = export.TransactionHeaders, export.TransactionRows(txs)
	case "daily":
		groups, err := s.service.DailyReport(r.Context(), start, end)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		headers, rows = export.GroupHeaders, export.GroupRows(groups)
	case "products":
		groups, err := s.service.ProductReport(r.Context(), start, end)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		headers, rows = export.GroupHeaders, export.GroupRows(groups)
	default:
		writeError(w, http.StatusBadRequest, "type must be transactions, daily or products")
		return
	}

	body, err := export.ToDelimitedText(headers, rows)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (s *Server) cachedReport(r *http.Request, key string, load func() ([]core.GroupSums, error)) ([]core.GroupSums, error) {
	if groups, found := s.reportCache.Get(key); found {
		slog.DebugContext(r.Context(), "Report cache hit", "key", key)
		return groups, nil
	}
	groups, err := load()
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(key, groups)
	return groups, nil
}
