// handlers/reports.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pdf-ocr.com/storage"
)

var sha1Pattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

type ReportReader interface {
	Get(ctx context.Context, sha1 string) (storage.Report, error)
	List(ctx context.Context, limit int) ([]storage.Report, error)
}

// Reports serves stored extraction reports.
type Reports struct {
	store  ReportReader
	logger *zap.SugaredLogger
}

func NewReports(store ReportReader, logger *zap.Logger) *Reports {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reports{store: store, logger: logger.Sugar()}
}

// GetBySHA1 handles GET /ocr/reports/{sha1}.
func (h *Reports) GetBySHA1(w http.ResponseWriter, r *http.Request) {
	sha1 := chi.URLParam(r, "sha1")
	if !sha1Pattern.MatchString(sha1) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "sha1 must be 40 lowercase hex chars"})
		return
	}

	report, err := h.store.Get(r.Context(), sha1)
	if errors.Is(err, storage.ErrReportNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "report not found"})
		return
	}
	if err != nil {
		h.logger.Errorw("❌ failed to load report", "sha1", sha1, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load report"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// List handles GET /ocr/reports?limit=N.
func (h *Reports) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	reports, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("❌ failed to list reports", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read reports"})
		return
	}
	if reports == nil {
		reports = []storage.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}
