package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the OCR endpoints. reports may be nil when no report
// store is configured; the report routes then answer 404.
func NewRouter(o *OCR, reports *Reports) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/ocr", func(r chi.Router) {
		r.Post("/base64", o.FromBase64)
		r.Post("/upload", o.Upload)
		r.Post("/url", o.FromURL)
		if reports != nil {
			r.Get("/reports", reports.List)
			r.Get("/reports/{sha1}", reports.GetBySHA1)
		}
	})
	return r
}
