package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"pdf-ocr.com/common"
	"pdf-ocr.com/fetcher"
	"pdf-ocr.com/ocr"
)

type base64Request struct {
	Base64   string `json:"base64"`
	FileName string `json:"fileName,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

type urlRequest struct {
	URL      string `json:"url"`
	FileName string `json:"fileName,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// OCR serves the extraction endpoints.
type OCR struct {
	svc       *ocr.Service
	logger    *zap.SugaredLogger
	bodyLimit int64
}

func NewOCR(svc *ocr.Service, logger *zap.Logger, bodyLimit int64) *OCR {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OCR{svc: svc, logger: logger.Sugar(), bodyLimit: bodyLimit}
}

// FromBase64 handles POST /ocr/base64.
func (h *OCR) FromBase64(w http.ResponseWriter, r *http.Request) {
	var body base64Request
	if !h.decodeJSON(w, r, &body) {
		return
	}
	if body.Base64 == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "base64 not provided"})
		return
	}

	res, err := h.svc.FromBase64(r.Context(), ocr.Request{
		Base64:    body.Base64,
		FileName:  valueOr(body.FileName, "document.pdf"),
		MimeType:  valueOr(body.MimeType, "application/pdf"),
		Summarize: wantSummary(r),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Upload handles POST /ocr/upload with a multipart "file" field.
func (h *OCR) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.bodyLimit)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "file exceeds upload limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file not provided"})
		return
	}
	defer file.Close()

	mediaType, _, _ := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if mediaType != "application/pdf" {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: "only PDF files are allowed"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read upload"})
		return
	}

	res, err := h.svc.FromBytes(r.Context(), ocr.Request{
		Data:      data,
		FileName:  header.Filename,
		MimeType:  mediaType,
		Summarize: wantSummary(r),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// FromURL handles POST /ocr/url.
func (h *OCR) FromURL(w http.ResponseWriter, r *http.Request) {
	if !h.svc.CanFetch() {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: ocr.ErrFetchDisabled.Error()})
		return
	}
	var body urlRequest
	if !h.decodeJSON(w, r, &body) {
		return
	}
	if body.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url not provided"})
		return
	}

	res, err := h.svc.FromURL(r.Context(), ocr.Request{
		URL:       body.URL,
		FileName:  body.FileName,
		Summarize: wantSummary(r),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *OCR) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.bodyLimit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body exceeds limit"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func (h *OCR) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fetcher.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
	case errors.Is(err, ocr.ErrFetch):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	case common.KindOf(err) != "":
		writeJSON(w, common.HTTPStatus(common.KindOf(err)), errorResponse{Error: err.Error(), Code: common.CodeOf(err)})
	default:
		h.logger.Errorw("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func wantSummary(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("summarize"))
	return v
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
