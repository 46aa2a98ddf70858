package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"inspectionflow/internal/services"
)

// SubmitHandler accepts inspection form posts and responds with the
// generated report.
type SubmitHandler struct {
	pipeline       *services.Pipeline
	maxUploadBytes int64
	log            *slog.Logger
}

// NewSubmitHandler wires the handler to the pipeline.
func NewSubmitHandler(pipeline *services.Pipeline, maxUploadBytes int64, log *slog.Logger) *SubmitHandler {
	return &SubmitHandler{pipeline: pipeline, maxUploadBytes: maxUploadBytes, log: log}
}

// Submit handles POST /submit. The response is the rendered PDF as an
// attachment; any failure past form parsing surfaces as a plain-text 500.
func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.log.Warn("Failed to remove multipart temp files.", "error", err)
		}
	}()

	result, err := h.pipeline.Process(r.Context(), r.MultipartForm)
	if err != nil {
		h.log.Error("Submission processing failed.", "error", err)
		http.Error(w, "failed to generate inspection report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	if _, err := w.Write(result.PDF); err != nil {
		h.log.Warn("Failed to write report response.", "error", err)
	}
}

// Healthz handles GET /healthz.
func (h *SubmitHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}
