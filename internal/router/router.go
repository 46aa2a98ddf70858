package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"inspectionflow/internal/handler"
)

// New builds the service's route table.
func New(submitH *handler.SubmitHandler, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(handler.Recovery(log))
	r.Use(handler.RequestLogger(log))

	r.Get("/", submitH.Form)
	r.Get("/healthz", submitH.Healthz)
	r.Post("/submit", submitH.Submit)

	return r
}
