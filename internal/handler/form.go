package handler

import (
	_ "embed"
	"net/http"
)

//go:embed form.html
var formPage []byte

// Form handles GET / by serving the embedded submission form.
func (h *SubmitHandler) Form(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(formPage)
}
