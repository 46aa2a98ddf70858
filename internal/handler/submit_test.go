package handler_test

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspectionflow/internal/handler"
	"inspectionflow/internal/router"
	"inspectionflow/internal/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	pipeline := services.NewPipeline(services.Config{
		StagingDir: t.TempDir(),
		ReportsDir: t.TempDir(),
	}, nil, nil, nil, log)
	h := handler.NewSubmitHandler(pipeline, 32<<20, log)
	srv := httptest.NewServer(router.New(h, log))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmitReturnsReportAttachment(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("date", "2024-01-01"))
	require.NoError(t, w.WriteField("supplier_name", "Acme"))
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/submit", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report.pdf"`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestSubmitRejectsNonMultipartBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/submit", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFormPageIsServed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `action="/submit"`)
}
