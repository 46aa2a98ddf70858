package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inspectionflow/internal/config"
	"inspectionflow/internal/gcp"
	"inspectionflow/internal/handler"
	"inspectionflow/internal/router"
	"inspectionflow/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	ctx := context.Background()

	// Each external client is optional: a missing setting or failed
	// construction disables that side effect, it never stops the server.
	var ledger services.Ledger
	if cfg.SpreadsheetID != "" {
		l, err := gcp.NewSheetsLedger(ctx, cfg.SpreadsheetID, cfg.SheetRange, cfg.CredentialsJSON)
		if err != nil {
			logger.Warn("Ledger disabled.", "error", err)
		} else {
			ledger = l
			logger.Info("Ledger enabled.", "spreadsheetId", cfg.SpreadsheetID)
		}
	} else {
		logger.Info("Ledger disabled: SPREADSHEET_ID not set.")
	}

	var archive services.Archive
	switch cfg.ArchiveBackend {
	case "drive":
		a, err := gcp.NewDriveArchive(ctx, cfg.DriveFolderID, cfg.CredentialsJSON)
		if err != nil {
			logger.Warn("Archive disabled.", "backend", "drive", "error", err)
		} else {
			archive = a
			logger.Info("Archive enabled.", "backend", "drive", "folderId", cfg.DriveFolderID)
		}
	case "gcs":
		a, err := gcp.NewStorageArchive(ctx, cfg.GCSBucket, cfg.CredentialsJSON)
		if err != nil {
			logger.Warn("Archive disabled.", "backend", "gcs", "error", err)
		} else {
			archive = a
			logger.Info("Archive enabled.", "backend", "gcs", "bucket", cfg.GCSBucket)
		}
	case "none", "":
		logger.Info("Archive disabled by configuration.")
	default:
		logger.Warn("Unknown archive backend, archiving disabled.", "backend", cfg.ArchiveBackend)
	}

	var auditor services.Auditor
	if cfg.ProjectID != "" {
		rec, err := gcp.NewAuditRecorder(ctx, cfg.ProjectID, cfg.FirestoreCollection, cfg.CredentialsJSON)
		if err != nil {
			logger.Warn("Audit records disabled.", "error", err)
		} else {
			auditor = rec
			defer rec.Close()
			logger.Info("Audit records enabled.", "collection", cfg.FirestoreCollection)
		}
	} else {
		logger.Info("Audit records disabled: PROJECT_ID not set.")
	}

	pipeline := services.NewPipeline(services.Config{
		StagingDir:        cfg.StagingDir,
		ReportsDir:        cfg.ReportsDir,
		SideEffectTimeout: cfg.SideEffectTimeout,
	}, ledger, archive, auditor, logger)

	submitH := handler.NewSubmitHandler(pipeline, cfg.MaxUploadBytes, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(submitH, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Inspection report server listening.", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed.", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown did not complete cleanly.", "error", err)
	}
	logger.Info("Server stopped.")
}
