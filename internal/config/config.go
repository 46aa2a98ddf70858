package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything the server reads from the environment. Empty
// values for the Google-side settings disable the corresponding side effect
// rather than failing startup.
type Config struct {
	HTTPAddr string

	// StagingDir is the root under which per-submission staging directories
	// are created. Empty means the system temp dir.
	StagingDir string
	// ReportsDir receives a local copy of every generated report.
	ReportsDir string

	// SpreadsheetID and SheetRange identify the ledger. Empty SpreadsheetID
	// disables the ledger append.
	SpreadsheetID string
	SheetRange    string

	// ArchiveBackend is "drive", "gcs", or "none".
	ArchiveBackend string
	DriveFolderID  string
	GCSBucket      string

	// ProjectID and FirestoreCollection configure the audit recorder. Empty
	// ProjectID disables it.
	ProjectID           string
	FirestoreCollection string

	// CredentialsJSON holds the service-account key used for all Google
	// clients, read from GOOGLE_CREDS_JSON.
	CredentialsJSON string

	// SideEffectTimeout bounds each network-bound side effect.
	SideEffectTimeout time.Duration

	// MaxUploadBytes caps the multipart form size.
	MaxUploadBytes int64
}

// Load reads configuration from the environment with development fallbacks.
func Load() *Config {
	return &Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		StagingDir:          getEnv("STAGING_DIR", ""),
		ReportsDir:          getEnv("REPORTS_DIR", "static/reports"),
		SpreadsheetID:       getEnv("SPREADSHEET_ID", ""),
		SheetRange:          getEnv("SHEET_RANGE", "Sheet1!A1"),
		ArchiveBackend:      getEnv("ARCHIVE_BACKEND", "none"),
		DriveFolderID:       getEnv("DRIVE_FOLDER_ID", ""),
		GCSBucket:           getEnv("GCS_BUCKET", ""),
		ProjectID:           getEnv("PROJECT_ID", ""),
		FirestoreCollection: getEnv("FIRESTORE_COLLECTION", "inspections"),
		CredentialsJSON:     getEnv("GOOGLE_CREDS_JSON", ""),
		SideEffectTimeout:   getEnvDuration("SIDE_EFFECT_TIMEOUT", 30*time.Second),
		MaxUploadBytes:      getEnvInt64("MAX_UPLOAD_BYTES", 32<<20),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
