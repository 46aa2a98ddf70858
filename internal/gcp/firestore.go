package gcp

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"inspectionflow/internal/models"
)

// AuditRecorder writes one Firestore document per processed submission.
type AuditRecorder struct {
	client     *firestore.Client
	collection string
}

// NewAuditRecorder creates a recorder writing into the given collection.
func NewAuditRecorder(ctx context.Context, projectID, collection, credsJSON string) (*AuditRecorder, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create an audit recorder")
	}
	var opts []option.ClientOption
	if credsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credsJSON)))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &AuditRecorder{client: client, collection: collection}, nil
}

// Record persists the audit document, keyed by submission ID.
func (r *AuditRecorder) Record(ctx context.Context, rec *models.InspectionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.client.Collection(r.collection).Doc(rec.SubmissionID).Set(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to write audit record %s: %w", rec.SubmissionID, err)
	}
	return nil
}

// Close releases the underlying Firestore client.
func (r *AuditRecorder) Close() error {
	return r.client.Close()
}
