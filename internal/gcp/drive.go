package gcp

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveArchive publishes finished reports to a Google Drive folder.
type DriveArchive struct {
	svc      *drive.Service
	folderID string
}

// NewDriveArchive builds an archive publisher targeting the given folder.
// An empty folderID uploads to the service account's root.
func NewDriveArchive(ctx context.Context, folderID, credsJSON string) (*DriveArchive, error) {
	opts := []option.ClientOption{option.WithScopes(drive.DriveFileScope)}
	if credsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credsJSON)))
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &DriveArchive{svc: svc, folderID: folderID}, nil
}

// Publish uploads the report under filename and returns a view link.
func (d *DriveArchive) Publish(ctx context.Context, filename string, content []byte) (string, error) {
	meta := &drive.File{Name: filename}
	if d.folderID != "" {
		meta.Parents = []string{d.folderID}
	}
	created, err := d.svc.Files.Create(meta).
		Media(bytes.NewReader(content), googleapi.ContentType("application/pdf")).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to Drive: %w", filename, err)
	}
	if created.WebViewLink != "" {
		return created.WebViewLink, nil
	}
	return created.Id, nil
}
