package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// StorageArchive publishes finished reports to a GCS bucket. Objects are
// written conditionally so re-processing the same submission cannot
// overwrite an archived report.
type StorageArchive struct {
	bucket *storage.BucketHandle
	name   string
}

// NewStorageArchive builds an archive publisher over the given bucket.
func NewStorageArchive(ctx context.Context, bucketName, credsJSON string) (*StorageArchive, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucketName must be provided to create a storage archive")
	}
	var opts []option.ClientOption
	if credsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	return &StorageArchive{bucket: client.Bucket(bucketName), name: bucketName}, nil
}

// Publish writes the report to reports/<filename> only if that object does
// not already exist, and returns its gs:// URI. A precondition failure means
// the report was already archived and is not treated as an error.
func (s *StorageArchive) Publish(ctx context.Context, filename string, content []byte) (string, error) {
	objectName := "reports/" + filename
	uri := fmt.Sprintf("gs://%s/%s", s.name, objectName)

	writer := s.bucket.Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = "application/pdf"

	if _, err := io.Copy(writer, bytes.NewReader(content)); err != nil {
		_ = writer.Close()
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			return uri, nil
		}
		return "", fmt.Errorf("failed to write %s: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			return uri, nil
		}
		return "", fmt.Errorf("failed to finalize %s: %w", objectName, err)
	}
	return uri, nil
}
