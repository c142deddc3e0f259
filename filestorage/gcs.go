package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
)

const (
	timeout = time.Second * 50
)

// GSCClient is a client for google cloud storage
type GSCClient struct {
	client *storage.Client
}

// NewGCSClient returns an instance of GCS
func NewGCSClient() (FileStorage, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client, error %v", err)
	}
	return &GSCClient{
		client: client,
	}, nil
}

// Upload writes b on the object fileName of bucket and returns its
// public URL.
func (gcs *GSCClient) Upload(b []byte, bucket, fileName string) (string, error) {
	r := bytes.NewReader(b)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	wc := gcs.client.Bucket(bucket).Object(fileName).NewWriter(ctx)
	wc.ContentType = contentType(fileName)
	if _, err := io.Copy(wc, r); err != nil {
		return "", fmt.Errorf("failed to copy file content to GCS object [%s/%s], error %v", bucket, fileName, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer of [%s/%s], error %v", bucket, fileName, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, fileName), nil
}

// FileExists checks if the object is on the bucket.
func (gcs *GSCClient) FileExists(bucket, fileName string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, err := gcs.client.Bucket(bucket).Object(fileName).Attrs(ctx)
	return err == nil
}
