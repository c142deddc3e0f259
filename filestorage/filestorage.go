// Package filestorage stores the exported charts on a local directory, a
// GCS bucket, an S3 bucket or a Google Drive folder.
package filestorage

import (
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"
)

// FileStorage is the interface a storage backend implements.
type FileStorage interface {
	// Upload stores b as fileName on bucket and returns where it lives.
	Upload(b []byte, bucket, fileName string) (string, error)

	// FileExists checks if fileName is already on bucket.
	FileExists(bucket, fileName string) bool
}

// Backend names a storage kind.
type Backend string

const (
	// Local stores files on a directory.
	Local Backend = "local"

	// GCS stores files on Google Cloud Storage.
	GCS Backend = "gs"

	// S3 stores files on AWS S3.
	S3 Backend = "s3"

	// Drive stores files on a Google Drive folder.
	Drive Backend = "drive"
)

// Destination is a storage plus the bucket and key prefix files go to.
type Destination struct {
	Backend Backend
	Bucket  string // directory, bucket name or Drive folder ID
	Prefix  string // key prefix inside the bucket
	Storage FileStorage
}

// ParseDestination splits an output location such as gs://bucket/charts,
// s3://bucket, drive://folderID or a plain directory. Storage is left
// nil.
func ParseDestination(outDir string) (Destination, error) {
	for _, b := range []Backend{GCS, S3, Drive} {
		scheme := string(b) + "://"
		if !strings.HasPrefix(outDir, scheme) {
			continue
		}
		rest := strings.Trim(strings.TrimPrefix(outDir, scheme), "/")
		bucket, prefix := rest, ""
		if i := strings.Index(rest, "/"); i >= 0 {
			bucket, prefix = rest[:i], rest[i+1:]
		}
		if bucket == "" {
			return Destination{}, fmt.Errorf("output location [%s] has no bucket", outDir)
		}
		if b == Drive && prefix != "" {
			return Destination{}, fmt.Errorf("output location [%s]: Drive folders take no prefix", outDir)
		}
		return Destination{Backend: b, Bucket: bucket, Prefix: prefix}, nil
	}
	if outDir == "" {
		return Destination{}, fmt.Errorf("empty output location")
	}
	return Destination{Backend: Local, Bucket: filepath.Clean(outDir)}, nil
}

// Open parses outDir and builds its storage. credentialsFile and
// oauthToken are only read for Drive destinations.
func Open(outDir, credentialsFile, oauthToken string) (Destination, error) {
	d, err := ParseDestination(outDir)
	if err != nil {
		return d, err
	}
	switch d.Backend {
	case GCS:
		d.Storage, err = NewGCSClient()
	case S3:
		d.Storage, err = NewAWSClient()
	case Drive:
		d.Storage, err = NewGoogleDriveStorage(credentialsFile, oauthToken)
	default:
		d.Storage = NewLocalStorage()
	}
	return d, err
}

// Upload stores b under the destination prefix.
func (d Destination) Upload(b []byte, fileName string) (string, error) {
	return d.Storage.Upload(b, d.Bucket, d.key(fileName))
}

// FileExists checks if fileName is already under the destination prefix.
func (d Destination) FileExists(fileName string) bool {
	return d.Storage.FileExists(d.Bucket, d.key(fileName))
}

func (d Destination) key(fileName string) string {
	if d.Prefix == "" {
		return fileName
	}
	return path.Join(d.Prefix, fileName)
}

// contentType guesses the MIME type out of the file extension.
func contentType(fileName string) string {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if t := mime.TypeByExtension(path.Ext(fileName)); t != "" {
		return t
	}
	return "application/octet-stream"
}
