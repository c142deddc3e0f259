package filestorage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type googleDrive struct {
	service *drive.Service
}

// NewGoogleDriveStorage returns a new client to execute file operations
// with Google Drive.
func NewGoogleDriveStorage(credentialsFile, oauthToken string) (FileStorage, error) {
	if credentialsFile == "" || oauthToken == "" {
		return nil, fmt.Errorf("Google Drive needs a credentials file and an OAuth token file")
	}
	b, err := ioutil.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file [%s], error %v", credentialsFile, err)
	}
	config, err := google.ConfigFromJSON(b, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config from credentials file [%s], error %v", credentialsFile, err)
	}
	f, err := os.Open(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open OAuth token file [%s], error %v", oauthToken, err)
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err = json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode OAuth token, error %v", err)
	}
	ctx := context.Background()
	service, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Drive service, error %v", err)
	}
	return &googleDrive{
		service: service,
	}, nil
}

// the bucket argument for Google Drive is the folder ID.
func (gd *googleDrive) Upload(b []byte, bucket, fileName string) (string, error) {
	f := &drive.File{
		MimeType: contentType(fileName),
		Name:     fileName,
		Parents:  []string{bucket},
	}
	created, err := gd.service.Files.Create(f).Media(bytes.NewReader(b)).Fields("id", "webViewLink").Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload file [%s] to Drive folder [%s], error %v", fileName, bucket, err)
	}
	if created.WebViewLink != "" {
		return created.WebViewLink, nil
	}
	return created.Id, nil
}

func (gd *googleDrive) FileExists(bucket, fileName string) bool {
	q := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", escapeQuery(fileName), escapeQuery(bucket))
	list, err := gd.service.Files.List().Q(q).Fields("files(id)").PageSize(1).Do()
	return err == nil && len(list.Files) > 0
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
