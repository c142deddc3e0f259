package filestorage

import (
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestUpload(t *testing.T) {
	content := "<svg xmlns=\"http://www.w3.org/2000/svg\"></svg>"
	fileStorage := NewLocalStorage()
	dir := filepath.Join(t.TempDir(), "charts")
	fileName := "governor-race/governor-race.svg"
	if fileStorage.FileExists(dir, fileName) {
		t.Errorf("expected file not to exist before upload")
	}
	path, err := fileStorage.Upload([]byte(content), dir, fileName)
	if err != nil {
		t.Fatalf("expected erro nil when writing a file, got %q", err)
	}
	fileContent, err := ioutil.ReadFile(path)
	if err != nil {
		t.Errorf("expected err nil when reading file, got %q", err)
	}
	if content != string(fileContent) {
		t.Errorf("expected content to be \"%s\", got %s", content, string(fileContent))
	}
	if !fileStorage.FileExists(dir, fileName) {
		t.Errorf("expected file [%s] to exist on [%s]", fileName, dir)
	}
}

func TestDestinationUpload(t *testing.T) {
	dir := t.TempDir()
	d, err := Open(dir, "", "")
	if err != nil {
		t.Fatalf("expected err nil when opening local destination, got %v", err)
	}
	if _, err := d.Upload([]byte("png"), "a.png"); err != nil {
		t.Fatalf("expected err nil when uploading, got %v", err)
	}
	if !d.FileExists("a.png") {
		t.Errorf("expected a.png on [%s]", dir)
	}
}
