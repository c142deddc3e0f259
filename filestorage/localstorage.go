package filestorage

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
)

type localStorage struct {
}

// NewLocalStorage returns a new local storage instance
func NewLocalStorage() FileStorage {
	return &localStorage{}
}

// Upload writes b as fileName under the bucket directory, creating the
// directories on the way.
func (ls *localStorage) Upload(b []byte, bucket, fileName string) (string, error) {
	name := filepath.Join(bucket, filepath.FromSlash(fileName))
	dir := filepath.Dir(name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory [%s], error %v", dir, err)
		}
	}
	if err := ioutil.WriteFile(name, b, 0644); err != nil {
		return "", fmt.Errorf("failed to save file [%s] on path [%s], error %v", fileName, name, err)
	}
	return name, nil
}

// FileExists checks if file exists. If file exists
// it returns true, else false
func (ls *localStorage) FileExists(bucket, fileName string) bool {
	_, err := os.Stat(filepath.Join(bucket, filepath.FromSlash(fileName)))
	return err == nil
}
