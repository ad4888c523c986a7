// Package export writes generated assets to disk as image files.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidDataURI = errors.New("invalid data uri")

// FileName is the download name for an asset of the given category.
func FileName(category string) string {
	return fmt.Sprintf("ecomlens-%s.png", category)
}

// DecodeDataURI splits a base64 data URI into its media type and raw bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: not base64 encoded", ErrInvalidDataURI)
	}
	if mime == "" {
		mime = "application/octet-stream"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mime, data, nil
}

type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) pathFor(name string) (string, error) {
	clean := filepath.Base(filepath.Clean(name))
	if clean == "." || clean == ".." || clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(ls.basePath, clean), nil
}

// Save writes data to name inside the export directory and returns the
// full path. Existing files are replaced.
func (ls *LocalStorage) Save(name string, data io.Reader) (string, error) {
	filePath, err := ls.pathFor(name)
	if err != nil {
		return "", err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		return "", err
	}
	return filePath, nil
}

// SaveDataURI decodes uri and saves it under name.
func (ls *LocalStorage) SaveDataURI(name, uri string) (string, error) {
	_, data, err := DecodeDataURI(uri)
	if err != nil {
		return "", err
	}
	return ls.Save(name, bytes.NewReader(data))
}
