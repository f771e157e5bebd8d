package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type StorageService interface {
	// WithTempFile writes data under the upload directory, hands the path to
	// fn and removes the file once fn returns, whatever the outcome.
	WithTempFile(filename string, data []byte, fn func(path string) error) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *storageService) WithTempFile(filename string, data []byte, fn func(path string) error) (err error) {
	if err := s.EnsureUploadDir(); err != nil {
		return err
	}

	// Generate the unique filename, keeping the extension for format detection
	ext := strings.ToLower(filepath.Ext(filename))
	filePath := filepath.Join(s.uploadPath, fmt.Sprintf("upload_%s%s", uuid.New().String(), ext))

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		_ = os.Remove(filePath)
		return fmt.Errorf("failed to save file: %w", err)
	}

	defer func() {
		if rmErr := os.Remove(filePath); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = fmt.Errorf("failed to delete file: %w", rmErr)
		}
	}()

	return fn(filePath)
}
