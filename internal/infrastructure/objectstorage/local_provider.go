package objectstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// LocalProvider implements Provider over local disk, mirroring the teacher's file
// storage local backend but keyed by an opaque checkpoint key rather than a user upload.
type LocalProvider struct {
	basePath string
	mu       sync.RWMutex
}

func NewLocalProvider(basePath string) (*LocalProvider, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint storage directory: %w", err)
	}
	return &LocalProvider{basePath: basePath}, nil
}

func (p *LocalProvider) Put(ctx context.Context, key string, reader io.Reader) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	relativePath := filepath.Join(sanitizeKey(key), uuid.New().String()+".json")
	fullPath := filepath.Join(p.basePath, relativePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create checkpoint directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create checkpoint file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("write checkpoint file: %w", err)
	}
	return relativePath, nil
}

func (p *LocalProvider) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	file, err := os.Open(filepath.Join(p.basePath, path))
	if err != nil {
		return nil, fmt.Errorf("open checkpoint file: %w", err)
	}
	return file, nil
}

func (p *LocalProvider) Exists(ctx context.Context, path string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, err := os.Stat(filepath.Join(p.basePath, path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (p *LocalProvider) Delete(ctx context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	fullPath := filepath.Join(p.basePath, path)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete checkpoint file: %w", err)
	}
	return nil
}

func sanitizeKey(key string) string {
	unsafe := []string{"/", "\\", "..", ":", "*", "?", "\"", "<", ">", "|"}
	result := key
	for _, c := range unsafe {
		result = strings.ReplaceAll(result, c, "_")
	}
	return result
}
