package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pageza/cookbook/internal/repository"
)

// FileSession keeps the remote session credential in a private file so it
// survives between invocations.
type FileSession struct {
	path string
}

var _ repository.SessionStore = (*FileSession)(nil)

func NewFileSession(path string) *FileSession {
	return &FileSession{path: path}
}

func (s *FileSession) Token(context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileSession) SetToken(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileSession) Clear(context.Context) error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
