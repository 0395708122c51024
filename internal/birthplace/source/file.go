package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"nidgate/internal/birthplace"
	"nidgate/pkg/platform/sentinel"
)

// FileSource reads a UTF-8 JSON dataset document from disk.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Load(_ context.Context) ([]birthplace.Entry, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("dataset file %s: %w", s.Path, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("read dataset file %s: %w", s.Path, err)
	}
	entries, err := birthplace.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("dataset file %s: %w", s.Path, err)
	}
	return entries, nil
}
