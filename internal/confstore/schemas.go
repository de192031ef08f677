package confstore

import (
	"context"
	"fmt"
	"os"
)

// FileSchemaSource serves the schema bundle from a JSON file on disk.
// The file holds the device schema plus the per-class extension schemas,
// in the format schema.ParseSet expects.
type FileSchemaSource struct {
	path string
}

// NewFileSchemaSource creates a schema source reading from the given
// file path. The file is read on every call so schema updates are picked
// up without a restart.
func NewFileSchemaSource(path string) *FileSchemaSource {
	return &FileSchemaSource{path: path}
}

// LoadSchemas reads the schema bundle.
func (s *FileSchemaSource) LoadSchemas(context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading schema bundle: %w", err)
	}
	return data, nil
}
