package source

import (
	"context"
	"fmt"
	"os"

	"github.com/ethpandaops/codebook/pkg/records"
)

// FileSource reads the dataset from a local file
type FileSource struct {
	path   string
	format Format
}

// NewFileSource creates a file source; FormatAuto picks the format from the extension
func NewFileSource(path string, format Format) *FileSource {
	return &FileSource{path: path, format: format}
}

// Name identifies the source
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Load reads and decodes the file
func (s *FileSource) Load(ctx context.Context) ([]records.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path) //nolint:gosec // User-provided dataset path
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	return Decode(DetectFormat(s.format, s.path, ""), data)
}
