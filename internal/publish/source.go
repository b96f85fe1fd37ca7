package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/umati-tools/machineid-publisher/internal/sample"
)

// ErrUnknownMachineType is returned by a PayloadSource when it has no
// payload for the requested machine type
var ErrUnknownMachineType = errors.New("unknown machine type")

// PayloadSource supplies a machine identification document for a machine type
type PayloadSource interface {
	Payload(machineType string) (map[string]interface{}, error)
}

// FileSource reads pre-generated payloads from a directory, one JSON file
// per machine type named <type>.json (lowercased)
type FileSource struct {
	dir string
}

// NewFileSource creates a source reading from dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Payload reads the payload file for a machine type. A missing file means
// the type is unknown.
func (s *FileSource) Payload(machineType string) (map[string]interface{}, error) {
	path := filepath.Join(s.dir, strings.ToLower(machineType)+".json")

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q (no file %s)", ErrUnknownMachineType, machineType, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read payload file %s: %w", path, err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse payload file %s: %w", path, err)
	}

	return payload, nil
}

// GeneratorSource produces payloads in-process from the sample generator
type GeneratorSource struct {
	gen *sample.Generator
}

// NewGeneratorSource creates a source backed by gen
func NewGeneratorSource(gen *sample.Generator) *GeneratorSource {
	return &GeneratorSource{gen: gen}
}

// Payload generates a fresh payload for a machine type
func (s *GeneratorSource) Payload(machineType string) (map[string]interface{}, error) {
	payload, err := s.gen.Generate(machineType)
	if err != nil {
		if errors.Is(err, sample.ErrUnknownType) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMachineType, machineType)
		}
		return nil, err
	}
	return payload, nil
}
