package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Settings keys in the preferences file
const (
	KeyOutputPath = "output_path"
)

// Default values
const (
	DefaultFile       = "config.json"
	DefaultOutputPath = "output"
	DefaultFileMode   = 0644
	IndentPrefix      = ""
	IndentValue       = "    "
)

// ErrNotObject is returned when the preferences file holds valid JSON that is not an object
var ErrNotObject = errors.New("config is not a JSON object")

// Settings is the preferences file decoded as a generic JSON object.
// Keys other than KeyOutputPath are kept as read and written back unchanged.
type Settings struct {
	path   string
	values map[string]any
}

// NewSettings creates an empty settings object bound to path
func NewSettings(path string) *Settings {
	if path == "" {
		path = DefaultFile
	}
	return &Settings{path: path, values: make(map[string]any)}
}

// Load reads the preferences file at path. A missing file yields empty settings;
// a file that is not a valid JSON object is an error.
func Load(path string) (*Settings, error) {
	s := NewSettings(path)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", s.path, err)
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", s.path, err)
	}
	if values == nil {
		// literal null decodes into a nil map
		return nil, fmt.Errorf("failed to parse config %s: %w", s.path, ErrNotObject)
	}

	s.values = values
	return s, nil
}

// Save writes the settings as indented JSON, replacing the file
func (s *Settings) Save() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(IndentPrefix, IndentValue)
	if err := enc.Encode(s.values); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(s.path, bytes.TrimRight(buf.Bytes(), "\n"), DefaultFileMode); err != nil {
		return fmt.Errorf("failed to write config %s: %w", s.path, err)
	}
	return nil
}

// Path returns the preferences file location
func (s *Settings) Path() string {
	return s.path
}

// GetOutputPath returns the stored output directory, or DefaultOutputPath
func (s *Settings) GetOutputPath() string {
	if dir, ok := s.values[KeyOutputPath].(string); ok && dir != "" {
		return dir
	}
	return DefaultOutputPath
}

// SetOutputPath sets the output directory
func (s *Settings) SetOutputPath(dir string) {
	s.values[KeyOutputPath] = dir
}
