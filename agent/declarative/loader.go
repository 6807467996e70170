package declarative

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// AgentLoader loads agent lists from files or raw bytes.
type AgentLoader interface {
	// LoadFile reads a file and parses it into validated definitions.
	// Format is auto-detected from the file extension (.yaml, .yml, .json).
	LoadFile(path string) ([]AgentDefinition, error)

	// LoadBytes parses raw bytes into validated definitions.
	// format must be "yaml" or "json".
	LoadBytes(data []byte, format string) ([]AgentDefinition, error)
}

// YAMLLoader implements AgentLoader for YAML and JSON formats.
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAMLLoader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// LoadFile reads a file and parses it based on extension.
func (l *YAMLLoader) LoadFile(path string) ([]AgentDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent list file: %w", err)
	}

	format := DetectFormat(path)
	if format == "" {
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}

	return l.LoadBytes(data, format)
}

// LoadBytes parses raw bytes in the given format ("yaml" or "json") and
// validates the result.
func (l *YAMLLoader) LoadBytes(data []byte, format string) ([]AgentDefinition, error) {
	raw, err := DecodeRaw(data, format)
	if err != nil {
		return nil, err
	}
	return ValidateList(raw)
}

// ParseList is shorthand for NewYAMLLoader().LoadBytes.
func ParseList(data []byte, format string) ([]AgentDefinition, error) {
	return NewYAMLLoader().LoadBytes(data, format)
}

// DecodeRaw decodes bytes into the untyped value ValidateList expects.
func DecodeRaw(data []byte, format string) (any, error) {
	var raw any
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q, use \"yaml\" or \"json\"", format)
	}
	return raw, nil
}

// DetectFormat returns "yaml" or "json" based on file extension, or "" if unknown.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json", ".jsonl":
		return "json"
	default:
		return ""
	}
}
