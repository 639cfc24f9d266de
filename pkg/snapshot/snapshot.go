// Package snapshot reads roster and project snapshots from files, brings old
// layouts up to the current schema and reports problems in their contents.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arnavshah/staffing-planner-go/pkg/models"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a snapshot document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported snapshot extension %q", filepath.Ext(path))
	}
}

// Load reads a snapshot file and upgrades it to the current schema
func Load(path string) (*models.Snapshot, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes a snapshot document and upgrades it to the current schema
func Parse(data []byte, format Format) (*models.Snapshot, error) {
	var snap models.Snapshot
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parsing snapshot YAML: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parsing snapshot JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}
	if err := Upgrade(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
