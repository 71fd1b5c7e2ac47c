package reports

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"seastate/internal/models"
)

// ManifestFile is the name of the manifest stored with every report
const ManifestFile = "manifest.yaml"

// SourceManifest describes one loaded source
type SourceManifest struct {
	URI   string           `yaml:"uri"`
	Stats models.LoadStats `yaml:"stats"`
}

// Manifest records what a render cycle produced
type Manifest struct {
	CycleID       string         `yaml:"cycle_id"`
	Version       string         `yaml:"version"`
	GeneratedAt   time.Time      `yaml:"generated_at"`
	FolderPath    string         `yaml:"folder_path"`
	MergedRecords int            `yaml:"merged_records"`
	Observations  int            `yaml:"observations"`
	Rows          SourceManifest `yaml:"rows"`
	Map           SourceManifest `yaml:"map"`
	Views         []ViewSummary  `yaml:"views"`
	Files         []string       `yaml:"files"`
}

// Marshal encodes the manifest as YAML
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return data, nil
}

// ParseManifest decodes a manifest written by Marshal
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}
