package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the name of the run summary written into every output folder
const ManifestFile = "manifest.yaml"

// Manifest summarizes one category output folder
type Manifest struct {
	RunID       string                  `yaml:"run_id" json:"run_id"`
	GeneratedAt time.Time               `yaml:"generated_at" json:"generated_at"`
	Category    models.Category         `yaml:"category" json:"category"`
	Folder      string                  `yaml:"folder" json:"folder"`
	Files       []string                `yaml:"files" json:"files"`
	LatestMonth string                  `yaml:"latest_month" json:"latest_month"`
	Latest      models.MonthlyCounter   `yaml:"latest" json:"latest"`
	History     []models.MonthlyCounter `yaml:"history" json:"history"`
	LogTypes    int                     `yaml:"log_types" json:"log_types"`
	Details     int                     `yaml:"details" json:"details"`
	Duplicates  int                     `yaml:"duplicates" json:"duplicates"`
	Artifacts   []string                `yaml:"artifacts" json:"artifacts"`
}

// WriteManifest stores m as YAML in dir
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// LoadManifest reads the manifest of an output folder
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &m, nil
}
