package devices

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// NotAvailable is the hostname reported for devices missing from the registry
const NotAvailable = "N/A"

// Tags maps device-list type tags onto the two known categories
type Tags struct {
	TFN string
	TWM string
}

// DefaultTags returns the tags used by the DCN device list
func DefaultTags() Tags {
	return Tags{TFN: "TFN", TWM: "TWM"}
}

// Registry holds IP to hostname mappings for the known categories
type Registry struct {
	tfn map[string]string
	twm map[string]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		tfn: make(map[string]string),
		twm: make(map[string]string),
	}
}

// Add stores a hostname for an IP. Unknown is ignored.
func (r *Registry) Add(category models.Category, ip, hostname string) {
	switch category {
	case models.CategoryTFN:
		r.tfn[ip] = hostname
	case models.CategoryTWM:
		r.twm[ip] = hostname
	}
}

// AddRecord registers one device list row
func (r *Registry) AddRecord(rec models.DeviceRecord) {
	r.Add(rec.Category, rec.IP, rec.Hostname)
}

// Category returns the category of a device IP. TFN is checked first.
func (r *Registry) Category(ip string) models.Category {
	if _, ok := r.tfn[ip]; ok {
		return models.CategoryTFN
	}
	if _, ok := r.twm[ip]; ok {
		return models.CategoryTWM
	}
	return models.CategoryUnknown
}

// Hostname returns the hostname of ip within category, or NotAvailable
func (r *Registry) Hostname(category models.Category, ip string) string {
	var m map[string]string
	switch category {
	case models.CategoryTFN:
		m = r.tfn
	case models.CategoryTWM:
		m = r.twm
	default:
		return NotAvailable
	}
	if name, ok := m[ip]; ok {
		return name
	}
	return NotAvailable
}

// Len returns the number of devices in each category
func (r *Registry) Len() (tfn, twm int) {
	return len(r.tfn), len(r.twm)
}

// yamlDevice is one entry of a YAML device list
type yamlDevice struct {
	Type     string `yaml:"type"`
	Hostname string `yaml:"hostname"`
	IP       string `yaml:"ip"`
}

// Load reads a device list from path. A missing file yields an empty registry.
// Files ending in .yaml or .yml are read as YAML, anything else as CSV.
func Load(path string, tags Tags, logger *zap.Logger) (*Registry, error) {
	reg := NewRegistry()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Device list not found, all devices will be UNKNOWN", zap.String("path", path))
			return reg, nil
		}
		return nil, fmt.Errorf("failed to open device list: %w", err)
	}
	defer f.Close()

	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		rows, err = readYAML(f)
	default:
		rows, err = readCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read device list %s: %w", path, err)
	}

	skipped := reg.addRows(rows, tags)

	tfn, twm := reg.Len()
	logger.Info("Device list loaded",
		zap.String("path", path),
		zap.Int("tfn", tfn),
		zap.Int("twm", twm),
		zap.Int("skipped", skipped))

	return reg, nil
}

// addRows applies (type, hostname, ip) rows and returns how many were dropped
func (r *Registry) addRows(rows [][]string, tags Tags) int {
	skipped := 0
	for _, row := range rows {
		if len(row) < 3 {
			skipped++
			continue
		}
		tag := strings.ToUpper(strings.TrimSpace(row[0]))
		hostname := strings.TrimSpace(row[1])
		ip := strings.TrimSpace(row[2])

		rec := models.DeviceRecord{IP: ip, Hostname: hostname}
		switch tag {
		case strings.ToUpper(tags.TFN):
			rec.Category = models.CategoryTFN
		case strings.ToUpper(tags.TWM):
			rec.Category = models.CategoryTWM
		default:
			skipped++
			continue
		}
		r.AddRecord(rec)
	}
	return skipped
}

func readCSV(rd io.Reader) ([][]string, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

func readYAML(rd io.Reader) ([][]string, error) {
	var entries []yamlDevice
	if err := yaml.NewDecoder(rd).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		if e.IP == "" {
			rows = append(rows, []string{e.Type, e.Hostname})
			continue
		}
		rows = append(rows, []string{e.Type, e.Hostname, e.IP})
	}
	return rows, nil
}
