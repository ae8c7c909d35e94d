package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/report"
	"go.uber.org/zap"
)

var (
	// ErrRunNotFound is returned for folders without a readable manifest
	ErrRunNotFound = errors.New("run not found")
	// ErrArtifactNotFound is returned for files outside the report folders
	ErrArtifactNotFound = errors.New("artifact not found")
)

// Catalog finds finished report folders under the output directory
type Catalog struct {
	dir    string
	prefix string
	logger *zap.Logger
}

// NewCatalog creates a catalog of folders named <prefix>_* under dir
func NewCatalog(dir, prefix string, logger *zap.Logger) *Catalog {
	return &Catalog{
		dir:    dir,
		prefix: prefix,
		logger: logger,
	}
}

// List returns the manifests of all report folders, newest first
func (c *Catalog) List() ([]*report.Manifest, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output dir: %w", err)
	}

	var manifests []*report.Manifest
	for _, e := range entries {
		if !e.IsDir() || !c.isReportFolder(e.Name()) {
			continue
		}
		m, err := report.LoadManifest(filepath.Join(c.dir, e.Name()))
		if err != nil {
			// folders from runs that did not finish have no manifest
			c.logger.Debug("Skipping folder", zap.String("folder", e.Name()), zap.Error(err))
			continue
		}
		manifests = append(manifests, m)
	}

	sort.SliceStable(manifests, func(i, j int) bool {
		if !manifests[i].GeneratedAt.Equal(manifests[j].GeneratedAt) {
			return manifests[i].GeneratedAt.After(manifests[j].GeneratedAt)
		}
		return manifests[i].Folder < manifests[j].Folder
	})
	return manifests, nil
}

// Get returns the manifest of one report folder
func (c *Catalog) Get(folder string) (*report.Manifest, error) {
	if !c.isReportFolder(folder) {
		return nil, ErrRunNotFound
	}
	m, err := report.LoadManifest(filepath.Join(c.dir, folder))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return m, nil
}

// Artifact returns the path of a regular file directly inside a report
// folder. Anything else, including directories, is ErrArtifactNotFound.
func (c *Catalog) Artifact(folder, file string) (string, error) {
	if !c.isReportFolder(folder) || !validFolder(file) {
		return "", ErrArtifactNotFound
	}

	path := filepath.Join(c.dir, folder, file)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrArtifactNotFound
		}
		return "", fmt.Errorf("failed to stat artifact: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", ErrArtifactNotFound
	}
	return path, nil
}

func (c *Catalog) isReportFolder(name string) bool {
	return validFolder(name) && strings.HasPrefix(name, c.prefix+"_")
}

func validFolder(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
