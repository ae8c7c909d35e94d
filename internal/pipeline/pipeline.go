package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/aggregator"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/classifier"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/devices"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/report"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/source"
	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"
	"go.uber.org/zap"
)

// Registry is what the pipeline needs from the device registry
type Registry interface {
	classifier.Categorizer
	aggregator.HostnameResolver
}

// Options configures where reports are written
type Options struct {
	OutputDir    string
	FolderPrefix string
	Report       report.Options
}

// Pipeline runs the historical and latest-month passes and emits reports
type Pipeline struct {
	opts    Options
	reader  *source.Reader
	emitter *report.Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// Analysis is the outcome of the aggregation passes
type Analysis struct {
	Files    []source.MonthFile
	Latest   source.MonthFile
	Reports  []models.CategoryReport
	Lines    int
	Rejected int
}

// Result is a completed run
type Result struct {
	RunID     string
	Analysis  *Analysis
	Folders   map[models.Category]string
	Manifests []*report.Manifest
}

// New creates a Pipeline
func New(opts Options, reader *source.Reader, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		opts:    opts,
		reader:  reader,
		emitter: report.NewEmitter(opts.Report, logger),
		logger:  logger,
		now:     time.Now,
	}
}

// Analyze classifies every selected file into per-month counters and
// re-reads the latest file for the per-type, detail and duplicate views.
func (p *Pipeline) Analyze(files []source.MonthFile, reg Registry) (*Analysis, error) {
	if len(files) == 0 {
		return nil, source.ErrNoSelection
	}

	set := aggregator.NewSet()
	a := &Analysis{Files: files, Latest: source.Latest(files)}

	p.logger.Info("Latest file for CSV analysis", zap.String("file", a.Latest.Name()))

	for _, f := range files {
		set.EnsureMonth(f.MonthKey)

		lines, err := p.reader.ReadLines(f.Path)
		if err != nil {
			return nil, err
		}
		a.Lines += len(lines)

		monthKey := f.MonthKey
		p.reader.Each("Historical Processing "+f.Name(), lines, func(raw string) {
			line, ok := classifier.Classify(raw, reg)
			if !ok {
				a.Rejected++
				return
			}
			set.For(line.Category).AddHistorical(monthKey, line)
		})
	}

	lines, err := p.reader.ReadLines(a.Latest.Path)
	if err != nil {
		return nil, err
	}
	p.reader.Each("Processing Latest File "+a.Latest.Name(), lines, func(raw string) {
		if line, ok := classifier.Classify(raw, reg); ok {
			set.For(line.Category).AddLatest(line)
		}
	})

	set.ResolveHostnames(reg)
	a.Reports = set.Reports(a.Latest.MonthKey)

	p.logger.Info("Aggregation complete",
		zap.Int("files", len(files)),
		zap.Int("lines", a.Lines),
		zap.Int("rejected", a.Rejected),
		zap.String("latest_month", a.Latest.MonthKey))

	return a, nil
}

// Run analyzes files and writes one output folder per category
func (p *Pipeline) Run(files []source.MonthFile, reg Registry) (*Result, error) {
	analysis, err := p.Analyze(files, reg)
	if err != nil {
		return nil, err
	}

	now := p.now()
	res := &Result{
		RunID:    uuid.NewString(),
		Analysis: analysis,
		Folders:  make(map[models.Category]string, len(analysis.Reports)),
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name()
	}
	run := report.Run{ID: res.RunID, GeneratedAt: now, Files: names}

	stamp := now.Format("20060102150405")
	for _, r := range analysis.Reports {
		dir := filepath.Join(p.opts.OutputDir, FolderName(p.opts.FolderPrefix, r.Category, stamp))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output folder: %w", err)
		}

		m, err := p.emitter.Emit(dir, run, r)
		if err != nil {
			return nil, fmt.Errorf("failed to write %s reports: %w", r.Category, err)
		}
		res.Folders[r.Category] = dir
		res.Manifests = append(res.Manifests, m)
	}

	return res, nil
}

// FolderName builds <prefix>_<CATEGORY>_<timestamp>
func FolderName(prefix string, category models.Category, stamp string) string {
	return fmt.Sprintf("%s_%s_%s", prefix, category, stamp)
}

// LoadDevices resolves the device list pattern and loads it
func LoadDevices(pattern string, tags devices.Tags, logger *zap.Logger) (*devices.Registry, error) {
	path, err := devices.Resolve(pattern)
	if err != nil {
		return nil, err
	}
	return devices.Load(path, tags, logger)
}
