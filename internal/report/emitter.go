package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"
	"go.uber.org/zap"
)

// Options controls what the Emitter writes
type Options struct {
	MaxRows    int
	Charts     bool
	TopDevices int
}

// Run identifies the analysis run a folder belongs to
type Run struct {
	ID          string
	GeneratedAt time.Time
	Files       []string
}

// Emitter writes the CSV tables, charts and manifest of one category
type Emitter struct {
	opts   Options
	logger *zap.Logger
}

// NewEmitter creates an Emitter
func NewEmitter(opts Options, logger *zap.Logger) *Emitter {
	if opts.MaxRows <= 0 {
		opts.MaxRows = MaxExcelRows
	}
	return &Emitter{opts: opts, logger: logger}
}

// Emit writes every artifact of r into dir, which must exist
func (e *Emitter) Emit(dir string, run Run, r models.CategoryReport) (*Manifest, error) {
	suffix := MonthSuffix(r.LatestMonth)
	var artifacts []string

	write := func(name string, header []string, rows [][]string) error {
		if err := writeCSV(filepath.Join(dir, name), header, rows); err != nil {
			return err
		}
		artifacts = append(artifacts, name)
		return nil
	}

	if err := write(fmt.Sprintf("severityCount_%s.csv", suffix), SeverityCountHeader, SeverityRows(r.SeverityTypes)); err != nil {
		return nil, err
	}

	chunks := Chunk(DetailRows(r.Details), e.opts.MaxRows)
	for i, chunk := range chunks {
		name := fmt.Sprintf("logAnalysis_%s.csv", suffix)
		if len(chunks) > 1 {
			name = fmt.Sprintf("logAnalysis_%s_part%d.csv", suffix, i+1)
		}
		if err := write(name, LogAnalysisHeader, chunk); err != nil {
			return nil, err
		}
	}

	if err := write(fmt.Sprintf("logCount_%s.csv", suffix), LogCountHeader, CountRows(r.History)); err != nil {
		return nil, err
	}
	if err := write(fmt.Sprintf("logAnalysis_simple_%s.csv", suffix), SimpleHeader, SimpleRows(r.Duplicates)); err != nil {
		return nil, err
	}

	if e.opts.Charts {
		charts, err := e.emitCharts(dir, suffix, r)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, charts...)
	}

	m := &Manifest{
		RunID:       run.ID,
		GeneratedAt: run.GeneratedAt,
		Category:    r.Category,
		Folder:      filepath.Base(dir),
		Files:       run.Files,
		LatestMonth: r.LatestMonth,
		Latest:      r.Latest,
		History:     r.History,
		LogTypes:    len(r.SeverityTypes),
		Details:     len(r.Details),
		Duplicates:  len(r.Duplicates),
		Artifacts:   artifacts,
	}
	if err := WriteManifest(dir, m); err != nil {
		return nil, err
	}

	e.logger.Info("Category report written",
		zap.String("category", string(r.Category)),
		zap.String("folder", dir),
		zap.Int("artifacts", len(artifacts)))

	return m, nil
}

func (e *Emitter) emitCharts(dir, suffix string, r models.CategoryReport) ([]string, error) {
	var written []string

	months := make([]string, len(r.History))
	sev03 := make([]int, len(r.History))
	sev46 := make([]int, len(r.History))
	for i, c := range r.History {
		months[i] = c.MonthKey
		sev03[i] = c.Sev0to3
		sev46[i] = c.Sev4to6
	}

	trends := []struct {
		name   string
		title  string
		series TrendSeries
	}{
		{"log_trend_0-3.png", "Historical Log Count (Sev0-3)", TrendSeries{Name: "Sev0-3", Months: months, Values: sev03, Color: colorSev0to3}},
		{"log_trend_4-6.png", "Historical Log Count (Sev4-6)", TrendSeries{Name: "Sev4-6", Months: months, Values: sev46, Color: colorSev4to6}},
	}
	if len(months) > 0 {
		for _, tr := range trends {
			if err := renderFile(filepath.Join(dir, tr.name), func(f *os.File) error {
				return RenderTrend(f, tr.title, tr.series)
			}); err != nil {
				return nil, err
			}
			written = append(written, tr.name)
		}
	}

	for _, p := range PieData(r.Details, e.opts.TopDevices) {
		clean := CleanFileName(p.LogType)
		name := fmt.Sprintf("%s_pie_%s.png", clean, suffix)
		title := fmt.Sprintf("%s (%s)", clean, suffix)
		pie := p
		if err := renderFile(filepath.Join(dir, name), func(f *os.File) error {
			return RenderPie(f, title, pie)
		}); err != nil {
			// pie failures are logged and skipped
			e.logger.Warn("Failed to render pie chart", zap.String("log_type", p.LogType), zap.Error(err))
			continue
		}
		written = append(written, name)
	}

	return written, nil
}

func renderFile(path string, render func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
