package source

import (
	"fmt"

	"github.com/nxadm/tail"
	"go.uber.org/zap"
)

// Reader loads monthly files into memory and reports per-line progress
type Reader struct {
	logger        *zap.Logger
	progressEvery int
}

// NewReader creates a Reader logging progress every progressEvery lines.
// A value <= 0 only logs start and completion.
func NewReader(progressEvery int, logger *zap.Logger) *Reader {
	return &Reader{
		logger:        logger,
		progressEvery: progressEvery,
	}
}

// ReadLines reads the whole file as a line sequence
func (r *Reader) ReadLines(path string) ([]string, error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    false,
		ReOpen:    false,
		MustExist: true,
		Poll:      true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer t.Cleanup()

	var lines []string
	for line := range t.Lines {
		if line.Err != nil {
			t.Stop()
			return nil, fmt.Errorf("failed to read %s: %w", path, line.Err)
		}
		lines = append(lines, line.Text)
	}

	if err := t.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	r.logger.Debug("File loaded", zap.String("file", path), zap.Int("lines", len(lines)))
	return lines, nil
}

// Each calls fn for every line, logging processed/total as it goes
func (r *Reader) Each(desc string, lines []string, fn func(line string)) {
	total := len(lines)
	r.logger.Info(desc, zap.Int("processed", 0), zap.Int("total", total))

	for i, line := range lines {
		fn(line)
		if r.progressEvery > 0 && (i+1)%r.progressEvery == 0 && i+1 < total {
			r.logger.Info(desc, zap.Int("processed", i+1), zap.Int("total", total))
		}
	}

	r.logger.Info(desc+" done", zap.Int("processed", total), zap.Int("total", total))
}
