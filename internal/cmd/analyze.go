package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/config"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/devices"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/pipeline"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/report"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/source"
	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	styleNotice = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleLabel  = lipgloss.NewStyle().Width(9)
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze monthly syslog files and write reports",
	Long: `Discover YYYYMM.txt files in the input directory, let the operator pick
which ones to analyze, and write one report folder per device category.

Examples:
  dcn-syslog analyze
  dcn-syslog analyze --input-dir /data/syslog --select 1,3
  dcn-syslog analyze --all --devices "deviceList_v*.csv" --charts=false`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.String("input-dir", ".", "directory holding the monthly YYYYMM.txt files")
	f.String("pattern", "*.txt", "glob for candidate files, relative to the input directory")
	f.String("select", "", "comma separated file numbers to analyze, skips the prompt")
	f.Bool("all", false, "analyze every discovered file, skips the prompt")
	f.String("devices", "deviceList_v*.csv", "device list path or glob, the last match wins")
	f.String("output-dir", ".", "directory receiving the report folders")
	f.String("prefix", "DCN_Syslog", "report folder name prefix")
	f.Bool("charts", true, "render PNG trend and pie charts")
	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.String("log-format", "console", "log format: console, json")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAnalyzerConfig(cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := initLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	_, err = analyze(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	return err
}

// analyze runs one analysis. A nil result with a nil error means the
// operator ended the run before anything was written.
func analyze(cfg *config.AnalyzerConfig, in io.Reader, out io.Writer, logger *zap.Logger) (*pipeline.Result, error) {
	files, err := chooseFiles(cfg.Input, in, out)
	if err != nil {
		if errors.Is(err, source.ErrNoFiles) || errors.Is(err, source.ErrNoSelection) || errors.Is(err, source.ErrCanceled) {
			fmt.Fprintln(out, styleNotice.Render(capitalize(err.Error())+"."))
			return nil, nil
		}
		return nil, err
	}

	logger.Info("Starting analysis",
		zap.Int("files", len(files)),
		zap.String("input_dir", cfg.Input.Dir),
		zap.String("output_dir", cfg.Output.Dir))

	tags := devices.Tags{TFN: cfg.Devices.TagTFN, TWM: cfg.Devices.TagTWM}
	reg, err := pipeline.LoadDevices(cfg.Devices.Path, tags, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load device list: %w", err)
	}

	p := pipeline.New(pipeline.Options{
		OutputDir:    cfg.Output.Dir,
		FolderPrefix: cfg.Output.FolderPrefix,
		Report: report.Options{
			MaxRows:    cfg.Output.MaxRows,
			Charts:     cfg.Charts.Enabled,
			TopDevices: cfg.Charts.TopDevices,
		},
	}, source.NewReader(cfg.Progress.Every, logger), logger)

	res, err := p.Run(files, reg)
	if err != nil {
		return nil, err
	}

	logger.Info("Analysis complete",
		zap.String("run_id", res.RunID),
		zap.Int("lines", res.Analysis.Lines),
		zap.Int("rejected", res.Analysis.Rejected))

	printSummary(out, res)
	return res, nil
}

// chooseFiles applies --all, then --select, then falls back to the prompt
func chooseFiles(in config.InputConfig, r io.Reader, w io.Writer) ([]source.MonthFile, error) {
	files, err := source.Discover(in.Dir, in.Pattern)
	if err != nil {
		return nil, err
	}

	switch {
	case in.All:
		return files, nil
	case in.Select != "":
		return source.Select(files, source.ParseSelection(in.Select, len(files)))
	default:
		return source.NewPrompter(r, w).Choose(files)
	}
}

func printSummary(w io.Writer, res *pipeline.Result) {
	fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("Analysis complete, latest month %s",
		report.FormatMonth(res.Analysis.Latest.MonthKey))))
	for _, cat := range models.Categories {
		dir, ok := res.Folders[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", styleLabel.Render(string(cat)), dir)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
