package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// InputConfig describes where monthly dumps are found and which to analyze
type InputConfig struct {
	Dir     string `mapstructure:"dir"`
	Pattern string `mapstructure:"pattern"`
	Select  string `mapstructure:"select"` // comma separated ordinals, empty prompts
	All     bool   `mapstructure:"all"`
}

// DevicesConfig holds the device list location and category tags
type DevicesConfig struct {
	Path   string `mapstructure:"path"`
	TagTFN string `mapstructure:"tag_tfn"`
	TagTWM string `mapstructure:"tag_twm"`
}

// OutputConfig holds report output settings
type OutputConfig struct {
	Dir          string `mapstructure:"dir"`
	FolderPrefix string `mapstructure:"folder_prefix"`
	MaxRows      int    `mapstructure:"max_rows"`
}

// ChartsConfig controls PNG chart rendering
type ChartsConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TopDevices int  `mapstructure:"top_devices"`
}

// ProgressConfig controls per-file progress logging
type ProgressConfig struct {
	Every int `mapstructure:"every"`
}

// AnalyzerConfig represents the complete analyze configuration
type AnalyzerConfig struct {
	Input     InputConfig    `mapstructure:"input"`
	Devices   DevicesConfig  `mapstructure:"devices"`
	Output    OutputConfig   `mapstructure:"output"`
	Charts    ChartsConfig   `mapstructure:"charts"`
	Progress  ProgressConfig `mapstructure:"progress"`
	LogLevel  string         `mapstructure:"log_level"`
	LogFormat string         `mapstructure:"log_format"`
}

// AnalyzerFlags maps command line flags onto configuration keys
var AnalyzerFlags = map[string]string{
	"input.dir":            "input-dir",
	"input.pattern":        "pattern",
	"input.select":         "select",
	"input.all":            "all",
	"devices.path":         "devices",
	"output.dir":           "output-dir",
	"output.folder_prefix": "prefix",
	"charts.enabled":       "charts",
	"log_level":            "log-level",
	"log_format":           "log-format",
}

// LoadAnalyzerConfig loads the analyze configuration. configPath may be
// empty, in which case defaults, environment and flags are used.
func LoadAnalyzerConfig(configPath string, flags *pflag.FlagSet) (*AnalyzerConfig, error) {
	v := newViper()

	// Set defaults
	v.SetDefault("input.dir", ".")
	v.SetDefault("input.pattern", "*.txt")
	v.SetDefault("input.select", "")
	v.SetDefault("input.all", false)
	v.SetDefault("devices.path", "deviceList_v*.csv")
	v.SetDefault("devices.tag_tfn", "TFN")
	v.SetDefault("devices.tag_twm", "TWM")
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.folder_prefix", "DCN_Syslog")
	v.SetDefault("output.max_rows", 1048575)
	v.SetDefault("charts.enabled", true)
	v.SetDefault("charts.top_devices", 5)
	v.SetDefault("progress.every", 100000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	if err := bindFlags(v, flags, AnalyzerFlags); err != nil {
		return nil, err
	}
	if err := readConfig(v, configPath); err != nil {
		return nil, err
	}

	var config AnalyzerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if config.Input.Dir == "" {
		return nil, fmt.Errorf("input.dir is required")
	}
	if config.Output.MaxRows <= 0 {
		return nil, fmt.Errorf("output.max_rows must be positive")
	}
	if config.Charts.TopDevices < 0 {
		return nil, fmt.Errorf("charts.top_devices cannot be negative")
	}
	if config.Devices.TagTFN == "" || config.Devices.TagTWM == "" {
		return nil, fmt.Errorf("devices.tag_tfn and devices.tag_twm are required")
	}
	if strings.EqualFold(config.Devices.TagTFN, config.Devices.TagTWM) {
		return nil, fmt.Errorf("devices.tag_tfn and devices.tag_twm must differ")
	}
	if err := validateLogging(config.LogLevel, config.LogFormat); err != nil {
		return nil, err
	}

	return &config, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DCN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func readConfig(v *viper.Viper, configPath string) error {
	if configPath == "" {
		return nil
	}
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	if flags == nil {
		return nil
	}
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func validateLogging(level, format string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", level)
	}
	switch format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log_format %q", format)
	}
	return nil
}
