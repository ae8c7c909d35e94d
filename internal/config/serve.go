package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// HTTPServerConfig holds HTTP server settings
type HTTPServerConfig struct {
	ListenAddress   string        `mapstructure:"listen_address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// TLSConfig enables HTTPS when both files are set. ClientCA additionally
// requires client certificates.
type TLSConfig struct {
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
	ClientCA string `mapstructure:"client_ca"`
}

// Enabled reports whether HTTPS is configured
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// ServeConfig represents the complete report server configuration
type ServeConfig struct {
	Server    HTTPServerConfig `mapstructure:"server"`
	TLS       TLSConfig        `mapstructure:"tls"`
	Output    OutputConfig     `mapstructure:"output"`
	LogLevel  string           `mapstructure:"log_level"`
	LogFormat string           `mapstructure:"log_format"`
}

// ServeFlags maps command line flags onto configuration keys
var ServeFlags = map[string]string{
	"server.listen_address": "listen",
	"output.dir":            "output-dir",
	"log_level":             "log-level",
	"log_format":            "log-format",
}

// LoadServeConfig loads the report server configuration
func LoadServeConfig(configPath string, flags *pflag.FlagSet) (*ServeConfig, error) {
	v := newViper()

	// Set defaults
	v.SetDefault("server.listen_address", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("tls.cert_file", "")
	v.SetDefault("tls.key_file", "")
	v.SetDefault("tls.client_ca", "")
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.folder_prefix", "DCN_Syslog")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	if err := bindFlags(v, flags, ServeFlags); err != nil {
		return nil, err
	}
	if err := readConfig(v, configPath); err != nil {
		return nil, err
	}

	var config ServeConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if config.Server.ListenAddress == "" {
		return nil, fmt.Errorf("server.listen_address is required")
	}
	if (config.TLS.CertFile == "") != (config.TLS.KeyFile == "") {
		return nil, fmt.Errorf("tls.cert_file and tls.key_file must be set together")
	}
	if config.TLS.ClientCA != "" && !config.TLS.Enabled() {
		return nil, fmt.Errorf("tls.client_ca requires tls.cert_file and tls.key_file")
	}
	if err := validateLogging(config.LogLevel, config.LogFormat); err != nil {
		return nil, err
	}

	return &config, nil
}
