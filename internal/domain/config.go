package domain

import (
	_ "embed"
	"os"
	"path/filepath"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config file names.
const (
	AppName               = "pep723-loader"
	ConfigFileName        = "config.toml"
	ProjectConfigFileName = ".pep723-loader.toml"
)

// Environment variables that override configuration.
const (
	EnvUVPath    = "PEP723_LOADER_UV"
	EnvLogLevel  = "PEP723_LOADER_LOG_LEVEL"
	EnvNoInstall = "PEP723_LOADER_NO_INSTALL"
)

// DefaultDownloadTimeout bounds a single uv release download.
const DefaultDownloadTimeout = 5 * time.Minute

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	Install  InstallConfig `toml:"install"`
	UV       UVConfig      `toml:"uv"`
	Log      LogConfig     `toml:"log"`
}

// UVConfig holds settings for locating and provisioning uv from the [uv] section.
type UVConfig struct {
	AutoInstall     *bool  `toml:"auto_install,omitempty"`     // Provision uv when missing (default: true)
	Path            string `toml:"path,omitempty"`             // Explicit uv executable; disables PATH lookup
	Version         string `toml:"version,omitempty"`          // Release to provision; empty = latest
	MinVersion      string `toml:"min_version,omitempty"`      // Oldest acceptable uv
	InstallDir      string `toml:"install_dir,omitempty"`      // Where provisioned uv lives
	DownloadTimeout string `toml:"download_timeout,omitempty"` // Go duration, e.g. "5m"
}

// AutoInstallEnabled reports whether uv may be provisioned automatically.
func (c UVConfig) AutoInstallEnabled() bool {
	return c.AutoInstall == nil || *c.AutoInstall
}

// Timeout returns the parsed download timeout, falling back to DefaultDownloadTimeout.
func (c UVConfig) Timeout() time.Duration {
	if c.DownloadTimeout == "" {
		return DefaultDownloadTimeout
	}
	d, err := time.ParseDuration(c.DownloadTimeout)
	if err != nil || d <= 0 {
		return DefaultDownloadTimeout
	}
	return d
}

// InstallConfig holds settings passed through to `uv pip install` from the [install] section.
type InstallConfig struct {
	Python    string   `toml:"python,omitempty"`
	ExtraArgs []string `toml:"extra_args,omitempty"`
	System    bool     `toml:"system,omitempty"`
	Quiet     bool     `toml:"quiet,omitempty"`
}

// LogConfig holds settings for logging from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // debug, info, warn, error
	File  string `toml:"file,omitempty"`  // Optional log file
}

// NewDefaultConfig returns the built-in configuration.
func NewDefaultConfig() *Config {
	return &Config{
		UV: UVConfig{
			DownloadTimeout: DefaultDownloadTimeout.String(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigTemplate returns the commented template written by `config init`.
func ConfigTemplate() string {
	return configTemplateContent
}

// ConfigInfo holds information about a configuration file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// GlobalConfigDir returns the global config directory under configHome
// (e.g. ~/.config/pep723-loader).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppName)
}

// ProjectConfigPath returns the project config path under root.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, ProjectConfigFileName)
}

// DefaultInstallDir returns where provisioned uv is kept:
// $XDG_DATA_HOME/pep723-loader/bin, or ~/.local/share/pep723-loader/bin.
func DefaultInstallDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName, "bin")
}

// ResolvedInstallDir returns the configured install dir or the default one.
func (c *Config) ResolvedInstallDir() string {
	if c.UV.InstallDir != "" {
		return c.UV.InstallDir
	}
	return DefaultInstallDir()
}
