// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/pep723-loader/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files and the environment.
type Loader struct {
	getenv        func(string) string
	globalConfDir string // Path to global config directory (e.g., ~/.config/pep723-loader)
	projectRoot   string // Directory holding .pep723-loader.toml
	explicitPath  string // File given with --config
}

// NewLoader creates a new Loader.
func NewLoader(projectRoot, explicitPath string) *Loader {
	return &Loader{
		getenv:        os.Getenv,
		globalConfDir: defaultGlobalConfigDir(),
		projectRoot:   projectRoot,
		explicitPath:  explicitPath,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory
// and environment lookup. This is useful for testing.
func NewLoaderWithGlobalDir(projectRoot, explicitPath, globalConfDir string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Loader{
		getenv:        getenv,
		globalConfDir: globalConfDir,
		projectRoot:   projectRoot,
		explicitPath:  explicitPath,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Precedence: default <- global <- project <- --config file <- environment.
func (l *Loader) Load() (*domain.Config, error) {
	return l.LoadWithOptions(domain.LoadConfigOptions{})
}

// LoadWithOptions returns the merged configuration with options to ignore sources.
func (l *Loader) LoadWithOptions(opts domain.LoadConfigOptions) (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	if !opts.IgnoreGlobal && l.globalConfDir != "" {
		global, err := l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if global != nil {
			base = mergeConfigs(base, global)
		}
	}

	if !opts.IgnoreProject && l.projectRoot != "" {
		project, err := l.loadFile(domain.ProjectConfigPath(l.projectRoot))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if project != nil {
			base = mergeConfigs(base, project)
		}
	}

	// An explicit --config file must exist.
	if l.explicitPath != "" {
		explicit, err := l.loadFile(l.explicitPath)
		if err != nil {
			return nil, err
		}
		base = mergeConfigs(base, explicit)
	}

	if !opts.IgnoreEnv {
		applyEnv(base, l.getenv)
	}

	return base, nil
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Config path is chosen by the user
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg, err := convertRawToDomainConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	for i, w := range cfg.Warnings {
		cfg.Warnings[i] = fmt.Sprintf("%s: %s", path, w)
	}
	return cfg, nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
// Type mismatches for known keys are errors; unknown keys are warnings.
func convertRawToDomainConfig(raw map[string]any) (*domain.Config, error) {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		switch section {
		case "uv":
			for k, v := range m {
				var err error
				switch k {
				case "path":
					res.UV.Path, err = asString(section, k, v)
				case "version":
					res.UV.Version, err = asString(section, k, v)
				case "min_version":
					res.UV.MinVersion, err = asString(section, k, v)
				case "install_dir":
					res.UV.InstallDir, err = asString(section, k, v)
				case "download_timeout":
					res.UV.DownloadTimeout, err = asString(section, k, v)
				case "auto_install":
					var b bool
					b, err = asBool(section, k, v)
					res.UV.AutoInstall = &b
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [uv]: %s", k))
				}
				if err != nil {
					return nil, err
				}
			}
		case "install":
			for k, v := range m {
				var err error
				switch k {
				case "python":
					res.Install.Python, err = asString(section, k, v)
				case "system":
					res.Install.System, err = asBool(section, k, v)
				case "quiet":
					res.Install.Quiet, err = asBool(section, k, v)
				case "extra_args":
					res.Install.ExtraArgs, err = asStrings(section, k, v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [install]: %s", k))
				}
				if err != nil {
					return nil, err
				}
			}
		case "log":
			for k, v := range m {
				var err error
				switch k {
				case "level":
					res.Log.Level, err = asString(section, k, v)
				case "file":
					res.Log.File, err = asString(section, k, v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
				if err != nil {
					return nil, err
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	res.UV.Path = expandHome(res.UV.Path)
	res.UV.InstallDir = expandHome(res.UV.InstallDir)
	res.Log.File = expandHome(res.Log.File)

	sort.Strings(warnings)
	res.Warnings = warnings
	return res, nil
}

func asString(section, key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("[%s].%s must be a string", section, key)
	}
	return s, nil
}

func asBool(section, key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("[%s].%s must be a boolean", section, key)
	}
	return b, nil
}

func asStrings(section, key string, v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("[%s].%s must be an array of strings", section, key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("[%s].%s must be an array of strings", section, key)
		}
		out = append(out, s)
	}
	return out, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// applyEnv overrides cfg with PEP723_LOADER_* environment variables.
func applyEnv(cfg *domain.Config, getenv func(string) string) {
	if v := getenv(domain.EnvUVPath); v != "" {
		cfg.UV.Path = expandHome(v)
	}
	if v := getenv(domain.EnvLogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := getenv(domain.EnvNoInstall); v != "" {
		if noInstall, err := strconv.ParseBool(v); err == nil {
			autoInstall := !noInstall
			cfg.UV.AutoInstall = &autoInstall
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring %s=%q: not a boolean", domain.EnvNoInstall, v))
		}
	}
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		UV:       base.UV,
		Install:  base.Install,
		Log:      base.Log,
		Warnings: append([]string{}, base.Warnings...),
	}

	result.Warnings = append(result.Warnings, override.Warnings...)

	if override.UV.Path != "" {
		result.UV.Path = override.UV.Path
	}
	if override.UV.Version != "" {
		result.UV.Version = override.UV.Version
	}
	if override.UV.MinVersion != "" {
		result.UV.MinVersion = override.UV.MinVersion
	}
	if override.UV.InstallDir != "" {
		result.UV.InstallDir = override.UV.InstallDir
	}
	if override.UV.DownloadTimeout != "" {
		result.UV.DownloadTimeout = override.UV.DownloadTimeout
	}
	if override.UV.AutoInstall != nil {
		autoInstall := *override.UV.AutoInstall
		result.UV.AutoInstall = &autoInstall
	}
	if override.Install.Python != "" {
		result.Install.Python = override.Install.Python
	}
	if override.Install.System {
		result.Install.System = true
	}
	if override.Install.Quiet {
		result.Install.Quiet = true
	}
	if override.Install.ExtraArgs != nil {
		result.Install.ExtraArgs = append([]string{}, override.Install.ExtraArgs...)
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.File != "" {
		result.Log.File = override.Log.File
	}

	return result
}
