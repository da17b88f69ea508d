package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/pep723-loader/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	projectRoot   string // Directory holding .pep723-loader.toml
	explicitPath  string // File given with --config
	globalConfDir string // Path to global config directory (e.g., ~/.config/pep723-loader)
}

// NewManager creates a new Manager.
func NewManager(projectRoot, explicitPath string) *Manager {
	return &Manager{
		projectRoot:   projectRoot,
		explicitPath:  explicitPath,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(projectRoot, explicitPath, globalConfDir string) *Manager {
	return &Manager{
		projectRoot:   projectRoot,
		explicitPath:  explicitPath,
		globalConfDir: globalConfDir,
	}
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// GetProjectConfigInfo returns information about the project config file.
func (m *Manager) GetProjectConfigInfo() domain.ConfigInfo {
	if m.projectRoot == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(domain.ProjectConfigPath(m.projectRoot))
}

// GetExplicitConfigInfo returns information about the --config file.
func (m *Manager) GetExplicitConfigInfo() domain.ConfigInfo {
	if m.explicitPath == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(m.explicitPath)
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path) //nolint:gosec // Config path is chosen by the user
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitGlobalConfig writes the config template to the global config directory.
func (m *Manager) InitGlobalConfig() (string, error) {
	if m.globalConfDir == "" {
		return "", errors.New("global config directory not available")
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)
	return path, m.initConfig(path)
}

// InitProjectConfig writes the config template to the project root.
func (m *Manager) InitProjectConfig() (string, error) {
	if m.projectRoot == "" {
		return "", errors.New("project root not available")
	}
	path := domain.ProjectConfigPath(m.projectRoot)
	return path, m.initConfig(path)
}

// initConfig creates a config file from the template unless it already exists.
func (m *Manager) initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}
	return os.WriteFile(path, []byte(domain.ConfigTemplate()), 0o600)
}
