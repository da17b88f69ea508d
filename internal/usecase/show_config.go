package usecase

import (
	"context"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/pep723-loader/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct {
	IgnoreGlobal  bool // Skip the global config file
	IgnoreProject bool // Skip the project config file
	IgnoreEnv     bool // Skip environment overrides
}

// ShowConfigOutput contains the output of the ShowConfig use case.
type ShowConfigOutput struct {
	GlobalConfig   domain.ConfigInfo // Global config file info
	ProjectConfig  domain.ConfigInfo // Project config file info
	ExplicitConfig domain.ConfigInfo // --config file info; zero when not given
	Effective      string            // Merged configuration rendered as TOML
	Warnings       []string
}

// ShowConfig displays configuration file information and the effective configuration.
type ShowConfig struct {
	configManager domain.ConfigManager
	configLoader  domain.ConfigLoader
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configManager domain.ConfigManager, configLoader domain.ConfigLoader) *ShowConfig {
	return &ShowConfig{
		configManager: configManager,
		configLoader:  configLoader,
	}
}

// Execute retrieves configuration file information and the merged configuration.
func (uc *ShowConfig) Execute(_ context.Context, in ShowConfigInput) (*ShowConfigOutput, error) {
	cfg, err := uc.configLoader.LoadWithOptions(domain.LoadConfigOptions{
		IgnoreGlobal:  in.IgnoreGlobal,
		IgnoreProject: in.IgnoreProject,
		IgnoreEnv:     in.IgnoreEnv,
	})
	if err != nil {
		return nil, err
	}

	effective := *cfg
	autoInstall := effective.UV.AutoInstallEnabled()
	effective.UV.AutoInstall = &autoInstall
	effective.UV.InstallDir = cfg.ResolvedInstallDir()

	data, err := toml.Marshal(effective)
	if err != nil {
		return nil, fmt.Errorf("render effective config: %w", err)
	}

	return &ShowConfigOutput{
		GlobalConfig:   uc.configManager.GetGlobalConfigInfo(),
		ProjectConfig:  uc.configManager.GetProjectConfigInfo(),
		ExplicitConfig: uc.configManager.GetExplicitConfigInfo(),
		Effective:      string(data),
		Warnings:       cfg.Warnings,
	}, nil
}
