// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/runoshun/pep723-loader/internal/domain"
)

// MockCommandExecutor is a test double for domain.CommandExecutor.
// Fields are ordered to minimize memory padding.
type MockCommandExecutor struct {
	LookPathErr error
	OutputErr   error
	RunErr      error
	Paths       map[string]string          // name -> resolved path for LookPath
	Outputs     map[string][]byte          // program -> output returned by Output
	ExitCodes   map[string]int             // program -> exit code returned by Run
	RunFunc     func(*domain.ExecCommand) // Optional hook invoked on Run
	OutputCalls []*domain.ExecCommand
	RunCalls    []*domain.ExecCommand
	mu          sync.Mutex
}

// NewMockCommandExecutor creates a new MockCommandExecutor with initialized maps.
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Paths:     make(map[string]string),
		Outputs:   make(map[string][]byte),
		ExitCodes: make(map[string]int),
	}
}

// Ensure MockCommandExecutor implements domain.CommandExecutor interface.
var _ domain.CommandExecutor = (*MockCommandExecutor)(nil)

// LookPath returns the configured path for name.
func (m *MockCommandExecutor) LookPath(name string) (string, error) {
	if m.LookPathErr != nil {
		return "", m.LookPathErr
	}
	if p, ok := m.Paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// Output records the call and returns the configured output for the program.
func (m *MockCommandExecutor) Output(_ context.Context, cmd *domain.ExecCommand) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OutputCalls = append(m.OutputCalls, cmd)
	if m.OutputErr != nil {
		return nil, m.OutputErr
	}
	return m.Outputs[cmd.Program], nil
}

// Run records the call and returns the configured exit code for the program.
func (m *MockCommandExecutor) Run(_ context.Context, cmd *domain.ExecCommand, _ domain.Streams) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunCalls = append(m.RunCalls, cmd)
	if m.RunFunc != nil {
		m.RunFunc(cmd)
	}
	if m.RunErr != nil {
		return -1, m.RunErr
	}
	return m.ExitCodes[cmd.Program], nil
}

// MockProvisioner is a test double for domain.UVProvisioner.
type MockProvisioner struct {
	Result   *domain.ProvisionResult
	Err      error
	Requests []domain.ProvisionRequest
}

// Ensure MockProvisioner implements domain.UVProvisioner interface.
var _ domain.UVProvisioner = (*MockProvisioner)(nil)

// Provision records the request and returns the configured result.
func (m *MockProvisioner) Provision(_ context.Context, req domain.ProvisionRequest) (*domain.ProvisionResult, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// Called reports whether Provision was invoked.
func (m *MockProvisioner) Called() bool {
	return len(m.Requests) > 0
}

// MockMetadataReader is a test double for domain.MetadataReader.
type MockMetadataReader struct {
	Metadata  map[string]*domain.ScriptMetadata
	Errs      map[string]error
	ReadPaths []string
}

// NewMockMetadataReader creates a new MockMetadataReader with initialized maps.
func NewMockMetadataReader() *MockMetadataReader {
	return &MockMetadataReader{
		Metadata: make(map[string]*domain.ScriptMetadata),
		Errs:     make(map[string]error),
	}
}

// Ensure MockMetadataReader implements domain.MetadataReader interface.
var _ domain.MetadataReader = (*MockMetadataReader)(nil)

// Read returns the configured metadata for path. Unknown paths report
// domain.ErrScriptNotFound.
func (m *MockMetadataReader) Read(path string) (*domain.ScriptMetadata, error) {
	m.ReadPaths = append(m.ReadPaths, path)
	if err, ok := m.Errs[path]; ok {
		return nil, err
	}
	meta, ok := m.Metadata[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrScriptNotFound, path)
	}
	return meta, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
	Options []domain.LoadConfigOptions
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	return m.LoadWithOptions(domain.LoadConfigOptions{})
}

// LoadWithOptions records the options and returns the configured config or error.
func (m *MockConfigLoader) LoadWithOptions(opts domain.LoadConfigOptions) (*domain.Config, error) {
	m.Options = append(m.Options, opts)
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitProjectErr     error
	InitGlobalErr      error
	ProjectConfigInfo  domain.ConfigInfo
	GlobalConfigInfo   domain.ConfigInfo
	ExplicitConfigInfo domain.ConfigInfo
	InitProjectCalled  bool
	InitGlobalCalled   bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		ProjectConfigInfo: domain.ConfigInfo{
			Path: "/test/.pep723-loader.toml",
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path: "/home/test/.config/pep723-loader/config.toml",
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// GetProjectConfigInfo returns the configured project config info.
func (m *MockConfigManager) GetProjectConfigInfo() domain.ConfigInfo {
	return m.ProjectConfigInfo
}

// GetExplicitConfigInfo returns the configured explicit config info.
func (m *MockConfigManager) GetExplicitConfigInfo() domain.ConfigInfo {
	return m.ExplicitConfigInfo
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig() (string, error) {
	m.InitGlobalCalled = true
	if m.InitGlobalErr != nil {
		return "", m.InitGlobalErr
	}
	return m.GlobalConfigInfo.Path, nil
}

// InitProjectConfig records the call and returns configured error.
func (m *MockConfigManager) InitProjectConfig() (string, error) {
	m.InitProjectCalled = true
	if m.InitProjectErr != nil {
		return "", m.InitProjectErr
	}
	return m.ProjectConfigInfo.Path, nil
}

// LogEntry is a single message captured by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger that records every message.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) record(level, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Debug records a debug message.
func (m *MockLogger) Debug(category, msg string) { m.record("DEBUG", category, msg) }

// Info records an info message.
func (m *MockLogger) Info(category, msg string) { m.record("INFO", category, msg) }

// Warn records a warning message.
func (m *MockLogger) Warn(category, msg string) { m.record("WARN", category, msg) }

// Error records an error message.
func (m *MockLogger) Error(category, msg string) { m.record("ERROR", category, msg) }

// Messages returns the messages logged at level.
func (m *MockLogger) Messages(level string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var msgs []string
	for _, e := range m.Entries {
		if e.Level == level {
			msgs = append(msgs, e.Msg)
		}
	}
	return msgs
}
