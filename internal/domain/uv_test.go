package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseUVVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"uv 0.5.11 (c4d0caaee 2024-12-19)\n", "0.5.11"},
		{"uv 0.4.0", "0.4.0"},
		{"  uv 1.0.0  \n", "1.0.0"},
		{"uvx 0.5.11", ""},
		{"uv", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseUVVersion(tt.input))
		})
	}
}

func TestExecCommand_String(t *testing.T) {
	cmd := NewCommand("uv", []string{"pip", "install", "--requirements", "my script.py", ""}, "")

	assert.Equal(t, "uv pip install --requirements 'my script.py' ''", cmd.String())
}

func TestUVConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.True(t, cfg.UV.AutoInstallEnabled())
	assert.Equal(t, DefaultDownloadTimeout, cfg.UV.Timeout())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestUVConfig_Timeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, UVConfig{DownloadTimeout: "30s"}.Timeout())
	assert.Equal(t, DefaultDownloadTimeout, UVConfig{DownloadTimeout: "soon"}.Timeout())
	assert.Equal(t, DefaultDownloadTimeout, UVConfig{DownloadTimeout: "-1s"}.Timeout())
}

func TestUVConfig_AutoInstallDisabled(t *testing.T) {
	off := false
	assert.False(t, UVConfig{AutoInstall: &off}.AutoInstallEnabled())
}

func TestConfig_ResolvedInstallDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg := NewDefaultConfig()
	assert.Equal(t, "/data/pep723-loader/bin", cfg.ResolvedInstallDir())

	cfg.UV.InstallDir = "/opt/uv"
	assert.Equal(t, "/opt/uv", cfg.ResolvedInstallDir())
}

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"0.5.11", "0.5.11", false},
		{"v0.5.11", "0.5.11", false},
		{" 1.2.3 ", "1.2.3", false},
		{"0.6.0-rc.1", "0.6.0-rc.1", false},
		{"latest", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeVersion(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidVersion)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionLess(t *testing.T) {
	less, err := VersionLess("0.4.30", "0.5.0")
	assert.NoError(t, err)
	assert.True(t, less)

	less, err = VersionLess("0.10.0", "0.9.9")
	assert.NoError(t, err)
	assert.False(t, less)

	less, err = VersionLess("v0.5.0", "0.5.0")
	assert.NoError(t, err)
	assert.False(t, less)

	_, err = VersionLess("abc", "0.5.0")
	assert.ErrorIs(t, err, ErrInvalidVersion)
}
