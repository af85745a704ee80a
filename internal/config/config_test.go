package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDashboard(t *testing.T) {
	testCases := []struct {
		name        string
		env         map[string]string
		set         map[string]any
		expectedURL string
		expectError bool
	}{
		{
			name:        "falls back to the default base URL",
			expectedURL: DefaultBaseURL,
		},
		{
			name:        "environment overrides the default",
			env:         map[string]string{"JOBAPP_API_URL": "https://jobs.example.com/"},
			expectedURL: "https://jobs.example.com",
		},
		{
			name:        "empty environment value is treated as unset",
			env:         map[string]string{"JOBAPP_API_URL": ""},
			expectedURL: DefaultBaseURL,
		},
		{
			name:        "explicit value wins over environment",
			env:         map[string]string{"JOBAPP_API_URL": "https://env.example.com"},
			set:         map[string]any{KeyAPIURL: "http://127.0.0.1:9000"},
			expectedURL: "http://127.0.0.1:9000",
		},
		{
			name:        "relative URL is rejected",
			set:         map[string]any{KeyAPIURL: "/api"},
			expectError: true,
		},
		{
			name:        "unknown output format is rejected",
			set:         map[string]any{KeyOutput: "xml"},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, val := range tc.env {
				t.Setenv(k, val)
			}
			v := NewViper()
			for k, val := range tc.set {
				v.Set(k, val)
			}

			cfg, err := LoadDashboard(v, "")

			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedURL, cfg.BaseURL)
			assert.Equal(t, OutputText, cfg.Output)
		})
	}
}

func TestLoadDashboard_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.yaml")
	content := "api_url: https://file.example.com\ntrends: true\noutput: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadDashboard(NewViper(), path)

	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.BaseURL)
	assert.True(t, cfg.Trends)
	assert.Equal(t, OutputJSON, cfg.Output)
}

func TestLoadDashboard_MissingExplicitFile(t *testing.T) {
	_, err := LoadDashboard(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadActions(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghs_test")
	t.Setenv("GITHUB_REPOSITORY", "octo/jobs")
	t.Setenv("GITHUB_EVENT_PATH", "/tmp/event.json")
	t.Setenv("ASSIGNED_LABEL", "")

	cfg, err := LoadActions()

	require.NoError(t, err)
	assert.Equal(t, "ghs_test", cfg.Token)
	assert.Equal(t, "octo/jobs", cfg.Repository)
	assert.Equal(t, "https://api.github.com", cfg.APIURL)
	assert.Equal(t, "in progress", cfg.Label)
}

func TestLoadActions_MissingToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	os.Unsetenv("GITHUB_TOKEN")
	t.Setenv("GITHUB_REPOSITORY", "octo/jobs")

	_, err := LoadActions()
	assert.Error(t, err)
}
