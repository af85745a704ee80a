// Package config loads the settings for the dashboard and the issue labeler.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/naka-gawa/jobapp-metrics/internal/domain"
	"github.com/spf13/viper"
)

const (
	// DefaultBaseURL is used when no API URL is configured anywhere.
	DefaultBaseURL = "http://localhost:8000"
	// EnvPrefix prefixes every dashboard environment variable, e.g. JOBAPP_API_URL.
	EnvPrefix = "JOBAPP"
	// ConfigName is the base name of the optional config file.
	ConfigName = "jobapp-metrics"
)

// Viper keys. Flags are bound to the same keys, with "_" spelled "-".
const (
	KeyAPIURL        = "api_url"
	KeySessionCookie = "session_cookie"
	KeyOutput        = "output"
	KeyTrends        = "trends"
	KeyStrict        = "strict"
	KeyWidth         = "width"
	KeyLogFile       = "log_file"
)

// Output formats for one-shot rendering.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Dashboard holds everything the metrics dashboard needs at construction.
type Dashboard struct {
	BaseURL       string `mapstructure:"api_url"`
	SessionCookie string `mapstructure:"session_cookie"`
	Output        string `mapstructure:"output"`
	Trends        bool   `mapstructure:"trends"`
	Strict        bool   `mapstructure:"strict"`
	Width         int    `mapstructure:"width"`
	LogFile       string `mapstructure:"log_file"`
}

// NewViper returns a viper instance with the dashboard defaults, the
// JOBAPP_ environment binding and the config file search path set up.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Every key needs a default so that Unmarshal sees its environment variable.
	v.SetDefault(KeyAPIURL, DefaultBaseURL)
	v.SetDefault(KeySessionCookie, "")
	v.SetDefault(KeyOutput, OutputText)
	v.SetDefault(KeyTrends, false)
	v.SetDefault(KeyStrict, false)
	v.SetDefault(KeyWidth, 0)
	v.SetDefault(KeyLogFile, "")

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config")
	return v
}

// LoadDashboard reads the optional config file and decodes the dashboard
// settings. A missing config file is not an error; an explicitly named one is.
func LoadDashboard(v *viper.Viper, configFile string) (*Dashboard, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Dashboard
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Dashboard) normalize() error {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API URL %q", c.BaseURL)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	switch c.Output {
	case "":
		c.Output = OutputText
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", c.Output)
	}
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}
	return nil
}

// Actions is the environment GitHub Actions provides to a workflow step,
// plus the label the assigned-issue rule adds.
type Actions struct {
	Token      string `envconfig:"GITHUB_TOKEN" required:"true"`
	Repository string `envconfig:"GITHUB_REPOSITORY" required:"true"`
	EventName  string `envconfig:"GITHUB_EVENT_NAME"`
	EventPath  string `envconfig:"GITHUB_EVENT_PATH"`
	APIURL     string `envconfig:"GITHUB_API_URL" default:"https://api.github.com"`
	GraphQLURL string `envconfig:"GITHUB_GRAPHQL_URL" default:"https://api.github.com/graphql"`
	Label      string `envconfig:"ASSIGNED_LABEL"`
}

// LoadActions reads the Actions environment.
func LoadActions() (*Actions, error) {
	var cfg Actions
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.Label == "" {
		cfg.Label = domain.DefaultAssignedLabel
	}
	return &cfg, nil
}
