// Package config loads the YAML sites file that drives a check run.
//
// Example:
//
//	defaults:
//	  timeout: 10
//	  retries: 1
//	  allow_status_ranges: ["200-299", "300-399"]
//
//	sites:
//	  - url: https://example.com
//	  - url: https://api.example.com/health
//	    expected_status: 200
//	    keyword: ok
//	  - url: https://old.example.com
//	    disabled: true
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/akkishost/sitecheck/internal/probe"
)

// Site is one target entry in the sites file. Timeout is in seconds.
// Pointer fields distinguish "absent" from an explicit zero.
type Site struct {
	URL            string `yaml:"url"`
	ExpectedStatus *int   `yaml:"expected_status"`
	Keyword        string `yaml:"keyword"`
	Disabled       bool   `yaml:"disabled"`
	Timeout        *int   `yaml:"timeout"`
	Retries        *int   `yaml:"retries"`
}

// Defaults is the batch-wide fallback block. Range strings use the
// "<low>-<high>" form; malformed entries are discarded at parse time.
type Defaults struct {
	Timeout           *int     `yaml:"timeout"`
	Retries           *int     `yaml:"retries"`
	AllowStatusRanges []string `yaml:"allow_status_ranges"`
}

// Config is the root of the sites file.
type Config struct {
	Sites        []Site   `yaml:"sites"`
	Defaults     Defaults `yaml:"defaults"`
	SlackWebhook string   `yaml:"slack_webhook"`
}

// Load reads and parses a sites file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses sites-file YAML, expands environment variables in URLs and
// the webhook, and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) expandAndValidate() error {
	if len(c.Sites) == 0 {
		return fmt.Errorf("at least one site must be defined")
	}

	for i := range c.Sites {
		s := &c.Sites[i]

		if s.URL == "" {
			return fmt.Errorf("sites[%d]: url is required", i)
		}
		expanded, err := expandEnvVars(s.URL)
		if err != nil {
			return fmt.Errorf("sites[%d]: url: %w", i, err)
		}
		s.URL = expanded

		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("sites[%d] (%s): invalid url: %w", i, s.URL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("sites[%d] (%s): url scheme must be http or https", i, s.URL)
		}

		if s.Timeout != nil && *s.Timeout < 0 {
			return fmt.Errorf("sites[%d] (%s): timeout cannot be negative", i, s.URL)
		}
		if s.Retries != nil && *s.Retries < 0 {
			return fmt.Errorf("sites[%d] (%s): retries cannot be negative", i, s.URL)
		}
	}

	if c.Defaults.Timeout != nil && *c.Defaults.Timeout < 0 {
		return fmt.Errorf("defaults: timeout cannot be negative")
	}
	if c.Defaults.Retries != nil && *c.Defaults.Retries < 0 {
		return fmt.Errorf("defaults: retries cannot be negative")
	}

	if c.SlackWebhook != "" {
		expanded, err := expandEnvVars(c.SlackWebhook)
		if err != nil {
			return fmt.Errorf("slack_webhook: %w", err)
		}
		c.SlackWebhook = expanded
	}

	return nil
}

// Targets converts the parsed sites into probe targets, preserving order.
func (c *Config) Targets() []probe.Target {
	out := make([]probe.Target, 0, len(c.Sites))
	for _, s := range c.Sites {
		t := probe.Target{
			URL:            s.URL,
			ExpectedStatus: s.ExpectedStatus,
			Keyword:        s.Keyword,
			Disabled:       s.Disabled,
			Retries:        s.Retries,
		}
		if s.Timeout != nil {
			t.Timeout = time.Duration(*s.Timeout) * time.Second
		}
		out = append(out, t)
	}
	return out
}

// ProbeDefaults resolves the defaults block into engine defaults. Range
// parsing falls back to the built-in set when nothing valid is configured.
func (c *Config) ProbeDefaults() probe.Defaults {
	d := probe.Defaults{
		Retries: c.Defaults.Retries,
		Ranges:  probe.ParseStatusRanges(c.Defaults.AllowStatusRanges),
	}
	if c.Defaults.Timeout != nil {
		d.Timeout = time.Duration(*c.Defaults.Timeout) * time.Second
	}
	return d
}

// Webhook returns the Slack webhook to notify, preferring the config entry
// over the SLACK_WEBHOOK_URL environment variable. Empty means don't notify.
func (c *Config) Webhook() string {
	if c.SlackWebhook != "" {
		return c.SlackWebhook
	}
	return os.Getenv("SLACK_WEBHOOK_URL")
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
// An unset variable without a default is an error.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		sub := envVarPattern.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}

		name := sub[1]
		hasDefault := sub[2] != ""
		defaultVal := ""
		if len(sub) > 3 {
			defaultVal = sub[3]
		}

		value, exists := os.LookupEnv(name)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", name)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}
