package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the serve-mode configuration.
type Config struct {
	Provider  string          `yaml:"provider"`
	Timeout   string          `yaml:"timeout"`
	UserAgent string          `yaml:"user_agent"`
	CAFile    string          `yaml:"ca_file"`
	DNS       DNSConfig       `yaml:"dns"`
	HTTP      HTTPConfig      `yaml:"http"`
	Overrides OverridesConfig `yaml:"overrides"`
	Log       LogConfig       `yaml:"log"`
}

// DNSConfig holds listener settings for the plain DNS front end. An
// empty listen address disables it.
type DNSConfig struct {
	Listen     string `yaml:"listen"`
	UDPEnabled bool   `yaml:"udp_enabled"`
	TCPEnabled bool   `yaml:"tcp_enabled"`
}

// HTTPConfig holds listener settings for the HTTP front end. An empty
// listen address disables it.
type HTTPConfig struct {
	Listen    string `yaml:"listen"`
	CertFile  string `yaml:"cert_file"`
	KeyFile   string `yaml:"key_file"`
	AuthToken string `yaml:"auth_token"`
}

// OverridesConfig points at the local override records file.
type OverridesConfig struct {
	Path       string `yaml:"path"`
	Watch      bool   `yaml:"watch"`
	DefaultTTL uint32 `yaml:"default_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Provider: "google",
		Timeout:  "5s",
		DNS: DNSConfig{
			Listen:     ":5353",
			UDPEnabled: true,
			TCPEnabled: true,
		},
		HTTP: HTTPConfig{
			Listen: ":8080",
		},
		Overrides: OverridesConfig{
			Watch:      true,
			DefaultTTL: 300,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// loadConfig reads a YAML config file on top of the defaults, so omitted
// fields keep their default values.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return config, nil
}

// validateConfig validates the configuration before any servers start.
func validateConfig(config *Config) error {
	if config.Provider == "" {
		return fmt.Errorf("provider is not configured")
	}
	if _, err := config.UpstreamTimeout(); err != nil {
		return err
	}

	if config.DNS.Listen == "" && config.HTTP.Listen == "" {
		return fmt.Errorf("neither dns.listen nor http.listen is configured")
	}
	if config.DNS.Listen != "" && !config.DNS.UDPEnabled && !config.DNS.TCPEnabled {
		return fmt.Errorf("dns.listen is configured but both transports are disabled")
	}

	if (config.HTTP.CertFile == "") != (config.HTTP.KeyFile == "") {
		return fmt.Errorf("http.cert_file and http.key_file must be set together")
	}

	return nil
}

// UpstreamTimeout parses the timeout field. Empty means the default of 5s.
func (c *Config) UpstreamTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 5 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", c.Timeout)
	}
	return d, nil
}

// authToken resolves the HTTP auth token, falling back to the
// DOHDIG_AUTH_TOKEN environment variable so the token can stay out of
// the config file.
func (c *Config) authToken() string {
	if c.HTTP.AuthToken != "" {
		return c.HTTP.AuthToken
	}
	return os.Getenv("DOHDIG_AUTH_TOKEN")
}
