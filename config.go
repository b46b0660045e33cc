package beatmap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/simonhull/beatmap/remote"
)

// Config is the file form of the loader options.
//
//	parallelism: 4
//	cache_size: 64
//	watch: true
//	probe_audio: true
//	remote:
//	  base_url: https://maps.example.com
//	  requests_per_minute: 30
//	  timeout: 45s
type Config struct {
	Parallelism     int          `yaml:"parallelism"`
	CacheSize       int          `yaml:"cache_size"`
	Watch           bool         `yaml:"watch"`
	ProbeAudio      bool         `yaml:"probe_audio"`
	RequireDuration bool         `yaml:"require_duration"`
	Strict          bool         `yaml:"strict"`
	IgnoreWarnings  bool         `yaml:"ignore_warnings"`
	Remote          RemoteConfig `yaml:"remote"`
}

// RemoteConfig configures the remote archive client.
type RemoteConfig struct {
	// BaseURL enables remote references when set.
	BaseURL           string        `yaml:"base_url"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Parallelism: 1,
		Remote: RemoteConfig{
			RequestsPerMinute: remote.DefaultRequestsPerMinute,
			Timeout:           remote.DefaultTimeout,
			UserAgent:         "beatmap/" + Version,
		},
	}
}

// ParseConfig decodes YAML over DefaultConfig. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads the YAML file at path, then applies BEATMAP_*
// environment overrides. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if cfg, err = ParseConfig(data); err != nil {
				return cfg, err
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BEATMAP_REMOTE_URL"); v != "" {
		c.Remote.BaseURL = v
	}
	for name, dst := range map[string]*int{
		"BEATMAP_PARALLELISM": &c.Parallelism,
		"BEATMAP_CACHE_SIZE":  &c.CacheSize,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must be >= 0")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0")
	}
	if c.Remote.RequestsPerMinute < 0 {
		return fmt.Errorf("remote.requests_per_minute must be >= 0")
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout must be >= 0")
	}
	return nil
}

// Options converts the configuration to loader options.
func (c Config) Options() []Option {
	opts := []Option{
		WithParallelism(c.Parallelism),
		WithCacheSize(c.CacheSize),
	}
	if c.Watch {
		opts = append(opts, WithWatch())
	}
	if c.ProbeAudio {
		opts = append(opts, WithAudioProbe(OggVorbisProber{}))
	}
	if c.RequireDuration {
		opts = append(opts, WithRequireDuration())
	}
	if c.Strict {
		opts = append(opts, WithStrictParsing())
	}
	if c.IgnoreWarnings {
		opts = append(opts, WithIgnoreWarnings())
	}
	if c.Remote.BaseURL != "" {
		opts = append(opts, WithFetcher(c.Remote.Client()))
	}
	return opts
}

// Client builds the remote client described by c.
func (c RemoteConfig) Client() *remote.Client {
	client := remote.NewClient(c.BaseURL)
	client.HTTPClient = &http.Client{Timeout: c.Timeout}
	client.Limiter = remote.NewLimiter(c.RequestsPerMinute)
	if c.UserAgent != "" {
		client.UserAgent = c.UserAgent
	}
	return client
}
