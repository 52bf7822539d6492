package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the release host coordinates and output settings for n3h-pin.
type Config struct {
	// DownloadHost serves raw repository files and release assets.
	DownloadHost string `yaml:"download_host"`
	// APIHost serves the releases REST API.
	APIHost string `yaml:"api_host"`
	// Owner is the organization owning the pinned repository.
	Owner string `yaml:"owner"`
	// Repo is the repository whose release binaries are pinned.
	Repo string `yaml:"repo"`
	// OutputPath is where the pinning manifest JSON is written.
	OutputPath string `yaml:"output_path"`
	// Timeout bounds every HTTP request. Zero disables the timeout.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for n3h-pin settings.
	DefaultConfigFilename = "n3h-pin.yaml"

	// DefaultDownloadHost is the host serving raw files and release downloads.
	DefaultDownloadHost = "github.com"

	// DefaultAPIHost is the host serving the releases REST API.
	DefaultAPIHost = "api.github.com"

	// DefaultOwner is the organization publishing n3h releases.
	DefaultOwner = "holochain"

	// DefaultRepo is the repository publishing n3h releases.
	DefaultRepo = "n3h"

	// DefaultOutputPath is the default manifest location within the project tree.
	DefaultOutputPath = "config/n3h-pin.json"

	// DefaultTimeout is the default duration for HTTP requests.
	DefaultTimeout = 30 * time.Second
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errOutputPathRequired is returned when the manifest output path is missing.
	errOutputPathRequired = errors.New("output path must be provided")
)

// Default returns a configuration pointing at the public n3h release host.
func Default() *Config {
	return &Config{
		DownloadHost: DefaultDownloadHost,
		APIHost:      DefaultAPIHost,
		Owner:        DefaultOwner,
		Repo:         DefaultRepo,
		OutputPath:   DefaultOutputPath,
		Timeout:      DefaultTimeout,
	}
}

// Load reads configuration from the provided path and validates essential fields.
// A missing file at the default path is not an error: defaults apply.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the provided settings for required fields,
// filling in defaults where a field was left empty.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.DownloadHost == "" {
		cfg.DownloadHost = DefaultDownloadHost
	}

	if cfg.APIHost == "" {
		cfg.APIHost = DefaultAPIHost
	}

	if cfg.Owner == "" {
		cfg.Owner = DefaultOwner
	}

	if cfg.Repo == "" {
		cfg.Repo = DefaultRepo
	}

	if cfg.Timeout < 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.OutputPath == "" {
		return errOutputPathRequired
	}

	for _, host := range []string{cfg.DownloadHost, cfg.APIHost} {
		if _, err := url.ParseRequestURI(baseURL(host)); err != nil {
			return fmt.Errorf("invalid host %q: %w", host, err)
		}
	}

	return nil
}

// baseURL turns a bare host into an https base URL.
// Hosts carrying an explicit scheme are used verbatim.
func baseURL(host string) string {
	if strings.Contains(host, "://") {
		return host
	}

	return "https://" + host
}

// PackageDescriptorURL addresses the raw package.json of the tagged release.
func (c *Config) PackageDescriptorURL(tag string) string {
	return baseURL(c.DownloadHost) + "/" + path.Join(c.Owner, c.Repo, "raw", tag, "package.json")
}

// ReleaseDescriptorURL addresses the releases API document for the tag.
func (c *Config) ReleaseDescriptorURL(tag string) string {
	return baseURL(c.APIHost) + "/" + path.Join("repos", c.Owner, c.Repo, "releases", "tags", tag)
}

// ReleaseDownloadURL addresses one published asset of the tagged release.
func (c *Config) ReleaseDownloadURL(tag, asset string) string {
	return baseURL(c.DownloadHost) + "/" + path.Join(c.Owner, c.Repo, "releases", "download", tag, asset)
}
