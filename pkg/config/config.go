// Package config loads the feedsync YAML configuration.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/lerenn/feedsync/pkg/version"
)

// GitAuthor identifies the committer used for update commits.
type GitAuthor struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

// GitConfig contains git-related configuration.
type GitConfig struct {
	Author GitAuthor `mapstructure:"author"`
}

// Upstream identifies the GitHub repository release tags are fetched from.
type Upstream struct {
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
}

// Checksums configures how release artifact checksums are obtained.
// Mode "manifest" downloads a published SHASUMS256.txt-style manifest and
// picks the configured target filenames; mode "download" streams each
// artifact URL and hashes it locally. URLs and filenames may contain a
// "{{ version }}" placeholder.
type Checksums struct {
	Mode        string            `mapstructure:"mode"`
	ManifestURL string            `mapstructure:"manifest_url"`
	Artifacts   []string          `mapstructure:"artifacts"`
	Targets     map[string]string `mapstructure:"targets"`
}

// Ecosystem configures one upstream and the feedstocks tracking it.
type Ecosystem struct {
	Name              string    `mapstructure:"name"`
	Upstream          Upstream  `mapstructure:"upstream"`
	TagPrefix         string    `mapstructure:"tag_prefix"`
	SeriesParts       int       `mapstructure:"series_parts"`
	IncludePrerelease bool      `mapstructure:"include_prerelease"`
	Series            []string  `mapstructure:"series"`
	Feedstocks        []string  `mapstructure:"feedstocks"`
	PRTitle           string    `mapstructure:"pr_title"`
	Automerge         bool      `mapstructure:"automerge"`
	Checksums         Checksums `mapstructure:"checksums"`
}

// PinningSource locates the conda-forge global pinning file.
type PinningSource struct {
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
	Path  string `mapstructure:"path"`
	Ref   string `mapstructure:"ref"`
}

// Migration configures the pinning migration generator.
type Migration struct {
	Pinning     PinningSource `mapstructure:"pinning"`
	Packages    []string      `mapstructure:"packages"`
	BuildNumber int           `mapstructure:"build_number"`
	Automerge   bool          `mapstructure:"automerge"`
}

// Config is the root feedsync configuration.
type Config struct {
	ForkOwner  string      `mapstructure:"fork_owner"`
	Workdir    string      `mapstructure:"workdir"`
	Git        GitConfig   `mapstructure:"git"`
	Ecosystems []Ecosystem `mapstructure:"ecosystems"`
	Migration  Migration   `mapstructure:"migration"`
}

// Scheme returns the tag scheme for this ecosystem.
func (e Ecosystem) Scheme() version.Scheme {
	return version.Scheme{
		Prefix:            e.TagPrefix,
		SeriesParts:       e.SeriesParts,
		IncludePrerelease: e.IncludePrerelease,
	}
}

// RequestedSeries returns the configured series as resolver keys.
func (e Ecosystem) RequestedSeries() []version.Series {
	series := make([]version.Series, 0, len(e.Series))
	for _, s := range e.Series {
		series = append(series, version.Series(s))
	}
	return series
}

// Load reads and validates the configuration file.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	var config Config

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration for missing required fields.
func (c *Config) Validate() error {
	if len(c.Ecosystems) == 0 {
		return fmt.Errorf("no ecosystems configured")
	}
	for _, eco := range c.Ecosystems {
		if eco.Name == "" {
			return fmt.Errorf("ecosystem without a name")
		}
		if eco.Upstream.Owner == "" || eco.Upstream.Repo == "" {
			return fmt.Errorf("ecosystem %s: upstream owner/repo required", eco.Name)
		}
		if len(eco.Series) == 0 {
			return fmt.Errorf("ecosystem %s: at least one series required", eco.Name)
		}
		if eco.SeriesParts < 1 || eco.SeriesParts > 2 {
			return fmt.Errorf("ecosystem %s: series_parts must be 1 or 2", eco.Name)
		}
		if len(eco.Feedstocks) == 0 {
			return fmt.Errorf("ecosystem %s: at least one feedstock required", eco.Name)
		}
	}
	return nil
}
