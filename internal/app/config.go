package app

import (
	"errors"

	"github.com/vk/dagselect/internal/manifest"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string

	Select        []string
	Exclude       []string
	SelectorName  string
	SelectorsFile string
	ResourceTypes []manifest.ResourceKind
	Greedy        bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it ready for use.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	if cfg.SelectorName != "" && (len(cfg.Select) > 0 || len(cfg.Exclude) > 0) {
		return nil, errors.New("a saved selector cannot be combined with inline selection criteria")
	}
	if cfg.SelectorName != "" && cfg.SelectorsFile == "" {
		return nil, errors.New("a saved selector requires a selectors file")
	}
	return &cfg, nil
}
