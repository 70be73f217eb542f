package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScriptPath    string // lua script
	ManifestsPath string // extra binding manifests, on top of the embedded ones

	Namespace string
	Entry     string
	Frames    int
	// Clicks are simulated clicks by label or id, one per frame starting
	// with the second frame.
	Clicks      []string
	KeepGoing   bool
	Interactive bool
	FrameSink   string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScriptPath == "" {
		return nil, errors.New("ScriptPath is a required configuration field and cannot be empty")
	}
	if cfg.Frames < 0 {
		return nil, fmt.Errorf("frames must not be negative, got %d", cfg.Frames)
	}
	if cfg.Frames == 0 {
		cfg.Frames = 1
	}
	// The first frame shows the initial state; each click needs a frame of
	// its own after that.
	if need := len(cfg.Clicks) + 1; cfg.Frames < need {
		cfg.Frames = need
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
