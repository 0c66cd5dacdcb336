package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LibraryPath string // type and node_type .hcl files
	ScriptPath  string // edit script

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// RelayURL enables the socket.io change relay when set.
	RelayURL       string
	RelayNamespace string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScriptPath == "" {
		return nil, errors.New("ScriptPath is a required configuration field and cannot be empty")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, errors.New("HealthcheckPort must be between 0 and 65535")
	}
	if cfg.RelayNamespace != "" && cfg.RelayURL == "" {
		return nil, errors.New("RelayNamespace requires RelayURL")
	}
	return &cfg, nil
}
