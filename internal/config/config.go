// Package config reads the process' ambient configuration, sourced entirely
// from environment variables. Lox has no configuration files; the only
// ambient setting is a debugging trace toggle.
package config

import env "github.com/caarlos0/env/v6"

// Config holds the process-wide ambient settings.
type Config struct {
	// Trace, when true, makes the run command print a one-line trace of
	// each top-level statement to stderr before executing it.
	Trace bool `env:"LOX_TRACE" envDefault:"false"`
}

// Load parses the Config from the current environment. It never fails in
// practice (envDefault covers every field) but returns an error to satisfy
// env.Parse's contract and to surface a malformed LOX_TRACE value.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
