// Package config defines the startup options of the stub server and loads
// them from YAML or JSON option files.
package config

import (
	"errors"
	"fmt"
)

// Options holds every startup option. Flags override option-file values;
// the zero value plus Default() covers the rest.
type Options struct {
	// Port is the HTTP listen port. 0 picks a free port.
	Port int `json:"port" yaml:"port"`

	// Files, Dirs and URLs are the pact sources to load, in order.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
	Dirs  []string `json:"dirs,omitempty" yaml:"dirs,omitempty"`
	URLs  []string `json:"urls,omitempty" yaml:"urls,omitempty"`

	// Extension filters directory scans (without the dot).
	Extension string `json:"extension,omitempty" yaml:"extension,omitempty"`

	// AutoCORS enables the synthetic preflight response for unmatched
	// OPTIONS requests.
	AutoCORS bool `json:"cors" yaml:"cors"`

	// ProviderState is a regular expression filtering interactions by
	// provider state name.
	ProviderState string `json:"providerState,omitempty" yaml:"providerState,omitempty"`

	// ProviderStateHeaderName names the request header that overrides
	// ProviderState per request.
	ProviderStateHeaderName string `json:"providerStateHeaderName,omitempty" yaml:"providerStateHeaderName,omitempty"`

	// VerboseMismatchBodies includes full payload text in body mismatch
	// diagnostics.
	VerboseMismatchBodies bool `json:"verboseMismatchBodies" yaml:"verboseMismatchBodies"`

	// LogLevel and LogFormat configure the operational logger.
	LogLevel  string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat string `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
}

// Default returns the options used when nothing is configured.
func Default() *Options {
	return &Options{
		Port:      8080,
		Extension: "json",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Validate checks option consistency before startup.
func (o *Options) Validate() error {
	if o.Port < 0 || o.Port > 65535 {
		return fmt.Errorf("port %d is out of range", o.Port)
	}
	if len(o.Files) == 0 && len(o.Dirs) == 0 && len(o.URLs) == 0 {
		return errors.New("no pact sources configured: provide at least one file, dir, or url")
	}
	return nil
}
