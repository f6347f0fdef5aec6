// Package config defines the configuration types and defaults for msgexpect.
//
// The file layout follows RuboCop so an existing .rubocop.yml can be reused:
//
//	AllCops:
//	  Exclude: ["vendor/**/*"]
//	RSpec/MessageExpectation:
//	  Enabled: true
//	  EnforcedStyle: have_received
//	  Include: ["*_spec.rb", "spec/**/*.rb"]
package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/msgexpect/internal/model"
)

// ErrInvalidStyle is returned when EnforcedStyle names an unsupported style.
var ErrInvalidStyle = errors.New("invalid EnforcedStyle")

// Config is the top-level configuration.
type Config struct {
	AllCops            AllCopsConfig `yaml:"AllCops"`
	MessageExpectation CopConfig     `yaml:"RSpec/MessageExpectation"`
}

// AllCopsConfig holds settings shared by every cop.
type AllCopsConfig struct {
	Exclude []string `yaml:"Exclude"`
}

// CopConfig holds the settings of the MessageExpectation cop.
type CopConfig struct {
	Enabled       bool          `yaml:"Enabled"`
	EnforcedStyle EnforcedStyle `yaml:"EnforcedStyle"`
	Include       []string      `yaml:"Include"`
	Exclude       []string      `yaml:"Exclude"`
}

// EnforcedStyle is a model.Style validated while decoding.
type EnforcedStyle model.Style

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *EnforcedStyle) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	style, err := ParseStyle(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*s = EnforcedStyle(style)
	return nil
}

// ParseStyle validates a style name from configuration or flags.
func ParseStyle(raw string) (model.Style, error) {
	style, err := model.ParseStyle(raw)
	if err != nil {
		return model.StyleUnset, fmt.Errorf("%w: %q (supported: %s, %s)",
			ErrInvalidStyle, raw, model.StyleHaveReceived, model.StyleReceive)
	}
	return style, nil
}

// Style returns the configured style, or model.StyleUnset.
func (c *CopConfig) Style() model.Style {
	return model.Style(c.EnforcedStyle)
}

// Excludes returns the cop's exclusions followed by the global ones.
func (c *Config) Excludes() []string {
	out := make([]string, 0, len(c.AllCops.Exclude)+len(c.MessageExpectation.Exclude))
	out = append(out, c.AllCops.Exclude...)
	return append(out, c.MessageExpectation.Exclude...)
}

// DefaultConfig returns a Config with every default applied. No style is
// enforced by default: an unconfigured run only detects the style in use.
func DefaultConfig() *Config {
	return &Config{
		AllCops: AllCopsConfig{
			Exclude: []string{"vendor/**/*", "node_modules/**/*"},
		},
		MessageExpectation: CopConfig{
			Enabled: true,
			Include: []string{"*_spec.rb", "spec/**/*.rb"},
		},
	}
}
