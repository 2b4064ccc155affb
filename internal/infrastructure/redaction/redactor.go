// Package redaction scrubs secrets out of plugin stderr and compiler
// diagnostics before they reach a terminal or log sink. Everything
// that flows through here is a flat string — stderr pumps and
// diagnostic lines, never a structured document — so the package
// only needs to find and mask substrings, not walk a tree.
package redaction

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
)

// Redactor masks secrets in plain-text strings. Fields are read-only
// after construction, so one Redactor can be shared across the
// goroutines pumping a plugin's stdout and stderr.
type Redactor struct {
	patterns []*regexp.Regexp

	// gitleaksDetector backs ScrubString with gitleaks' built-in rule
	// set. Nil falls back to patterns only.
	gitleaksDetector *detect.Detector
}

// Config configures a Redactor.
type Config struct {
	// Patterns are extra regexes to redact, layered on top of the
	// built-in defaults (e.g. "INT-[A-Z0-9]{16}" for an internal token
	// format gitleaks doesn't know about).
	Patterns []string
	// DisableGitleaks turns off the gitleaks detector, leaving only
	// Patterns and the built-in defaults. Gitleaks is on by default.
	DisableGitleaks bool
}

// New builds a Redactor from cfg.
func New(cfg Config) (*Redactor, error) {
	r := &Redactor{
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)+len(defaultPatterns)),
	}

	if !cfg.DisableGitleaks {
		detector, err := newGitleaksDetector()
		if err == nil {
			r.gitleaksDetector = detector
		}
		// A gitleaks config error just means ScrubString falls back to
		// the regex patterns below; it isn't fatal to building a Redactor.
	}

	for _, p := range defaultPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile default pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile custom pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	return r, nil
}

// newGitleaksDetector builds a detector from gitleaks' default rule set.
func newGitleaksDetector() (*detect.Detector, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(config.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("failed to read gitleaks config: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gitleaks config: %w", err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("failed to translate gitleaks config: %w", err)
	}

	return detect.NewDetector(cfg), nil
}

// ScrubString replaces secrets in input with "[REDACTED]", checking
// the gitleaks detector first and then the regex patterns.
func (r *Redactor) ScrubString(input string) string {
	if input == "" {
		return ""
	}

	result := input

	if r.gitleaksDetector != nil {
		fragment := detect.Fragment{Raw: result}
		for _, finding := range r.gitleaksDetector.Detect(fragment) {
			result = strings.ReplaceAll(result, finding.Secret, "[REDACTED]")
		}
	}

	for _, re := range r.patterns {
		result = re.ReplaceAllString(result, "[REDACTED]")
	}

	return result
}

// defaultPatterns covers secrets worth matching even with the
// gitleaks detector disabled: an AWS key, a PEM private key header, a
// GitHub token, and a Slack token.
var defaultPatterns = []string{
	`\b((?:AKIA|ABIA|ACCA|ASIA)[0-9A-Z]{16})\b`,
	`-----BEGIN [A-Z ]+ PRIVATE KEY-----`,
	`gh[pousr]_[A-Za-z0-9_]{36,255}`,
	`xox[baprs]-([0-9a-zA-Z]{10,48})?`,
}
