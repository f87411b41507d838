package types

import (
	"fmt"
	"go/token"
	"strings"

	"gopkg.in/yaml.v3"
)

// Issue represents a lint issue found in the code base.
type Issue struct {
	Rule     string
	Category string
	Filename string
	Message  string
	Note     string
	Start    token.Position
	End      token.Position
	Severity Severity

	// Function, Condition and Verdict are set for constant-condition issues.
	Function  string
	Condition string
	Verdict   string
}

// Severity is how loudly a rule reports.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

var severityNames = map[Severity]string{
	SeverityError:   "ERROR",
	SeverityWarning: "WARNING",
	SeverityInfo:    "INFO",
	SeverityOff:     "OFF",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseSeverity accepts a severity name in any case.
func ParseSeverity(s string) (Severity, error) {
	for sev, name := range severityNames {
		if strings.EqualFold(name, s) {
			return sev, nil
		}
	}
	return 0, fmt.Errorf("invalid severity %q", s)
}

func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	sev, err := ParseSeverity(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*s = sev
	return nil
}

// ConfigRule is the configuration of a single rule.
type ConfigRule struct {
	Severity Severity       `yaml:"severity"`
	Data     map[string]any `yaml:"data,omitempty"`
}

// Bool returns the boolean option key, or def when unset.
func (r ConfigRule) Bool(key string, def bool) (bool, error) {
	v, ok := r.Data[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return def, fmt.Errorf("option %q: expected bool, got %T", key, v)
	}
	return b, nil
}

// String returns the string option key, or def when unset.
func (r ConfigRule) String(key, def string) (string, error) {
	v, ok := r.Data[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return def, fmt.Errorf("option %q: expected string, got %T", key, v)
	}
	return s, nil
}
