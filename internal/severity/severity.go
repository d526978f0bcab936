// Package severity provides the severity levels a rule can be configured with.
//
// The severity of a finding is never chosen by the rule that reports it; the
// linter stamps it from configuration:
//   - SeverityError: the finding fails the run
//   - SeverityWarning: the finding is reported but does not fail the run
//   - SeverityOff: the rule is disabled and never instantiated
package severity

import "fmt"

// Severity indicates how a rule's findings are treated.
type Severity int

const (
	// SeverityError indicates a finding that makes the document invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates a best-practice violation or recommendation.
	SeverityWarning

	// SeverityOff disables a rule.
	SeverityOff
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityOff:
		return "off"
	default:
		return "unknown"
	}
}

// Enabled reports whether findings of this severity are emitted.
func (s Severity) Enabled() bool {
	return s == SeverityError || s == SeverityWarning
}

// Parse converts a configuration value into a Severity.
// "warn" is accepted as an alias of "warning".
func Parse(s string) (Severity, error) {
	switch s {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "off":
		return SeverityOff, nil
	}
	return SeverityOff, fmt.Errorf("severity: invalid value %q (expected error, warning, or off)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
