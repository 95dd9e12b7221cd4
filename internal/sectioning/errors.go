package sectioning

import "fmt"

// ClassificationFault represents a failure of the linguistic tagger on a
// single line. The segmenter absorbs it and classifies the line with the
// degraded-mode heuristics instead.
type ClassificationFault struct {
	Line    string
	Message string
	Cause   error
}

func (e *ClassificationFault) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("classification fault on %q: %s: %v", e.Line, e.Message, e.Cause)
	}
	return fmt.Sprintf("classification fault on %q: %s", e.Line, e.Message)
}

func (e *ClassificationFault) Unwrap() error {
	return e.Cause
}

// ConfigError represents invalid segmenter parameters or a malformed
// section title table
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("segmenter config error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("segmenter config error: %s", msg)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
