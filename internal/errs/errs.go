// Package errs implements the error taxonomy: a ClassifiedError names a
// Kind and carries a one-line remediation hint. Some operations also return
// plain wrapped errors, which the CLI classifies before printing. Grounded on
// codeNERD's own internal/transparency error classifier.
package errs

import (
	"fmt"
)

// Kind is the top-level error taxonomy surfaced from every operation.
type Kind int

const (
	// KindInputMissing: required file/dataset not present.
	KindInputMissing Kind = iota
	// KindInputMalformed: file exists but fails a schema/shape check.
	KindInputMalformed
	// KindConfigError: missing credential for the provider actually selected.
	KindConfigError
	// KindAPITransient: rate limit, overload, timeout, transport — caller may retry.
	KindAPITransient
	// KindAPIPermanent: auth failure, quota exhaustion, 4xx argument error.
	KindAPIPermanent
	// KindParseError: LLM returned an unparseable table; recorded, not fatal.
	KindParseError
	// KindIndexCorrupt: a vector index sidecar is missing or unreadable.
	KindIndexCorrupt
	// KindIndexIncompatible: stored descriptor disagrees with the current model.
	KindIndexIncompatible
	// KindCancelled: an external cancel signal interrupted the operation.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindInputMissing:
		return "input_missing"
	case KindInputMalformed:
		return "input_malformed"
	case KindConfigError:
		return "config_error"
	case KindAPITransient:
		return "api_transient"
	case KindAPIPermanent:
		return "api_permanent"
	case KindParseError:
		return "parse_error"
	case KindIndexCorrupt:
		return "index_corrupt"
	case KindIndexIncompatible:
		return "index_incompatible"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ClassifiedError wraps an underlying error with a Kind and a remediation
// hint a caller (human or agent) can act on directly. Not every operation
// returns this type; several return plain fmt.Errorf-wrapped errors.
type ClassifiedError struct {
	Kind        Kind
	Summary     string
	Remediation string
	Provider    string // set for API-related kinds; empty otherwise
	Err         error
}

func (e *ClassifiedError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s (provider=%s): %v", e.Kind, e.Summary, e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Summary, e.Err)
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// As reports whether err is a *ClassifiedError, for callers that want to
// branch on Kind without importing errors.As boilerplate at every call site.
func As(err error) (*ClassifiedError, bool) {
	ce, ok := err.(*ClassifiedError)
	return ce, ok
}

// InputMissing builds a KindInputMissing error naming the missing path and
// suggesting the ingestion step that would produce it.
func InputMissing(path string, err error) *ClassifiedError {
	return &ClassifiedError{
		Kind:        KindInputMissing,
		Summary:     fmt.Sprintf("required file not found: %s", path),
		Remediation: "run the ingestion step to produce this file before retrying",
		Err:         err,
	}
}

// InputMalformed builds a KindInputMalformed error naming the first
// offending field.
func InputMalformed(path, field string, err error) *ClassifiedError {
	return &ClassifiedError{
		Kind:        KindInputMalformed,
		Summary:     fmt.Sprintf("%s: malformed at field %q", path, field),
		Remediation: "fix or regenerate the file; it failed a schema/shape check",
		Err:         err,
	}
}

// ConfigMissing builds a KindConfigError naming the environment variable
// that must be set for the selected provider.
func ConfigMissing(envVar, provider string) *ClassifiedError {
	return &ClassifiedError{
		Kind:        KindConfigError,
		Summary:     fmt.Sprintf("missing credential for provider %s", provider),
		Remediation: fmt.Sprintf("set the %s environment variable", envVar),
		Provider:    provider,
		Err:         fmt.Errorf("%s not set", envVar),
	}
}

// Parse builds a KindParseError. Evaluation of the surrounding batch
// continues; the caller records this as a note rather than failing.
func Parse(context string, err error) *ClassifiedError {
	return &ClassifiedError{
		Kind:        KindParseError,
		Summary:     fmt.Sprintf("could not parse LLM reply: %s", context),
		Remediation: "inspect the raw reply; the model likely deviated from the requested table format",
		Err:         err,
	}
}

// IndexCorrupt builds a KindIndexCorrupt error for a sidecar that is
// missing or fails to decode. A rebuild is required.
func IndexCorrupt(base string, err error) *ClassifiedError {
	return &ClassifiedError{
		Kind:        KindIndexCorrupt,
		Summary:     fmt.Sprintf("vector index sidecars at %s are missing or unreadable", base),
		Remediation: "rebuild the index",
		Err:         err,
	}
}

// IndexIncompatible builds a KindIndexIncompatible error for a dimension
// mismatch between the stored descriptor and the current embedding model.
func IndexIncompatible(base string, storedDim, currentDim int) *ClassifiedError {
	return &ClassifiedError{
		Kind:        KindIndexIncompatible,
		Summary:     fmt.Sprintf("index at %s has dimension %d, current model produces %d", base, storedDim, currentDim),
		Remediation: "rebuild the index with the current embedding model",
		Err:         fmt.Errorf("dimension mismatch: stored=%d current=%d", storedDim, currentDim),
	}
}

// Cancelled builds a KindCancelled error for an operation aborted by an
// external cancel signal.
func Cancelled(op string) *ClassifiedError {
	return &ClassifiedError{
		Kind:        KindCancelled,
		Summary:     fmt.Sprintf("%s was cancelled", op),
		Remediation: "retry the operation; no partial output was kept",
		Err:         fmt.Errorf("cancelled"),
	}
}
