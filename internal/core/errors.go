package core

import "fmt"

// ValidationError reports bad or missing caller input.
// It is always detected before any network call is made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports credentials that are required for the requested
// operation but were not configured for the process.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

func Configurationf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// AuthError reports a rejection from the upstream identity provider.
// Status and Body carry the provider's response for remediation hints.
type AuthError struct {
	Msg    string
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Msg, e.Status, e.Body)
	}
	return e.Msg
}

// ProviderError reports a rejection from the upstream meeting API.
type ProviderError struct {
	Msg    string
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Msg, e.Status, e.Body)
	}
	return e.Msg
}

// PersistError reports that the storage layer exhausted all fallback
// attempts. Last holds the final underlying failure.
type PersistError struct {
	Msg  string
	Last error
}

func (e *PersistError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Last.Error())
	}
	return e.Msg
}

func (e *PersistError) Unwrap() error {
	return e.Last
}
