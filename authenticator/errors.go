package authenticator

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates a strategy was constructed with a missing or invalid option
	ErrConfiguration = errors.New("invalid strategy configuration")

	// ErrMissingCode indicates the callback request carried no authorization code
	ErrMissingCode = errors.New("missing code")

	// ErrAuthorizationDenied indicates the authorization server redirected back with an error
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrTransport indicates the token endpoint could not be reached
	ErrTransport = errors.New("token endpoint unreachable")

	// ErrTimeout indicates the token endpoint did not answer in time
	ErrTimeout = errors.New("token endpoint timed out")

	// ErrProviderRejection indicates the token endpoint returned a structured error
	ErrProviderRejection = errors.New("token request rejected by provider")

	// ErrInvalidCode indicates the provider considered the code invalid, expired or used
	ErrInvalidCode = errors.New("invalid authorization code")

	// ErrMalformedResponse indicates the token endpoint response could not be parsed
	ErrMalformedResponse = errors.New("malformed token response")

	// ErrNoTokenIssued indicates the response parsed but carried no access token
	ErrNoTokenIssued = errors.New("no token retrieved")

	// ErrVerifierFault indicates the verify callback panicked
	ErrVerifierFault = errors.New("verify callback fault")
)

// ConfigError names the option that failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s %s", ErrConfiguration, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s is required", ErrConfiguration, e.Field)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// TransportError wraps a network, TLS or deadline failure talking to the token endpoint.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("token request %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports ErrTransport for every transport failure and ErrTimeout when a deadline fired.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case ErrTimeout:
		return e.Timeout()
	}
	return false
}

// Timeout reports whether the failure was caused by a deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(e.Err, &te) && te.Timeout()
}

// ProviderError is an error document returned by the token endpoint
type ProviderError struct {
	Code        string // OAuth error code (e.g. "invalid_grant")
	Description string // Human-readable error description
	URI         string // Optional URI with error details
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("provider error %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("provider error %s", e.Code)
}

// Is classifies the provider error code.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrProviderRejection:
		return true
	case ErrInvalidCode:
		return e.Code == "invalid_grant" || e.Code == "invalid_request"
	}
	return false
}

// Message is the text reported to the user for this rejection.
func (e *ProviderError) Message() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

// VerifierFault carries the value recovered from a panicking verify callback.
type VerifierFault struct {
	Value any
}

func (e *VerifierFault) Error() string {
	return fmt.Sprintf("%s: %v", ErrVerifierFault, e.Value)
}

func (e *VerifierFault) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func (e *VerifierFault) Is(target error) bool {
	return target == ErrVerifierFault
}
