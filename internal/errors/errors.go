// Package errors provides standardized error types for the adcert CLI tool.
//
// The errors package defines domain-specific error types that enable
// structured error handling and consistent error messages throughout
// the application.
//
// # Error Types
//
// CertError is the primary error type, containing:
//   - Code: Categorizes the error (NOT_FOUND, DEVICE_REJECTED, etc.)
//   - Message: Human-readable error description
//   - Domain: The domain or credential name involved (if applicable)
//   - Detail: Raw collaborator/device output attached for diagnosis
//   - Err: The underlying wrapped error (if any)
//
// # Error Categories
//
//	NOT_FOUND         expected certificate material absent (recoverable,
//	                  triggers issuance)
//	MISSING_MATERIAL  install precondition violated (cert or key file
//	                  missing before staging)
//	DEVICE_REJECTED   the appliance refused a mutation; not retried
//	BIND_FAILED       a single endpoint bind failed; non-fatal to the plan
//	TRANSPORT         ssh/scp/acme.sh process unreachable; aborts the run
//	ACME              issuance or renewal failed
//	VALIDATION        input validation failed
//	CONFIG            configuration error
//
// # Usage
//
// Creating domain-specific errors:
//
//	return errors.NotFound("app.example.com")
//	return errors.DeviceRejected("bind ssl vserver", rawOutput)
//	return errors.Wrap(errors.ErrCodeConfig, "failed to load config", err)
//
// Use errors.Is for sentinel comparison and errors.As for type assertion:
//
//	if errors.Is(err, errors.ErrMaterialNotFound) {
//	    // no material on disk yet, issue first
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"         // Certificate material not found
	ErrCodeMissingMaterial ErrorCode = "MISSING_MATERIAL"  // Install precondition violated
	ErrCodeDeviceRejected  ErrorCode = "DEVICE_REJECTED"   // Appliance refused a mutation
	ErrCodeBindFailed      ErrorCode = "BIND_FAILED"       // Per-endpoint bind failure
	ErrCodeTransport       ErrorCode = "TRANSPORT"         // Collaborator process unreachable
	ErrCodeACME            ErrorCode = "ACME"              // Issuance/renewal failure
	ErrCodeAlreadyExists   ErrorCode = "ALREADY_EXISTS"    // Resource already exists
	ErrCodeValidation      ErrorCode = "VALIDATION"        // Input validation failed
	ErrCodeConfig          ErrorCode = "CONFIG"            // Configuration error
	ErrCodeInternal        ErrorCode = "INTERNAL"          // Internal/unexpected error
)

// CertError represents a structured error with context about the operation.
type CertError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Domain  string    // Domain or credential name (if applicable)
	Detail  string    // Raw device/collaborator output (if any)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *CertError) Error() string {
	switch {
	case e.Domain != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Domain, e.Message, e.Err)
	case e.Domain != "":
		return fmt.Sprintf("%s: %s", e.Domain, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

// Unwrap returns the underlying error for error chain traversal.
func (e *CertError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *CertError) Is(target error) bool {
	t, ok := target.(*CertError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common error scenarios.
// Use these with errors.Is() for error checking.
var (
	// ErrMaterialNotFound indicates no issued material exists for the domain.
	ErrMaterialNotFound = &CertError{Code: ErrCodeNotFound, Message: "certificate material not found"}

	// ErrMissingMaterial indicates a cert or key file is missing before install.
	ErrMissingMaterial = &CertError{Code: ErrCodeMissingMaterial, Message: "certificate or key file missing"}

	// ErrDeviceRejected indicates the appliance refused a mutation.
	ErrDeviceRejected = &CertError{Code: ErrCodeDeviceRejected, Message: "device rejected operation"}

	// ErrTransport indicates the ssh/scp/acme.sh process could not be run.
	ErrTransport = &CertError{Code: ErrCodeTransport, Message: "collaborator unreachable"}

	// ErrInvalidDomain indicates the domain name is not valid.
	ErrInvalidDomain = &CertError{Code: ErrCodeValidation, Message: "invalid domain"}

	// ErrConfigInvalid indicates the configuration is invalid or incomplete.
	ErrConfigInvalid = &CertError{Code: ErrCodeConfig, Message: "invalid configuration"}
)

// NotFound creates an error for a domain with no issued material.
func NotFound(domain string) error {
	return &CertError{
		Code:    ErrCodeNotFound,
		Message: "certificate material not found",
		Domain:  domain,
	}
}

// MissingMaterial creates an install precondition error.
func MissingMaterial(path string) error {
	return &CertError{
		Code:    ErrCodeMissingMaterial,
		Message: fmt.Sprintf("required file missing or empty: %s", path),
	}
}

// DeviceRejected creates an error for a refused device mutation.
// The raw device output is attached for operator diagnosis.
func DeviceRejected(op, detail string) error {
	return &CertError{
		Code:    ErrCodeDeviceRejected,
		Message: fmt.Sprintf("device rejected %s", op),
		Detail:  detail,
	}
}

// BindFailed creates a per-endpoint bind failure error.
func BindFailed(endpoint, detail string) error {
	return &CertError{
		Code:    ErrCodeBindFailed,
		Message: fmt.Sprintf("bind failed on %s", endpoint),
		Detail:  detail,
	}
}

// Transport creates an error for an unreachable collaborator process.
func Transport(msg string, err error) error {
	return &CertError{
		Code:    ErrCodeTransport,
		Message: msg,
		Err:     err,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &CertError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &CertError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapDomain creates an error with domain context and underlying error.
func WrapDomain(code ErrorCode, domain string, err error) error {
	return &CertError{
		Code:   code,
		Domain: domain,
		Err:    err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
