package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCertError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CertError
		expected string
	}{
		{
			name: "message only",
			err: &CertError{
				Code:    ErrCodeValidation,
				Message: "invalid input",
			},
			expected: "invalid input",
		},
		{
			name: "with domain",
			err: &CertError{
				Code:    ErrCodeNotFound,
				Message: "certificate material not found",
				Domain:  "app.example.com",
			},
			expected: "app.example.com: certificate material not found",
		},
		{
			name: "with underlying error",
			err: &CertError{
				Code:    ErrCodeConfig,
				Message: "failed to load",
				Err:     fmt.Errorf("file not found"),
			},
			expected: "failed to load: file not found",
		},
		{
			name: "with domain and underlying error",
			err: &CertError{
				Code:    ErrCodeACME,
				Message: "forced renewal failed",
				Domain:  "app.example.com",
				Err:     fmt.Errorf("exit status 1"),
			},
			expected: "app.example.com: forced renewal failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		match    bool
	}{
		{"not found matches", NotFound("app.example.com"), ErrMaterialNotFound, true},
		{"missing material matches", MissingMaterial("/tmp/x.key"), ErrMissingMaterial, true},
		{"device rejected matches", DeviceRejected("bind", "ERROR"), ErrDeviceRejected, true},
		{"transport matches", Transport("unreachable", fmt.Errorf("refused")), ErrTransport, true},
		{"codes must differ", NotFound("app.example.com"), ErrDeviceRejected, false},
		{"plain errors never match", fmt.Errorf("some error"), ErrMaterialNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.sentinel); got != tt.match {
				t.Errorf("errors.Is = %v, want %v", got, tt.match)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	underlying := fmt.Errorf("connection refused")
	err := Transport("device unreachable", underlying)

	if !errors.Is(err, underlying) {
		t.Error("wrapped error should match the underlying error")
	}
}

func TestAs(t *testing.T) {
	err := BindFailed("lb_web", "ERROR: Certificate does not exist")

	var certErr *CertError
	if !errors.As(err, &certErr) {
		t.Fatal("errors.As should extract *CertError")
	}
	if certErr.Code != ErrCodeBindFailed {
		t.Errorf("expected BIND_FAILED, got %s", certErr.Code)
	}
	if certErr.Detail == "" {
		t.Error("raw device output should be attached")
	}
}

func TestDetailAttached(t *testing.T) {
	err := DeviceRejected("add ssl certKey", "ERROR: Invalid certificate\n Done\n")

	var certErr *CertError
	if !errors.As(err, &certErr) {
		t.Fatal("errors.As should extract *CertError")
	}
	if certErr.Detail != "ERROR: Invalid certificate\n Done\n" {
		t.Errorf("unexpected detail: %q", certErr.Detail)
	}
}
