package device

import (
	"fmt"

	"github.com/ksyq12/adcert/internal/errors"
)

// AddCertKey registers a new credential object on the appliance.
// Returns ErrCodeAlreadyExists when the name is taken so the caller can
// fall back to UpdateCertKey.
func (s *Session) AddCertKey(name, certPath, keyPath string) error {
	cmd := fmt.Sprintf("add ssl certKey %s -cert %s -key %s", name, certPath, keyPath)
	out, err := s.Run(cmd)
	if err != nil {
		return err
	}
	if ContainsAlreadyExists(out) {
		return errors.Wrap(errors.ErrCodeAlreadyExists, fmt.Sprintf("certkey %s already exists", name), nil)
	}
	if ContainsError(out) {
		return errors.DeviceRejected("add ssl certKey", out)
	}
	return nil
}

// UpdateCertKey replaces the material of an existing credential object.
//
// The appliance's domain-consistency check is suppressed: a renewed
// certificate for the same logical service may legitimately carry a
// different SAN set than the originally registered object.
func (s *Session) UpdateCertKey(name, certPath, keyPath string) error {
	cmd := fmt.Sprintf("update ssl certKey %s -cert %s -key %s -noDomainCheck", name, certPath, keyPath)
	out, err := s.Run(cmd)
	if err != nil {
		return err
	}
	if ContainsError(out) {
		return errors.DeviceRejected("update ssl certKey", out)
	}
	return nil
}

// BindCertKey binds a credential to an endpoint. The device signals
// success with "Done" or by reporting no error marker.
func (s *Session) BindCertKey(endpoint, name string) error {
	cmd := fmt.Sprintf("bind ssl vserver %s -certkeyName %s", endpoint, name)
	out, err := s.Run(cmd)
	if err != nil {
		return err
	}
	if ContainsError(out) && !ContainsDone(out) {
		return errors.BindFailed(endpoint, out)
	}
	return nil
}

// UnbindCertKey removes a credential binding from an endpoint
func (s *Session) UnbindCertKey(endpoint, name string) error {
	cmd := fmt.Sprintf("unbind ssl vserver %s -certkeyName %s", endpoint, name)
	out, err := s.Run(cmd)
	if err != nil {
		return err
	}
	if ContainsError(out) && !ContainsDone(out) {
		return errors.DeviceRejected("unbind ssl vserver", out)
	}
	return nil
}

// ListCertKeys returns the registered credential objects with their
// expiry information
func (s *Session) ListCertKeys() ([]Credential, error) {
	out, err := s.Run("show ssl certKey")
	if err != nil {
		return nil, err
	}
	if ContainsError(out) {
		return nil, errors.DeviceRejected("show ssl certKey", out)
	}
	return parseCertKeyList(out), nil
}
