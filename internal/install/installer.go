// Package install stages certificate material onto the appliance and
// registers it as a named credential object.
package install

import (
	"fmt"
	"os"
	"regexp"

	"github.com/ksyq12/adcert/internal/device"
	"github.com/ksyq12/adcert/internal/errors"
	"github.com/ksyq12/adcert/internal/logger"
	"github.com/ksyq12/adcert/internal/output"
)

// Installer copies certificate and key material into the appliance
// certificate directory and registers it under a credential name
type Installer struct {
	session *device.Session
}

// NewInstaller creates an installer over the given session
func NewInstaller(session *device.Session) *Installer {
	return &Installer{session: session}
}

var credNameInvalid = regexp.MustCompile(`[^A-Za-z0-9]`)

// CredentialName derives a device-side credential name from a domain by
// replacing every non-alphanumeric character with an underscore
func CredentialName(domain string) string {
	return credNameInvalid.ReplaceAllString(domain, "_")
}

// Install stages certPath and keyPath on the appliance as
// <name>.cer / <name>.key, restricts the key file to owner access, and
// registers the credential object.
//
// Registration tries a create first and switches to an update when the
// device reports the name already exists. Staged files are not rolled
// back on a later failure.
func (i *Installer) Install(name, certPath, keyPath string) error {
	for _, path := range []string{certPath, keyPath} {
		if !readableFile(path) {
			return errors.MissingMaterial(path)
		}
	}

	remoteCert := name + ".cer"
	remoteKey := name + ".key"

	if err := i.session.CopyFile(certPath, remoteCert); err != nil {
		return err
	}
	if err := i.session.CopyFile(keyPath, remoteKey); err != nil {
		return err
	}

	// Private key readable by its owner only
	chmod := fmt.Sprintf("shell chmod 600 %s", i.session.RemotePath(remoteKey))
	if out, err := i.session.Run(chmod); err != nil {
		return err
	} else if device.ContainsError(out) {
		return errors.DeviceRejected("chmod on key file", out)
	}

	devCert := i.session.RemotePath(remoteCert)
	devKey := i.session.RemotePath(remoteKey)

	logger.Debug("registering certkey %s", name)
	err := i.session.AddCertKey(name, devCert, devKey)
	if err == nil {
		return nil
	}
	if !isAlreadyExists(err) {
		return err
	}

	output.Info("Credential %s already registered, updating instead...", name)
	return i.session.UpdateCertKey(name, devCert, devKey)
}

func isAlreadyExists(err error) bool {
	var certErr *errors.CertError
	if errors.As(err, &certErr) {
		return certErr.Code == errors.ErrCodeAlreadyExists
	}
	return false
}

// readableFile reports whether path is an existing, non-empty, readable file
func readableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
