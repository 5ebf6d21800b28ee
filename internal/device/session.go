package device

import (
	"fmt"
	"path"
	"strings"

	"github.com/ksyq12/adcert/internal/config"
	"github.com/ksyq12/adcert/internal/errors"
	"github.com/ksyq12/adcert/internal/executor"
	"github.com/ksyq12/adcert/internal/logger"
)

// Session holds the connection settings for one appliance and runs a
// single CLI command per invocation. Binding state is never cached here:
// every query goes to the appliance.
type Session struct {
	Address string
	User    string
	SSHKey  string
	CertDir string

	exec executor.CommandExecutor
}

// NewSession creates a session from the device configuration
func NewSession(cfg config.Device) *Session {
	return NewSessionWithExecutor(cfg, executor.NewSystemExecutor())
}

// NewSessionWithExecutor creates a session with a custom executor (for testing)
func NewSessionWithExecutor(cfg config.Device, exec executor.CommandExecutor) *Session {
	return &Session{
		Address: cfg.Address,
		User:    cfg.User,
		SSHKey:  cfg.SSHKey,
		CertDir: cfg.CertDir,
		exec:    exec,
	}
}

// target returns the user@address ssh destination
func (s *Session) target() string {
	return s.User + "@" + s.Address
}

// sshArgs builds the ssh argument list for one appliance command
func (s *Session) sshArgs(command string) []string {
	args := []string{
		"-o", "BatchMode=yes",
		"-o", "StrictHostKeyChecking=no",
	}
	if s.SSHKey != "" {
		args = append(args, "-i", s.SSHKey)
	}
	return append(args, s.target(), command)
}

// Run executes one appliance CLI command and returns its textual output.
//
// The appliance reports errors in its output text (with a non-zero exit
// status on top), so output is returned for triage even when ssh exits
// non-zero. Only a failure with no output at all is treated as a
// transport problem.
func (s *Session) Run(command string) (string, error) {
	logger.Debug("device command: %s", command)

	out, err := s.exec.Execute("ssh", s.sshArgs(command)...)
	output := string(out)
	if err != nil && strings.TrimSpace(output) == "" {
		return "", errors.Transport(fmt.Sprintf("device command failed: %s", command), err)
	}
	logger.Debug("device output (%d bytes)", len(output))
	return output, nil
}

// CopyFile stages a local file into the appliance certificate directory
// under the given remote name
func (s *Session) CopyFile(localPath, remoteName string) error {
	remote := path.Join(s.CertDir, remoteName)
	args := []string{
		"-o", "BatchMode=yes",
		"-o", "StrictHostKeyChecking=no",
	}
	if s.SSHKey != "" {
		args = append(args, "-i", s.SSHKey)
	}
	args = append(args, localPath, s.target()+":"+remote)

	logger.Debug("staging %s -> %s", localPath, remote)
	out, err := s.exec.Execute("scp", args...)
	if err != nil {
		return errors.Transport(fmt.Sprintf("failed to copy %s to device", localPath), fmt.Errorf("%v: %s", err, strings.TrimSpace(string(out))))
	}
	return nil
}

// RemotePath returns the path a staged file has on the appliance
func (s *Session) RemotePath(remoteName string) string {
	return path.Join(s.CertDir, remoteName)
}

// Ping verifies the appliance is reachable and the CLI responds.
// Used as a preflight before the first mutating command of a run.
func (s *Session) Ping() error {
	out, err := s.Run("show ns version")
	if err != nil {
		return err
	}
	if ContainsError(out) {
		return errors.DeviceRejected("show ns version", out)
	}
	return nil
}

// SaveConfig persists the running appliance configuration
func (s *Session) SaveConfig() error {
	out, err := s.Run("save ns config")
	if err != nil {
		return err
	}
	if ContainsError(out) {
		return errors.DeviceRejected("save ns config", out)
	}
	return nil
}
