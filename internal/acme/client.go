package acme

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ksyq12/adcert/internal/errors"
	"github.com/ksyq12/adcert/internal/executor"
	"github.com/ksyq12/adcert/internal/logger"
)

// Request describes one certificate to issue. Immutable once issuance
// begins.
type Request struct {
	Domain    string   // primary domain
	SANs      []string // additional hostnames, deduplicated and trimmed
	KeyLength string   // e.g. ec-256, 4096
}

// NewRequest builds a request with the SAN list deduplicated, trimmed
// and the primary domain removed from it
func NewRequest(domain string, sans []string, keyLength string) Request {
	seen := map[string]bool{domain: true}
	var cleaned []string
	for _, san := range sans {
		san = strings.TrimSpace(san)
		if san == "" || seen[san] {
			continue
		}
		seen[san] = true
		cleaned = append(cleaned, san)
	}
	return Request{Domain: domain, SANs: cleaned, KeyLength: keyLength}
}

// ECKey reports whether the requested key strength is EC-derived
func (r Request) ECKey() bool {
	return strings.HasPrefix(r.KeyLength, "ec-")
}

// ChallengeRecord is one DNS TXT record the operator must publish before
// issuance can be finalized
type ChallengeRecord struct {
	Host  string `json:"host"`  // e.g. _acme-challenge.app.example.com
	Value string `json:"value"` // the TXT record content
}

// manualModeFlag acknowledges that DNS records are maintained by hand and
// no automatic propagation check will happen
const manualModeFlag = "--yes-I-know-dns-manual-mode-enough-go-ahead-please"

// Client invokes the external acme.sh install. All protocol work
// (account keys, orders, finalization) lives there; this client only
// builds command lines and triages output.
type Client struct {
	script string // explicit script path; PATH lookup when empty
	exec   executor.CommandExecutor
}

// NewClient creates a client for the given acme.sh location.
// An empty script means acme.sh is looked up on PATH.
func NewClient(script string) *Client {
	return NewClientWithExecutor(script, executor.NewSystemExecutor())
}

// NewClientWithExecutor creates a client with a custom executor (for testing)
func NewClientWithExecutor(script string, exec executor.CommandExecutor) *Client {
	return &Client{script: script, exec: exec}
}

// scriptPath resolves the acme.sh executable
func (c *Client) scriptPath() (string, error) {
	if c.script != "" {
		return c.script, nil
	}
	path, err := c.exec.LookPath("acme.sh")
	if err != nil {
		return "", errors.Transport("acme.sh is not installed and acme.script is not configured", err)
	}
	return path, nil
}

// Issue starts DNS-01 issuance in manual mode and returns the raw
// collaborator output.
//
// acme.sh exits non-zero in manual mode when it stops to wait for the
// operator to publish TXT records, so the exit status is not a failure
// signal here; only a run with no output is. The caller decides, from
// the parsed challenge lines, whether a manual step is pending.
func (c *Client) Issue(req Request) (string, error) {
	script, err := c.scriptPath()
	if err != nil {
		return "", err
	}

	args := []string{"--issue", "--dns", "-d", req.Domain}
	for _, san := range req.SANs {
		args = append(args, "-d", san)
	}
	if req.KeyLength != "" {
		args = append(args, "--keylength", req.KeyLength)
	}
	args = append(args, manualModeFlag)

	logger.Debug("acme.sh issue: %s %s", script, strings.Join(args, " "))
	out, err := c.exec.Execute(script, args...)
	output := string(out)
	if err != nil && strings.TrimSpace(output) == "" {
		return "", errors.Transport("acme.sh issue produced no output", err)
	}
	return output, nil
}

// ForceRenew finalizes issuance after the TXT records are in place.
// The collaborator's exit status is the success signal for this path.
func (c *Client) ForceRenew(domain string, ec bool) error {
	script, err := c.scriptPath()
	if err != nil {
		return err
	}

	args := []string{"--renew", "-d", domain, "--force"}
	if ec {
		args = append(args, "--ecc")
	}
	args = append(args, manualModeFlag)

	logger.Debug("acme.sh renew: %s %s", script, strings.Join(args, " "))
	out, err := c.exec.Execute(script, args...)
	if err != nil {
		return &errors.CertError{
			Code:    errors.ErrCodeACME,
			Message: "forced renewal failed",
			Domain:  domain,
			Detail:  strings.TrimSpace(string(out)),
			Err:     err,
		}
	}
	return nil
}

// Challenge listing lines as acme.sh prints them:
//
//	[Mon Jan 5 10:11:12 UTC 2026] Domain: '_acme-challenge.app.example.com'
//	[Mon Jan 5 10:11:12 UTC 2026] TXT value: 'tCmX2...'
var (
	challengeDomainLine = regexp.MustCompile(`Domain:\s*'?([^'\s]+)'?`)
	challengeValueLine  = regexp.MustCompile(`TXT value:\s*'?([^'\s]+)'?`)
)

// ParseChallenges extracts the DNS TXT records the operator must publish
// from raw issue output. An empty result means the collaborator needed
// no manual step.
func ParseChallenges(out string) []ChallengeRecord {
	var records []ChallengeRecord
	var pending string
	for _, line := range strings.Split(out, "\n") {
		if m := challengeDomainLine.FindStringSubmatch(line); m != nil {
			pending = m[1]
			continue
		}
		if m := challengeValueLine.FindStringSubmatch(line); m != nil && pending != "" {
			records = append(records, ChallengeRecord{Host: pending, Value: m[1]})
			pending = ""
		}
	}
	return records
}

// captureOutput writes raw issuance output to a temporary log file for
// operator diagnosis and returns its path plus a cleanup function. The
// artifact is scoped to one issuance attempt and removed unconditionally
// afterwards so stale challenge lines cannot leak into a later run's
// detection.
func captureOutput(out string) (string, func(), error) {
	tmp, err := os.CreateTemp("", "adcert-issue-*.log")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create issuance log: %w", err)
	}
	name := tmp.Name()
	cleanup := func() { _ = os.Remove(name) }

	if _, err := tmp.WriteString(out); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write issuance log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close issuance log: %w", err)
	}
	return name, cleanup, nil
}
