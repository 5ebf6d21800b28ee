package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ksyq12/adcert/internal/executor"
)

const manualChallengeOutput = `[Mon Jan 5 10:11:12 UTC 2026] Using CA: https://acme-v02.api.letsencrypt.org/directory
[Mon Jan 5 10:11:12 UTC 2026] Creating domain key
[Mon Jan 5 10:11:13 UTC 2026] Add the following TXT record:
[Mon Jan 5 10:11:13 UTC 2026] Domain: '_acme-challenge.app.example.com'
[Mon Jan 5 10:11:13 UTC 2026] TXT value: 'tCmX2rDdSQcsBrjEZFS0FUnnfZ9C-x2nMdZ2y9dGCK0'
[Mon Jan 5 10:11:13 UTC 2026] Please be aware that you prepend _acme-challenge. before your domain
[Mon Jan 5 10:11:13 UTC 2026] so the resulting subdomain will be: _acme-challenge.app.example.com
`

const renewDoneOutput = `[Mon Jan 5 10:20:01 UTC 2026] Renew: 'app.example.com'
[Mon Jan 5 10:20:05 UTC 2026] Verify finished, start to sign.
[Mon Jan 5 10:20:07 UTC 2026] Cert success.
`

// writeIssuedMaterial populates an acme.sh-style storage directory
func writeIssuedMaterial(t *testing.T, root, domain string, ec bool) {
	t.Helper()
	dir := domain
	if ec {
		dir += "_ecc"
	}
	home := filepath.Join(root, dir)
	if err := os.MkdirAll(home, 0755); err != nil {
		t.Fatalf("failed to create storage dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, "fullchain.cer"), []byte("chain"), 0644); err != nil {
		t.Fatalf("failed to write chain: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, domain+".key"), []byte("key"), 0600); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}
}

// acmeMock scripts the collaborator: issue output, then renew behavior
func acmeMock(issueOut string, issueErr error, renewOut string, renewErr error) *executor.MockExecutor {
	return &executor.MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			for _, a := range args {
				if a == "--renew" {
					return []byte(renewOut), renewErr
				}
			}
			return []byte(issueOut), issueErr
		},
	}
}

func TestRunIssue(t *testing.T) {
	t.Run("manual challenge flow", func(t *testing.T) {
		root := t.TempDir()
		writeIssuedMaterial(t, root, "app.example.com", true)

		cfg := testConfig()
		cfg.ACME.Script = "/root/.acme.sh/acme.sh"
		cfg.ACME.StorageRoots = []string{root}

		// acme.sh pauses with a non-zero status while waiting for the
		// operator; the Enter keypress confirms the records are live
		mock := acmeMock(manualChallengeOutput, errors.New("exit status 1"), renewDoneOutput, nil)
		withDeps(t, cfg, mock, "\n")

		if err := runIssue(issueCmd, []string{"app.example.com"}); err != nil {
			t.Fatalf("runIssue failed: %v", err)
		}

		if len(mock.Calls) != 2 {
			t.Fatalf("expected issue and renew calls, got %d", len(mock.Calls))
		}
		renewArgs := strings.Join(mock.Calls[1].Args, " ")
		if !strings.Contains(renewArgs, "--renew -d app.example.com --force") {
			t.Errorf("unexpected renew command: %s", renewArgs)
		}
		if !strings.Contains(renewArgs, "--ecc") {
			t.Errorf("ec-256 issuance must renew with --ecc: %s", renewArgs)
		}
	})

	t.Run("no manual step needed", func(t *testing.T) {
		root := t.TempDir()
		writeIssuedMaterial(t, root, "app.example.com", true)

		cfg := testConfig()
		cfg.ACME.Script = "/root/.acme.sh/acme.sh"
		cfg.ACME.StorageRoots = []string{root}

		mock := acmeMock("Cert success.\n", nil, "", nil)
		withDeps(t, cfg, mock)

		if err := runIssue(issueCmd, []string{"app.example.com"}); err != nil {
			t.Fatalf("runIssue failed: %v", err)
		}
		if len(mock.Calls) != 1 {
			t.Errorf("no renewal expected without challenge records, got %d calls", len(mock.Calls))
		}
	})

	t.Run("renewal failure", func(t *testing.T) {
		root := t.TempDir()

		cfg := testConfig()
		cfg.ACME.Script = "/root/.acme.sh/acme.sh"
		cfg.ACME.StorageRoots = []string{root}

		mock := acmeMock(manualChallengeOutput, errors.New("exit status 1"),
			"Verify error: DNS problem\n", errors.New("exit status 1"))
		withDeps(t, cfg, mock, "\n")

		if err := runIssue(issueCmd, []string{"app.example.com"}); err == nil {
			t.Error("expected error when forced renewal fails")
		}
	})

	t.Run("material missing after success", func(t *testing.T) {
		// Collaborator reports success but wrote nothing usable
		root := t.TempDir()

		cfg := testConfig()
		cfg.ACME.Script = "/root/.acme.sh/acme.sh"
		cfg.ACME.StorageRoots = []string{root}

		mock := acmeMock("Cert success.\n", nil, "", nil)
		withDeps(t, cfg, mock)

		if err := runIssue(issueCmd, []string{"app.example.com"}); err == nil {
			t.Error("expected error when material is not on disk")
		}
	})

	t.Run("invalid domain", func(t *testing.T) {
		withDeps(t, testConfig(), &executor.MockExecutor{})
		if err := runIssue(issueCmd, []string{"-bad.example.com"}); err == nil {
			t.Error("expected validation error")
		}
	})
}
