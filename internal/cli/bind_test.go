package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/ksyq12/adcert/internal/executor"
)

const sslVserverBoundOld = `
	Advanced SSL configuration for VServer gw_users:

1)	CertKey Name: old_cert	Server Certificate
 Done
`

// bindFixture wires mocked deps for runBind and restores the command
// flags afterwards
func bindFixture(t *testing.T, responses map[string]string, endpoints string, force, noSave bool, inputs ...string) *executor.MockExecutor {
	t.Helper()
	mock := applianceMock(responses)
	withDeps(t, testConfig(), mock, inputs...)

	bindEndpoints, bindForce, bindNoSave = endpoints, force, noSave
	t.Cleanup(func() {
		bindEndpoints, bindForce, bindNoSave = "", false, false
	})
	return mock
}

// deviceCommands extracts the appliance command strings from recorded
// ssh calls, skipping scp and anything else
func deviceCommands(mock *executor.MockExecutor) []string {
	var commands []string
	for _, call := range mock.Calls {
		if call.Name == "ssh" && len(call.Args) > 0 {
			commands = append(commands, call.Args[len(call.Args)-1])
		}
	}
	return commands
}

func hasCommand(commands []string, want string) bool {
	for _, c := range commands {
		if c == want {
			return true
		}
	}
	return false
}

func TestRunBind(t *testing.T) {
	listings := map[string]string{
		"show lb vserver":  lbListing,
		"show vpn vserver": vpnListing,
		"show cs vserver":  emptyListing,
	}

	t.Run("binds unbound endpoints", func(t *testing.T) {
		mock := bindFixture(t, listings, "all", false, true)

		if err := runBind(bindCmd, []string{"app_example_com"}); err != nil {
			t.Fatalf("runBind failed: %v", err)
		}

		commands := deviceCommands(mock)
		if !hasCommand(commands, "bind ssl vserver lb_web -certkeyName app_example_com") {
			t.Errorf("missing bind for lb_web: %v", commands)
		}
		if !hasCommand(commands, "bind ssl vserver gw_users -certkeyName app_example_com") {
			t.Errorf("missing bind for gw_users: %v", commands)
		}
		if hasCommand(commands, "save ns config") {
			t.Error("--no-save must suppress the config save")
		}
	})

	t.Run("saves config by default", func(t *testing.T) {
		mock := bindFixture(t, listings, "lb_web", false, false)

		if err := runBind(bindCmd, []string{"app_example_com"}); err != nil {
			t.Fatalf("runBind failed: %v", err)
		}
		if !hasCommand(deviceCommands(mock), "save ns config") {
			t.Error("expected save ns config")
		}
	})

	t.Run("declined replacement keeps existing binding", func(t *testing.T) {
		responses := map[string]string{
			"show lb vserver":           lbListing,
			"show vpn vserver":          vpnListing,
			"show cs vserver":           emptyListing,
			"show ssl vserver gw_users": sslVserverBoundOld,
		}
		mock := bindFixture(t, responses, "gw_users", false, true, "n\n")

		if err := runBind(bindCmd, []string{"app_example_com"}); err != nil {
			t.Fatalf("runBind failed: %v", err)
		}

		for _, c := range deviceCommands(mock) {
			if strings.HasPrefix(c, "bind ssl vserver") || strings.HasPrefix(c, "unbind ssl vserver") {
				t.Errorf("declined replacement must not mutate: %q", c)
			}
		}
	})

	t.Run("force replaces without prompting", func(t *testing.T) {
		responses := map[string]string{
			"show lb vserver":           lbListing,
			"show vpn vserver":          vpnListing,
			"show cs vserver":           emptyListing,
			"show ssl vserver gw_users": sslVserverBoundOld,
		}
		// No stdin inputs: a prompt would fail the run
		mock := bindFixture(t, responses, "gw_users", true, true)

		if err := runBind(bindCmd, []string{"app_example_com"}); err != nil {
			t.Fatalf("runBind failed: %v", err)
		}

		commands := deviceCommands(mock)
		if !hasCommand(commands, "unbind ssl vserver gw_users -certkeyName old_cert") {
			t.Errorf("missing unbind of previous credential: %v", commands)
		}
		if !hasCommand(commands, "bind ssl vserver gw_users -certkeyName app_example_com") {
			t.Errorf("missing bind of new credential: %v", commands)
		}
	})

	t.Run("partial failure exits non-zero", func(t *testing.T) {
		responses := map[string]string{
			"show lb vserver":  lbListing,
			"show vpn vserver": vpnListing,
			"show cs vserver":  emptyListing,
			"bind ssl vserver gw_users -certkeyName app_example_com": "ERROR: Certificate does not exist\n",
		}
		mock := bindFixture(t, responses, "all", false, true)

		err := runBind(bindCmd, []string{"app_example_com"})
		if err == nil {
			t.Fatal("expected error on partial failure")
		}
		// The healthy endpoint is still processed
		if !hasCommand(deviceCommands(mock), "bind ssl vserver lb_web -certkeyName app_example_com") {
			t.Error("failure on one endpoint must not block the others")
		}
	})

	t.Run("no endpoints selected", func(t *testing.T) {
		mock := bindFixture(t, listings, "skip", false, true)

		if err := runBind(bindCmd, []string{"app_example_com"}); err != nil {
			t.Fatalf("runBind failed: %v", err)
		}
		for _, c := range deviceCommands(mock) {
			if strings.HasPrefix(c, "bind ssl vserver") {
				t.Errorf("nothing should be bound: %q", c)
			}
		}
	})

	t.Run("unreachable appliance", func(t *testing.T) {
		mock := &executor.MockExecutor{
			ExecuteFunc: func(name string, args ...string) ([]byte, error) {
				return nil, errors.New("exit status 255")
			},
		}
		withDeps(t, testConfig(), mock)
		bindEndpoints, bindNoSave = "all", true
		t.Cleanup(func() { bindEndpoints, bindNoSave = "", false })

		if err := runBind(bindCmd, []string{"app_example_com"}); err == nil {
			t.Error("expected preflight failure for unreachable appliance")
		}
	})
}
