package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ksyq12/adcert/internal/acme"
	"github.com/ksyq12/adcert/internal/config"
	"github.com/ksyq12/adcert/internal/device"
	"github.com/ksyq12/adcert/internal/output"
	"github.com/ksyq12/adcert/internal/reconcile"
)

// loadSession loads the config and opens a device session from it
func loadSession() (*config.Config, *device.Session, error) {
	cfg, err := deps.ConfigLoader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, device.NewSessionWithExecutor(cfg.Device, deps.Executor), nil
}

// validateDomain checks if domain is valid
func validateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if strings.Contains(domain, " ") {
		return fmt.Errorf("domain cannot contain spaces")
	}
	if strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return fmt.Errorf("domain cannot start or end with hyphen")
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("domain cannot start or end with a dot")
	}
	return nil
}

// askYesNo asks a yes/no question, defaulting to no
func askYesNo(format string, args ...interface{}) bool {
	output.Print(format+" [y/N]: ", args...)
	answer, _ := deps.StdinReader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

// challengeConfirm prints the pending TXT records and blocks until the
// operator acknowledges they are published. The wait is unbounded.
func challengeConfirm(records []acme.ChallengeRecord) error {
	output.Print("")
	output.Info("Publish the following DNS TXT record(s):")
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Host, "TXT", r.Value})
	}
	output.Table([]string{"NAME", "TYPE", "VALUE"}, rows)
	output.Print("")
	output.Print("Press Enter once the records are in place (Ctrl-C to abort)...")

	if _, err := deps.StdinReader.ReadString('\n'); err != nil {
		return fmt.Errorf("confirmation not received: %w", err)
	}
	return nil
}

// replacePrompt asks before rebinding an endpoint that already carries a
// different credential
func replacePrompt(ep device.Endpoint, current, intended string) bool {
	return askYesNo("%s is bound to %q, replace with %q?", ep.Name, current, intended)
}

// replaceDecider returns the confirmation callback for reconciliation,
// honoring --force
func replaceDecider(force bool) reconcile.ReplaceFunc {
	if force {
		return reconcile.ReplaceAlways
	}
	return replacePrompt
}

// selectEndpoints resolves the --endpoints flag value against the live
// endpoint listing. An empty spec triggers interactive selection; "all"
// selects everything; "skip" selects nothing; otherwise the spec is a
// comma-separated list of endpoint names.
func selectEndpoints(dir *device.Directory, spec string) ([]device.Endpoint, error) {
	all, err := dir.ListAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	spec = strings.TrimSpace(spec)
	switch spec {
	case "":
		return selectEndpointsInteractive(all)
	case "all":
		return all, nil
	case "skip":
		return nil, nil
	}

	byName := make(map[string]device.Endpoint, len(all))
	for _, ep := range all {
		byName[ep.Name] = ep
	}

	var selected []device.Endpoint
	for _, name := range strings.Split(spec, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ep, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("no TLS endpoint named %q on the appliance", name)
		}
		selected = append(selected, ep)
	}
	return selected, nil
}

// selectEndpointsInteractive shows an indexed endpoint list and reads a
// selection (comma-separated indices, 'all' or 'skip')
func selectEndpointsInteractive(all []device.Endpoint) ([]device.Endpoint, error) {
	rows := make([][]string, 0, len(all))
	for i, ep := range all {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), ep.Name, string(ep.Kind), ep.Address, ep.State,
		})
	}
	output.Table([]string{"#", "NAME", "KIND", "ADDRESS", "STATE"}, rows)
	output.Print("Select endpoints (e.g. 1,3), 'all' or 'skip': ")

	answer, err := deps.StdinReader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("selection not received: %w", err)
	}
	answer = strings.TrimSpace(strings.ToLower(answer))

	switch answer {
	case "", "skip":
		return nil, nil
	case "all":
		return all, nil
	}

	var selected []device.Endpoint
	for _, part := range strings.Split(answer, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 1 || idx > len(all) {
			return nil, fmt.Errorf("invalid selection: %q", part)
		}
		selected = append(selected, all[idx-1])
	}
	return selected, nil
}

// printOutcomes renders per-endpoint reconciliation outcomes
func printOutcomes(result *reconcile.Result) {
	for _, o := range result.Outcomes {
		switch o.Status {
		case reconcile.StatusAlreadyBound:
			output.Info("%s: already bound to %s", o.Endpoint.Name, o.Credential)
		case reconcile.StatusBound:
			if o.Previous != "" {
				output.Success("%s: bound %s (replaced %s)", o.Endpoint.Name, o.Credential, o.Previous)
			} else {
				output.Success("%s: bound %s", o.Endpoint.Name, o.Credential)
			}
		case reconcile.StatusSkipped:
			output.Warn("%s: skipped, kept %s", o.Endpoint.Name, o.Previous)
		case reconcile.StatusBindFailed:
			output.Error("%s: bind failed: %s", o.Endpoint.Name, strings.TrimSpace(o.Detail))
		}
		if o.Warning != "" {
			output.Warn("%s: unbind warning: %s", o.Endpoint.Name, strings.TrimSpace(o.Warning))
		}
	}
}

// applyAndReport runs the reconciliation, prints/encodes the outcomes
// and saves the device config. Returns an error on partial failure so
// the process exits non-zero.
func applyAndReport(session *device.Session, plan reconcile.Plan, force, noSave bool) error {
	dir := device.NewDirectory(session)
	rec := reconcile.NewReconciler(session, dir, replaceDecider(force))
	result := rec.Apply(plan)

	if !noSave {
		output.Info("Saving appliance configuration...")
		if err := session.SaveConfig(); err != nil {
			output.Warn("Failed to save appliance configuration: %v", err)
		}
	}

	if jsonOutput {
		if err := output.JSON(result); err != nil {
			return err
		}
	} else {
		printOutcomes(result)
	}

	if result.Status == reconcile.PlanPartialFailure {
		return fmt.Errorf("%d of %d bindings failed", result.Failed(), len(result.Outcomes))
	}
	return nil
}
