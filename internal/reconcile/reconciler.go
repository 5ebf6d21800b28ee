// Package reconcile transitions endpoint certificate bindings to a
// desired state without leaving an endpoint without a valid certificate
// or double-binding one.
package reconcile

import (
	"github.com/ksyq12/adcert/internal/device"
	"github.com/ksyq12/adcert/internal/errors"
	"github.com/ksyq12/adcert/internal/logger"
)

// Binder is the device surface the reconciler mutates through
type Binder interface {
	BindCertKey(endpoint, name string) error
	UnbindCertKey(endpoint, name string) error
}

// CredentialQuerier resolves the credential currently bound to an endpoint
type CredentialQuerier interface {
	CurrentCredential(endpoint string) (string, error)
}

// ReplaceFunc asks the operator whether the existing binding on an
// endpoint may be replaced. Returning false skips that endpoint.
type ReplaceFunc func(endpoint device.Endpoint, current, intended string) bool

// Reconciler applies binding plans against live device state
type Reconciler struct {
	binder  Binder
	querier CredentialQuerier
	replace ReplaceFunc
}

// NewReconciler creates a reconciler. The replace callback gates
// destructive rebinds; pass ReplaceAlways to skip confirmation.
func NewReconciler(binder Binder, querier CredentialQuerier, replace ReplaceFunc) *Reconciler {
	return &Reconciler{binder: binder, querier: querier, replace: replace}
}

// ReplaceAlways confirms every rebind without asking
func ReplaceAlways(device.Endpoint, string, string) bool { return true }

// Apply executes the plan sequentially, one endpoint at a time.
//
// Each endpoint is handled independently: a failing bind never blocks
// the remaining entries, so the loop never aborts early. The current
// binding is re-queried live immediately before each decision; a later
// entry for the same endpoint in the same plan therefore clobbers an
// earlier one.
//
// Per-endpoint decision:
//   - already bound to the intended credential: no-op
//   - bound to something else: confirm, unbind (a failed unbind is
//     recorded as a warning and the bind is still attempted, since some
//     device states allow binding over an existing one), then bind
//   - unbound: bind
//
// The aggregate status is partial_failure when any bind failed.
func (r *Reconciler) Apply(plan Plan) *Result {
	result := &Result{Status: PlanSuccess}

	for _, binding := range plan {
		outcome := r.applyOne(binding)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Status == StatusBindFailed {
			result.Status = PlanPartialFailure
		}
	}

	return result
}

func (r *Reconciler) applyOne(binding Binding) Outcome {
	ep := binding.Endpoint
	outcome := Outcome{Endpoint: ep, Credential: binding.Credential}

	current, err := r.querier.CurrentCredential(ep.Name)
	if err != nil {
		outcome.Status = StatusBindFailed
		outcome.Detail = err.Error()
		return outcome
	}

	if current == binding.Credential {
		logger.Debug("%s already bound to %s", ep.Name, binding.Credential)
		outcome.Status = StatusAlreadyBound
		return outcome
	}

	if current != "" {
		if !r.replace(ep, current, binding.Credential) {
			logger.Info("operator declined to replace %s on %s", current, ep.Name)
			outcome.Status = StatusSkipped
			outcome.Previous = current
			return outcome
		}

		outcome.Previous = current
		if err := r.binder.UnbindCertKey(ep.Name, current); err != nil {
			// Tolerated: the bind below may still succeed by binding
			// over the existing one. The warning stays on the outcome
			// so it is machine-inspectable, not just logged.
			outcome.Warning = err.Error()
			logger.Warn("unbind of %s from %s failed: %v", current, ep.Name, err)
		}
	}

	if err := r.binder.BindCertKey(ep.Name, binding.Credential); err != nil {
		outcome.Status = StatusBindFailed
		outcome.Detail = bindDetail(err)
		logger.Error("bind of %s to %s failed: %v", binding.Credential, ep.Name, err)
		return outcome
	}

	outcome.Status = StatusBound
	return outcome
}

// bindDetail prefers the raw device output over the wrapped message
func bindDetail(err error) string {
	var certErr *errors.CertError
	if errors.As(err, &certErr) && certErr.Detail != "" {
		return certErr.Detail
	}
	return err.Error()
}
