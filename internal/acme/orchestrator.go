package acme

import (
	"fmt"

	"github.com/ksyq12/adcert/internal/errors"
	"github.com/ksyq12/adcert/internal/logger"
)

// State is the issuance state for one request
type State string

// Issuance states. Failed is terminal and reported, never retried
// automatically; a retry is an explicit operator-initiated re-run.
const (
	StateRequested        State = "requested"
	StateChallengePending State = "challenge_pending"
	StateVerifying        State = "verifying"
	StateIssued           State = "issued"
	StateFailed           State = "failed"
)

// ConfirmFunc blocks until the operator signals that the challenge TXT
// records are published. Returning an error abandons the issuance.
//
// The wait is unbounded: DNS propagation is a manual human action in
// this design and no timeout is enforced here.
type ConfirmFunc func(records []ChallengeRecord) error

// Result is the outcome of one issuance run
type Result struct {
	State      State             `json:"state"`
	Challenges []ChallengeRecord `json:"challenges,omitempty"`
	Material   *Material         `json:"material,omitempty"`
}

// Orchestrator drives the two-phase DNS-01 issuance protocol:
// request challenge tokens, wait for the operator to publish them, then
// finalize with a forced renewal. Protocol state is kept out of the UI;
// the confirmation pause is an injected callback so the machine can be
// driven by synthetic events in tests.
type Orchestrator struct {
	client  *Client
	store   *Store
	confirm ConfirmFunc
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(client *Client, store *Store, confirm ConfirmFunc) *Orchestrator {
	return &Orchestrator{client: client, store: store, confirm: confirm}
}

// Run executes issuance for one request and returns the terminal result.
//
// State transitions:
//
//	Requested -> ChallengePending   issue output contains challenge lines
//	Requested -> Issued             issue completed without a manual step
//	ChallengePending -> Verifying   operator confirmation received
//	Verifying -> Issued | Failed    forced renewal exit status
//
// Issuance is only trusted once material is independently verified on
// disk: collaborator-reported success with nothing resolvable downgrades
// the outcome to Failed. Re-running for a domain that already has valid
// material is safe; the forced renew path never fails on "already
// exists" conditions.
func (o *Orchestrator) Run(req Request) (*Result, error) {
	logger.InfoFields("issuance requested", map[string]interface{}{
		"domain": req.Domain,
		"sans":   len(req.SANs),
		"key":    req.KeyLength,
	})

	out, err := o.client.Issue(req)
	if err != nil {
		return &Result{State: StateFailed}, err
	}

	logPath, cleanup, err := captureOutput(out)
	if err != nil {
		return &Result{State: StateFailed}, err
	}
	defer cleanup()
	logger.Debug("issuance output captured at %s", logPath)

	records := ParseChallenges(out)
	if len(records) > 0 {
		logger.Info("manual DNS step required, %d TXT record(s) pending", len(records))
		if err := o.confirm(records); err != nil {
			return &Result{State: StateFailed, Challenges: records},
				errors.Wrap(errors.ErrCodeACME, "issuance abandoned before verification", err)
		}

		logger.Info("confirmation received, finalizing issuance for %s", req.Domain)
		if err := o.client.ForceRenew(req.Domain, req.ECKey()); err != nil {
			return &Result{State: StateFailed, Challenges: records}, err
		}
	} else {
		logger.Info("no manual step required for %s", req.Domain)
	}

	material, err := o.store.Resolve(req.Domain)
	if err != nil {
		// The collaborator reported success but left nothing usable on
		// disk. Do not trust the report.
		return &Result{State: StateFailed, Challenges: records}, errors.Wrap(
			errors.ErrCodeACME,
			fmt.Sprintf("collaborator reported success but no material found for %s", req.Domain),
			err,
		)
	}

	return &Result{State: StateIssued, Challenges: records, Material: material}, nil
}
