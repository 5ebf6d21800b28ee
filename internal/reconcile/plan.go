package reconcile

import "github.com/ksyq12/adcert/internal/device"

// Binding is one intended (endpoint, credential) pair in a plan
type Binding struct {
	Endpoint   device.Endpoint `json:"endpoint"`
	Credential string          `json:"credential"`
}

// Plan is the ordered set of bindings selected by the operator for one
// install cycle. Built per run and discarded after execution; it is
// never persisted.
type Plan []Binding

// NewPlan builds a plan binding one credential to each of the given
// endpoints, in order
func NewPlan(credential string, endpoints []device.Endpoint) Plan {
	plan := make(Plan, 0, len(endpoints))
	for _, ep := range endpoints {
		plan = append(plan, Binding{Endpoint: ep, Credential: credential})
	}
	return plan
}

// OutcomeStatus classifies the result for one endpoint
type OutcomeStatus string

// Per-endpoint outcomes
const (
	StatusAlreadyBound OutcomeStatus = "already_bound" // no-op, no device mutation
	StatusBound        OutcomeStatus = "bound"
	StatusSkipped      OutcomeStatus = "skipped" // operator declined to replace
	StatusBindFailed   OutcomeStatus = "bind_failed"
)

// Outcome is the result of applying one binding
type Outcome struct {
	Endpoint   device.Endpoint `json:"endpoint"`
	Credential string          `json:"credential"`
	Status     OutcomeStatus   `json:"status"`
	Previous   string          `json:"previous,omitempty"` // credential replaced, if any
	Warning    string          `json:"warning,omitempty"`  // e.g. a failed unbind that was tolerated
	Detail     string          `json:"detail,omitempty"`   // raw device output on failure
}

// PlanStatus is the aggregate result of a plan
type PlanStatus string

// Aggregate plan statuses. Skipped entries do not count as failures.
const (
	PlanSuccess        PlanStatus = "success"
	PlanPartialFailure PlanStatus = "partial_failure"
)

// Result aggregates the per-endpoint outcomes of one plan application
type Result struct {
	Status   PlanStatus `json:"status"`
	Outcomes []Outcome  `json:"outcomes"`
}

// Failed returns the number of bind_failed outcomes
func (r *Result) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusBindFailed {
			n++
		}
	}
	return n
}
