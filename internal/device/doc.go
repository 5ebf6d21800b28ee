// Package device drives the ADC appliance control plane, one CLI
// command per ssh invocation.
//
// A Session carries the connection settings for the run (address, user,
// ssh key, certificate directory) and executes single commands; file
// staging goes over scp. The Directory type enumerates TLS-terminating
// virtual servers (load-balancing, gateway, content-switching) and
// resolves the credential currently bound to one.
//
// The appliance offers no structured output, so everything is parsed by
// line-pattern matching in parse.go against captured real listings. The
// literal substrings "already exists", "error" (case-insensitive) and
// "Done" are the triage signals for mutations.
//
// Binding state is never cached: every reconciliation decision re-reads
// live state immediately before acting.
package device
