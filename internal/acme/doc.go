// Package acme drives certificate issuance through an external acme.sh
// install and locates the issued material on disk.
//
// Issuance is a two-phase protocol: the issue call emits the DNS-01
// challenge TXT records the operator must publish by hand, then a
// forced renewal finalizes the order once the records are in place. The
// Orchestrator models this as a small state machine with the
// confirmation pause injected as a callback, keeping protocol state out
// of the UI.
//
// The Store searches the acme.sh storage roots for issued material,
// preferring EC-derived directories (<domain>_ecc) over RSA ones, and
// only reports material present when both the chain and the key file
// exist and are non-empty.
package acme
