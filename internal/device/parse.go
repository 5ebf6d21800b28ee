package device

import (
	"regexp"
	"strconv"
	"strings"
)

// The appliance CLI has no structured output format; everything below is
// line-pattern matching against the field labels and positional tokens of
// real captured listings. Parsing is deliberately tolerant of extra
// whitespace and truncated listings.

// Triage substrings recognized in device output.
const (
	markerDone          = "Done"
	markerAlreadyExists = "already exists"
)

var errorPattern = regexp.MustCompile(`(?i)\berror\b`)

// ContainsError reports whether the output carries an error marker
// (case-insensitive)
func ContainsError(out string) bool {
	return errorPattern.MatchString(out)
}

// ContainsDone reports whether the output carries the success marker
func ContainsDone(out string) bool {
	return strings.Contains(out, markerDone)
}

// ContainsAlreadyExists reports whether the output indicates a duplicate
// resource name
func ContainsAlreadyExists(out string) bool {
	return strings.Contains(strings.ToLower(out), markerAlreadyExists)
}

// vserverLine matches the numbered header line of a vserver listing:
//
//	1)	lb_web (10.0.0.5:443) - SSL	Type: ADDRESS
var vserverLine = regexp.MustCompile(`^\s*\d+\)\s+(\S+)\s+\(([^)]*)\)\s+-\s+(\S+)`)

// stateLine matches the per-vserver state line:
//
//	State: UP
var stateLine = regexp.MustCompile(`^\s*State:\s+(\S+)`)

// parseVserverList extracts the endpoints from a `show ... vserver` listing.
// The state line follows the header line within the vserver's stanza.
func parseVserverList(out string, kind Kind) []Endpoint {
	var endpoints []Endpoint
	for _, line := range strings.Split(out, "\n") {
		if m := vserverLine.FindStringSubmatch(line); m != nil {
			endpoints = append(endpoints, Endpoint{
				Name:     m[1],
				Kind:     kind,
				Address:  m[2],
				Protocol: m[3],
			})
			continue
		}
		if m := stateLine.FindStringSubmatch(line); m != nil && len(endpoints) > 0 {
			last := &endpoints[len(endpoints)-1]
			if last.State == "" {
				last.State = m[1]
			}
		}
	}
	return endpoints
}

// certKeyNameLine matches the bound-certificate line of `show ssl vserver`:
//
//	1)	CertKey Name: app_example_com	Server Certificate
var certKeyNameLine = regexp.MustCompile(`CertKey Name:\s+(\S+)`)

// parseBoundCertKey extracts the first bound certkey name from a
// `show ssl vserver <name>` listing. Empty means unbound.
func parseBoundCertKey(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if m := certKeyNameLine.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

var (
	certKeyHeaderLine = regexp.MustCompile(`^\s*\d+\)\s+Name:\s+(\S+)`)
	certKeyStatusLine = regexp.MustCompile(`^\s*Status:\s+([^,]+)(?:,\s*Days to expiration:\s*(-?\d+))?`)
)

// parseCertKeyList extracts the registered credentials from a
// `show ssl certKey` listing, including expiry information when present.
func parseCertKeyList(out string) []Credential {
	var creds []Credential
	for _, line := range strings.Split(out, "\n") {
		if m := certKeyHeaderLine.FindStringSubmatch(line); m != nil {
			creds = append(creds, Credential{Name: m[1], DaysToExpiry: -1})
			continue
		}
		if m := certKeyStatusLine.FindStringSubmatch(line); m != nil && len(creds) > 0 {
			last := &creds[len(creds)-1]
			last.Status = strings.TrimSpace(m[1])
			if m[2] != "" {
				if days, err := strconv.Atoi(m[2]); err == nil {
					last.DaysToExpiry = days
				}
			}
		}
	}
	return creds
}
