package device

import (
	"fmt"
	"strings"

	"github.com/ksyq12/adcert/internal/errors"
)

// Kind identifies the class of TLS-terminating virtual server
type Kind string

// Endpoint kinds
const (
	KindLoadBalancer     Kind = "lb"
	KindGateway          Kind = "gateway"
	KindContentSwitching Kind = "cs"
)

// Kinds returns all endpoint kinds in listing order
func Kinds() []Kind {
	return []Kind{KindLoadBalancer, KindGateway, KindContentSwitching}
}

// IsValidKind checks if the given kind is valid
func IsValidKind(k string) bool {
	for _, valid := range Kinds() {
		if Kind(k) == valid {
			return true
		}
	}
	return false
}

// Endpoint is a TLS-terminating virtual server discovered on the appliance.
// Endpoints are discovered, never created, by this tool.
type Endpoint struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Address  string `json:"address"`
	Protocol string `json:"protocol"`
	State    string `json:"state"`
}

// Credential is a certificate+key pair registered on the appliance,
// referenced by endpoints via its name
type Credential struct {
	Name         string `json:"name"`
	Status       string `json:"status,omitempty"`
	DaysToExpiry int    `json:"days_to_expiry"` // -1 when the listing has no expiry field
}

// showCommands maps endpoint kinds to their listing commands
var showCommands = map[Kind]string{
	KindLoadBalancer:     "show lb vserver",
	KindGateway:          "show vpn vserver",
	KindContentSwitching: "show cs vserver",
}

// Directory enumerates endpoints and resolves their current bindings.
// All lookups are live queries; nothing is cached between calls.
type Directory struct {
	session *Session
}

// NewDirectory creates a directory over the given session
func NewDirectory(session *Session) *Directory {
	return &Directory{session: session}
}

// List returns the TLS-terminating endpoints of one kind.
//
// Load-balancing and content-switching vservers are filtered to those
// whose protocol indicates TLS termination. Gateway vservers always
// terminate TLS and are not filtered.
func (d *Directory) List(kind Kind) ([]Endpoint, error) {
	cmd, ok := showCommands[kind]
	if !ok {
		return nil, errors.Validation(fmt.Sprintf("unknown endpoint kind: %s", kind))
	}

	out, err := d.session.Run(cmd)
	if err != nil {
		return nil, err
	}
	if ContainsError(out) {
		return nil, errors.DeviceRejected(cmd, out)
	}

	endpoints := parseVserverList(out, kind)
	if kind == KindGateway {
		return endpoints, nil
	}

	filtered := make([]Endpoint, 0, len(endpoints))
	for _, ep := range endpoints {
		if strings.Contains(strings.ToUpper(ep.Protocol), "SSL") {
			filtered = append(filtered, ep)
		}
	}
	return filtered, nil
}

// ListAll returns the TLS endpoints of every kind, in kind order
func (d *Directory) ListAll() ([]Endpoint, error) {
	var all []Endpoint
	for _, kind := range Kinds() {
		endpoints, err := d.List(kind)
		if err != nil {
			return nil, err
		}
		all = append(all, endpoints...)
	}
	return all, nil
}

// CurrentCredential returns the credential currently bound to the
// endpoint, or empty when unbound. Always a live query.
func (d *Directory) CurrentCredential(endpoint string) (string, error) {
	cmd := fmt.Sprintf("show ssl vserver %s", endpoint)
	out, err := d.session.Run(cmd)
	if err != nil {
		return "", err
	}
	if ContainsError(out) {
		return "", errors.DeviceRejected(cmd, out)
	}
	return parseBoundCertKey(out), nil
}
