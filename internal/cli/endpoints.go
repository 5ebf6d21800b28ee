package cli

import (
	"fmt"

	"github.com/ksyq12/adcert/internal/device"
	"github.com/ksyq12/adcert/internal/output"
	"github.com/spf13/cobra"
)

var endpointsKind string

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List TLS-terminating endpoints",
	Long: `List the TLS-terminating endpoints of the appliance with their
currently-bound credential.

Load-balancing and content-switching virtual servers are filtered to
those terminating TLS; gateway virtual servers are always listed.

Examples:
  adcert endpoints
  adcert endpoints --kind lb
  adcert endpoints --kind gateway --json`,
	RunE: runEndpoints,
}

func init() {
	endpointsCmd.Flags().StringVarP(&endpointsKind, "kind", "k", "", "Endpoint kind: lb, gateway or cs (default: all)")

	rootCmd.AddCommand(endpointsCmd)
}

// endpointView is an endpoint joined with its live binding for display
type endpointView struct {
	device.Endpoint
	BoundCredential string `json:"bound_credential,omitempty"`
}

func runEndpoints(cmd *cobra.Command, args []string) error {
	if endpointsKind != "" && !device.IsValidKind(endpointsKind) {
		return fmt.Errorf("invalid kind %q (valid: lb, gateway, cs)", endpointsKind)
	}

	_, session, err := loadSession()
	if err != nil {
		return err
	}

	dir := device.NewDirectory(session)
	var endpoints []device.Endpoint
	if endpointsKind == "" {
		endpoints, err = dir.ListAll()
	} else {
		endpoints, err = dir.List(device.Kind(endpointsKind))
	}
	if err != nil {
		return err
	}

	views := make([]endpointView, 0, len(endpoints))
	for _, ep := range endpoints {
		bound, err := dir.CurrentCredential(ep.Name)
		if err != nil {
			return err
		}
		views = append(views, endpointView{Endpoint: ep, BoundCredential: bound})
	}

	if jsonOutput {
		return output.JSON(views)
	}

	if len(views) == 0 {
		output.Info("No TLS endpoints found")
		return nil
	}

	rows := make([][]string, 0, len(views))
	for _, v := range views {
		bound := v.BoundCredential
		if bound == "" {
			bound = "-"
		}
		rows = append(rows, []string{v.Name, string(v.Kind), v.Address, v.Protocol, v.State, bound})
	}
	output.Table([]string{"NAME", "KIND", "ADDRESS", "PROTOCOL", "STATE", "CREDENTIAL"}, rows)
	return nil
}
