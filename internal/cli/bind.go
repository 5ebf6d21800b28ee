package cli

import (
	"github.com/ksyq12/adcert/internal/device"
	"github.com/ksyq12/adcert/internal/output"
	"github.com/ksyq12/adcert/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	bindEndpoints string
	bindForce     bool
	bindNoSave    bool
)

var bindCmd = &cobra.Command{
	Use:   "bind <credential>",
	Short: "Bind a registered credential to TLS endpoints",
	Long: `Bind a registered credential object to TLS-terminating endpoints.

Endpoints already carrying the credential are left untouched; endpoints
bound to a different credential are rebound after confirmation. A
failing endpoint never blocks the others.

Examples:
  adcert bind app_example_com                      # interactive selection
  adcert bind app_example_com --endpoints lb_web,gw_users
  adcert bind app_example_com --endpoints all --force`,
	Args: cobra.ExactArgs(1),
	RunE: runBind,
}

func init() {
	bindCmd.Flags().StringVarP(&bindEndpoints, "endpoints", "e", "", "Comma-separated endpoint names, 'all' or 'skip' (default: interactive)")
	bindCmd.Flags().BoolVarP(&bindForce, "force", "f", false, "Replace existing bindings without confirmation")
	bindCmd.Flags().BoolVar(&bindNoSave, "no-save", false, "Don't save the appliance configuration afterwards")

	rootCmd.AddCommand(bindCmd)
}

func runBind(cmd *cobra.Command, args []string) error {
	credential := args[0]

	_, session, err := loadSession()
	if err != nil {
		return err
	}
	if err := session.Ping(); err != nil {
		return err
	}

	endpoints, err := selectEndpoints(device.NewDirectory(session), bindEndpoints)
	if err != nil {
		return err
	}
	if len(endpoints) == 0 {
		output.Info("No endpoints selected, nothing to do")
		return nil
	}

	return applyAndReport(session, reconcile.NewPlan(credential, endpoints), bindForce, bindNoSave)
}
