package cli

import (
	"os"

	"github.com/ksyq12/adcert/internal/logger"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "adcert",
	Short: "ACME certificate deployment for ADC appliances",
	Long: `adcert provisions TLS certificates via the ACME DNS-01 challenge and
deploys them onto the TLS-terminating virtual servers of a Citrix ADC
(NetScaler) appliance.

Certificate issuance is delegated to an external acme.sh install; the
appliance is driven over ssh, one CLI command at a time. DNS TXT records
for the challenge are published manually by the operator.`,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
}
