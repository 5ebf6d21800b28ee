package cli

import (
	"github.com/ksyq12/adcert/internal/acme"
	"github.com/ksyq12/adcert/internal/device"
	"github.com/ksyq12/adcert/internal/install"
	"github.com/ksyq12/adcert/internal/output"
	"github.com/ksyq12/adcert/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	deploySANs      []string
	deployName      string
	deployKeyLength string
	deployEndpoints string
	deployForce     bool
	deployNoSave    bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy <domain>",
	Short: "Issue, install and bind a certificate in one run",
	Long: `Run the full workflow for a domain: issue the certificate via the
ACME DNS-01 challenge, register the material on the appliance as a
credential object, bind it to the selected TLS endpoints, and save the
appliance configuration.

The issuance pauses until you confirm the challenge TXT records are
published. Re-running for a domain that already has a certificate is
safe: issuance is forced, registration updates in place, and bindings
that are already correct are left untouched.

Examples:
  adcert deploy app.example.com
  adcert deploy app.example.com --san www.example.com --endpoints all
  adcert deploy app.example.com --name frontend_cert --endpoints lb_web --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().StringArrayVar(&deploySANs, "san", nil, "Additional hostname (repeatable)")
	deployCmd.Flags().StringVarP(&deployName, "name", "n", "", "Credential name (default derived from the domain)")
	deployCmd.Flags().StringVar(&deployKeyLength, "key-length", "", "Key length (default from config, e.g. ec-256)")
	deployCmd.Flags().StringVarP(&deployEndpoints, "endpoints", "e", "", "Comma-separated endpoint names, 'all' or 'skip' (default: interactive)")
	deployCmd.Flags().BoolVarP(&deployForce, "force", "f", false, "Replace existing bindings without confirmation")
	deployCmd.Flags().BoolVar(&deployNoSave, "no-save", false, "Don't save the appliance configuration afterwards")

	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	domain := args[0]
	if err := validateDomain(domain); err != nil {
		return err
	}

	cfg, session, err := loadSession()
	if err != nil {
		return err
	}

	// Fail before issuance if the appliance is unreachable; the manual
	// DNS step is too expensive to waste on a dead target.
	if err := session.Ping(); err != nil {
		return err
	}

	keyLength := deployKeyLength
	if keyLength == "" {
		keyLength = cfg.ACME.KeyLength
	}

	req := acme.NewRequest(domain, deploySANs, keyLength)
	result, err := issueCertificate(cfg, req)
	if err != nil {
		return err
	}

	name := deployName
	if name == "" {
		name = install.CredentialName(domain)
	}

	output.Info("Installing %s as credential %s...", domain, name)
	installer := install.NewInstaller(session)
	if err := installer.Install(name, result.Material.CertPath, result.Material.KeyPath); err != nil {
		return err
	}
	output.Success("Credential %s registered on the appliance", name)

	endpoints, err := selectEndpoints(device.NewDirectory(session), deployEndpoints)
	if err != nil {
		return err
	}
	if len(endpoints) == 0 {
		output.Info("No endpoints selected, certificate installed but not bound")
		return nil
	}

	return applyAndReport(session, reconcile.NewPlan(name, endpoints), deployForce, deployNoSave)
}
