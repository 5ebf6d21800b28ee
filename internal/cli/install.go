package cli

import (
	"github.com/ksyq12/adcert/internal/acme"
	"github.com/ksyq12/adcert/internal/install"
	"github.com/ksyq12/adcert/internal/output"
	"github.com/spf13/cobra"
)

var installName string

var installCmd = &cobra.Command{
	Use:   "install <domain>",
	Short: "Register issued material on the appliance",
	Long: `Locate the issued certificate material for a domain, stage it into
the appliance certificate directory and register it as a credential
object. An existing credential with the same name is updated in place.

Examples:
  adcert install app.example.com
  adcert install app.example.com --name frontend_cert`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVarP(&installName, "name", "n", "", "Credential name (default derived from the domain)")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	domain := args[0]
	if err := validateDomain(domain); err != nil {
		return err
	}

	cfg, session, err := loadSession()
	if err != nil {
		return err
	}

	store := acme.NewStore(cfg.ACME.StorageRoots)
	material, err := store.Resolve(domain)
	if err != nil {
		return err
	}

	name := installName
	if name == "" {
		name = install.CredentialName(domain)
	}

	if err := session.Ping(); err != nil {
		return err
	}

	output.Info("Installing %s as credential %s...", domain, name)
	installer := install.NewInstaller(session)
	if err := installer.Install(name, material.CertPath, material.KeyPath); err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(map[string]interface{}{
			"success":    true,
			"domain":     domain,
			"credential": name,
			"cert_path":  material.CertPath,
			"key_path":   material.KeyPath,
		})
	}

	output.Success("Credential %s registered on the appliance", name)
	return nil
}
