package cli

import (
	"fmt"

	"github.com/ksyq12/adcert/internal/acme"
	"github.com/ksyq12/adcert/internal/config"
	"github.com/ksyq12/adcert/internal/output"
	"github.com/spf13/cobra"
)

var (
	issueSANs      []string
	issueKeyLength string
)

var issueCmd = &cobra.Command{
	Use:   "issue <domain>",
	Short: "Issue a certificate via the ACME DNS-01 challenge",
	Long: `Issue a certificate for a domain using acme.sh in manual DNS mode.

The command prints the challenge TXT records, waits until you confirm
they are published, then finalizes issuance with a forced renewal and
verifies the material exists on disk.

Examples:
  adcert issue app.example.com
  adcert issue app.example.com --san www.example.com --san api.example.com
  adcert issue app.example.com --key-length 4096`,
	Args: cobra.ExactArgs(1),
	RunE: runIssue,
}

func init() {
	issueCmd.Flags().StringArrayVar(&issueSANs, "san", nil, "Additional hostname (repeatable)")
	issueCmd.Flags().StringVar(&issueKeyLength, "key-length", "", "Key length (default from config, e.g. ec-256)")

	rootCmd.AddCommand(issueCmd)
}

func runIssue(cmd *cobra.Command, args []string) error {
	domain := args[0]
	if err := validateDomain(domain); err != nil {
		return err
	}

	cfg, err := deps.ConfigLoader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	keyLength := issueKeyLength
	if keyLength == "" {
		keyLength = cfg.ACME.KeyLength
	}

	req := acme.NewRequest(domain, issueSANs, keyLength)
	result, err := issueCertificate(cfg, req)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(result)
	}

	output.Success("Certificate issued for %s", domain)
	output.Print("  Certificate: %s", result.Material.CertPath)
	output.Print("  Private Key: %s", result.Material.KeyPath)
	return nil
}

// issueCertificate runs the two-phase issuance with the interactive
// confirmation wired in
func issueCertificate(cfg *config.Config, req acme.Request) (*acme.Result, error) {
	client := acme.NewClientWithExecutor(cfg.ACME.Script, deps.Executor)
	store := acme.NewStore(cfg.ACME.StorageRoots)
	orch := acme.NewOrchestrator(client, store, challengeConfirm)

	output.Info("Requesting certificate for %s...", req.Domain)
	return orch.Run(req)
}
