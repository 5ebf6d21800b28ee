package cli

import (
	"strconv"

	"github.com/ksyq12/adcert/internal/output"
	"github.com/spf13/cobra"
)

// expiryWarnDays is the threshold below which a credential is flagged
// as expiring soon
const expiryWarnDays = 30

var certsCmd = &cobra.Command{
	Use:   "certs",
	Short: "List registered credential objects",
	Long: `List the credential objects registered on the appliance with their
status and days to expiration.

Examples:
  adcert certs
  adcert certs --json`,
	RunE: runCerts,
}

func init() {
	rootCmd.AddCommand(certsCmd)
}

func runCerts(cmd *cobra.Command, args []string) error {
	_, session, err := loadSession()
	if err != nil {
		return err
	}

	creds, err := session.ListCertKeys()
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(creds)
	}

	if len(creds) == 0 {
		output.Info("No credential objects registered")
		return nil
	}

	rows := make([][]string, 0, len(creds))
	for _, c := range creds {
		expiry := "-"
		if c.DaysToExpiry >= 0 {
			expiry = strconv.Itoa(c.DaysToExpiry)
		}
		rows = append(rows, []string{c.Name, c.Status, expiry})
	}
	output.Table([]string{"NAME", "STATUS", "DAYS TO EXPIRY"}, rows)

	for _, c := range creds {
		switch {
		case c.DaysToExpiry == 0 || (c.Status != "" && c.Status != "Valid"):
			output.Error("%s is not valid (%s)", c.Name, c.Status)
		case c.DaysToExpiry > 0 && c.DaysToExpiry < expiryWarnDays:
			output.Warn("%s expires in %d days", c.Name, c.DaysToExpiry)
		}
	}
	return nil
}
