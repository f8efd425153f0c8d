package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/udfnd/zoomclass/internal/config"
	"github.com/udfnd/zoomclass/internal/signer"
)

var (
	signMeetingNumber string
	signRole          int
)

// signCmd mints a meeting-session token locally from the configured SDK
// credentials, without a running server.
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Mint a meeting SDK signature locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds := config.LoadCredentials()
		if !creds.HasSDKCredentials() {
			return fmt.Errorf("meeting SDK credentials are not configured (set %s and %s)",
				config.EnvSDKKey, config.EnvSDKSecret)
		}

		sig := signer.New(creds.SDKKey, creds.SDKSecret)
		token, err := sig.SignMeetingSession(signMeetingNumber, signRole)
		if err != nil {
			return err
		}

		roleName := "attendee"
		if signer.NormalizeRole(signRole) == signer.RoleHost {
			roleName = "host"
		}
		color.Green("Signed %s token for meeting %s", roleName, signMeetingNumber)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"signature": token,
			"sdkKey":    creds.SDKKey,
			"role":      signer.NormalizeRole(signRole),
		})
	},
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().StringVarP(&signMeetingNumber, "meeting-number", "m", "", "The meeting number to sign for")
	signCmd.Flags().IntVarP(&signRole, "role", "r", 0, "The role to sign for (0 attendee, 1 host)")

	_ = signCmd.MarkFlagRequired("meeting-number")
}
