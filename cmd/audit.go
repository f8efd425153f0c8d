package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit log of a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		action, _ := cmd.Flags().GetString("action")

		cli, err := getClient()
		if err != nil {
			return err
		}

		entries, _, err := cli.AuditEntries(cmd.Context(), action, limit)
		if err != nil {
			return err
		}

		log.Info().Msgf("Retrieved %d audit entries", len(entries))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Time", "Action", "Meeting", "Role", "Granted", "Error",
		})

		for _, e := range entries {
			t.AppendRow(table.Row{
				e.Time.Format(time.RFC3339),
				e.Action,
				e.MeetingNumber,
				e.Role,
				e.Granted,
				truncate(e.Error, 40),
			})
		}

		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().IntP("limit", "n", 50, "Number of entries to retrieve")
	auditCmd.Flags().String("action", "", "Only entries with this action (e.g. signature.issue)")
}
