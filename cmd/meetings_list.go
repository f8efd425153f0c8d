package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/udfnd/zoomclass/pkg/client"
)

// meetingsListCmd represents the meetings list command
var meetingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Retrieve and display stored meetings",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		dateStr, _ := cmd.Flags().GetString("date")
		upcoming, _ := cmd.Flags().GetBool("upcoming")

		opts := client.ListMeetingsOptions{
			Upcoming: upcoming,
			Limit:    limit,
		}
		if dateStr != "" {
			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
			}
			opts.Date = &date
		}

		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Info().Msg("Fetching meetings...")
		meetings, _, err := cli.ListMeetings(cmd.Context(), opts)
		if err != nil {
			return err
		}

		log.Info().Msgf("Retrieved %d meetings", len(meetings))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Start", "Session", "Host", "Meeting ID", "Join URL",
		})

		for _, m := range meetings {
			t.AppendRow(table.Row{
				m.StartTime.Format(time.RFC3339),
				truncate(m.SessionName, 35),
				truncate(m.HostName, 25),
				m.RemoteMeetingID,
				truncate(m.JoinURL, 45),
			})
		}

		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	meetingsCmd.AddCommand(meetingsListCmd)

	meetingsListCmd.Flags().IntP("limit", "n", 25, "Number of meetings to retrieve")
	meetingsListCmd.Flags().String("date", "", "Only meetings on this day (YYYY-MM-DD)")
	meetingsListCmd.Flags().Bool("upcoming", false, "Only meetings from now on")
}
