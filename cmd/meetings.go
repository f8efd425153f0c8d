package cmd

import (
	"github.com/spf13/cobra"
)

// meetingsCmd represents the meetings command
var meetingsCmd = &cobra.Command{
	Use:   "meetings",
	Short: "Interact with stored meetings",
}

func init() {
	rootCmd.AddCommand(meetingsCmd)
}
