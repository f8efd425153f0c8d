package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the health of a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		status, err := cli.Health(cmd.Context())
		if err != nil {
			color.Red("Server unreachable: %v", err)
			return err
		}

		info, _, err := cli.Info(cmd.Context())
		if err != nil {
			color.Yellow("Server healthy (%s) but build info unavailable: %v", status, err)
			return nil
		}

		color.Green("Server healthy (%s)", status)
		color.White("Service: %s, Version: %s, Commit: %s", info.Service, info.Version, info.CommitHash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
