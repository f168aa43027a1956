package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lipost/internal/lipost/linkedin"
)

func newProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Fetch the member profile behind the configured credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := linkedin.New(linkedin.CredentialsFromEnv())
			profile, err := client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", profile.FirstName, profile.LastName, profile.ID)
			return nil
		},
	}
}
