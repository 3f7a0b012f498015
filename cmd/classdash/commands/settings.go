package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classdash/core/internal/domain/entities"
)

// NewSettingsCommand creates the settings command with subcommands
func NewSettingsCommand() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the class and calendar settings",
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			return printJSON(cmd, c.Settings.LoadUserSettings(cmd.Context()))
		},
	})

	var classID, calendar string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			current := c.Settings.LoadUserSettings(cmd.Context())
			next := entities.UserSettings{ClassID: current.ClassID, ICalURL: current.ICalURL}
			if cmd.Flags().Changed("class") {
				next.ClassID = classID
			}
			if cmd.Flags().Changed("calendar") {
				next.ICalURL = calendar
			}

			saved, err := c.Settings.SaveUserSettings(cmd.Context(), next)
			if err != nil {
				return err
			}
			return printJSON(cmd, saved)
		},
	}
	setCmd.Flags().StringVar(&classID, "class", "", "Class id, e.g. 21HR")
	setCmd.Flags().StringVar(&calendar, "calendar", "", "Google calendar id (your Gmail address)")
	settingsCmd.AddCommand(setCmd)

	return settingsCmd
}

// NewCredentialsCommand creates the credentials command with subcommands
func NewCredentialsCommand() *cobra.Command {
	credentialsCmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage the GitHub repository used to publish the dataset",
	}

	credentialsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored credentials with the token masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			return printJSON(cmd, c.Settings.Credentials(cmd.Context()).Redacted())
		},
	})

	var creds entities.RepoCredentials
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Store owner, repository and token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			saved, err := c.Settings.SaveCredentials(cmd.Context(), creds)
			if err != nil {
				return err
			}
			return printJSON(cmd, saved.Redacted())
		},
	}
	setCmd.Flags().StringVar(&creds.Owner, "owner", "", "Repository owner")
	setCmd.Flags().StringVar(&creds.Repo, "repo", "", "Repository name")
	setCmd.Flags().StringVar(&creds.Token, "token", "", "Personal access token with contents write access")
	credentialsCmd.AddCommand(setCmd)

	credentialsCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			if err := c.Settings.ClearCredentials(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credentials cleared")
			return nil
		},
	})

	return credentialsCmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
