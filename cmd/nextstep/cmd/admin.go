package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/nextstepguidance/nextstep/internal/app"
	"github.com/nextstepguidance/nextstep/internal/repository"
	"github.com/spf13/cobra"
)

func PromoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Make the user with this email an admin",
		Long:  "Promote seeds the first admin. The user must have signed in at least once.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				profile, err := a.ProfileService.Promote(args[0])
				if errors.Is(err, repository.ErrUserNotFound) {
					return fmt.Errorf("no user with email %s; they need to sign in once first", args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now an admin\n", profile.DisplayName(), profile.ID)
				return nil
			})
		},
	}
}

func PruneTokensCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune-tokens",
		Short: "Delete used and expired magic link tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				removed, err := a.AuthService.PruneTokens(olderThan)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d tokens\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "only delete tokens used or expired before this long ago")
	return cmd
}

func withApp(fn func(a *app.App) error) error {
	a, err := app.New(loadConfig())
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
