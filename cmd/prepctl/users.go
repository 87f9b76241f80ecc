package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mockprep/platform/internal/models"
	"mockprep/platform/internal/repositories"
	"mockprep/platform/internal/store"
)

func newPromoteCmd(connect Connector) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "promote <email>",
		Short: "Change the role of an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, connect, func(ctx context.Context, s store.Store) error {
				user, err := repositories.NewUserRepository(s).SetRoleByEmail(ctx, args[0], models.Role(role))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", user.Email, user.ID, user.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "Role to assign (admin or candidate)")
	return cmd
}
