package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mockprep/platform/internal/models"
	"mockprep/platform/internal/repositories"
	"mockprep/platform/internal/store"
)

func newSeedInterviewCmd(connect Connector) *cobra.Command {
	var (
		adminEmail string
		req        models.CreateInterviewRequest
	)
	cmd := &cobra.Command{
		Use:   "seed-interview",
		Short: "Create an interview owned by an admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			return withStore(cmd, connect, func(ctx context.Context, s store.Store) error {
				admin, err := s.GetUserByEmail(ctx, adminEmail)
				if err != nil {
					return fmt.Errorf("look up admin %s: %w", adminEmail, err)
				}
				iv, err := repositories.NewInterviewRepository(s).Create(ctx, admin, &req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created interview %s (%s, %s)\n", iv.ID, iv.Role, iv.Level)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&adminEmail, "admin", "", "Email of the owning admin")
	cmd.Flags().StringVar(&req.Role, "role", "", "Job role the interview practises")
	cmd.Flags().StringVar(&req.Level, "level", "mid-level", "Seniority level")
	cmd.Flags().StringVar(&req.Type, "type", models.InterviewTypeTechnical, "Interview type")
	cmd.Flags().StringSliceVar(&req.Techstack, "techstack", nil, "Comma separated technologies")
	cmd.Flags().StringVar(&req.AssignedTo, "assign", "", "User id to assign the interview to")
	_ = cmd.MarkFlagRequired("admin")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
