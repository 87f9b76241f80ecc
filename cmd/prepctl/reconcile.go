package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mockprep/platform/internal/feedback"
	"mockprep/platform/internal/jobs"
	"mockprep/platform/internal/store"
)

// newReconciler wires a reconciler whose finalizer never calls the model.
func newReconciler(s store.Store, logger *zap.Logger) *feedback.Reconciler {
	gen := feedback.NewGenerator(s, nil, nil, nil, logger, 0)
	return feedback.NewReconciler(s, s, gen, logger)
}

func newAnomaliesCmd(connect Connector, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "anomalies",
		Short: "List feedback whose interview does not reflect it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, connect, func(ctx context.Context, s store.Store) error {
				anomalies, err := newReconciler(s, logger).Scan(ctx)
				if err != nil {
					return err
				}
				renderAnomalies(cmd.OutOrStdout(), anomalies)
				return nil
			})
		},
	}
}

func newReconcileCmd(connect Connector, logger *zap.Logger) *cobra.Command {
	var (
		dryRun  bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Re-apply the finalize step for feedback left half committed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, connect, func(ctx context.Context, s store.Store) error {
				job := jobs.NewReconcileJob(newReconciler(s, logger), &jobs.ReconcileConfig{
					Enabled:    true,
					AutoRepair: !dryRun,
					Timeout:    timeout,
				}, logger)
				res, err := job.RunOnce(ctx)
				if res != nil {
					renderAnomalies(cmd.OutOrStdout(), res.Anomalies)
					fmt.Fprintf(cmd.OutOrStdout(), "repaired %d of %d\n", res.Repaired, len(res.Anomalies))
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report anomalies without repairing them")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Upper bound for the run")
	return cmd
}

func renderAnomalies(out io.Writer, anomalies []feedback.Anomaly) {
	if len(anomalies) == 0 {
		fmt.Fprintln(out, "no anomalies")
		return
	}
	table := newTable(out, []string{"Kind", "Feedback", "Interview", "Feedback Score", "Interview Score"})
	for _, a := range anomalies {
		interviewScore := "-"
		if a.InterviewScore != nil {
			interviewScore = strconv.Itoa(*a.InterviewScore)
		}
		_ = table.Append([]string{
			string(a.Kind),
			a.FeedbackID,
			a.InterviewID,
			strconv.Itoa(a.FeedbackScore),
			interviewScore,
		})
	}
	_ = table.Render()
}
