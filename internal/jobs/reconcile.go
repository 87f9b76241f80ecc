package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"mockprep/platform/internal/feedback"
)

const DefaultReconcileSchedule = "*/15 * * * *"

// ReconcileJob periodically looks for feedback whose interview was never
// finalized and re-applies the finalize step.
type ReconcileJob struct {
	reconciler *feedback.Reconciler
	config     *ReconcileConfig
	cron       *cron.Cron
	logger     *zap.Logger
}

type ReconcileConfig struct {
	Schedule   string        // Cron schedule (e.g., "*/15 * * * *")
	Enabled    bool          // Whether to schedule runs at all
	AutoRepair bool          // Repair anomalies after scanning, not just report them
	Timeout    time.Duration // Upper bound for one run
}

func NewReconcileJob(reconciler *feedback.Reconciler, config *ReconcileConfig, logger *zap.Logger) *ReconcileJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileJob{
		reconciler: reconciler,
		config:     config,
		cron:       cron.New(),
		logger:     logger,
	}
}

// Start schedules the job. It is a no-op when the job is disabled.
func (j *ReconcileJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("Finalize reconciliation is disabled, skipping scheduler")
		return nil
	}

	schedule := j.config.Schedule
	if schedule == "" {
		schedule = DefaultReconcileSchedule
	}
	j.logger.Info("Starting finalize reconciliation", zap.String("schedule", schedule))

	_, err := j.cron.AddFunc(schedule, func() {
		if _, err := j.RunOnce(context.Background()); err != nil {
			j.logger.Error("Reconciliation run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reconciliation job: %w", err)
	}

	j.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (j *ReconcileJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("Finalize reconciliation stopped")
	}
}

// RunResult summarizes one reconciliation run.
type RunResult struct {
	Anomalies []feedback.Anomaly
	Repaired  int
}

// RunOnce performs a single scan, repairing when configured to.
func (j *ReconcileJob) RunOnce(ctx context.Context) (*RunResult, error) {
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	anomalies, err := j.reconciler.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for anomalies: %w", err)
	}

	result := &RunResult{Anomalies: anomalies}
	if len(anomalies) == 0 {
		j.logger.Debug("No finalize anomalies found")
		return result, nil
	}
	if !j.config.AutoRepair {
		j.logger.Warn("Finalize anomalies left for an operator", zap.Int("count", len(anomalies)))
		return result, nil
	}

	repaired, err := j.reconciler.Repair(ctx, anomalies)
	result.Repaired = repaired
	j.logger.Info("Reconciliation run finished",
		zap.Int("anomalies", len(anomalies)),
		zap.Int("repaired", repaired))
	if err != nil {
		return result, fmt.Errorf("failed to repair some anomalies: %w", err)
	}
	return result, nil
}
