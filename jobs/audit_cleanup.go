package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTypeAuditCleanup prunes audit_logs entries past retention.
const TaskTypeAuditCleanup = "audit:cleanup"

// DefaultAuditRetentionDays bounds how long audit entries are kept when the
// scheduled task carries no explicit retention.
const DefaultAuditRetentionDays = 90

// AuditCleanupPayload carries the retention window for a cleanup run.
type AuditCleanupPayload struct {
	RetentionDays int `json:"retentionDays"`
}

// NewAuditCleanupTask constructs an Asynq task for a retention run.
func NewAuditCleanupTask(retentionDays int) (*asynq.Task, error) {
	data, err := json.Marshal(AuditCleanupPayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuditCleanup, data), nil
}

// AuditCleaner deletes audit entries older than the given window.
type AuditCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) error
}

// AuditCleanupJob prunes aged audit_logs rows on a schedule.
type AuditCleanupJob struct {
	Cleaner AuditCleaner
	Logger  *slog.Logger
}

// NewAuditCleanupJob wires dependencies for the cleanup handler.
func NewAuditCleanupJob(cleaner AuditCleaner, logger *slog.Logger) *AuditCleanupJob {
	return &AuditCleanupJob{Cleaner: cleaner, Logger: logger}
}

// Handle processes TaskTypeAuditCleanup tasks.
func (j *AuditCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Cleaner == nil {
		return errors.New("audit cleanup: handler not configured")
	}
	var payload AuditCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	days := payload.RetentionDays
	if days <= 0 {
		days = DefaultAuditRetentionDays
	}
	retention := time.Duration(days) * 24 * time.Hour
	if err := j.Cleaner.Cleanup(ctx, retention); err != nil {
		if j.Logger != nil {
			j.Logger.Warn("audit cleanup failed", slog.Int("retentionDays", days), slog.Any("error", err))
		}
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("audit cleanup completed", slog.Int("retentionDays", days))
	}
	return nil
}
