package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	windows []time.Duration
	err     error
}

func (f *fakeCleaner) Cleanup(_ context.Context, olderThan time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.windows = append(f.windows, olderThan)
	return nil
}

func TestAuditCleanupPrunesWithRequestedRetention(t *testing.T) {
	task, err := NewAuditCleanupTask(30)
	require.NoError(t, err)

	cleaner := &fakeCleaner{}
	job := NewAuditCleanupJob(cleaner, discardLogger())
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, cleaner.windows, 1)
	assert.Equal(t, 30*24*time.Hour, cleaner.windows[0])
}

func TestAuditCleanupDefaultsRetentionWhenUnset(t *testing.T) {
	task, err := NewAuditCleanupTask(0)
	require.NoError(t, err)

	cleaner := &fakeCleaner{}
	job := NewAuditCleanupJob(cleaner, discardLogger())
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, cleaner.windows, 1)
	assert.Equal(t, time.Duration(DefaultAuditRetentionDays)*24*time.Hour, cleaner.windows[0])
}

func TestAuditCleanupReturnsCleanerErrorForRetry(t *testing.T) {
	task, err := NewAuditCleanupTask(30)
	require.NoError(t, err)

	boom := errors.New("database unavailable")
	job := NewAuditCleanupJob(&fakeCleaner{err: boom}, discardLogger())
	assert.ErrorIs(t, job.Handle(context.Background(), task), boom)
}

func TestAuditCleanupSkipsRetryOnMalformedPayload(t *testing.T) {
	job := NewAuditCleanupJob(&fakeCleaner{}, discardLogger())
	task := asynq.NewTask(TaskTypeAuditCleanup, []byte("{not json"))
	assert.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
}
