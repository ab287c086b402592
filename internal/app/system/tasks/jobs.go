// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/stratahandbook/internal/app/store/edits"
	"github.com/dalemusser/stratahandbook/internal/app/store/oauthstate"
	"go.uber.org/zap"
)

// OAuthStateCleanupJob creates a job that removes expired OAuth state tokens.
func OAuthStateCleanupJob(states *oauthstate.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: 1 * time.Hour,
		Timeout:  1 * time.Minute,
		Run: func(ctx context.Context) error {
			n, err := states.DeleteExpired(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("cleaned up expired oauth states",
					zap.Int64("deleted", n))
			}
			return nil
		},
	}
}

// EditLogRetentionJob creates a job that prunes edit log entries older than
// retention. Callers skip registering it when retention is zero.
func EditLogRetentionJob(store *edits.Store, retention time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "edit-log-retention",
		Interval: 24 * time.Hour,
		Timeout:  5 * time.Minute,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().UTC().Add(-retention)
			n, err := store.DeleteBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("pruned edit log",
					zap.Int64("deleted", n),
					zap.Time("cutoff", cutoff))
			}
			return nil
		},
	}
}
