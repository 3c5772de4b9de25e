package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hudumahub/hudumahub/internal/models"
	"github.com/hudumahub/hudumahub/pkg/logger"
)

const (
	defaultNotificationRetentionDays = 90
	defaultActivityRetentionDays     = 180
	defaultSchedule                  = "@daily"
)

// Cleaner prunes read notifications and stale activity log entries on a
// cron schedule. Unread notifications are never pruned.
type Cleaner struct {
	db   *gorm.DB
	cron *cron.Cron
	now  func() time.Time
	log  *zap.Logger

	notificationRetention int
	activityRetention     int
	schedule              string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for retention comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithNotificationRetentionDays adjusts how long read notifications are kept.
func WithNotificationRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.notificationRetention = days
		}
	}
}

// WithActivityRetentionDays adjusts how long activity log entries are kept.
func WithActivityRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.activityRetention = days
		}
	}
}

// WithSchedule overrides the cron specification for the cleanup run.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults.
func NewCleaner(db *gorm.DB, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		db:                    db,
		now:                   time.Now,
		notificationRetention: defaultNotificationRetentionDays,
		activityRetention:     defaultActivityRetentionDays,
		schedule:              defaultSchedule,
		log:                   logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the cleanup job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.db == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		if err := c.RunOnce(context.Background()); err != nil {
			c.log.Warn("cleanup run failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all cleanup routines sequentially. Primarily used in tests
// and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if c.db == nil {
		return errors.New("maintenance: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if _, err := c.cleanupNotifications(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := c.cleanupActivity(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}

func (c *Cleaner) cleanupNotifications(ctx context.Context) (int64, error) {
	cutoff := c.now().AddDate(0, 0, -c.notificationRetention)

	result := c.db.WithContext(ctx).
		Where("is_read = ? AND read_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		c.log.Info("pruned read notifications", zap.Int64("count", result.RowsAffected))
	}
	return result.RowsAffected, nil
}

func (c *Cleaner) cleanupActivity(ctx context.Context) (int64, error) {
	cutoff := c.now().AddDate(0, 0, -c.activityRetention)

	result := c.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.ActivityLog{})
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		c.log.Info("pruned activity log entries", zap.Int64("count", result.RowsAffected))
	}
	return result.RowsAffected, nil
}
