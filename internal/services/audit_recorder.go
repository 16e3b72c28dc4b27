package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/domain"
	"github.com/talentsmy/backend/internal/infrastructure/buffer"
	"github.com/talentsmy/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// RecorderConfig controls how frequently the spill buffer is drained.
type RecorderConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// AuditRecorder writes audit events through to the activity log and spills to
// the local buffer when the store is unreachable. Audit failures never
// surface to the mutation that produced the event.
type AuditRecorder struct {
	store    *buffer.Store
	monitor  ConnectionHealth
	activity repository.ActivityRepository
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      RecorderConfig
}

func NewAuditRecorder(
	store *buffer.Store,
	monitor ConnectionHealth,
	activity repository.ActivityRepository,
	logger *zap.Logger,
	cfg RecorderConfig,
) *AuditRecorder {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ar := &AuditRecorder{
		store:    store,
		monitor:  monitor,
		activity: activity,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = ar.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := ar.Drain(ctx); err != nil {
			ar.logger.Error("audit buffer drain failed", zap.Error(err))
		}
	})

	return ar
}

// Start launches the drain scheduler.
func (ar *AuditRecorder) Start() {
	if ar == nil || ar.cron == nil {
		return
	}
	ar.cron.Start()
	ar.logger.Info("audit recorder started")
}

// Stop gracefully stops the scheduler.
func (ar *AuditRecorder) Stop(ctx context.Context) {
	if ar == nil || ar.cron == nil {
		return
	}
	stopCtx := ar.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	ar.logger.Info("audit recorder stopped")
}

// Record persists the events, buffering any that cannot be written now.
func (ar *AuditRecorder) Record(ctx context.Context, events ...domain.AuditEvent) {
	if ar == nil {
		return
	}
	for _, event := range events {
		if event.ID == "" {
			event.ID = uuid.NewString()
		}
		if ar.monitor == nil || ar.monitor.IsOnline() {
			if err := ar.activity.Append(ctx, event); err == nil {
				continue
			} else {
				ar.logger.Warn("activity append failed, spilling to buffer",
					zap.String("action", event.ActionType),
					zap.Error(err))
			}
		}
		ar.spill(event)
	}
}

func (ar *AuditRecorder) spill(event domain.AuditEvent) {
	if ar.store == nil {
		ar.logger.Error("audit event lost, no spill buffer configured",
			zap.String("action", event.ActionType))
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		ar.logger.Error("audit event serialization failed", zap.Error(err))
		return
	}
	item := buffer.Item{
		ID:     event.ID,
		Entity: buffer.EntityAudit,
		Data:   data,
	}
	if err := ar.store.Enqueue(item); err != nil {
		ar.logger.Error("audit event lost, spill enqueue failed", zap.Error(err))
	}
}

// Drain flushes buffered events back into the activity log.
func (ar *AuditRecorder) Drain(ctx context.Context) error {
	if ar == nil || ar.store == nil {
		return nil
	}
	if ar.monitor != nil && !ar.monitor.IsOnline() {
		ar.logger.Debug("skipping audit drain (offline)")
		return nil
	}

	items, err := ar.store.GetBatch(ar.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := ar.replay(ctx, item); err != nil {
			ar.logger.Error("failed to replay audit item",
				zap.String("item_id", item.ID),
				zap.Error(err))

			item.Retries++
			if item.Retries >= ar.cfg.MaxRetries {
				ar.logger.Warn("dropping audit item (max retries reached)", zap.String("item_id", item.ID))
				_ = ar.store.Remove(item)
				continue
			}

			if err := ar.store.Remove(item); err != nil {
				ar.logger.Warn("failed to remove audit item", zap.Error(err))
			}
			if err := ar.store.Requeue(item); err != nil {
				ar.logger.Error("failed to requeue audit item", zap.Error(err))
			}
			continue
		}

		if err := ar.store.Remove(item); err != nil {
			ar.logger.Warn("failed to purge replayed audit item", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of buffered events.
func (ar *AuditRecorder) Size() int {
	if ar == nil || ar.store == nil {
		return 0
	}
	size, err := ar.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (ar *AuditRecorder) replay(ctx context.Context, item buffer.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if item.Entity != buffer.EntityAudit {
		return fmt.Errorf("unsupported entity %s", item.Entity)
	}
	var event domain.AuditEvent
	if err := json.Unmarshal(item.Data, &event); err != nil {
		return err
	}
	return ar.activity.Append(ctx, event)
}
