package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/talentsmy/backend/domain"
)

// PaymentEscalator is the slice of the order service the sweeper needs.
type PaymentEscalator interface {
	AutoVerifyPayments(ctx context.Context, now time.Time) ([]domain.AuditEvent, error)
}

// PaymentSweeper periodically escalates supplier payments that have sat in
// pending verification past the timeout. Each tick re-evaluates every
// candidate, so a missed tick is caught up on the next one.
type PaymentSweeper struct {
	escalator PaymentEscalator
	recorder  *AuditRecorder
	logger    *zap.Logger
	cron      *cron.Cron
	interval  time.Duration
}

func NewPaymentSweeper(escalator PaymentEscalator, recorder *AuditRecorder, interval time.Duration, logger *zap.Logger) *PaymentSweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ps := &PaymentSweeper{
		escalator: escalator,
		recorder:  recorder,
		logger:    logger,
		interval:  interval,
		cron:      cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = ps.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		ps.Sweep(ctx, time.Now())
	})

	return ps
}

// Start launches the sweep scheduler.
func (ps *PaymentSweeper) Start() {
	if ps == nil || ps.cron == nil {
		return
	}
	ps.cron.Start()
	ps.logger.Info("payment sweeper started", zap.Duration("interval", ps.interval))
}

// Stop gracefully stops the scheduler.
func (ps *PaymentSweeper) Stop(ctx context.Context) {
	if ps == nil || ps.cron == nil {
		return
	}
	stopCtx := ps.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	ps.logger.Info("payment sweeper stopped")
}

// Sweep runs one escalation pass and dispatches the resulting audit events.
func (ps *PaymentSweeper) Sweep(ctx context.Context, now time.Time) {
	events, err := ps.escalator.AutoVerifyPayments(ctx, now)
	if err != nil {
		ps.logger.Error("payment sweep failed", zap.Error(err))
		return
	}
	if len(events) == 0 {
		return
	}
	ps.logger.Info("auto-verified supplier payments", zap.Int("count", len(events)))
	if ps.recorder != nil {
		ps.recorder.Record(ctx, events...)
	}
}
