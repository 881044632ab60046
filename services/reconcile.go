package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const reconcileRunTimeout = 2 * time.Minute

// Reconciler periodically re-checks payments the browser never reported back.
type Reconciler struct {
	cron     *cron.Cron
	payments *PaymentService
	minAge   time.Duration
	logger   logrus.FieldLogger
}

func NewReconciler(schedule string, minAge time.Duration, payments *PaymentService, logger logrus.FieldLogger) (*Reconciler, error) {
	entry := logger.WithField("component", "reconciler")
	cronLogger := cronLogrus{entry}

	r := &Reconciler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		payments: payments,
		minAge:   minAge,
		logger:   entry,
	}
	if _, err := r.cron.AddFunc(schedule, r.Run); err != nil {
		return nil, fmt.Errorf("parse reconcile schedule %q: %w", schedule, err)
	}
	return r, nil
}

func (r *Reconciler) Start() {
	r.cron.Start()
	r.logger.Info("payment reconciler started")
}

// Stop waits for a running job to finish or ctx to expire.
func (r *Reconciler) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (r *Reconciler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileRunTimeout)
	defer cancel()

	n, err := r.payments.ReconcilePending(ctx, r.minAge)
	if err != nil {
		r.logger.WithError(err).Error("payment reconcile run failed")
		return
	}
	if n > 0 {
		r.logger.WithField("refreshed", n).Info("payment reconcile run finished")
	}
}

// cronLogrus routes the scheduler's own messages, such as skipped runs and
// recovered panics, into logrus.
type cronLogrus struct {
	logger logrus.FieldLogger
}

func (l cronLogrus) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(cronFields(keysAndValues)).Debug(msg)
}

func (l cronLogrus) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithError(err).WithFields(cronFields(keysAndValues)).Error(msg)
}

func cronFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
