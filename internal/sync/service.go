package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/mesaeats/mesa-client/pkg/logger"
	"github.com/mesaeats/mesa-client/pkg/metrics"
)

const defaultInterval = 45 * time.Second

// ServiceParams configure the sync service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Metrics  *metrics.ClientMetrics
	Interval time.Duration
}

// Service runs the registered reconciliation jobs on a fixed cadence. It is
// the polling safety net behind the push channel: everything it does must be
// idempotent against updates that already arrived over the socket.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	metrics  *metrics.ClientMetrics
	interval time.Duration
}

// NewService builds a sync service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run executes the job loop until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "sync service context canceled")
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Service) runCycle(ctx context.Context) {
	for _, job := range s.registry.Jobs() {
		s.runJob(ctx, job)
	}
}

func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithField(ctx, "job", job.Name())
	start := time.Now()
	err := job.Run(jobCtx)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "sync job failed", err)
		s.metrics.IncSyncRun("failure")
		return
	}
	s.logg.Debug(jobCtx, "sync job completed")
	s.metrics.IncSyncRun("success")
}
