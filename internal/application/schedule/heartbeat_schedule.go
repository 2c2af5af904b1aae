package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/internal/domain/usecase/heartbeat"
	"go-heartbeat/pkg/log"
	"go-heartbeat/pkg/msg"
)

// CycleObserver is notified after every publish cycle.
type CycleObserver interface {
	ObserveCycle(report entity.HeartbeatReport, duration time.Duration, err error)
}

// HeartbeatSchedulerConfig holds configuration for the heartbeat scheduler
type HeartbeatSchedulerConfig struct {
	Interval time.Duration
	// FailFast stops the scheduler on the first publish error.
	FailFast bool
	// StopTimeout bounds the wait for an in-flight cycle on shutdown.
	StopTimeout time.Duration
	// Destination names the bus in logs.
	Destination string
}

// HeartbeatScheduler publishes one heartbeat per interval. Cycles never
// overlap and an in-flight cycle is not canceled by shutdown.
type HeartbeatScheduler struct {
	useCase  heartbeat.UseCase
	targets  entity.Targets
	observer CycleObserver
	config   HeartbeatSchedulerConfig
	now      func() time.Time
	stopped  atomic.Bool
}

func NewHeartbeatScheduler(useCase heartbeat.UseCase, targets entity.Targets, observer CycleObserver, config HeartbeatSchedulerConfig) *HeartbeatScheduler {
	if config.StopTimeout <= 0 {
		config.StopTimeout = time.Minute
	}
	return &HeartbeatScheduler{
		useCase:  useCase,
		targets:  targets,
		observer: observer,
		config:   config,
		now:      time.Now,
	}
}

// Run schedules the publish cycles and blocks until ctx is canceled or, with
// FailFast, a cycle fails to publish. The failing *entity.PublishError is
// returned in the latter case.
func (s *HeartbeatScheduler) Run(ctx context.Context) error {
	if s.config.Interval <= 0 {
		return fmt.Errorf("invalid publish interval %s", s.config.Interval)
	}

	scheduler, err := gocron.NewScheduler(gocron.WithStopTimeout(s.config.StopTimeout))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	failed := make(chan error, 1)
	cycleCtx := context.WithoutCancel(ctx)

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.config.Interval),
		gocron.NewTask(func() {
			if s.stopped.Load() {
				return
			}
			if err := s.ExecuteCycle(cycleCtx); err != nil && s.config.FailFast {
				s.stopped.Store(true)
				select {
				case failed <- err:
				default:
				}
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule heartbeat: %w", err)
	}

	scheduler.Start()
	log.Infof("Heartbeat publisher scheduled every %s", s.config.Interval)

	var runErr error
	select {
	case <-ctx.Done():
		log.Info(msg.GetMessage("publisher.stopping"))
	case runErr = <-failed:
	}

	s.stopped.Store(true)
	if err := scheduler.Shutdown(); err != nil && !errors.Is(err, gocron.ErrStopJobsTimedOut) {
		log.Errorf("Failed to stop heartbeat scheduler: %v", err)
	}
	return runErr
}

// ExecuteCycle probes, builds and publishes one heartbeat.
func (s *HeartbeatScheduler) ExecuteCycle(ctx context.Context) error {
	cycleID := uuid.NewString()
	capturedAt := s.now()

	log.Info(msg.GetMessage("publisher.cycle-start", cycleID), zap.String("cycle_id", cycleID))

	report := s.useCase.Collect(ctx, s.targets, capturedAt)
	err := s.useCase.Publish(ctx, report)

	if s.observer != nil {
		s.observer.ObserveCycle(report, time.Since(capturedAt), err)
	}

	if err != nil {
		log.Error(msg.GetMessage("publisher.cycle-failed", cycleID, err),
			zap.String("cycle_id", cycleID),
			zap.Error(err),
		)
		return err
	}

	log.Info(msg.GetMessage("publisher.cycle-published", cycleID, s.config.Destination, s.useCase.RoutingKey()),
		zap.String("cycle_id", cycleID),
		zap.Int("hosts", len(report.Hosts)),
		zap.Int("queues", len(report.RMQConsumers.QueuesStatus)),
		zap.Int("services", len(report.RMQConsumers.ServicesStatus)),
	)
	return nil
}
