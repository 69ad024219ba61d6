package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"drift/internal/persistence/interfaces"
	"drift/internal/providers"
	"drift/internal/services"
	"drift/internal/structures"
)

const defaultFlushTimeout = 5 * time.Second

type failureCounter interface {
	Failed() int64
}

// Scheduler restores state on start, checkpoints the write queue while
// running and drains it on shutdown.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	progression services.ProgressionServiceInterface
	onboarding  services.OnboardingServiceInterface
	writer      interfaces.WriterInterface
	opsMu       sync.Mutex
	stop        chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
	lastFailed  int64
}

func (s *Scheduler) Init() {
	interval := s.config.Storage.FlushInterval
	if interval <= 0 {
		s.logger.Infof(providers.TypeApp, "Periodic checkpoint disabled")
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.checkpoint()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Scheduler) checkpoint() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.flush(); err != nil {
		s.logger.Errorf(providers.TypeStorage, "Checkpoint failed: %s", err)
		return
	}
	if fc, ok := s.writer.(failureCounter); ok {
		failed := fc.Failed()
		if failed > s.lastFailed {
			s.logger.Warnf(providers.TypeStorage, "%d writes failed since last checkpoint", failed-s.lastFailed)
		}
		s.lastFailed = failed
	}
	s.logger.Debugf(providers.TypeStorage, "Checkpoint done")
}

func (s *Scheduler) flush() error {
	timeout := s.config.Storage.Timeout * 2
	if timeout <= 0 {
		timeout = defaultFlushTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.writer.Flush(ctx)
}

func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

func (s *Scheduler) Restore() error {
	ctx := context.Background()
	if err := s.progression.Initialize(ctx); err != nil {
		return fmt.Errorf("restore progress: %w", err)
	}
	if err := s.onboarding.Load(ctx); err != nil {
		return fmt.Errorf("restore profile: %w", err)
	}
	s.logger.Infof(providers.TypeApp, "State restored from %s storage", s.config.Storage.Driver)
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Draining pending writes...")
	if err := s.flush(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while draining writes: %s", err)
		return err
	}
	return s.writer.Close()
}

func NewScheduler(config *structures.Config, logger providers.Logger, progression services.ProgressionServiceInterface, onboarding services.OnboardingServiceInterface, writer interfaces.WriterInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		progression: progression,
		onboarding:  onboarding,
		writer:      writer,
	}
}
