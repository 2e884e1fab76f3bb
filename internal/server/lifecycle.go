package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component managed by a Lifecycle.
type Service interface {
	// Start runs the service and blocks until it stops or fails.
	Start() error
	// Stop asks the service to shut down, honoring ctx's deadline.
	Stop(ctx context.Context) error
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func(ctx context.Context) error
}

func (f *FuncService) Start() error { return f.StartFn() }

func (f *FuncService) Stop(ctx context.Context) error { return f.StopFn(ctx) }

// Lifecycle starts registered services and shuts them down together on
// SIGINT, SIGTERM, context cancellation, or the first service failure.
// Services start in registration order and stop in reverse order.
type Lifecycle struct {
	logger      *zap.Logger
	stopTimeout time.Duration

	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name string
	svc  Service
}

// NewLifecycle creates a Lifecycle whose per-service shutdown is bounded by
// stopTimeout; zero means no bound.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger, stopTimeout time.Duration) *Lifecycle {
	return &Lifecycle{logger: logger, stopTimeout: stopTimeout}
}

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, svc: svc})
}

// Run starts every registered service and blocks until a termination signal
// arrives, ctx is cancelled, or a service fails. It then stops all services
// in reverse order.
//
// Postcondition: Every service has been stopped when Run returns; the return
// value is the first start error, or nil for a clean signal-driven shutdown.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(l.services))
	for _, ns := range l.services {
		ns := ns
		go func() {
			l.logger.Info("service starting", zap.String("service", ns.name))
			if err := ns.svc.Start(); err != nil {
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
				cancel()
			}
		}()
	}
	l.logger.Info("services running",
		zap.Int("count", len(l.services)),
		zap.Duration("startup", time.Since(start)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		l.logger.Info("signal received, shutting down", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		l.logger.Error("service failed, shutting down", zap.Error(runErr))
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	l.shutdown()

	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(start)))
	return runErr
}

func (l *Lifecycle) shutdown() {
	for i := len(l.services) - 1; i >= 0; i-- {
		ns := l.services[i]
		ctx := context.Background()
		if l.stopTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, l.stopTimeout)
			defer cancel()
		}
		stopStart := time.Now()
		if err := ns.svc.Stop(ctx); err != nil {
			l.logger.Error("service stop failed",
				zap.String("service", ns.name),
				zap.Error(err),
			)
			continue
		}
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(stopStart)),
		)
	}
}
