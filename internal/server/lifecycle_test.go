package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockService struct {
	started atomic.Bool
	stopped atomic.Bool
	startFn func() error
}

func (m *mockService) Start() error {
	m.started.Store(true)
	if m.startFn != nil {
		return m.startFn()
	}
	for !m.stopped.Load() {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (m *mockService) Stop(ctx context.Context) error {
	m.stopped.Store(true)
	return nil
}

func TestLifecycleStartsAndStopsServices(t *testing.T) {
	logger := zaptest.NewLogger(t)
	lc := NewLifecycle(logger, time.Second)

	svc1 := &mockService{}
	svc2 := &mockService{}

	lc.Add("svc1", svc1)
	lc.Add("svc2", svc2)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- lc.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if svc1.started.Load() && svc2.started.Load() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("services did not start in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}

	assert.True(t, svc1.stopped.Load())
	assert.True(t, svc2.stopped.Load())
}

func TestLifecycleReturnsStartError(t *testing.T) {
	logger := zaptest.NewLogger(t)
	lc := NewLifecycle(logger, time.Second)

	boom := errors.New("bind failed")
	failing := &mockService{startFn: func() error { return boom }}
	healthy := &mockService{}

	lc.Add("healthy", healthy)
	lc.Add("failing", failing)

	done := make(chan error, 1)
	go func() {
		done <- lc.Run(context.Background())
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failing")
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}

	assert.True(t, healthy.stopped.Load())
}

func TestFuncService(t *testing.T) {
	started := false
	stopped := false

	svc := &FuncService{
		StartFn: func() error {
			started = true
			return nil
		},
		StopFn: func(ctx context.Context) error {
			stopped = true
			return nil
		},
	}

	err := svc.Start()
	assert.NoError(t, err)
	assert.True(t, started)

	require.NoError(t, svc.Stop(context.Background()))
	assert.True(t, stopped)
}
