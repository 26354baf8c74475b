package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeService struct {
	name     string
	startErr error
	stopped  atomic.Bool
	release  chan struct{}
}

func newFakeService(name string, startErr error) *fakeService {
	return &fakeService{name: name, startErr: startErr, release: make(chan struct{})}
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	select {
	case <-ctx.Done():
	case <-s.release:
	}
	return nil
}

func (s *fakeService) Stop(context.Context) error {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.release)
	}
	return nil
}

func TestRunnerStopsAllOnCancel(t *testing.T) {
	api := newFakeService("api", nil)
	jobs := newFakeService("worker", nil)
	runner := NewRunner(api, jobs)
	closed := false
	runner.OnShutdown(func() { closed = true })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx, time.Second, nil) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancel should return nil, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not stop")
	}
	if !api.stopped.Load() || !jobs.stopped.Load() {
		t.Fatalf("all services should be stopped")
	}
	if !closed {
		t.Fatalf("shutdown hook should run")
	}
}

func TestRunnerPropagatesStartError(t *testing.T) {
	boom := errors.New("listen failed")
	healthy := newFakeService("worker", nil)
	runner := NewRunner(newFakeService("api", boom), healthy)

	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("want start error, got %v", err)
	}
	if !healthy.stopped.Load() {
		t.Fatalf("healthy service should be stopped after sibling failure")
	}
}

func TestIsValidMode(t *testing.T) {
	for _, mode := range []string{ModeAll, ModeAPI, ModeWorker} {
		if !IsValidMode(mode) {
			t.Fatalf("%s should be valid", mode)
		}
	}
	if IsValidMode("cron") {
		t.Fatalf("unknown mode should be rejected")
	}
	if _, err := BuildRunner(nil, ModeAll); err == nil {
		t.Fatalf("nil config should fail")
	}
}

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := normalizeOptions(Options{Mode: " API "})
	if opts.Mode != ModeAPI || opts.ShutdownTimeout != defaultShutdownTimeout || opts.Logger == nil {
		t.Fatalf("unexpected options %+v", opts)
	}
	if !IsValidMode(normalizeOptions(Options{}).Mode) {
		t.Fatalf("empty mode should default to a valid mode")
	}
	if IsValidMode("cron") {
		t.Fatalf("unknown mode should be rejected")
	}
}

func TestHTTPServiceReportsListenError(t *testing.T) {
	svc := NewHTTPService("127.0.0.1:-1", nil)
	if err := svc.Start(context.Background()); err == nil {
		t.Fatalf("invalid address should fail to listen")
	}
}
