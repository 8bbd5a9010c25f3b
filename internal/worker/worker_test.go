package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingLoader struct {
	calls atomic.Int32
	fail  bool
}

func (l *countingLoader) Load(context.Context) (int, error) {
	l.calls.Add(1)
	if l.fail {
		return 0, errors.New("local store unreadable")
	}
	return 3, nil
}

func TestRun_ReloadsUntilCancelled(t *testing.T) {
	loader := &countingLoader{}
	w := New(loader, Config{Interval: 5 * time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for loader.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
	if loader.calls.Load() < 3 {
		t.Errorf("expected at least 3 reloads, got %d", loader.calls.Load())
	}
}

func TestRun_BacksOffOnFailure(t *testing.T) {
	loader := &countingLoader{fail: true}
	w := New(loader, Config{Interval: 10 * time.Millisecond, MaxBackoff: 40 * time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	w.Run(ctx)

	// Without backoff the loader would run ~15 times; with doubling capped at
	// 40ms it runs far fewer.
	if n := loader.calls.Load(); n == 0 || n > 8 {
		t.Errorf("unexpected number of attempts: %d", n)
	}
}

func TestNew_Defaults(t *testing.T) {
	w := New(&countingLoader{}, Config{}, zap.NewNop())
	if w.cfg.Interval != 30*time.Second || w.cfg.MaxBackoff != 240*time.Second {
		t.Errorf("unexpected defaults: %+v", w.cfg)
	}
}
