package installer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/wsm/internal/core"
)

type fakeWorkspaces struct {
	mu    sync.Mutex
	items map[string]*core.Workspace
}

func newFakeWorkspaces(names ...string) *fakeWorkspaces {
	f := &fakeWorkspaces{items: map[string]*core.Workspace{}}
	for _, n := range names {
		f.items[n] = &core.Workspace{ID: n, Name: n, Type: core.TypeWebDev, Status: core.StatusInactive}
	}
	return f
}

func (f *fakeWorkspaces) Get(id string) (*core.Workspace, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ws, ok := f.items[id]
	if !ok {
		return nil, false
	}
	return ws.Clone(), true
}

func (f *fakeWorkspaces) Update(_ context.Context, id string, patch core.WorkspacePatch) (*core.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ws, ok := f.items[id]
	if !ok {
		return nil, core.NotFound(id)
	}
	patch.Apply(ws)
	return ws.Clone(), nil
}

func fastPipeline() Pipeline {
	return Pipeline{
		{Name: "System Check", Duration: 20 * time.Millisecond},
		{Name: "Downloading Tools", Duration: 30 * time.Millisecond},
		{Name: "Verifying Installation", Duration: 20 * time.Millisecond},
	}
}

func newOrchestrator(t *testing.T, ws Workspaces, p Pipeline, cfg Config) *Orchestrator {
	t.Helper()
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 2 * time.Millisecond
	}
	o, err := New(ws, p, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return o
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestStart_RunsToCompletion(t *testing.T) {
	ws := newFakeWorkspaces("W1")
	o := newOrchestrator(t, ws, fastPipeline(), Config{})

	var readings []float64
	stop := make(chan struct{})
	sampled := make(chan struct{})
	go func() {
		defer close(sampled)
		for {
			select {
			case <-stop:
				return
			default:
			}
			readings = append(readings, o.Progress().Percent)
			time.Sleep(time.Millisecond)
		}
	}()

	if err := o.Start(context.Background(), "W1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	close(stop)
	<-sampled

	for i := 1; i < len(readings); i++ {
		if readings[i] < readings[i-1] {
			t.Fatalf("progress went backwards at %d: %v -> %v", i, readings[i-1], readings[i])
		}
	}
	intermediate := false
	for _, r := range readings {
		if r > 0 && r < 100 {
			intermediate = true
		}
	}
	if !intermediate {
		t.Error("expected intermediate progress readings")
	}

	p := o.Progress()
	if p.Percent != 100 || p.State != core.InstallCompleted || p.Installing || p.CurrentStep != "Installation Complete!" {
		t.Errorf("unexpected final progress: %+v", p)
	}

	logs := o.Logs()
	if first := logs[0]; first.Level != core.LogInfo || first.Message != "Starting installation of W1" || first.Step != "initialization" {
		t.Errorf("unexpected first log: %+v", first)
	}
	last := logs[len(logs)-1]
	if last.Level != core.LogSuccess || last.Message != "Installation completed successfully!" || last.Step != "complete" {
		t.Errorf("unexpected last log: %+v", last)
	}
	// start + (begin, done) per step + completion
	if want := 2 + 2*len(fastPipeline()); len(logs) != want {
		t.Errorf("expected %d logs, got %d", want, len(logs))
	}
	if logs[1].Message != "System Check..." || logs[1].Step != "system_check" {
		t.Errorf("unexpected step log: %+v", logs[1])
	}
	if logs[2].Level != core.LogSuccess || logs[2].Message != "System Check completed successfully" {
		t.Errorf("unexpected step completion log: %+v", logs[2])
	}

	got, _ := ws.Get("W1")
	if got.Status != core.StatusInstalled || got.InstallProgress != 100 {
		t.Errorf("expected installed/100, got %s/%d", got.Status, got.InstallProgress)
	}
}

func TestStart_UnknownWorkspace(t *testing.T) {
	o := newOrchestrator(t, newFakeWorkspaces(), fastPipeline(), Config{})
	if err := o.Start(context.Background(), "missing"); !core.IsCode(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if p := o.Progress(); p.State != core.InstallIdle || p.Installing {
		t.Errorf("expected idle, got %+v", p)
	}
}

func TestLaunch_RejectsConcurrentInstall(t *testing.T) {
	ws := newFakeWorkspaces("W1", "W2")
	o := newOrchestrator(t, ws, fastPipeline(), Config{})

	done, err := o.Launch("W1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := o.Launch("W2"); !core.IsCode(err, core.ErrInstallInProgress) {
		t.Errorf("expected install in progress, got %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("first install: %v", err)
	}
	if got, _ := ws.Get("W2"); got.Status != core.StatusInactive {
		t.Errorf("rejected install must not touch W2, got %s", got.Status)
	}

	// A new run may start once the previous one is finished.
	done, err = o.Launch("W2")
	if err != nil {
		t.Fatalf("second launch: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("second install: %v", err)
	}
}

func TestCancel_ResetsState(t *testing.T) {
	ws := newFakeWorkspaces("W1")
	p := Pipeline{{Name: "Slow", Duration: time.Second}}
	o := newOrchestrator(t, ws, p, Config{})

	done, err := o.Launch("W1")
	if err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return o.Progress().Percent > 0 })
	if got, _ := ws.Get("W1"); got.Status != core.StatusInstalling {
		t.Fatalf("expected installing during run, got %s", got.Status)
	}

	if !o.Cancel() {
		t.Fatal("expected Cancel to report a running install")
	}
	prog := o.Progress()
	if prog.Percent != 0 || prog.CurrentStep != "" || prog.Installing || prog.State != core.InstallIdle {
		t.Errorf("expected reset progress, got %+v", prog)
	}
	if n := len(o.Logs()); n != 0 {
		t.Errorf("expected logs cleared, got %d", n)
	}

	if err := <-done; !core.IsCode(err, core.ErrInstallationCancelled) {
		t.Errorf("expected cancelled result, got %v", err)
	}
	if n := len(o.Logs()); n != 0 {
		t.Errorf("cancelled run kept publishing: %d logs", n)
	}
	got, _ := ws.Get("W1")
	if got.Status != core.StatusInactive || got.InstallProgress != 0 {
		t.Errorf("expected inactive/0 after cancel, got %s/%d", got.Status, got.InstallProgress)
	}
	if o.Cancel() {
		t.Error("Cancel with nothing running should report false")
	}
}

func TestStart_StepFailure(t *testing.T) {
	ws := newFakeWorkspaces("W1")
	p := fastPipeline()
	p[1].Action = func(context.Context) error { return errors.New("mirror unreachable") }
	o := newOrchestrator(t, ws, p, Config{})

	err := o.Start(context.Background(), "W1")
	if !core.IsCode(err, core.ErrInstallationFailed) {
		t.Fatalf("expected installation failed, got %v", err)
	}

	prog := o.Progress()
	if prog.State != core.InstallFailed || prog.Installing {
		t.Errorf("unexpected progress: %+v", prog)
	}
	logs := o.Logs()
	last := logs[len(logs)-1]
	if last.Level != core.LogError || last.Step != "error" || !strings.Contains(last.Message, "mirror unreachable") {
		t.Errorf("unexpected failure log: %+v", last)
	}
	if !strings.HasPrefix(last.Message, "Installation failed: ") {
		t.Errorf("unexpected failure message: %q", last.Message)
	}
	for _, l := range logs {
		if l.Step == "verifying_installation" {
			t.Error("pipeline continued after a failed step")
		}
	}
	if got, _ := ws.Get("W1"); got.Status != core.StatusError {
		t.Errorf("expected error status, got %s", got.Status)
	}
}

func TestStart_StepTimeout(t *testing.T) {
	ws := newFakeWorkspaces("W1")
	p := Pipeline{{Name: "Hung", Action: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}}
	o := newOrchestrator(t, ws, p, Config{StepTimeout: 30 * time.Millisecond})

	err := o.Start(context.Background(), "W1")
	if !core.IsCode(err, core.ErrInstallationFailed) {
		t.Fatalf("expected installation failed, got %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout detail, got %v", err)
	}
	if got, _ := ws.Get("W1"); got.Status != core.StatusError {
		t.Errorf("expected error status, got %s", got.Status)
	}
}

func TestNew_RejectsStepLongerThanTimeout(t *testing.T) {
	ws := newFakeWorkspaces("W1")
	p := DefaultPipeline().Scaled(10)

	_, err := New(ws, p, Config{StepTimeout: 60 * time.Second}, zap.NewNop())
	if err == nil {
		t.Fatal("expected scaled pipeline to be rejected against a 60s step timeout")
	}
	if !strings.Contains(err.Error(), "Installing GUI Applications") {
		t.Errorf("expected the 80s step named, got %v", err)
	}

	if _, err := New(ws, DefaultPipeline(), Config{StepTimeout: 60 * time.Second}, zap.NewNop()); err != nil {
		t.Errorf("expected default pipeline to fit, got %v", err)
	}
	if _, err := New(ws, p, Config{}, zap.NewNop()); err != nil {
		t.Errorf("expected no check without a step timeout, got %v", err)
	}
}

func TestStart_CallerContextCancelled(t *testing.T) {
	ws := newFakeWorkspaces("W1")
	o := newOrchestrator(t, ws, Pipeline{{Name: "Slow", Duration: time.Second}}, Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := o.Start(ctx, "W1")
	if !core.IsCode(err, core.ErrInstallationCancelled) {
		t.Fatalf("expected cancelled, got %v", err)
	}
	if p := o.Progress(); p.State != core.InstallIdle || p.Percent != 0 {
		t.Errorf("expected idle reset, got %+v", p)
	}
	if got, _ := ws.Get("W1"); got.Status != core.StatusInactive {
		t.Errorf("expected inactive, got %s", got.Status)
	}
}

func TestStart_ClearsPreviousLogs(t *testing.T) {
	ws := newFakeWorkspaces("W1")
	o := newOrchestrator(t, ws, Pipeline{{Name: "Quick", Duration: 5 * time.Millisecond}}, Config{})
	if err := o.Start(context.Background(), "W1"); err != nil {
		t.Fatal(err)
	}
	n := len(o.Logs())
	if err := o.Start(context.Background(), "W1"); err != nil {
		t.Fatal(err)
	}
	if got := len(o.Logs()); got != n {
		t.Errorf("expected %d logs for the second run, got %d", n, got)
	}
}
