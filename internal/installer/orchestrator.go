// Package installer runs the simulated installation pipeline for one
// workspace at a time, publishing progress and an append-only log.
package installer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/wsm/internal/core"
	"github.com/lzjever/wsm/internal/observability"
)

const (
	labelInitializing = "Initializing..."
	labelComplete     = "Installation Complete!"
)

// Workspaces is the slice of the lifecycle manager the orchestrator needs.
type Workspaces interface {
	Get(id string) (*core.Workspace, bool)
	Update(ctx context.Context, id string, patch core.WorkspacePatch) (*core.Workspace, error)
}

type Config struct {
	TickInterval time.Duration
	StepTimeout  time.Duration
}

type Orchestrator struct {
	ws       Workspaces
	pipeline Pipeline
	bounds   [][2]float64
	cfg      Config
	log      *zap.Logger
	now      func() time.Time

	mu          sync.Mutex
	state       core.InstallState
	workspaceID string
	percent     float64
	step        string
	logs        []core.InstallationLog
	gen         uint64
	cancel      context.CancelFunc

	// wsMu orders workspace status writes between a run and Cancel.
	wsMu sync.Mutex
}

// run identifies one installation attempt. A run whose gen no longer matches
// the orchestrator's has been cancelled and must not publish anything.
type run struct {
	gen       uint64
	id        string
	workspace *core.Workspace
	started   time.Time
	log       *zap.Logger
}

var errCancelled = errors.New("installation cancelled")

func New(ws Workspaces, pipeline Pipeline, cfg Config, log *zap.Logger) (*Orchestrator, error) {
	if err := pipeline.Validate(); err != nil {
		return nil, err
	}
	if err := pipeline.FitsTimeout(cfg.StepTimeout); err != nil {
		return nil, err
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 100 * time.Millisecond
	}
	return &Orchestrator{
		ws:       ws,
		pipeline: pipeline,
		bounds:   pipeline.bounds(),
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		state:    core.InstallIdle,
	}, nil
}

// Start installs workspace id and blocks until the run ends.
func (o *Orchestrator) Start(ctx context.Context, id string) error {
	r, runCtx, err := o.prepare(ctx, id)
	if err != nil {
		return err
	}
	return o.execute(runCtx, r)
}

// Launch starts an installation in the background. Errors that prevent the
// run from starting are returned directly; the outcome arrives on the channel.
func (o *Orchestrator) Launch(id string) (<-chan error, error) {
	r, runCtx, err := o.prepare(context.Background(), id)
	if err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- o.execute(runCtx, r)
	}()
	return done, nil
}

// Cancel stops the running installation, clears progress and logs and puts
// the workspace back to inactive. It reports whether a run was cancelled.
func (o *Orchestrator) Cancel() bool {
	o.mu.Lock()
	if o.state != core.InstallRunning {
		o.mu.Unlock()
		return false
	}
	wsid := o.workspaceID
	o.resetLocked()
	cancel := o.cancel
	o.cancel = nil
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.revert(wsid)
	observability.InstallationsTotal.WithLabelValues(string(core.InstallCancelled)).Inc()
	o.log.Info("installation cancelled", zap.String("wsid", wsid))
	return true
}

func (o *Orchestrator) Progress() core.InstallProgress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return core.InstallProgress{
		State:       o.state,
		WorkspaceID: o.workspaceID,
		Percent:     o.percent,
		CurrentStep: o.step,
		Installing:  o.state == core.InstallRunning,
	}
}

// Logs returns a copy of the current run's log in emission order.
func (o *Orchestrator) Logs() []core.InstallationLog {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]core.InstallationLog{}, o.logs...)
}

func (o *Orchestrator) Pipeline() Pipeline {
	return append(Pipeline(nil), o.pipeline...)
}

func (o *Orchestrator) prepare(ctx context.Context, id string) (*run, context.Context, error) {
	o.mu.Lock()
	if o.state == core.InstallRunning {
		o.mu.Unlock()
		return nil, nil, core.NewAppError(core.ErrInstallInProgress, "an installation is already running for "+o.workspaceID)
	}
	ws, ok := o.ws.Get(id)
	if !ok {
		o.mu.Unlock()
		return nil, nil, core.NotFound(id)
	}

	o.gen++
	installID := core.NewID()
	r := &run{
		gen:       o.gen,
		id:        installID,
		workspace: ws,
		started:   o.now(),
		log:       observability.InstallLogger(o.log, installID, id),
	}
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.state = core.InstallRunning
	o.workspaceID = id
	o.percent = 0
	o.step = labelInitializing
	o.logs = nil
	o.appendLocked(id, core.LogInfo, "Starting installation of "+ws.Name, "initialization")
	o.mu.Unlock()

	observability.InstallationProgress.Set(0)
	r.log.Info("installation started", zap.Int("steps", len(o.pipeline)))

	installing, zero := core.StatusInstalling, 0
	if err := o.setWorkspace(ctx, r, core.WorkspacePatch{Status: &installing, InstallProgress: &zero}); err != nil {
		return nil, nil, o.fail(ctx, r, err)
	}
	return r, runCtx, nil
}

func (o *Orchestrator) execute(ctx context.Context, r *run) error {
	for i, step := range o.pipeline {
		if err := o.runStep(ctx, r, step, o.bounds[i]); err != nil {
			if errors.Is(err, errCancelled) {
				return o.abandon(r)
			}
			return o.fail(ctx, r, err)
		}
	}
	return o.complete(ctx, r)
}

func (o *Orchestrator) runStep(ctx context.Context, r *run, step Step, bound [2]float64) error {
	if !o.publish(r, func() {
		o.step = step.Name
		o.appendLocked(r.workspace.ID, core.LogInfo, step.Name+"...", step.Tag())
	}) {
		return errCancelled
	}
	r.log.Debug("step started", zap.String("step", step.Tag()), zap.Duration("duration", step.Duration))

	stepCtx := ctx
	if o.cfg.StepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, o.cfg.StepTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(o.cfg.TickInterval)
	defer ticker.Stop()
	begin := time.Now()
	for {
		frac := 1.0
		if step.Duration > 0 {
			frac = min(float64(time.Since(begin))/float64(step.Duration), 1)
		}
		if !o.advance(r, bound[0]+(bound[1]-bound[0])*frac) {
			return errCancelled
		}
		if frac >= 1 {
			break
		}
		select {
		case <-stepCtx.Done():
			return o.stepErr(ctx, step, stepCtx.Err())
		case <-ticker.C:
		}
	}

	if step.Action != nil {
		if err := step.Action(stepCtx); err != nil {
			return o.stepErr(ctx, step, err)
		}
	}

	if !o.publish(r, func() {
		o.appendLocked(r.workspace.ID, core.LogSuccess, step.Name+" completed successfully", step.Tag())
	}) {
		return errCancelled
	}
	progress := int(bound[1])
	return o.setWorkspace(ctx, r, core.WorkspacePatch{InstallProgress: &progress})
}

// stepErr classifies a step failure: parent cancellation wins over the step
// deadline, which wins over the step's own error.
func (o *Orchestrator) stepErr(ctx context.Context, step Step, err error) error {
	if ctx.Err() != nil {
		return errCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out after %s", step.Name, o.cfg.StepTimeout)
	}
	return fmt.Errorf("%s: %w", step.Name, err)
}

func (o *Orchestrator) complete(ctx context.Context, r *run) error {
	installed, full := core.StatusInstalled, 100
	if err := o.setWorkspace(ctx, r, core.WorkspacePatch{Status: &installed, InstallProgress: &full}); err != nil {
		return o.fail(ctx, r, err)
	}
	if !o.publish(r, func() {
		o.percent = 100
		o.step = labelComplete
		o.state = core.InstallCompleted
		o.releaseLocked()
		o.appendLocked(r.workspace.ID, core.LogSuccess, "Installation completed successfully!", "complete")
	}) {
		return o.abandon(r)
	}
	observability.InstallationProgress.Set(100)
	observability.InstallationsTotal.WithLabelValues(string(core.InstallCompleted)).Inc()
	observability.InstallationDuration.Observe(time.Since(r.started).Seconds())
	r.log.Info("installation completed", zap.Duration("elapsed", time.Since(r.started)))
	return nil
}

func (o *Orchestrator) fail(ctx context.Context, r *run, cause error) error {
	status := core.StatusError
	if err := o.setWorkspace(ctx, r, core.WorkspacePatch{Status: &status}); err != nil {
		r.log.Warn("could not mark workspace failed", zap.Error(err))
	}
	if !o.publish(r, func() {
		o.state = core.InstallFailed
		o.releaseLocked()
		o.appendLocked(r.workspace.ID, core.LogError, "Installation failed: "+cause.Error(), "error")
	}) {
		return o.abandon(r)
	}
	observability.InstallationsTotal.WithLabelValues(string(core.InstallFailed)).Inc()
	observability.InstallationDuration.Observe(time.Since(r.started).Seconds())
	r.log.Error("installation failed", zap.Error(cause))
	return core.WrapAppError(core.ErrInstallationFailed, cause.Error(), cause)
}

// abandon handles a run that stopped without Cancel being called, such as
// when the caller's context ends. It resets state if the run is still current.
func (o *Orchestrator) abandon(r *run) error {
	o.mu.Lock()
	current := o.gen == r.gen && o.state == core.InstallRunning
	if current {
		o.resetLocked()
		o.releaseLocked()
	}
	o.mu.Unlock()
	if current {
		o.revert(r.workspace.ID)
		observability.InstallationsTotal.WithLabelValues(string(core.InstallCancelled)).Inc()
	}
	r.log.Info("installation stopped")
	return core.NewAppError(core.ErrInstallationCancelled, "installation cancelled")
}

// publish applies fn under the state lock if r is still the current run.
func (o *Orchestrator) publish(r *run, fn func()) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.gen != r.gen {
		return false
	}
	fn()
	return true
}

func (o *Orchestrator) advance(r *run, pct float64) bool {
	return o.publish(r, func() {
		if pct > o.percent {
			o.percent = pct
			observability.InstallationProgress.Set(pct)
		}
	})
}

func (o *Orchestrator) setWorkspace(ctx context.Context, r *run, patch core.WorkspacePatch) error {
	o.wsMu.Lock()
	defer o.wsMu.Unlock()
	o.mu.Lock()
	stale := o.gen != r.gen
	o.mu.Unlock()
	if stale {
		return errCancelled
	}
	_, err := o.ws.Update(context.WithoutCancel(ctx), r.workspace.ID, patch)
	return err
}

// revert puts a cancelled workspace back to inactive with no progress.
func (o *Orchestrator) revert(wsid string) {
	o.wsMu.Lock()
	defer o.wsMu.Unlock()
	inactive, zero := core.StatusInactive, 0
	_, err := o.ws.Update(context.Background(), wsid, core.WorkspacePatch{Status: &inactive, InstallProgress: &zero})
	if err != nil && !core.IsCode(err, core.ErrNotFound) {
		o.log.Warn("could not revert cancelled workspace", zap.String("wsid", wsid), zap.Error(err))
	}
}

func (o *Orchestrator) resetLocked() {
	o.gen++
	o.state = core.InstallIdle
	o.percent = 0
	o.step = ""
	o.logs = nil
	observability.InstallationProgress.Set(0)
}

func (o *Orchestrator) releaseLocked() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Orchestrator) appendLocked(wsid string, level core.LogLevel, msg, step string) {
	o.logs = append(o.logs, core.InstallationLog{
		ID:          core.NewID(),
		WorkspaceID: wsid,
		Timestamp:   o.now().UTC(),
		Level:       level,
		Message:     msg,
		Step:        step,
	})
}
