package tunnel

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/salmonumbrella/tunnels-cli/internal/config"
	tnlerrors "github.com/salmonumbrella/tunnels-cli/internal/errors"
	"github.com/salmonumbrella/tunnels-cli/internal/procs"
)

// Outcome classifies the result of a start or stop attempt on one tunnel.
type Outcome int

const (
	// OutcomeStarted means a new tunnel process was spawned.
	OutcomeStarted Outcome = iota
	// OutcomeAlreadyRunning means start was a no-op.
	OutcomeAlreadyRunning
	// OutcomeStopped means the process exited after SIGTERM.
	OutcomeStopped
	// OutcomeForceStopped means the process needed SIGKILL.
	OutcomeForceStopped
	// OutcomeNotRunning means stop was a no-op.
	OutcomeNotRunning
	// OutcomeFailed means the operation errored; Result.Err has the cause.
	OutcomeFailed
)

// Result is the per-tunnel outcome of a start or stop.
type Result struct {
	Tunnel  string
	Outcome Outcome
	PID     int32
	Err     error
}

// Changed reports whether the operation altered process state.
func (r Result) Changed() bool {
	switch r.Outcome {
	case OutcomeStarted, OutcomeStopped, OutcomeForceStopped:
		return true
	}
	return false
}

// stopGrace is how long a stopped tunnel gets to exit after SIGTERM before
// it is killed.
const stopGrace = 5 * time.Second

// Manager starts and stops tunnel processes. The zero value is not usable;
// construct with NewManager.
type Manager struct {
	grace time.Duration
	poll  time.Duration

	list      func(ctx context.Context) ([]procs.Info, error)
	conns     func(ctx context.Context, pid int32) ([]string, error)
	spawn     func(argv []string) error
	terminate func(pid int32) error
	kill      func(pid int32) error
	running   func(pid int32) (bool, error)
}

// NewManager returns a Manager wired to the real process table.
func NewManager() *Manager {
	return &Manager{
		grace:     stopGrace,
		poll:      100 * time.Millisecond,
		list:      procs.ListSSH,
		conns:     procs.Connections,
		spawn:     spawnDetached,
		terminate: procs.Terminate,
		kill:      procs.Kill,
		running:   procs.IsRunning,
	}
}

// spawnDetached launches the tunnel command without waiting for it. ssh -f
// forks into the background itself, so the direct child exits immediately;
// Release avoids holding a handle we will never wait on. The process must
// outlive this CLI, so no CommandContext here.
func spawnDetached(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Find returns the process carrying the tunnel's tag, or nil when the tunnel
// is not running.
func (m *Manager) Find(ctx context.Context, t *config.Tunnel) (*procs.Info, error) {
	infos, err := m.list(ctx)
	if err != nil {
		return nil, err
	}
	tag := Tag(t)
	for i := range infos {
		if strings.Contains(infos[i].Cmdline, tag) {
			return &infos[i], nil
		}
	}
	return nil, nil
}

// Start launches the tunnel unless it is already running.
func (m *Manager) Start(ctx context.Context, t *config.Tunnel, useAutossh bool) Result {
	if proc, err := m.Find(ctx, t); err != nil {
		return Result{Tunnel: t.Name, Outcome: OutcomeFailed,
			Err: &tnlerrors.ProcessError{Tunnel: t.Name, Err: err}}
	} else if proc != nil {
		return Result{Tunnel: t.Name, Outcome: OutcomeAlreadyRunning, PID: proc.PID}
	}

	if err := m.spawn(Command(t, useAutossh)); err != nil {
		return Result{Tunnel: t.Name, Outcome: OutcomeFailed,
			Err: &tnlerrors.ProcessError{Tunnel: t.Name, Err: err}}
	}
	return Result{Tunnel: t.Name, Outcome: OutcomeStarted}
}

// Stop terminates the tunnel's process, escalating to SIGKILL when it does
// not exit within the grace period.
func (m *Manager) Stop(ctx context.Context, t *config.Tunnel) Result {
	proc, err := m.Find(ctx, t)
	if err != nil {
		return Result{Tunnel: t.Name, Outcome: OutcomeFailed,
			Err: &tnlerrors.ProcessError{Tunnel: t.Name, Err: err}}
	}
	if proc == nil {
		return Result{Tunnel: t.Name, Outcome: OutcomeNotRunning}
	}

	if err := m.terminate(proc.PID); err != nil {
		return Result{Tunnel: t.Name, Outcome: OutcomeFailed, PID: proc.PID,
			Err: &tnlerrors.ProcessError{Tunnel: t.Name, PID: proc.PID, Err: err}}
	}

	if m.waitExit(ctx, proc.PID) {
		return Result{Tunnel: t.Name, Outcome: OutcomeStopped, PID: proc.PID}
	}

	if err := m.kill(proc.PID); err != nil {
		return Result{Tunnel: t.Name, Outcome: OutcomeFailed, PID: proc.PID,
			Err: &tnlerrors.ProcessError{Tunnel: t.Name, PID: proc.PID, Err: err}}
	}
	return Result{Tunnel: t.Name, Outcome: OutcomeForceStopped, PID: proc.PID}
}

// waitExit polls until the pid is gone, the grace period lapses, or the
// context is canceled. Returns true when the process exited.
func (m *Manager) waitExit(ctx context.Context, pid int32) bool {
	deadline := time.NewTimer(m.grace)
	defer deadline.Stop()
	tick := time.NewTicker(m.poll)
	defer tick.Stop()

	for {
		if running, err := m.running(pid); err == nil && !running {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-tick.C:
		}
	}
}

// StartAll starts each tunnel in order and returns the per-tunnel results.
func (m *Manager) StartAll(ctx context.Context, tunnels []config.Tunnel, useAutossh bool) []Result {
	results := make([]Result, 0, len(tunnels))
	for i := range tunnels {
		results = append(results, m.Start(ctx, &tunnels[i], useAutossh))
	}
	return results
}

// StopAll stops each tunnel in order and returns the per-tunnel results.
func (m *Manager) StopAll(ctx context.Context, tunnels []config.Tunnel) []Result {
	results := make([]Result, 0, len(tunnels))
	for i := range tunnels {
		results = append(results, m.Stop(ctx, &tunnels[i]))
	}
	return results
}
