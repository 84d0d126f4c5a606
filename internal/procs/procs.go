// Package procs retrieves information about running ssh processes.
package procs

import (
	"context"
	"sort"
	"strconv"
	"strings"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// sshNames are the process names that count as tunnel carriers. autossh
// re-execs ssh for the actual connection but can hold the tag itself while
// reconnecting.
var sshNames = map[string]bool{
	"ssh":     true,
	"ssh.exe": true,
	"autossh": true,
}

// Info describes one running ssh process.
type Info struct {
	PID     int32
	Name    string
	Cmdline string
	Status  string
}

// ListSSH returns every visible ssh/autossh process. Processes whose name or
// command line cannot be read (typically other users' processes) are skipped,
// matching how liveness checks should behave on shared hosts.
func ListSSH(ctx context.Context) ([]Info, error) {
	all, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	var out []Info
	for _, p := range all {
		name, err := p.NameWithContext(ctx)
		if err != nil || !sshNames[name] {
			continue
		}
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil {
			continue
		}
		out = append(out, Info{
			PID:     p.Pid,
			Name:    name,
			Cmdline: cmdline,
			Status:  state(ctx, p),
		})
	}
	return out, nil
}

func state(ctx context.Context, p *process.Process) string {
	st, err := p.StatusWithContext(ctx)
	if err != nil || len(st) == 0 || st[0] == "" {
		return "Unknown"
	}
	return titleCase(st[0])
}

// Connections returns the process's IPv4 socket endpoints as a sorted list of
// unique "ip:port" strings, both local and remote sides.
func Connections(ctx context.Context, pid int32) ([]string, error) {
	stats, err := gnet.ConnectionsPidWithContext(ctx, "inet4", pid)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, c := range stats {
		if c.Laddr.IP != "" {
			seen[c.Laddr.IP+":"+strconv.FormatUint(uint64(c.Laddr.Port), 10)] = true
		}
		if c.Raddr.IP != "" {
			seen[c.Raddr.IP+":"+strconv.FormatUint(uint64(c.Raddr.Port), 10)] = true
		}
	}

	out := make([]string, 0, len(seen))
	for addr := range seen {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out, nil
}

// Terminate sends SIGTERM to the process.
func Terminate(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}
	return p.Terminate()
}

// Kill sends SIGKILL to the process.
func Kill(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}

// IsRunning reports whether the pid still refers to a live process.
func IsRunning(pid int32) (bool, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return false, nil
	}
	return p.IsRunning()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
