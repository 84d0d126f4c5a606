// Package tunnel starts, stops, and inspects the ssh processes behind the
// configured tunnels.
package tunnel

import (
	"os/exec"

	"github.com/salmonumbrella/tunnels-cli/internal/config"
)

// tagPrefix namespaces the ssh Tag option so liveness checks only ever match
// processes this tool started.
const tagPrefix = "tnl-"

// lookPath is swapped in tests to control autossh detection.
var lookPath = exec.LookPath

// Tag returns the process tag for a tunnel, as passed via `-o Tag=...` and
// matched against running command lines.
func Tag(t *config.Tunnel) string {
	return tagPrefix + t.NameTag()
}

// SSHCommand returns the ssh binary to use.
func SSHCommand() string {
	if path, err := lookPath("ssh"); err == nil {
		return path
	}
	return "ssh"
}

// AutosshCommand returns the autossh binary if available.
func AutosshCommand() (string, bool) {
	path, err := lookPath("autossh")
	if err != nil {
		return "", false
	}
	return path, true
}

// keepaliveOptions hold the connection steady across flaky links and keep ssh
// from blocking on interactive prompts in the background.
var keepaliveOptions = []string{
	"ServerAliveInterval=60",
	"ServerAliveCountMax=3",
	"TCPKeepAlive=yes",
	"ConnectTimeout=10",
	"ConnectionAttempts=3",
	"BatchMode=yes",
	"StrictHostKeyChecking=no",
	"ExitOnForwardFailure=no",
}

// Command builds the argv to start a tunnel. With useAutossh and autossh on
// PATH, autossh supervises the connection (-M 0 disables its monitor port in
// favor of the keepalive options); otherwise plain ssh is used. Either way the
// process backgrounds itself (-f) with no remote command (-N) and stdin
// detached (-n).
func Command(t *config.Tunnel, useAutossh bool) []string {
	var argv []string
	if autossh, ok := AutosshCommand(); useAutossh && ok {
		argv = []string{autossh, "-M", "0", "-f", "-N", "-n"}
	} else {
		argv = []string{SSHCommand(), "-f", "-N", "-n"}
	}

	if t.Dynamic != nil {
		argv = append(argv, "-D", t.Dynamic.Address())
	} else if t.Local != nil {
		argv = append(argv, "-L", t.Local.Address())
	}

	argv = append(argv, t.Hostname, "-o", "Tag="+Tag(t))
	for _, opt := range keepaliveOptions {
		argv = append(argv, "-o", opt)
	}
	return argv
}
