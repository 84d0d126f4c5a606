package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salmonumbrella/tunnels-cli/internal/config"
)

const testConfigYAML = `output: table
tunnels:
  - name: web
    group: prod
    hostname: bastion.example.com
    dynamic:
      port: 1080
  - name: db
    hostname: db.example.com
    local:
      port: 5432
      host: localhost
      host_port: 5432
`

// useConfigFile points config loading at a fixed file for the test's duration.
func useConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if contents != "" {
		if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	restore := config.SetConfigPathFunc(func() (string, error) { return path, nil })
	t.Cleanup(func() { config.SetConfigPathFunc(restore) })
	return path
}

func runApp(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errBuf bytes.Buffer
	app := &App{Stdout: &out, Stderr: &errBuf, Version: "test", Commit: "none", BuildTime: "now"}
	err = app.Execute(context.Background(), args)
	return out.String(), errBuf.String(), err
}

func TestListCommandJSON(t *testing.T) {
	t.Setenv("TNL_OUTPUT", "")
	useConfigFile(t, testConfigYAML)

	stdout, _, err := runApp(t, "list", "-o", "json")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &rows); err != nil {
		t.Fatalf("stdout is not a JSON array: %v\n%s", err, stdout)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0]["name"] != "web" || rows[0]["forward"] != "-D 1080" {
		t.Errorf("row 0 = %v, want web with -D 1080", rows[0])
	}
	if rows[1]["group"] != nil {
		t.Errorf("row 1 group = %v, want null", rows[1]["group"])
	}
	if rows[1]["forward"] != "-L 5432:localhost:5432" {
		t.Errorf("row 1 forward = %v, want -L 5432:localhost:5432", rows[1]["forward"])
	}
}

func TestStartUnknownTunnel(t *testing.T) {
	t.Setenv("TNL_OUTPUT", "")
	useConfigFile(t, testConfigYAML)

	_, _, err := runApp(t, "start", "-n", "missing")
	if err == nil {
		t.Fatal("expected error for unknown tunnel")
	}
	if got := ExitCode(err); got != ExitNotFound {
		t.Errorf("ExitCode = %d, want %d", got, ExitNotFound)
	}
}

func TestStartRequiresExactlyOneSelector(t *testing.T) {
	t.Setenv("TNL_OUTPUT", "")
	useConfigFile(t, testConfigYAML)

	_, stderr, err := runApp(t, "start")
	if err == nil {
		t.Fatal("expected error without a selector")
	}
	if got := ExitCode(err); got != ExitUser {
		t.Errorf("ExitCode = %d, want %d", got, ExitUser)
	}
	if !strings.Contains(stderr, "selector") {
		t.Errorf("stderr = %q, want selector hint", stderr)
	}
}

func TestFilterFlagsConflict(t *testing.T) {
	t.Setenv("TNL_OUTPUT", "")
	useConfigFile(t, testConfigYAML)

	_, _, err := runApp(t, "list", "-o", "json", "--query", ".[0]", "--jsonpath", "$[0]")
	if err == nil {
		t.Fatal("expected error for conflicting filter flags")
	}
	if got := ExitCode(err); got != ExitUser {
		t.Errorf("ExitCode = %d, want %d", got, ExitUser)
	}
}

func TestQueryRequiresJSONOutput(t *testing.T) {
	t.Setenv("TNL_OUTPUT", "")
	useConfigFile(t, testConfigYAML)

	_, _, err := runApp(t, "list", "-o", "table", "--query", ".[0]")
	if err == nil {
		t.Fatal("expected error for --query with table output")
	}
}

func TestConfigPathCommand(t *testing.T) {
	t.Setenv("TNL_OUTPUT", "")
	path := useConfigFile(t, testConfigYAML)

	stdout, _, err := runApp(t, "config", "path")
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if strings.TrimSpace(stdout) != path {
		t.Errorf("stdout = %q, want %q", strings.TrimSpace(stdout), path)
	}
}

func TestConfigValidateCommand(t *testing.T) {
	t.Setenv("TNL_OUTPUT", "")
	useConfigFile(t, testConfigYAML)

	if _, _, err := runApp(t, "config", "validate"); err != nil {
		t.Fatalf("config validate error = %v", err)
	}
}

func TestConfigValidateRejectsBrokenFile(t *testing.T) {
	t.Setenv("TNL_OUTPUT", "")
	useConfigFile(t, "tunnels:\n  - name: web\n") // no hostname, no forwarding

	_, _, err := runApp(t, "config", "validate")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := ExitCode(err); got != ExitUser {
		t.Errorf("ExitCode = %d, want %d", got, ExitUser)
	}
}

func TestConfigCommandsWorkWithBrokenConfig(t *testing.T) {
	t.Setenv("TNL_OUTPUT", "")
	path := useConfigFile(t, "tunnels: [nonsense")

	stdout, _, err := runApp(t, "config", "path")
	if err != nil {
		t.Fatalf("config path with broken config error = %v", err)
	}
	if strings.TrimSpace(stdout) != path {
		t.Errorf("stdout = %q, want %q", strings.TrimSpace(stdout), path)
	}
}

func TestVersionTemplate(t *testing.T) {
	t.Setenv("TNL_OUTPUT", "")
	useConfigFile(t, "")

	stdout, _, err := runApp(t, "--version")
	if err != nil {
		t.Fatalf("--version error = %v", err)
	}
	want := "tnl test (commit: none, built: now)\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}
