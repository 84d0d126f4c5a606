package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	tnlerrors "github.com/salmonumbrella/tunnels-cli/internal/errors"
	"github.com/salmonumbrella/tunnels-cli/internal/validate"
)

// Dynamic specifies application-level port forwarding: ssh acts as a SOCKS
// server on the local machine (the -D flag).
type Dynamic struct {
	// BindAddress is the local interface to listen on. Empty means all
	// interfaces; "localhost" restricts the proxy to local use.
	BindAddress string `yaml:"bind_address,omitempty"`

	// Port is the local port for the SOCKS proxy.
	Port int `yaml:"port"`
}

// Address builds the -D argument: "[bind_address:]port".
func (d *Dynamic) Address() string {
	if d.BindAddress != "" {
		return d.BindAddress + ":" + strconv.Itoa(d.Port)
	}
	return strconv.Itoa(d.Port)
}

// Forward specifies a local port or Unix socket forwarded to the remote side
// (the -L flag). Exactly one of the four source/destination combinations must
// be set:
//
//	port + host + host_port
//	port + remote_socket
//	local_socket + host + host_port
//	local_socket + remote_socket
//
// BindAddress optionally restricts the listening interface and may accompany
// any port-based combination.
type Forward struct {
	Port         int    `yaml:"port,omitempty"`
	LocalSocket  string `yaml:"local_socket,omitempty"`
	Host         string `yaml:"host,omitempty"`
	HostPort     int    `yaml:"host_port,omitempty"`
	RemoteSocket string `yaml:"remote_socket,omitempty"`
	BindAddress  string `yaml:"bind_address,omitempty"`
}

// Validate checks that exactly one forwarding combination is set.
func (f *Forward) Validate() error {
	local := 0
	if f.Port != 0 {
		local++
	}
	if f.LocalSocket != "" {
		local++
	}
	remote := 0
	if f.Host != "" || f.HostPort != 0 {
		if f.Host == "" || f.HostPort == 0 {
			return &tnlerrors.ValidationError{Field: "local",
				Message: "host and host_port must be set together"}
		}
		remote++
	}
	if f.RemoteSocket != "" {
		remote++
	}
	if local != 1 || remote != 1 {
		return &tnlerrors.ValidationError{Field: "local",
			Message: "exactly one of port|local_socket and one of host+host_port|remote_socket must be set"}
	}
	if f.BindAddress != "" && f.LocalSocket != "" {
		return &tnlerrors.ValidationError{Field: "local",
			Message: "bind_address does not apply to socket forwarding"}
	}
	if f.Port != 0 {
		if err := validate.Port("local.port", f.Port); err != nil {
			return err
		}
	}
	if f.HostPort != 0 {
		if err := validate.Port("local.host_port", f.HostPort); err != nil {
			return err
		}
	}
	return validate.BindAddress("local.bind_address", f.BindAddress)
}

// Address builds the -L argument:
//
//	[bind_address:]port:host:host_port
//	[bind_address:]port:remote_socket
//	local_socket:host:host_port
//	local_socket:remote_socket
func (f *Forward) Address() string {
	var parts []string
	switch {
	case f.Port != 0 && f.BindAddress != "":
		parts = []string{f.BindAddress, strconv.Itoa(f.Port)}
	case f.Port != 0:
		parts = []string{strconv.Itoa(f.Port)}
	default:
		parts = []string{f.LocalSocket}
	}
	if f.RemoteSocket != "" {
		parts = append(parts, f.RemoteSocket)
	} else {
		parts = append(parts, f.Host, strconv.Itoa(f.HostPort))
	}
	return strings.Join(parts, ":")
}

// Tunnel is one named tunnel definition.
type Tunnel struct {
	Name     string   `yaml:"name"`
	Group    string   `yaml:"group,omitempty"`
	Hostname string   `yaml:"hostname"`
	Dynamic  *Dynamic `yaml:"dynamic,omitempty"`
	Local    *Forward `yaml:"local,omitempty"`
}

// NameTag returns the tunnel's process tag component: the name with spaces
// replaced by dashes, lowercased. The tag lands in the ssh command line and
// is what liveness checks match on.
func (t *Tunnel) NameTag() string {
	return strings.ToLower(strings.ReplaceAll(t.Name, " ", "-"))
}

// Validate checks the tunnel definition.
func (t *Tunnel) Validate() error {
	if t.Name == "" {
		return &tnlerrors.ValidationError{Field: "name", Message: "tunnel name is required"}
	}
	if t.Hostname == "" {
		return &tnlerrors.ValidationError{Field: "hostname",
			Message: fmt.Sprintf("tunnel %q has no hostname", t.Name)}
	}
	if err := validate.Hostname("hostname", t.Hostname); err != nil {
		return err
	}
	if t.Dynamic == nil && t.Local == nil {
		return &tnlerrors.ValidationError{Field: "tunnel",
			Message: fmt.Sprintf("tunnel %q needs a dynamic or local forwarding", t.Name)}
	}
	if t.Local != nil {
		if err := t.Local.Validate(); err != nil {
			return err
		}
	}
	if t.Dynamic != nil {
		if t.Dynamic.Port == 0 {
			return &tnlerrors.ValidationError{Field: "dynamic",
				Message: fmt.Sprintf("tunnel %q dynamic forwarding needs a port", t.Name)}
		}
		if err := validate.Port("dynamic.port", t.Dynamic.Port); err != nil {
			return err
		}
		if err := validate.BindAddress("dynamic.bind_address", t.Dynamic.BindAddress); err != nil {
			return err
		}
	}
	return nil
}

// Config represents the CLI configuration
type Config struct {
	// Default output format (json, yaml, toml, table)
	Output string `yaml:"output,omitempty"`

	// Default color mode (auto, always, never)
	Color string `yaml:"color,omitempty"`

	// Tunnels are the configured tunnel definitions
	Tunnels []Tunnel `yaml:"tunnels,omitempty"`
}

// configPathFunc is the function used to get the default config path
// It can be overridden for testing
var configPathFunc = defaultConfigPath

// SetConfigPathFunc sets the config path function for testing.
// Returns the original function so it can be restored.
func SetConfigPathFunc(fn func() (string, error)) func() (string, error) {
	orig := configPathFunc
	configPathFunc = fn
	return orig
}

// defaultConfigPath returns $XDG_CONFIG_HOME/tnl/config.yaml, falling back
// to ~/.config/tnl/config.yaml.
func defaultConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tnl", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tnl", "config.yaml"), nil
}

// DefaultConfigPath returns the effective config file path.
func DefaultConfigPath() (string, error) {
	return configPathFunc()
}

// Load loads config from the default path, returns empty config if not found
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every tunnel definition and rejects duplicate names.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Tunnels))
	for i := range c.Tunnels {
		t := &c.Tunnels[i]
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.Name] {
			return &tnlerrors.ValidationError{Field: "tunnels",
				Message: fmt.Sprintf("duplicate tunnel name %q", t.Name)}
		}
		seen[t.Name] = true
	}
	return nil
}

// Save saves config to the default path
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath saves config to a specific path
func (c *Config) SaveToPath(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetOutput returns the effective output format (config default or empty)
func (c *Config) GetOutput() string {
	return c.Output
}

// GetColor returns the effective color mode (config default or empty)
func (c *Config) GetColor() string {
	return c.Color
}

// Get returns the tunnel with the given name.
func (c *Config) Get(name string) (*Tunnel, error) {
	for i := range c.Tunnels {
		if c.Tunnels[i].Name == name {
			return &c.Tunnels[i], nil
		}
	}
	return nil, tnlerrors.NotFoundError("tunnel", name)
}

// Groups returns the distinct group names across all tunnels, in first-seen
// order. Ungrouped tunnels do not contribute.
func (c *Config) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for i := range c.Tunnels {
		g := c.Tunnels[i].Group
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		groups = append(groups, g)
	}
	return groups
}

// Select resolves a command-line selector to a set of tunnels. Exactly one of
// names, group, or all must be provided; configured order is preserved.
func (c *Config) Select(names []string, group string, all bool) ([]Tunnel, error) {
	selectors := 0
	if len(names) > 0 {
		selectors++
	}
	if group != "" {
		selectors++
	}
	if all {
		selectors++
	}
	if selectors != 1 {
		return nil, tnlerrors.NewUserError(
			"exactly one selector is required",
			"Use one of --name, --group, or --all",
		)
	}

	if all {
		if len(c.Tunnels) == 0 {
			return nil, tnlerrors.NoTunnelsConfiguredError()
		}
		return c.Tunnels, nil
	}

	if group != "" {
		var matched []Tunnel
		for _, t := range c.Tunnels {
			if t.Group == group {
				matched = append(matched, t)
			}
		}
		if len(matched) == 0 {
			return nil, tnlerrors.NotFoundError("group", group)
		}
		return matched, nil
	}

	matched := make([]Tunnel, 0, len(names))
	for _, name := range names {
		t, err := c.Get(name)
		if err != nil {
			return nil, err
		}
		matched = append(matched, *t)
	}
	return matched, nil
}
