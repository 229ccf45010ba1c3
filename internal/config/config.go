package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/deployd-go/dashboard/internal/errors"
	"github.com/deployd-go/dashboard/pkg/resource"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "dashboard.json"

	// YAMLConfigFileName is the YAML alternative, used when no JSON file
	// exists.
	YAMLConfigFileName = "dashboard.yaml"

	// DefaultPort is the default server port.
	DefaultPort = 2403

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultMount is the default mount path of the console.
	DefaultMount = "/dashboard"

	// DefaultEnv is the default environment name.
	DefaultEnv = "development"

	// DefaultRootKeyEnv names the environment variable holding the root key.
	DefaultRootKeyEnv = "DASHBOARD_ROOT_KEY"
)

// Config represents dashboard.json.
type Config struct {
	// Name is the app name shown in the console. Default: the project
	// directory's base name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Server  ServerConfig  `json:"server" yaml:"server"`
	Auth    AuthConfig    `json:"auth" yaml:"auth"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
	Static  StaticConfig  `json:"static" yaml:"static"`

	// Types are the resource types.
	Types []TypeConfig `json:"types,omitempty" yaml:"types,omitempty"`

	// Resources are the resources the console can edit.
	Resources []ResourceConfig `json:"resources,omitempty" yaml:"resources,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// Mount is the path the console is served under.
	Mount string `json:"mount,omitempty" yaml:"mount,omitempty"`

	// Env is the environment name. Outside "development" untrusted
	// callers only see the auth page.
	Env string `json:"env,omitempty" yaml:"env,omitempty"`
}

// AuthConfig configures how trusted callers are recognised.
type AuthConfig struct {
	// RootKey is compared with the X-Dashboard-Root-Key header or the
	// DashboardRootKey cookie. Prefer RootKeyEnv.
	RootKey string `json:"rootKey,omitempty" yaml:"rootKey,omitempty"`

	// RootKeyEnv names an environment variable holding the root key.
	RootKeyEnv string `json:"rootKeyEnv,omitempty" yaml:"rootKeyEnv,omitempty"`
}

// LogConfig configures the server's slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

// TracingConfig toggles request spans.
type TracingConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// StaticConfig configures built-in and plugin asset responses.
type StaticConfig struct {
	// CacheControl is "none" or "production". Empty sends no header.
	CacheControl string `json:"cacheControl,omitempty" yaml:"cacheControl,omitempty"`

	// Headers are added to every asset response.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Manifest is an optional asset manifest for fingerprinted scripts.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
}

// TypeConfig declares a resource type.
type TypeConfig struct {
	ID        string              `json:"id" yaml:"id"`
	Dashboard *resource.Dashboard `json:"dashboard,omitempty" yaml:"dashboard,omitempty"`
}

// ResourceConfig declares a resource.
type ResourceConfig struct {
	Name           string              `json:"name" yaml:"name"`
	Type           string              `json:"type" yaml:"type"`
	Events         []string            `json:"events,omitempty" yaml:"events,omitempty"`
	Dashboard      *resource.Dashboard `json:"dashboard,omitempty" yaml:"dashboard,omitempty"`
	BasicDashboard map[string]any      `json:"basicDashboard,omitempty" yaml:"basicDashboard,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:  DefaultHost,
			Port:  DefaultPort,
			Mount: DefaultMount,
			Env:   DefaultEnv,
		},
		Auth: AuthConfig{
			RootKeyEnv: DefaultRootKeyEnv,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}

// Load reads configuration from dir. It looks for dashboard.json, then
// dashboard.yaml.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		if yamlPath := filepath.Join(dir, YAMLConfigFileName); fileExists(yamlPath) {
			path = yamlPath
		}
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path. Files
// ending in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'dashboard config init' to create one")
		}
		return nil, errors.New("E140").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E140").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithLocation(path, 0, 0)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to path in the format its extension
// selects.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E143").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E143").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.Mount == "" {
		c.Server.Mount = d.Server.Mount
	}
	if c.Server.Mount != "/" {
		c.Server.Mount = strings.TrimSuffix(c.Server.Mount, "/")
	}
	if c.Server.Env == "" {
		c.Server.Env = d.Server.Env
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Name == "" {
		c.Name = filepath.Base(c.Dir())
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port must be between 0 and 65535")
	}
	if !strings.HasPrefix(c.Server.Mount, "/") || c.Server.Mount == "/" {
		return invalid("server.mount must start with / and name a path, got " + strconv.Quote(c.Server.Mount))
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return invalid("log.level must be debug, info, warn or error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format must be text or json")
	}
	switch c.Static.CacheControl {
	case "", "none", "production":
	default:
		return invalid("static.cacheControl must be none or production")
	}

	types := make(map[string]bool, len(c.Types))
	for _, t := range c.Types {
		if t.ID == "" {
			return invalid("every type needs an id")
		}
		key := strings.ToLower(t.ID)
		if types[key] {
			return invalid("duplicate type " + strconv.Quote(t.ID))
		}
		types[key] = true
	}

	names := make(map[string]bool, len(c.Resources))
	for _, r := range c.Resources {
		if r.Name == "" {
			return invalid("every resource needs a name")
		}
		if strings.Contains(r.Name, "/") {
			return invalid("resource name " + strconv.Quote(r.Name) + " must not contain /")
		}
		key := strings.ToLower(r.Name)
		if names[key] {
			return invalid("duplicate resource " + strconv.Quote(r.Name))
		}
		names[key] = true
		if r.Type != "" && len(types) > 0 && !types[strings.ToLower(r.Type)] {
			return invalid("resource " + strconv.Quote(r.Name) + " has unknown type " + strconv.Quote(r.Type))
		}
	}
	return nil
}

func invalid(detail string) error {
	return errors.New("E142").WithDetail(detail)
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// RootKey returns the configured root key, preferring the environment.
func (c *Config) RootKey() string {
	if c.Auth.RootKeyEnv != "" {
		if v := os.Getenv(c.Auth.RootKeyEnv); v != "" {
			return v
		}
	}
	return c.Auth.RootKey
}

// Registry builds the resource registry declared by the config.
func (c *Config) Registry() *resource.StaticRegistry {
	types := make([]resource.ResourceType, 0, len(c.Types))
	byKey := make(map[string]*resource.Dashboard, len(c.Types))
	for _, t := range c.Types {
		d := c.resolveDashboard(t.Dashboard)
		types = append(types, &resource.TypeDescriptor{TypeID: t.ID, Bundle: d})
		byKey[strings.ToLower(t.ID)] = d
	}

	resources := make([]resource.Resource, 0, len(c.Resources))
	for _, r := range c.Resources {
		d := c.resolveDashboard(r.Dashboard)
		if d == nil {
			d = byKey[strings.ToLower(r.Type)]
		}
		desc := &resource.Descriptor{
			ResourceName: strings.ToLower(r.Name),
			Type:         r.Type,
			Events:       r.Events,
			Bundle:       d,
		}
		if r.BasicDashboard != nil {
			desc.Basic = r.BasicDashboard
		}
		resources = append(resources, desc)
	}

	return resource.NewStaticRegistry(resources, types)
}

func (c *Config) resolveDashboard(d *resource.Dashboard) *resource.Dashboard {
	if d == nil {
		return nil
	}
	out := *d
	if out.Path != "" && !filepath.IsAbs(out.Path) {
		out.Path = filepath.Join(c.Dir(), out.Path)
	}
	return &out
}

// ManifestPath returns the absolute manifest path, or "" when unset.
func (c *Config) ManifestPath() string {
	if c.Static.Manifest == "" || filepath.IsAbs(c.Static.Manifest) {
		return c.Static.Manifest
	}
	return filepath.Join(c.Dir(), c.Static.Manifest)
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger builds a logger writing to w according to the log settings.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levels[strings.ToLower(c.Log.Level)]}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	return fileExists(filepath.Join(dir, ConfigFileName)) ||
		fileExists(filepath.Join(dir, YAMLConfigFileName))
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'dashboard config init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
