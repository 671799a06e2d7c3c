package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	httpPkg "github.com/bascanada/auth0logs/pkg/http"
	"github.com/bascanada/auth0logs/pkg/management"
	"github.com/bascanada/auth0logs/pkg/ty"
)

// Sentinel errors so callers can detect exact failure modes using errors.Is().
var (
	ErrConfigParse     = errors.New("invalid config content")
	ErrNoContexts      = errors.New("no contexts found in config file")
	ErrNoTenants       = errors.New("no tenants found in config file")
	ErrContextNotFound = errors.New("context not found")
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrNoContext       = errors.New("no context selected")
)

const (
	// EnvConfigPath is the environment variable used to override the config path
	EnvConfigPath = "AUTH0LOGS_CONFIG"

	// EnvDomain and EnvToken describe an ad-hoc tenant when no config is used.
	EnvDomain = "AUTH0_DOMAIN"
	EnvToken  = "AUTH0_TOKEN"

	DefaultConfigDir  = ".auth0logs"
	DefaultConfigFile = "config.yaml"
)

// Tenant holds the connection options of an Auth0 tenant. Option values may
// reference environment variables with ${VAR} or ${VAR:-default}.
type Tenant struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Options     ty.MI  `json:"options" yaml:"options"`
}

// Context is a named search against a tenant.
type Context struct {
	Tenant      string                  `json:"tenant" yaml:"tenant"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Search      management.SearchParams `json:"search,omitempty" yaml:"search,omitempty"`
}

type Tenants map[string]Tenant

type Contexts map[string]Context

type ContextConfig struct {
	Tenants  `json:"tenants" yaml:"tenants"`
	Contexts `json:"contexts" yaml:"contexts"`

	// CurrentContext comes from the state file, not from the config.
	CurrentContext string `json:"-" yaml:"-"`
}

// ResolveConfigPath returns the explicit path, then $AUTH0LOGS_CONFIG, then
// ~/.auth0logs/config.yaml when it exists. It returns "" when none applies.
func ResolveConfigPath(configPath string) string {
	if strings.TrimSpace(configPath) != "" {
		return configPath
	}
	if envPath := strings.TrimSpace(os.Getenv(EnvConfigPath)); envPath != "" {
		return envPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		defaultPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
		if _, err := os.Stat(defaultPath); err == nil {
			return defaultPath
		}
	}
	return ""
}

// DefaultConfigPath is where new configurations are written.
func DefaultConfigPath(configPath string) (string, error) {
	if p := ResolveConfigPath(configPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

func LoadContextConfig(configPath string) (*ContextConfig, error) {
	configPath = ResolveConfigPath(configPath)
	if configPath == "" {
		return nil, fmt.Errorf("config file not found, set --config or $%s", EnvConfigPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at path: %s", configPath)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config, err := ParseContextConfig(data, filepath.Ext(configPath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	if state, err := LoadState(); err == nil {
		if _, ok := config.Contexts[state.CurrentContext]; ok {
			config.CurrentContext = state.CurrentContext
		}
	}

	return config, nil
}

// ParseContextConfig decodes a config from its content. ext selects the
// format (.json, .yaml, .yml); anything else tries JSON then YAML.
func ParseContextConfig(data []byte, ext string) (*ContextConfig, error) {
	var config ContextConfig

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: parsing JSON: %v", ErrConfigParse, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%w: parsing YAML: %v", ErrConfigParse, err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			config = ContextConfig{}
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("%w: unsupported or invalid config format", ErrConfigParse)
			}
		}
	}

	if len(config.Tenants) == 0 {
		return nil, ErrNoTenants
	}
	if len(config.Contexts) == 0 {
		return nil, ErrNoContexts
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validate reports missing tenant options and contexts pointing nowhere.
func validate(cc *ContextConfig) error {
	problems := []string{}

	for _, name := range ty.SortedKeys(cc.Tenants) {
		t := cc.Tenants[name]
		if t.Options.GetString("domain") == "" {
			problems = append(problems, fmt.Sprintf("tenant '%s' missing required option 'domain'", name))
		}
		if t.Options.GetString("token") == "" {
			problems = append(problems, fmt.Sprintf("tenant '%s' missing required option 'token'", name))
		}
	}

	for _, name := range ty.SortedKeys(cc.Contexts) {
		c := cc.Contexts[name]
		if _, ok := cc.Tenants[c.Tenant]; !ok {
			problems = append(problems, fmt.Sprintf("context '%s' references unknown tenant '%s'", name, c.Tenant))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// GetContext returns the context and its tenant. An empty id selects the current context.
func (cc ContextConfig) GetContext(contextID string) (Context, Tenant, error) {
	if contextID == "" {
		contextID = cc.CurrentContext
	}
	if contextID == "" {
		return Context{}, Tenant{}, ErrNoContext
	}

	ctx, ok := cc.Contexts[contextID]
	if !ok {
		return Context{}, Tenant{}, fmt.Errorf("%w: %s", ErrContextNotFound, contextID)
	}

	tenant, ok := cc.Tenants[ctx.Tenant]
	if !ok {
		return Context{}, Tenant{}, fmt.Errorf("%w: %s", ErrTenantNotFound, ctx.Tenant)
	}

	return ctx, tenant, nil
}

// Logs builds the Logs client of a context along with the context itself.
func (cc ContextConfig) Logs(contextID string) (*management.Logs, Context, error) {
	ctx, tenant, err := cc.GetContext(contextID)
	if err != nil {
		return nil, Context{}, err
	}
	logs, err := tenant.Logs()
	if err != nil {
		return nil, Context{}, fmt.Errorf("tenant %s: %w", ctx.Tenant, err)
	}
	return logs, ctx, nil
}

// Logs builds the Logs client of the tenant.
func (t Tenant) Logs() (*management.Logs, error) {
	opts := t.Options.ResolveVariables()

	domain := cast.ToString(opts["domain"])
	token := cast.ToString(opts["token"])
	if domain == "" || token == "" {
		return nil, fmt.Errorf("domain and token are required")
	}
	for _, opt := range [][2]string{{"domain", domain}, {"token", token}} {
		if missing := ty.Unresolved(opt[1]); len(missing) > 0 {
			return nil, fmt.Errorf("%s references unset variable %s", opt[0], strings.Join(missing, ", "))
		}
	}

	logsOptions := management.LogsOptions{
		Protocol: cast.ToString(opts["protocol"]),
	}

	if v, ok := opts["telemetry"]; ok {
		telemetry, err := cast.ToBoolE(v)
		if err != nil {
			return nil, fmt.Errorf("invalid telemetry %v: %w", v, err)
		}
		logsOptions.Telemetry = ty.OptWrap(telemetry)
	}

	if v, ok := opts["timeout"]; ok {
		timeout, err := parseTimeout(v)
		if err != nil {
			return nil, err
		}
		logsOptions.Timeout = timeout
	}

	if headers, ok := opts["headers"]; ok {
		ms, err := cast.ToStringMapStringE(headers)
		if err != nil {
			return nil, fmt.Errorf("invalid headers: %w", err)
		}
		logsOptions.Rest = &httpPkg.Options{Headers: ty.MS(ms).ResolveVariables()}
	}

	return management.NewLogs(domain, token, logsOptions), nil
}

// parseTimeout accepts a duration string (10s) or a number of seconds.
func parseTimeout(v interface{}) (time.Duration, error) {
	if s, ok := v.(string); ok {
		if d, err := cast.ToDurationE(s); err == nil && strings.ContainsAny(s, "smhu") {
			return d, nil
		}
	}
	seconds, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %v: %w", v, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// TenantFromEnv returns a tenant from $AUTH0_DOMAIN and $AUTH0_TOKEN, with
// non empty overrides taking precedence.
func TenantFromEnv(domain, token string) (Tenant, bool) {
	if domain == "" {
		domain = os.Getenv(EnvDomain)
	}
	if token == "" {
		token = os.Getenv(EnvToken)
	}
	if domain == "" || token == "" {
		return Tenant{}, false
	}
	return Tenant{Options: ty.MI{"domain": domain, "token": token}}, true
}

// LogsFactory returns the client of a context along with its default search.
type LogsFactory func(contextID string) (management.LogsAPI, management.SearchParams, error)

// Factory returns a LogsFactory over the contexts of cc.
func (cc *ContextConfig) Factory() LogsFactory {
	return func(contextID string) (management.LogsAPI, management.SearchParams, error) {
		logs, ctx, err := cc.Logs(contextID)
		if err != nil {
			return nil, management.SearchParams{}, err
		}
		return logs, ctx.Search, nil
	}
}
