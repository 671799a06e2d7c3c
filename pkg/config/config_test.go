package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `
tenants:
  prod:
    description: production tenant
    options:
      domain: acme.eu.auth0.com
      token: ${TEST_AUTH0_TOKEN}
      telemetry: false
      timeout: 10s
contexts:
  failures:
    tenant: prod
    description: failed logins
    search:
      q: "type:f"
      perPage: 100
      includeTotals: false
      fields: [date, type]
  all:
    tenant: prod
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadContextConfig_Yaml(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, "config.yaml", yamlConfig)

	cfg, err := LoadContextConfig(path)
	require.NoError(t, err)

	assert.Contains(t, cfg.Tenants, "prod")
	ctx := cfg.Contexts["failures"]
	assert.Equal(t, "prod", ctx.Tenant)
	assert.Equal(t, "type:f", ctx.Search.Q)
	assert.Equal(t, 100, ctx.Search.PerPage.Or(0))
	assert.False(t, ctx.Search.IncludeTotals.Or(true))
	assert.False(t, ctx.Search.IncludeFields.Set)
	assert.Equal(t, []string{"date", "type"}, ctx.Search.Fields)
	assert.Empty(t, cfg.CurrentContext)
}

func TestLoadContextConfig_Json(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, "config.json", `{
  "tenants": {"dev": {"options": {"domain": "dev.auth0.com", "token": "t", "timeout": 2}}},
  "contexts": {"dev": {"tenant": "dev", "search": {"take": 5, "from": "log_1"}}}
}`)

	cfg, err := LoadContextConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "log_1", cfg.Contexts["dev"].Search.From)
	assert.Equal(t, 5, cfg.Contexts["dev"].Search.Take.Or(0))
}

func TestLoadContextConfig_EnvPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, "whatever.conf", yamlConfig)
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadContextConfig("")
	require.NoError(t, err)
	assert.Len(t, cfg.Contexts, 2)
}

func TestLoadContextConfig_DefaultPathAndState(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvConfigPath, "")

	dir := filepath.Join(home, DefaultConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(yamlConfig), 0600))
	require.NoError(t, SaveState(&State{CurrentContext: "failures"}))

	cfg, err := LoadContextConfig("")
	require.NoError(t, err)
	assert.Equal(t, "failures", cfg.CurrentContext)

	ctx, tenant, err := cfg.GetContext("")
	require.NoError(t, err)
	assert.Equal(t, "failed logins", ctx.Description)
	assert.Equal(t, "production tenant", tenant.Description)
}

func TestLoadContextConfig_Missing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvConfigPath, "")

	_, err := LoadContextConfig("")
	assert.Error(t, err)

	_, err = LoadContextConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "not found")
}

func TestParseContextConfig_Errors(t *testing.T) {
	_, err := ParseContextConfig([]byte("tenants: ["), ".yaml")
	assert.True(t, errors.Is(err, ErrConfigParse))

	_, err = ParseContextConfig([]byte(`contexts: {a: {tenant: x}}`), ".yaml")
	assert.True(t, errors.Is(err, ErrNoTenants))

	_, err = ParseContextConfig([]byte(`tenants: {x: {options: {domain: d, token: t}}}`), ".yml")
	assert.True(t, errors.Is(err, ErrNoContexts))

	_, err = ParseContextConfig([]byte(`
tenants:
  x:
    options:
      domain: d
contexts:
  a:
    tenant: y
`), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenant 'x' missing required option 'token'")
	assert.Contains(t, err.Error(), "context 'a' references unknown tenant 'y'")
}

func TestGetContext_Errors(t *testing.T) {
	cfg, err := ParseContextConfig([]byte(yamlConfig), ".yaml")
	require.NoError(t, err)

	_, _, err = cfg.GetContext("")
	assert.True(t, errors.Is(err, ErrNoContext))

	_, _, err = cfg.GetContext("unknown")
	assert.True(t, errors.Is(err, ErrContextNotFound))
}

func TestContextConfig_Logs(t *testing.T) {
	t.Setenv("TEST_AUTH0_TOKEN", "secret")

	cfg, err := ParseContextConfig([]byte(yamlConfig), ".yaml")
	require.NoError(t, err)

	logs, ctx, err := cfg.Logs("all")
	require.NoError(t, err)
	assert.Equal(t, "prod", ctx.Tenant)
	assert.Equal(t, "https://acme.eu.auth0.com/api/v2/logs", logs.URL(""))
}

func TestTenant_Logs_Errors(t *testing.T) {
	_, err := Tenant{Options: map[string]interface{}{"domain": "d"}}.Logs()
	assert.Error(t, err)

	_, err = Tenant{Options: map[string]interface{}{"domain": "d", "token": "t", "telemetry": "maybe"}}.Logs()
	assert.ErrorContains(t, err, "telemetry")

	_, err = Tenant{Options: map[string]interface{}{"domain": "d", "token": "t", "timeout": "soon"}}.Logs()
	assert.ErrorContains(t, err, "timeout")

	logs, err := Tenant{Options: map[string]interface{}{"domain": "localhost:3000", "token": "t", "protocol": "http"}}.Logs()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api/v2/logs/x", logs.URL("x"))
}

func TestTenant_Logs_UnsetVariable(t *testing.T) {
	_, err := Tenant{Options: map[string]interface{}{"domain": "acme.auth0.com", "token": "${AUTH0LOGS_UNSET_TOKEN}"}}.Logs()
	assert.ErrorContains(t, err, "token references unset variable AUTH0LOGS_UNSET_TOKEN")

	t.Setenv("AUTH0LOGS_SET_TOKEN", "secret")
	_, err = Tenant{Options: map[string]interface{}{"domain": "acme.auth0.com", "token": "${AUTH0LOGS_SET_TOKEN}"}}.Logs()
	assert.NoError(t, err)
}

func TestParseTimeout(t *testing.T) {
	for input, expected := range map[interface{}]time.Duration{
		"10s":   10 * time.Second,
		"250ms": 250 * time.Millisecond,
		"3":     3 * time.Second,
		2.5:     2500 * time.Millisecond,
		7:       7 * time.Second,
	} {
		d, err := parseTimeout(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, d, input)
	}
}

func TestTenantFromEnv(t *testing.T) {
	t.Setenv(EnvDomain, "")
	t.Setenv(EnvToken, "")

	_, ok := TenantFromEnv("", "")
	assert.False(t, ok)

	t.Setenv(EnvDomain, "env.auth0.com")
	t.Setenv(EnvToken, "env-token")

	tenant, ok := TenantFromEnv("flag.auth0.com", "")
	require.True(t, ok)
	assert.Equal(t, "flag.auth0.com", tenant.Options.GetString("domain"))
	assert.Equal(t, "env-token", tenant.Options.GetString("token"))
}
