package ty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveString(t *testing.T) {
	t.Setenv("AUTH0_TENANT", "acme")
	t.Setenv("AUTH0_REGION", "eu")

	ms := MS{
		"domain": "${AUTH0_TENANT}.${AUTH0_REGION}.auth0.com",
	}

	resolvedMs := ms.ResolveVariables()

	assert.Equal(t, "acme.eu.auth0.com", resolvedMs["domain"])
}

func TestResolveNoEnv(t *testing.T) {
	ms := MS{
		"token": "${AUTH0LOGS_UNSET_TOKEN}",
	}

	assert.Equal(t, "${AUTH0LOGS_UNSET_TOKEN}", ms.ResolveVariables()["token"])
}

func TestResolveStringDefault(t *testing.T) {
	t.Setenv("AUTH0_TENANT", "acme")

	assert.Equal(t, "acme.us.auth0.com", Resolve("${AUTH0_TENANT}.${AUTH0LOGS_UNSET_REGION:-us}.auth0.com", nil))
}

func TestResolveVarsBeforeEnv(t *testing.T) {
	t.Setenv("AUTH0_TOKEN", "from-env")

	assert.Equal(t, "from-vars", Resolve("$AUTH0_TOKEN", map[string]string{"AUTH0_TOKEN": "from-vars"}))
	assert.Equal(t, "from-env", Resolve("$AUTH0_TOKEN", nil))
}

func TestMI_ResolveVariables(t *testing.T) {
	t.Setenv("AUTH0_TOKEN", "secret")

	mi := MI{
		"token":     "${AUTH0_TOKEN}",
		"telemetry": false,
		"timeout":   10,
	}

	resolved := mi.ResolveVariables()

	assert.Equal(t, "secret", resolved["token"])
	assert.Equal(t, false, resolved["telemetry"])
	assert.Equal(t, 10, resolved["timeout"])
	assert.Equal(t, "${AUTH0_TOKEN}", mi["token"])
}

func TestResolveBareVariable(t *testing.T) {
	t.Setenv("AUTH0_TOKEN", "secret")

	assert.Equal(t, "secret", Resolve("$AUTH0_TOKEN", nil))
	assert.Equal(t, "Bearer secret", Resolve("Bearer $AUTH0_TOKEN", nil))
	assert.Equal(t, "$AUTH0LOGS_UNSET_TOKEN", Resolve("$AUTH0LOGS_UNSET_TOKEN", nil))
}

func TestUnresolved(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Unresolved("${A}.$B.auth0.com"))
	assert.Nil(t, Unresolved("acme.auth0.com"))
}
