package cmd

import (
	"bytes"
	"testing"

	"github.com/bascanada/auth0logs/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSampleConfig_RoundTrips(t *testing.T) {
	t.Setenv("AUTH0_DOMAIN", "sample.auth0.com")
	t.Setenv("AUTH0_TOKEN", "sample-token")

	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeSampleConfig(&buf, format))

			cfg, err := config.ParseContextConfig(buf.Bytes(), "."+format)
			require.NoError(t, err)
			assert.Len(t, cfg.Contexts, 2)

			logs, ctx, err := cfg.Logs("failed-logins")
			require.NoError(t, err)
			assert.Equal(t, "https://sample.auth0.com/api/v2/logs", logs.URL(""))
			assert.Equal(t, "date,type,user_name,ip,description", ctx.Search.Query()["fields"])
		})
	}
}

func TestWriteSampleConfig_UnsupportedFormat(t *testing.T) {
	assert.Error(t, writeSampleConfig(&bytes.Buffer{}, "toml"))
}
