package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	httpPkg "github.com/bascanada/auth0logs/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects stdout to a buffer while fn runs and returns the captured output.
func captureOutput(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	return <-outC
}

func TestVersionCommand_Output(t *testing.T) {
	rootCmd.SetArgs([]string{"version"})
	out := captureOutput(func() {
		_, err := rootCmd.ExecuteC()
		require.NoError(t, err)
	})

	assert.Equal(t, httpPkg.ClientName+" "+httpPkg.Version+"\n", out)
}

func TestHelpOutput_Subcommands(t *testing.T) {
	for _, sub := range []string{"search", "get", "context", "configure", "mcp", "server"} {
		t.Run(sub, func(t *testing.T) {
			rootCmd.SetArgs([]string{sub, "--help"})
			out := captureOutput(func() {
				_, err := rootCmd.ExecuteC()
				require.NoError(t, err)
			})
			assert.True(t, strings.Contains(out, "Usage:"), "expected usage in %s help", sub)
		})
	}
}

func TestContextList_Output(t *testing.T) {
	isolateEnv(t)
	withFlags(t, writeTestConfig(t), "", "", "")
	cfg, err := loadConfig(configPath)
	require.NoError(t, err)
	cfg.CurrentContext = "dev-failures"

	var buf bytes.Buffer
	listContextsCmd.SetOut(&buf)
	t.Cleanup(func() { listContextsCmd.SetOut(nil) })
	printContexts(listContextsCmd, cfg)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "CURRENT")
	assert.True(t, strings.HasPrefix(lines[1], "*"))
	assert.Contains(t, lines[1], "dev.eu.auth0.com")
}
