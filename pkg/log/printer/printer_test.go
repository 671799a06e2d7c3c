package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/bascanada/auth0logs/pkg/management"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noColor = false

func entries() []management.LogEntry {
	return []management.LogEntry{
		{"log_id": "1", "type": "s", "date": "2024-03-01T10:00:00.000Z", "client_name": "web", "user_name": "ann@example.com", "description": ""},
		{"log_id": "2", "type": "fp", "date": "2024-03-01T10:01:00.000Z", "description": "Wrong password", "details": map[string]interface{}{"error": map[string]interface{}{"message": "bad"}}},
	}
}

func TestPrinter_Template(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(&buf, Options{Template: `{{.log_id}} {{Type .Type}} {{Field . "details.error.message"}}`, Color: &noColor})
	require.NoError(t, err)

	require.NoError(t, p.PrintResult(&management.SearchResult{Logs: entries()}))

	assert.Equal(t, "1 s \n2 fp bad\n", buf.String())
}

func TestPrinter_DefaultTemplateWithTotals(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(&buf, Options{Color: &noColor})
	require.NoError(t, err)

	result := &management.SearchResult{Logs: entries(), HasTotals: true, Start: 50, Length: 2, Total: 52}
	require.NoError(t, p.PrintResult(result))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ann@example.com")
	assert.Contains(t, lines[1], "Wrong password")
	assert.Equal(t, "-- 50-52 of 52", lines[2])
}

func TestPrinter_InvalidTemplate(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Options{Template: "{{.log_id"})
	assert.Error(t, err)
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(&buf, Options{JSON: true, Color: &noColor})
	require.NoError(t, err)

	require.NoError(t, p.PrintResult(&management.SearchResult{Logs: entries()[:1]}))

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "1", out[0]["log_id"])

	buf.Reset()
	require.NoError(t, p.PrintResult(&management.SearchResult{Logs: entries()[:1], HasTotals: true, Total: 1, Length: 1}))

	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, float64(1), env["total"])
}

func TestPrinter_PrintEntry(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(&buf, Options{Color: &noColor})
	require.NoError(t, err)

	require.NoError(t, p.PrintEntry(entries()[1]))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "fp", out["type"])
}

func TestTemplateFunctions(t *testing.T) {
	e := entries()[0]

	assert.Equal(t, "", GetField(e, "missing"))
	assert.Equal(t, "", GetField(e, "client_name.nested"))
	assert.Equal(t, "client_name=web log_id=1", KV(e, "client_name", "log_id", "missing"))
	assert.Equal(t, "abc…", Truncate(3, "abcdef"))
	assert.Equal(t, "abc", Truncate(3, "abc"))
	assert.Equal(t, "----", FormatDate("2006", time.Time{}))

	ts := time.Date(2025, 12, 17, 10, 30, 45, 0, time.UTC)
	assert.Equal(t, ts.Local().Format("15:04:05"), FormatDate("15:04:05", ts))
}
