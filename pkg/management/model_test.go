package management

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchResult_UnmarshalArray(t *testing.T) {
	var r SearchResult
	require.NoError(t, json.Unmarshal([]byte(` [{"log_id":"1"},{"_id":"2"}]`), &r))

	assert.False(t, r.HasTotals)
	require.Len(t, r.Logs, 2)
	assert.Equal(t, "1", r.Logs[0].ID())
	assert.Equal(t, "2", r.Logs[1].ID())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"log_id":"1"},{"_id":"2"}]`, string(out))
}

func TestSearchResult_UnmarshalEnvelope(t *testing.T) {
	var r SearchResult
	require.NoError(t, json.Unmarshal([]byte(`{"start":50,"limit":50,"length":0,"total":50,"logs":[]}`), &r))

	assert.True(t, r.HasTotals)
	assert.Equal(t, 50, r.Start)
	assert.Equal(t, 50, r.Total)
	assert.Empty(t, r.Logs)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":50,"limit":50,"length":0,"total":50,"logs":[]}`, string(out))
}

func TestLogEntry_DateMalformed(t *testing.T) {
	assert.True(t, LogEntry{"date": "yesterday"}.Date().IsZero())
	assert.True(t, LogEntry{}.Date().IsZero())
}

func TestTypeSeverity(t *testing.T) {
	assert.Equal(t, SeveritySuccess, TypeSeverity("s"))
	assert.Equal(t, SeverityFailure, TypeSeverity("fp"))
	assert.Equal(t, SeverityWarning, TypeSeverity("limit_wc"))
	assert.Equal(t, SeverityWarning, TypeSeverity("w"))
	assert.Equal(t, SeverityInfo, TypeSeverity("du"))

	assert.Equal(t, "Failed Login", TypeDescription("f"))
	assert.Equal(t, "zz", TypeDescription("zz"))
}
