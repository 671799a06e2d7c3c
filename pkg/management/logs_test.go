package management

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	httpPkg "github.com/bascanada/auth0logs/pkg/http"
	"github.com/bascanada/auth0logs/pkg/ty"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockRestClient struct {
	URL    string
	Params ty.MS
	Calls  int
	OnGet  func(url string, params ty.MS, responseData interface{}) error
}

func (m *MockRestClient) Get(_ context.Context, url string, params ty.MS, responseData interface{}) error {
	m.URL = url
	m.Params = params
	m.Calls++
	if m.OnGet != nil {
		return m.OnGet(url, params, responseData)
	}
	return nil
}

func TestLogs_URL(t *testing.T) {
	l := NewLogsWithClient("acme.auth0.com", "", &MockRestClient{})
	assert.Equal(t, "https://acme.auth0.com/api/v2/logs", l.URL(""))
	assert.Equal(t, "https://acme.auth0.com/api/v2/logs/log_001", l.URL("log_001"))

	l = NewLogsWithClient("localhost:3000", "http", &MockRestClient{})
	assert.Equal(t, "http://localhost:3000/api/v2/logs/a%2Fb", l.URL("a/b"))
}

func TestLogs_Search_Defaults(t *testing.T) {
	mock := &MockRestClient{}
	l := NewLogsWithClient("acme.auth0.com", "https", mock)

	_, err := l.Search(context.Background(), SearchParams{})
	require.NoError(t, err)

	assert.Equal(t, "https://acme.auth0.com/api/v2/logs", mock.URL)
	assert.Equal(t, ty.MS{
		"page":           "0",
		"per_page":       "50",
		"include_totals": "true",
		"include_fields": "true",
	}, mock.Params)
}

func TestLogs_Search_AllParams(t *testing.T) {
	mock := &MockRestClient{}
	l := NewLogsWithClient("acme.auth0.com", "https", mock)

	_, err := l.Search(context.Background(), SearchParams{
		Page:          ty.OptWrap(7),
		PerPage:       ty.OptWrap(25),
		Sort:          "date:-1",
		Q:             "type:f",
		IncludeTotals: ty.OptWrap(false),
		Fields:        []string{"a", "b"},
		IncludeFields: ty.OptWrap(false),
		From:          "log_100",
		Take:          ty.OptWrap(10),
	})
	require.NoError(t, err)

	assert.Equal(t, ty.MS{
		"page":           "7",
		"per_page":       "25",
		"sort":           "date:-1",
		"q":              "type:f",
		"include_totals": "false",
		"fields":         "a,b",
		"include_fields": "false",
		"from":           "log_100",
		"take":           "10",
	}, mock.Params)
}

func TestSearchParams_Query_Booleans(t *testing.T) {
	for _, v := range []bool{true, false} {
		q := SearchParams{IncludeTotals: ty.OptWrap(v), IncludeFields: ty.OptWrap(!v)}.Query()
		assert.Contains(t, []string{"true", "false"}, q["include_totals"])
		assert.Contains(t, []string{"true", "false"}, q["include_fields"])
		assert.NotEqual(t, q["include_totals"], q["include_fields"])
	}
}

func TestSearchParams_Query_FieldsOmitted(t *testing.T) {
	q := SearchParams{Fields: nil}.Query()
	_, ok := q["fields"]
	assert.False(t, ok)

	q = SearchParams{Fields: []string{}}.Query()
	_, ok = q["fields"]
	assert.False(t, ok)

	q = SearchParams{Fields: []string{"date"}}.Query()
	assert.Equal(t, "date", q["fields"])
}

func TestSearchParams_Query_TakeZeroIsSent(t *testing.T) {
	q := SearchParams{From: "log_1", Take: ty.OptWrap(0)}.Query()
	assert.Equal(t, "0", q["take"])
	assert.Equal(t, "log_1", q["from"])
}

func TestSearchParams_MergeInto(t *testing.T) {
	base := SearchParams{Q: "type:f", PerPage: ty.OptWrap(100), Fields: []string{"date"}}
	base.MergeInto(&SearchParams{Page: ty.OptWrap(2), IncludeTotals: ty.OptWrap(false)})

	assert.Equal(t, 2, base.Page.Or(0))
	assert.Equal(t, "type:f", base.Q)
	assert.Equal(t, 100, base.PerPage.Or(0))
	assert.Equal(t, []string{"date"}, base.Fields)
	assert.False(t, base.IncludeTotals.Or(true))
	assert.True(t, base.IncludeFields.Or(true))
}

func TestLogs_Get(t *testing.T) {
	mock := &MockRestClient{
		OnGet: func(url string, params ty.MS, responseData interface{}) error {
			return json.Unmarshal([]byte(`{"log_id":"log_001","type":"s","date":"2024-03-01T10:00:00.123Z"}`), responseData)
		},
	}
	l := NewLogsWithClient("acme.auth0.com", "https", mock)

	entry, err := l.Get(context.Background(), "log_001")
	require.NoError(t, err)

	assert.Equal(t, "https://acme.auth0.com/api/v2/logs/log_001", mock.URL)
	assert.Nil(t, mock.Params)
	assert.Equal(t, "log_001", entry.ID())
	assert.Equal(t, "s", entry.Type())
	assert.Equal(t, 2024, entry.Date().Year())
}

func TestLogs_Get_EmptyIDTargetsEntryPath(t *testing.T) {
	mock := &MockRestClient{}
	l := NewLogsWithClient("acme.auth0.com", "https", mock)

	_, err := l.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.auth0.com/api/v2/logs/", mock.URL)
}

func TestLogs_Get_PassesErrorThrough(t *testing.T) {
	notFound := &httpPkg.APIError{StatusCode: 404, Err: "Not Found", Message: "log not found"}
	mock := &MockRestClient{
		OnGet: func(string, ty.MS, interface{}) error { return notFound },
	}
	l := NewLogsWithClient("acme.auth0.com", "https", mock)

	entry, err := l.Get(context.Background(), "nope")
	assert.Nil(t, entry)
	assert.True(t, errors.Is(err, notFound))
	assert.True(t, httpPkg.IsNotFound(err))
}

func TestNewLogs_OverHTTP(t *testing.T) {
	defer gock.Off()
	gock.DisableNetworking()

	gock.New("https://acme.auth0.com").
		Get("/api/v2/logs").
		MatchHeader("Authorization", "Bearer tok").
		MatchParams(map[string]string{
			"page":           "0",
			"per_page":       "50",
			"include_totals": "true",
			"include_fields": "true",
			"fields":         "date,type",
		}).
		Reply(200).
		JSON(map[string]interface{}{
			"start":  0,
			"limit":  50,
			"length": 1,
			"total":  1,
			"logs":   []map[string]string{{"log_id": "log_001", "type": "f"}},
		})

	l := NewLogs("acme.auth0.com", "tok", LogsOptions{Telemetry: ty.OptWrap(false)})

	result, err := l.Search(context.Background(), SearchParams{Fields: []string{"date", "type"}})
	require.NoError(t, err)
	assert.True(t, result.HasTotals)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Logs, 1)
	assert.Equal(t, "log_001", result.Logs[0].ID())
	assert.True(t, gock.IsDone())
}
