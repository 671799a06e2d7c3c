package management

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/bascanada/auth0logs/pkg/ty"
)

// LogEntry is a log event as returned by the API. Its shape belongs to the
// API and is kept verbatim.
type LogEntry ty.MI

// ID returns the log_id of the entry, or _id for older tenants.
func (e LogEntry) ID() string {
	if id := ty.MI(e).GetString("log_id"); id != "" {
		return id
	}
	return ty.MI(e).GetString("_id")
}

// Type returns the event type code (s, f, fp, ...).
func (e LogEntry) Type() string {
	return ty.MI(e).GetString("type")
}

// Date parses the date of the entry, the zero time when absent or malformed.
func (e LogEntry) Date() time.Time {
	t, err := time.Parse(time.RFC3339Nano, ty.MI(e).GetString("date"))
	if err != nil {
		return time.Time{}
	}
	return t
}

// SearchResult is a page of log events. When totals were requested the API
// wraps the page in an envelope, otherwise it returns a bare array.
type SearchResult struct {
	Logs []LogEntry `json:"logs"`

	HasTotals bool `json:"-"`
	Start     int  `json:"start"`
	Limit     int  `json:"limit"`
	Length    int  `json:"length"`
	Total     int  `json:"total"`
}

type searchEnvelope struct {
	Logs   []LogEntry `json:"logs"`
	Start  int        `json:"start"`
	Limit  int        `json:"limit"`
	Length int        `json:"length"`
	Total  int        `json:"total"`
}

func (r *SearchResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		*r = SearchResult{}
		return json.Unmarshal(trimmed, &r.Logs)
	}

	var env searchEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return err
	}
	*r = SearchResult{
		Logs:      env.Logs,
		HasTotals: true,
		Start:     env.Start,
		Limit:     env.Limit,
		Length:    env.Length,
		Total:     env.Total,
	}
	return nil
}

// MarshalJSON writes the same shape the API returned.
func (r SearchResult) MarshalJSON() ([]byte, error) {
	logs := r.Logs
	if logs == nil {
		logs = []LogEntry{}
	}
	if !r.HasTotals {
		return json.Marshal(logs)
	}
	return json.Marshal(searchEnvelope{
		Logs:   logs,
		Start:  r.Start,
		Limit:  r.Limit,
		Length: r.Length,
		Total:  r.Total,
	})
}
