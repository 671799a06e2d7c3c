package management

import "context"

// LogsAPI is what consumers need from a Logs client.
type LogsAPI interface {
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)
	Get(ctx context.Context, id string) (LogEntry, error)
}

var _ LogsAPI = (*Logs)(nil)
