package management

import "context"

// MockLogs is a LogsAPI driven by functions, for tests of consumers.
type MockLogs struct {
	OnSearch func(params SearchParams) (*SearchResult, error)
	OnGet    func(id string) (LogEntry, error)
}

func (m *MockLogs) Search(_ context.Context, params SearchParams) (*SearchResult, error) {
	if m.OnSearch != nil {
		return m.OnSearch(params)
	}
	return &SearchResult{}, nil
}

func (m *MockLogs) Get(_ context.Context, id string) (LogEntry, error) {
	if m.OnGet != nil {
		return m.OnGet(id)
	}
	return LogEntry{}, nil
}
