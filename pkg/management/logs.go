// Package management binds the logs resource group of the Auth0 Management API v2.
package management

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	httpPkg "github.com/bascanada/auth0logs/pkg/http"
	"github.com/bascanada/auth0logs/pkg/ty"
)

const (
	DefaultProtocol = "https"
	DefaultPerPage  = 50

	logsPath = "/api/v2/logs"
)

// RestClient is the transport the Logs client relies on. *http.RestClient
// satisfies it.
type RestClient interface {
	Get(ctx context.Context, url string, params ty.MS, responseData interface{}) error
}

// LogsOptions are the optional construction parameters of NewLogs.
type LogsOptions struct {
	// Telemetry defaults to true.
	Telemetry ty.Opt[bool]
	// Timeout defaults to 5s.
	Timeout time.Duration
	// Protocol defaults to https.
	Protocol string
	Rest     *httpPkg.Options
}

// Logs is the client of /api/v2/logs.
type Logs struct {
	domain   string
	protocol string
	client   RestClient
}

// NewLogs returns a Logs client for domain authenticated with token.
func NewLogs(domain, token string, options LogsOptions) *Logs {
	client := httpPkg.NewRestClient(token, options.Telemetry.Or(true), options.Timeout, options.Rest)
	return NewLogsWithClient(domain, options.Protocol, client)
}

// NewLogsWithClient returns a Logs client issuing its requests through client.
func NewLogsWithClient(domain, protocol string, client RestClient) *Logs {
	if protocol == "" {
		protocol = DefaultProtocol
	}
	return &Logs{
		domain:   domain,
		protocol: protocol,
		client:   client,
	}
}

// URL returns the collection endpoint, or the entry endpoint when id is not empty.
func (l *Logs) URL(id string) string {
	u := fmt.Sprintf("%s://%s%s", l.protocol, l.domain, logsPath)
	if id != "" {
		return u + "/" + url.PathEscape(id)
	}
	return u
}

// SearchParams are the filters of Search. The zero value asks for the first
// page of 50 entries with totals and all fields.
type SearchParams struct {
	// Page is zero based, defaults to 0.
	Page ty.Opt[int] `json:"page,omitempty" yaml:"page,omitempty"`
	// PerPage defaults to DefaultPerPage.
	PerPage ty.Opt[int] `json:"perPage,omitempty" yaml:"perPage,omitempty"`
	// Sort is field:1 for ascending or field:-1 for descending, e.g. date:-1.
	Sort string `json:"sort,omitempty" yaml:"sort,omitempty"`
	// Q is a query in Lucene query string syntax.
	Q string `json:"q,omitempty" yaml:"q,omitempty"`
	// IncludeTotals defaults to true.
	IncludeTotals ty.Opt[bool] `json:"includeTotals,omitempty" yaml:"includeTotals,omitempty"`
	// Fields to include or exclude, depending on IncludeFields. Empty means all.
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	// IncludeFields defaults to true.
	IncludeFields ty.Opt[bool] `json:"includeFields,omitempty" yaml:"includeFields,omitempty"`
	// From is the log id to start retrieving from, used with Take.
	From string `json:"from,omitempty" yaml:"from,omitempty"`
	// Take is the amount of entries to retrieve when using From.
	Take ty.Opt[int] `json:"take,omitempty" yaml:"take,omitempty"`
}

// MergeInto overrides the fields of p that are set in other.
func (p *SearchParams) MergeInto(other *SearchParams) {
	p.Page.Merge(&other.Page)
	p.PerPage.Merge(&other.PerPage)
	if other.Sort != "" {
		p.Sort = other.Sort
	}
	if other.Q != "" {
		p.Q = other.Q
	}
	p.IncludeTotals.Merge(&other.IncludeTotals)
	if len(other.Fields) > 0 {
		p.Fields = other.Fields
	}
	p.IncludeFields.Merge(&other.IncludeFields)
	if other.From != "" {
		p.From = other.From
	}
	p.Take.Merge(&other.Take)
}

// Query renders the parameters the way the API expects them. Absent values
// are left out; q and from are not checked against each other.
func (p SearchParams) Query() ty.MS {
	params := ty.MS{
		"page":           strconv.Itoa(p.Page.Or(0)),
		"per_page":       strconv.Itoa(p.PerPage.Or(DefaultPerPage)),
		"include_totals": strconv.FormatBool(p.IncludeTotals.Or(true)),
		"include_fields": strconv.FormatBool(p.IncludeFields.Or(true)),
	}

	if p.Sort != "" {
		params["sort"] = p.Sort
	}
	if len(p.Fields) > 0 {
		params["fields"] = strings.Join(p.Fields, ",")
	}
	if p.Q != "" {
		params["q"] = p.Q
	}
	if p.From != "" {
		params["from"] = p.From
	}
	if p.Take.Ok() {
		params["take"] = strconv.Itoa(p.Take.Value)
	}

	return params
}

// Search lists log events matching params.
//
// See https://auth0.com/docs/api/management/v2#!/Logs/get_logs
func (l *Logs) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	var result SearchResult
	if err := l.client.Get(ctx, l.URL(""), params.Query(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves the log event identified by id.
//
// An empty id still targets the entry path, {collection}/.
//
// See https://auth0.com/docs/api/management/v2#!/Logs/get_logs_by_id
func (l *Logs) Get(ctx context.Context, id string) (LogEntry, error) {
	var entry LogEntry
	if err := l.client.Get(ctx, l.URL("")+"/"+url.PathEscape(id), nil, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}
