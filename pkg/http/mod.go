package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/bascanada/auth0logs/pkg/ty"
)

const (
	// ClientName is reported in the telemetry header and the user agent.
	ClientName = "auth0logs"

	// TelemetryHeader carries the base64 encoded client description.
	TelemetryHeader = "Auth0-Client"

	// DefaultTimeout is used when no timeout is provided.
	DefaultTimeout = 5 * time.Second
)

// Version is overridden at build time with -ldflags.
var Version = "0.1.0"

type Auth interface {
	Login(req *http.Request) error
}

// BearerAuth sends a Management API token as a bearer credential.
type BearerAuth struct {
	Token string
}

func (b BearerAuth) Login(req *http.Request) error {
	if b.Token == "" {
		return fmt.Errorf("bearer token is empty")
	}
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return nil
}

// HeaderAuth sets fixed headers on each request. Authorization is left to
// the auth that follows it.
type HeaderAuth struct {
	Headers ty.MS
}

func (h HeaderAuth) Login(req *http.Request) error {
	for k, v := range h.Headers {
		if strings.EqualFold(k, "Authorization") {
			continue
		}
		req.Header.Set(k, v)
	}
	return nil
}

// Options holds the optional knobs of the rest client.
type Options struct {
	// HTTPClient replaces the default client. Its Timeout is left untouched.
	HTTPClient *http.Client
	// Headers are added to every request.
	Headers ty.MS
	// UserAgent overrides the default user agent.
	UserAgent string
}

// RestClient performs authenticated JSON requests against the Management API.
type RestClient struct {
	client    *http.Client
	auth      []Auth
	userAgent string
	telemetry string
}

// Debug controls whether verbose HTTP-level debug logs are emitted. Tests and
// production code can toggle this to avoid leaking secrets into logs.
var Debug = false

// SetDebug sets the package debug flag.
func SetDebug(d bool) {
	Debug = d
}

// NewRestClient returns a client sending token as a bearer credential.
// A zero or negative timeout falls back to DefaultTimeout.
func NewRestClient(token string, telemetry bool, timeout time.Duration, options *Options) *RestClient {
	if options == nil {
		options = &Options{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := options.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	userAgent := options.UserAgent
	if userAgent == "" {
		userAgent = fmt.Sprintf("%s/%s (%s)", ClientName, Version, runtime.Version())
	}

	rc := &RestClient{
		client:    client,
		auth:      []Auth{BearerAuth{Token: token}},
		userAgent: userAgent,
	}
	if len(options.Headers) > 0 {
		rc.auth = append([]Auth{HeaderAuth{Headers: options.Headers}}, rc.auth...)
	}

	if telemetry {
		rc.telemetry = telemetryValue()
	}

	return rc
}

func telemetryValue() string {
	payload, _ := json.Marshal(map[string]interface{}{
		"name":    ClientName,
		"version": Version,
		"env": map[string]string{
			"go": runtime.Version(),
		},
	})
	return base64.StdEncoding.EncodeToString(payload)
}

// Get issues a GET on rawURL with queryParams appended and decodes the JSON
// body into responseData. Non 2xx answers are returned as *APIError.
func (c *RestClient) Get(ctx context.Context, rawURL string, queryParams ty.MS, responseData interface{}) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	if len(queryParams) > 0 {
		q := u.Query()
		for k, v := range queryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	if Debug {
		log.Printf("[GET]%s"+ty.LB, u.String())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	return c.do(req, responseData)
}

func (c *RestClient) do(req *http.Request, responseData interface{}) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.telemetry != "" {
		req.Header.Set(TelemetryHeader, c.telemetry)
	}
	for _, auth := range c.auth {
		if err := auth.Login(req); err != nil {
			return err
		}
	}

	if Debug {
		log.Printf("[%s-HEADERS] %s"+ty.LB, req.Method, maskHeaderMap(req.Header))
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	// Log a truncated response body for debugging (avoid huge output)
	if Debug && len(resBody) > 0 {
		s := string(resBody)
		if len(s) > 2000 {
			s = s[:2000] + "...TRUNCATED"
		}
		log.Printf("[%s-RAW] %d %s"+ty.LB, req.Method, res.StatusCode, s)
	}

	if res.StatusCode >= 400 {
		return newAPIError(res, resBody)
	}

	if responseData == nil || len(bytes.TrimSpace(resBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(resBody, responseData); err != nil {
		return fmt.Errorf("decoding response of %s: %w", req.URL.Path, err)
	}

	return nil
}

// maskHeaderMap returns a string representation of headers with sensitive
// values redacted (keeps first 4 chars for debugging).
func maskHeaderMap(h http.Header) string {
	redacted := []string{}
	for _, k := range sortedHeaderKeys(h) {
		v := ""
		if vals := h[k]; len(vals) > 0 {
			val := vals[0]
			switch strings.ToLower(k) {
			case "authorization", "cookie":
				if len(val) > 4 {
					v = val[:4] + "...REDACTED"
				} else {
					v = "REDACTED"
				}
			default:
				v = val
			}
		}
		redacted = append(redacted, fmt.Sprintf("%s: %s", k, v))
	}
	return strings.Join(redacted, "; ")
}

func sortedHeaderKeys(h http.Header) []string {
	return ty.SortedKeys(map[string][]string(h))
}
