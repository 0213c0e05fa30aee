package amocrm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	pkgerrors "github.com/webtolk/amocrm-radicalmart/pkg/errors"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultRetries   = 3
	defaultBaseDelay = 500 * time.Millisecond
	maxRetryAfter    = time.Minute
	errorBodyLimit   = 1024
	accountSuffix    = ".amocrm.ru"
	userAgent        = "wtamocrm-radicalmart/1.0"
)

// Operation names reported to the call observer.
const (
	OpCreateLeads = "leads_complex"
	OpAddNotes    = "add_notes"
	OpAccount     = "account"
)

var (
	errTokenRequired  = errors.New("amocrm token is required")
	errTargetRequired = errors.New("amocrm base url or domain is required")
)

// Observer receives the outcome of every API call.
type Observer interface {
	ObserveCall(operation string, duration time.Duration, err error)
}

// Client talks to the three AmoCRM endpoints the bridge needs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	domain     string
	token      string
	maxRetries uint64
	baseDelay  time.Duration
	observer   Observer
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API root, which otherwise is https://<domain>.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithDomain sets the account domain, e.g. example.amocrm.ru.
func WithDomain(domain string) Option {
	return func(c *Client) {
		c.domain = normalizeDomain(domain)
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRetries sets how many times throttled or failed calls are repeated.
func WithRetries(maxRetries uint64, baseDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}
	}
}

// WithObserver reports call latencies and failures.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient builds the AmoCRM client for a long-lived access token.
func NewClient(token string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, errTokenRequired
	}

	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		token:      trimmed,
		maxRetries: defaultRetries,
		baseDelay:  defaultBaseDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.baseURL == "" && client.domain != "" {
		client.baseURL = "https://" + client.domain
	}
	if client.baseURL == "" {
		return nil, errTargetRequired
	}
	return client, nil
}

// CreateLeadsComplex creates leads together with their embedded contacts.
func (c *Client) CreateLeadsComplex(ctx context.Context, leads []Lead) ([]CreatedLead, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "amocrm client not configured")
	}
	if len(leads) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one lead is required")
	}

	var created []CreatedLead
	if err := c.do(ctx, OpCreateLeads, http.MethodPost, "/api/v4/leads/complex", leads, &created); err != nil {
		return nil, wrapCallError(err, "create leads")
	}
	if len(created) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "create leads returned no entries")
	}
	return created, nil
}

// AddNotes attaches notes to one entity, e.g. AddNotes(ctx, "leads", 777, notes).
func (c *Client) AddNotes(ctx context.Context, entityType string, entityID int64, notes []Note) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "amocrm client not configured")
	}
	entity := strings.TrimSpace(entityType)
	if entity == "" || entityID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "entity type and id are required")
	}
	if len(notes) == 0 {
		return nil
	}

	path := fmt.Sprintf("/api/v4/%s/%d/notes", url.PathEscape(entity), entityID)
	if err := c.do(ctx, OpAddNotes, http.MethodPost, path, notes, nil); err != nil {
		return wrapCallError(err, "add notes")
	}
	return nil
}

// BaseDomain returns the account domain, asking the account endpoint when none is configured.
func (c *Client) BaseDomain(ctx context.Context) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "amocrm client not configured")
	}
	if c.domain != "" {
		return c.domain, nil
	}

	var account Account
	if err := c.do(ctx, OpAccount, http.MethodGet, "/api/v4/account", nil, &account); err != nil {
		return "", wrapCallError(err, "fetch account")
	}
	sub := strings.TrimSpace(account.Subdomain)
	if sub == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "account has no subdomain")
	}
	return sub + accountSuffix, nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, payload, out any) error {
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", operation, err)
		}
		body = encoded
	}

	var retryAfter time.Duration
	exp := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.baseDelay))
	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		next, stop := exp.Next()
		if stop {
			return 0, true
		}
		if retryAfter > next {
			next = retryAfter
		}
		retryAfter = 0
		return next, false
	})

	start := time.Now()
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		status, header, respBody, err := c.send(ctx, method, path, body)
		if err != nil {
			if method == http.MethodGet && ctx.Err() == nil {
				return retry.RetryableError(err)
			}
			return err
		}
		if status < 200 || status >= 300 {
			apiErr := newAPIError(status, respBody)
			if apiErr.Retryable(method) {
				retryAfter = parseRetryAfter(header.Get("Retry-After"), time.Now())
				return retry.RetryableError(apiErr)
			}
			return apiErr
		}
		if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("decode %s response: %w", operation, err)
			}
		}
		return nil
	})
	if c.observer != nil {
		c.observer.ObserveCall(operation, time.Since(start), err)
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (int, http.Header, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, resp.Header, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, resp.Header, respBody, nil
}

// wrapCallError keeps permanent API refusals apart from outages so callers stop redelivering them.
func wrapCallError(err error, message string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && !apiErr.Temporary() {
		return pkgerrors.Wrap(pkgerrors.CodeRejected, err, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

// parseRetryAfter accepts both delta-seconds and HTTP-date values.
func parseRetryAfter(value string, now time.Time) time.Duration {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}
	var wait time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		wait = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		wait = at.Sub(now)
	}
	if wait < 0 {
		return 0
	}
	if wait > maxRetryAfter {
		return maxRetryAfter
	}
	return wait
}

func normalizeDomain(domain string) string {
	d := strings.TrimSpace(domain)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimRight(d, "/")
}
