// Package client talks to the admin API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/certificate"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/rule"
)

const maxResponseBytes = 8 << 20

// Client is an HTTP client of the admin API. Every error it returns is
// either an *errs.ServiceError (the API answered with an error payload) or
// an *errs.TransportError (no usable payload was obtained).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorPayload struct {
	Error string `json:"error"`
}

// do performs a request and decodes the JSON response into result. A
// payload carrying a non-empty "error" is a failure whatever the status.
func (c *Client) do(ctx context.Context, op, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &errs.TransportError{Op: op, Err: fmt.Errorf("failed to marshal request body: %w", err)}
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &errs.TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &errs.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &errs.TransportError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	var ep errorPayload
	if len(respBody) > 0 && json.Unmarshal(respBody, &ep) == nil && ep.Error != "" {
		return &errs.ServiceError{Op: op, Status: resp.StatusCode, Message: ep.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &errs.ServiceError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &errs.TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}

// ListRules returns all rules.
func (c *Client) ListRules(ctx context.Context) (entities.Rules, error) {
	var rules entities.Rules
	if err := c.do(ctx, "list rules", http.MethodGet, "/api/rules", nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// GetRule returns one rule.
func (c *Client) GetRule(ctx context.Context, id string) (entities.Rule, error) {
	var r entities.Rule
	err := c.do(ctx, "get rule", http.MethodGet, "/api/rules/"+escape(id), nil, &r)
	return r, err
}

// CreateRule submits a new rule.
func (c *Client) CreateRule(ctx context.Context, r entities.Rule) (entities.Rule, error) {
	var out entities.Rule
	err := c.do(ctx, "create rule", http.MethodPost, "/api/rules", r, &out)
	return out, err
}

// UpdateRule replaces a rule.
func (c *Client) UpdateRule(ctx context.Context, id string, r entities.Rule) (entities.Rule, error) {
	var out entities.Rule
	err := c.do(ctx, "update rule", http.MethodPut, "/api/rules/"+escape(id), r, &out)
	return out, err
}

// DeleteRule removes a rule.
func (c *Client) DeleteRule(ctx context.Context, id string) error {
	return c.do(ctx, "delete rule", http.MethodDelete, "/api/rules/"+escape(id), nil, nil)
}

// MatchRule previews which upstream of a rule would serve req.
func (c *Client) MatchRule(ctx context.Context, id string, req entities.RequestContext) (rule.Route, bool, error) {
	var out struct {
		Matched bool        `json:"matched"`
		Route   *rule.Route `json:"route"`
	}
	if err := c.do(ctx, "match rule", http.MethodPost, "/api/rules/"+escape(id)+"/match", req, &out); err != nil {
		return rule.Route{}, false, err
	}
	if !out.Matched || out.Route == nil {
		return rule.Route{}, false, nil
	}
	return *out.Route, true, nil
}

// Reload asks the service to reload the proxy.
func (c *Client) Reload(ctx context.Context) error {
	return c.do(ctx, "reload", http.MethodPost, "/api/reload", nil, nil)
}

// ListCertificates returns every stored certificate.
func (c *Client) ListCertificates(ctx context.Context) ([]certificate.View, error) {
	var views []certificate.View
	if err := c.do(ctx, "list certificates", http.MethodGet, "/api/certificates", nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// GetCertificate returns one certificate by local id.
func (c *Client) GetCertificate(ctx context.Context, id string) (certificate.View, error) {
	var v certificate.View
	err := c.do(ctx, "get certificate", http.MethodGet, "/api/certificates/"+escape(id), nil, &v)
	return v, err
}

// UploadCertificate submits certificate material.
func (c *Client) UploadCertificate(ctx context.Context, req certificate.UploadRequest) (certificate.View, error) {
	var v certificate.View
	err := c.do(ctx, "upload certificate", http.MethodPost, "/api/certificates", req, &v)
	return v, err
}

// RenameCertificate renames an uploaded certificate.
func (c *Client) RenameCertificate(ctx context.Context, id, name string) (certificate.View, error) {
	var v certificate.View
	err := c.do(ctx, "rename certificate", http.MethodPut, "/api/certificates/"+escape(id)+"/name",
		map[string]string{"name": name}, &v)
	return v, err
}

// DeleteCertificate removes an uploaded certificate.
func (c *Client) DeleteCertificate(ctx context.Context, id string) error {
	return c.do(ctx, "delete certificate", http.MethodDelete, "/api/certificates/"+escape(id), nil, nil)
}

// CloudEnabled reports whether the service has a CA configured.
func (c *Client) CloudEnabled(ctx context.Context) (bool, error) {
	var out struct {
		Enabled bool `json:"enabled"`
	}
	err := c.do(ctx, "cloud info", http.MethodGet, "/api/cloud", nil, &out)
	return out.Enabled, err
}

// ListCloudCertificates returns every certificate the CA knows.
func (c *Client) ListCloudCertificates(ctx context.Context) ([]certificate.View, error) {
	var views []certificate.View
	if err := c.do(ctx, "list cloud certificates", http.MethodGet, "/api/cloud/certificates", nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// ApplyCertificate requests a certificate from the CA.
func (c *Client) ApplyCertificate(ctx context.Context, req cloud.ApplyRequest) (certificate.ApplyResult, error) {
	var out certificate.ApplyResult
	err := c.do(ctx, "apply certificate", http.MethodPost, "/api/cloud/certificates", req, &out)
	return out, err
}

// CheckCertificateStatus checks a cloud certificate at the CA.
func (c *Client) CheckCertificateStatus(ctx context.Context, id string) (certificate.StatusReport, error) {
	var out certificate.StatusReport
	err := c.do(ctx, "check certificate status", http.MethodGet, "/api/cloud/certificates/"+escape(id)+"/status", nil, &out)
	return out, err
}

// RenewCertificate requests a renewal of a cloud certificate.
func (c *Client) RenewCertificate(ctx context.Context, id string) (certificate.RenewResult, error) {
	var out certificate.RenewResult
	err := c.do(ctx, "renew certificate", http.MethodPost, "/api/cloud/certificates/"+escape(id)+"/renew", nil, &out)
	return out, err
}

// DownloadCertificate fetches the material of a cloud certificate.
func (c *Client) DownloadCertificate(ctx context.Context, id string) (certificate.View, error) {
	var v certificate.View
	err := c.do(ctx, "download certificate", http.MethodPost, "/api/cloud/certificates/"+escape(id)+"/download", nil, &v)
	return v, err
}

// RenameCloudCertificate renames a cloud certificate.
func (c *Client) RenameCloudCertificate(ctx context.Context, id, name string) (certificate.View, error) {
	var v certificate.View
	err := c.do(ctx, "rename cloud certificate", http.MethodPut, "/api/cloud/certificates/"+escape(id)+"/name",
		map[string]string{"name": name}, &v)
	return v, err
}

// DeleteCloudCertificate revokes and removes a cloud certificate.
func (c *Client) DeleteCloudCertificate(ctx context.Context, id string) error {
	return c.do(ctx, "delete cloud certificate", http.MethodDelete, "/api/cloud/certificates/"+escape(id), nil, nil)
}
