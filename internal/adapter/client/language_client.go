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

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/service"
)

// maxErrorBodyBytes bounds how much of a failed response is echoed into errors
const maxErrorBodyBytes = 4096

// CredentialResolver resolves endpoints and secret placeholders for an invocation
type CredentialResolver interface {
	Endpoint(ctx context.Context, token string) (string, error)
	Resolve(ctx context.Context, token, value string) (string, error)
}

// LanguageClient is an HTTP client for the language service
type LanguageClient struct {
	httpClient     *http.Client
	credentials    CredentialResolver
	networkDomains []string
}

// NewLanguageClient creates a new language service client.
// When networkDomains is empty any endpoint host is accepted.
// Redirects are not followed; a 3xx reply is a transport failure.
func NewLanguageClient(credentials CredentialResolver, timeout time.Duration, networkDomains []string) *LanguageClient {
	return &LanguageClient{
		httpClient: &http.Client{
			Timeout:       timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		credentials:    credentials,
		networkDomains: networkDomains,
	}
}

var _ service.Fetcher = (*LanguageClient)(nil)

// Fetch sends req to the invocation's endpoint and decodes the JSON response into out
func (c *LanguageClient) Fetch(ctx context.Context, req *service.FetchRequest, out interface{}) error {
	endpoint, err := c.credentials.Endpoint(ctx, req.InvocationToken)
	if err != nil {
		return fmt.Errorf("failed to resolve endpoint: %w", err)
	}

	target, err := c.buildURL(endpoint, req.Path, req.Query)
	if err != nil {
		return err
	}

	var body io.Reader = http.NoBody
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for name, value := range req.Headers {
		resolved, err := c.credentials.Resolve(ctx, req.InvocationToken, value)
		if err != nil {
			return fmt.Errorf("failed to resolve header %s: %w", name, err)
		}
		httpReq.Header.Set(name, resolved)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: failed to send request: %v", service.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if err != nil || len(respBody) == 0 {
			return fmt.Errorf("%w: language service returned status %d", service.ErrTransport, resp.StatusCode)
		}
		return fmt.Errorf("%w: language service returned status %d: %s", service.ErrTransport, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", service.ErrTransport, err)
	}

	return nil
}

// buildURL joins the endpoint and relative path and checks the host against the allow-list
func (c *LanguageClient) buildURL(endpoint, path string, query url.Values) (string, error) {
	if endpoint == "" {
		return "", fmt.Errorf("%w: endpoint URL is empty", service.ErrTransport)
	}

	raw := strings.TrimRight(endpoint, "/") + "/" + strings.TrimLeft(path, "/")
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid endpoint URL: %v", service.ErrTransport, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("%w: unsupported endpoint scheme %q", service.ErrTransport, u.Scheme)
	}
	if !c.allowedHost(u.Hostname()) {
		return "", fmt.Errorf("%w: %s", service.ErrDomainNotAllowed, u.Hostname())
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return u.String(), nil
}

func (c *LanguageClient) allowedHost(host string) bool {
	if len(c.networkDomains) == 0 {
		return true
	}

	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, domain := range c.networkDomains {
		domain = strings.ToLower(strings.TrimPrefix(domain, "."))
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
