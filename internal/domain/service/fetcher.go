package service

import (
	"context"
	"errors"
	"net/url"
)

// Error definitions shared by transport and mappers
var (
	ErrTransport        = errors.New("language service request failed")
	ErrEmptyResultSet   = errors.New("language service returned no documents")
	ErrDomainNotAllowed = errors.New("endpoint is outside the allowed network domains")
)

// FetchRequest describes one outbound call to the language service.
// Path is relative to the endpoint of the invocation's credentials.
type FetchRequest struct {
	InvocationToken string
	Method          string
	Path            string
	Query           url.Values
	Headers         map[string]string
	Body            interface{}
}

// Fetcher sends requests to the language service
type Fetcher interface {
	// Fetch sends req and decodes the JSON response body into out
	Fetch(ctx context.Context, req *FetchRequest, out interface{}) error
}

// Invocation is the credential scope of a single formula call
type Invocation interface {
	// Token returns the opaque invocation token
	Token() string

	// Placeholder returns a stand-in for the named secret that the
	// transport substitutes with the real value at send time
	Placeholder(secret string) string
}
