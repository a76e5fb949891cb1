package credential

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/service"
)

// Error definitions for the credential vault
var (
	ErrSessionNotFound = errors.New("credential session not found")
	ErrUnknownSecret   = errors.New("unknown secret")
)

// Store persists credentials by invocation token
type Store interface {
	// Put stores creds under token for ttl
	Put(ctx context.Context, token string, creds *entity.Credentials, ttl time.Duration) error

	// Get returns the credentials for token or ErrSessionNotFound
	Get(ctx context.Context, token string) (*entity.Credentials, error)

	// Delete removes the credentials for token
	Delete(ctx context.Context, token string) error
}

// placeholderPattern matches {{<secret>-<token>}}; tokens are uuids
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)-([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})\}\}`)

// Session is a credential scope bound to one invocation token
type Session struct {
	token string
}

// Token returns the invocation token
func (s *Session) Token() string {
	return s.token
}

// Placeholder returns the opaque stand-in for the named secret
func (s *Session) Placeholder(secret string) string {
	return fmt.Sprintf("{{%s-%s}}", secret, s.token)
}

// Vault holds user credentials outside application code paths.
// Mappers only see placeholders; the transport resolves them at send time.
type Vault struct {
	store Store
	ttl   time.Duration
}

// NewVault creates a new Vault
func NewVault(store Store, ttl time.Duration) *Vault {
	return &Vault{store: store, ttl: ttl}
}

var _ service.CredentialBroker = (*Vault)(nil)

// Open stores creds under a fresh invocation token
func (v *Vault) Open(ctx context.Context, creds *entity.Credentials) (service.Invocation, error) {
	session := &Session{token: uuid.New().String()}
	if err := v.store.Put(ctx, session.token, creds, v.ttl); err != nil {
		return nil, fmt.Errorf("failed to open credential session: %w", err)
	}
	return session, nil
}

// Close discards the credentials of token
func (v *Vault) Close(ctx context.Context, token string) error {
	return v.store.Delete(ctx, token)
}

// Endpoint returns the endpoint URL registered for token
func (v *Vault) Endpoint(ctx context.Context, token string) (string, error) {
	creds, err := v.store.Get(ctx, token)
	if err != nil {
		return "", err
	}
	return creds.EndpointURL, nil
}

// Resolve replaces every placeholder issued for token in value with its secret.
// Placeholders issued for other tokens are rejected.
func (v *Vault) Resolve(ctx context.Context, token, value string) (string, error) {
	matches := placeholderPattern.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return value, nil
	}

	creds, err := v.store.Get(ctx, token)
	if err != nil {
		return "", err
	}

	var resolveErr error
	resolved := placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		parts := placeholderPattern.FindStringSubmatch(match)
		name, owner := parts[1], parts[2]
		if owner != token {
			resolveErr = fmt.Errorf("%w: placeholder for %q belongs to another invocation", ErrUnknownSecret, name)
			return match
		}
		secret, ok := creds.Secrets[name]
		if !ok {
			resolveErr = fmt.Errorf("%w: %q", ErrUnknownSecret, name)
			return match
		}
		return secret
	})
	if resolveErr != nil {
		return "", resolveErr
	}

	return resolved, nil
}
