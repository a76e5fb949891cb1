package service

import (
	"context"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
)

// CredentialBroker opens and closes credential scopes for invocations
type CredentialBroker interface {
	// Open stores creds and returns the invocation that references them
	Open(ctx context.Context, creds *entity.Credentials) (Invocation, error)

	// Close discards the credentials held for the invocation token
	Close(ctx context.Context, token string) error
}
