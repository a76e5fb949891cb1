package repository

import (
	"context"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
)

// InvocationRepository defines the interface for invocation log operations
type InvocationRepository interface {
	// Create stores a new invocation log entry
	Create(ctx context.Context, log *entity.InvocationLog) error

	// List retrieves invocation logs with pagination, newest first
	List(ctx context.Context, limit, offset int) ([]*entity.InvocationLog, int64, error)

	// ListByFormula retrieves invocation logs for a formula with pagination
	ListByFormula(ctx context.Context, formula string, limit, offset int) ([]*entity.InvocationLog, int64, error)
}
