package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/repository"
)

type invocationRepository struct {
	db *gorm.DB
}

// NewInvocationRepository creates a new invocation repository
func NewInvocationRepository(db *gorm.DB) repository.InvocationRepository {
	return &invocationRepository{db: db}
}

func (r *invocationRepository) Create(ctx context.Context, log *entity.InvocationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *invocationRepository) List(ctx context.Context, limit, offset int) ([]*entity.InvocationLog, int64, error) {
	return r.list(r.db.WithContext(ctx), limit, offset)
}

func (r *invocationRepository) ListByFormula(ctx context.Context, formula string, limit, offset int) ([]*entity.InvocationLog, int64, error) {
	return r.list(r.db.WithContext(ctx).Where("formula = ?", formula), limit, offset)
}

func (r *invocationRepository) list(query *gorm.DB, limit, offset int) ([]*entity.InvocationLog, int64, error) {
	var logs []*entity.InvocationLog
	var total int64

	// new session so Count and Find do not share statement state
	query = query.Session(&gorm.Session{})

	if err := query.Model(&entity.InvocationLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
