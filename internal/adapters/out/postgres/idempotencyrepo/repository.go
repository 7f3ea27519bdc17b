// Package idempotencyrepo stores the outcome of keyed requests so that a
// retried request returns the first result instead of running again.
package idempotencyrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"parcelhub/internal/core/ports"
	"parcelhub/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type IdempotencyDTO struct {
	Key        string    `gorm:"primaryKey;size:128"`
	Operation  string    `gorm:"primaryKey;size:64"`
	RequestRef string    `gorm:"not null"`
	ResultRef  string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false"`
}

func (IdempotencyDTO) TableName() string {
	return "idempotency_keys"
}

type GormIdempotencyRepository struct {
	db *gorm.DB
}

func NewGormIdempotencyRepository(db *gorm.DB) *GormIdempotencyRepository {
	return &GormIdempotencyRepository{db: db}
}

func (r *GormIdempotencyRepository) Get(ctx context.Context, key, operation string) (*ports.IdempotencyRecord, error) {
	var dto IdempotencyDTO
	err := r.db.WithContext(ctx).First(&dto, "key = ? AND operation = ?", key, operation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("idempotency key", key)
		}
		return nil, err
	}

	return &ports.IdempotencyRecord{
		Key:        dto.Key,
		Operation:  dto.Operation,
		RequestRef: dto.RequestRef,
		ResultRef:  dto.ResultRef,
		CreatedAt:  dto.CreatedAt,
	}, nil
}

func (r *GormIdempotencyRepository) Save(ctx context.Context, record ports.IdempotencyRecord) error {
	if strings.TrimSpace(record.Key) == "" {
		return errs.NewValueIsRequiredError("idempotency key")
	}

	dto := IdempotencyDTO{
		Key:        record.Key,
		Operation:  record.Operation,
		RequestRef: record.RequestRef,
		ResultRef:  record.ResultRef,
		CreatedAt:  record.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errs.NewConflictError("idempotency key", "was used by a concurrent request")
		}
		return err
	}
	return nil
}
