// Package chatrepo provisions chat sessions between the parties of a
// delivery. Message storage lives elsewhere; this package only guarantees
// that one chat exists per participant pair and delivery.
package chatrepo

import (
	"context"
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// ChatDTO stores participants in a canonical order so (a, b) and (b, a) are
// the same chat.
type ChatDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParticipantA uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chats_participants"`
	ParticipantB uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chats_participants"`
	DeliveryID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chats_participants"`
	CreatedAt    time.Time
}

func (ChatDTO) TableName() string {
	return "chats"
}

// GormChatProvisioner implements ports.ChatProvisioner.
type GormChatProvisioner struct {
	db *gorm.DB
}

func NewGormChatProvisioner(db *gorm.DB) *GormChatProvisioner {
	return &GormChatProvisioner{db: db}
}

// EnsureChat returns the id of the chat between userA and userB for the
// delivery, creating it when absent. Concurrent calls converge on one chat.
func (p *GormChatProvisioner) EnsureChat(ctx context.Context, deliveryID, userA, userB kernel.UUID) (kernel.UUID, error) {
	if err := errors.Join(deliveryID.Validate(), userA.Validate(), userB.Validate()); err != nil {
		return kernel.UUID{}, err
	}
	if userA.IsEqual(userB) {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("participants", errors.New("a chat needs two distinct users"))
	}

	a, b := userA.Bytes(), userB.Bytes()
	if a.String() > b.String() {
		a, b = b, a
	}

	if id, err := p.find(ctx, deliveryID.Bytes(), a, b); err == nil || !errors.Is(err, errs.ErrObjectNotFound) {
		return id, err
	}

	dto := ChatDTO{ID: uuid.New(), ParticipantA: a, ParticipantB: b, DeliveryID: deliveryID.Bytes()}
	if err := p.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return p.find(ctx, deliveryID.Bytes(), a, b)
		}
		return kernel.UUID{}, err
	}

	return kernel.UUIDFromBytes(dto.ID[:])
}

func (p *GormChatProvisioner) find(ctx context.Context, deliveryID, a, b uuid.UUID) (kernel.UUID, error) {
	var dto ChatDTO
	err := p.db.WithContext(ctx).
		Where("delivery_id = ? AND participant_a = ? AND participant_b = ?", deliveryID, a, b).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.UUID{}, errs.NewObjectNotFoundError("chat", deliveryID.String())
		}
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromBytes(dto.ID[:])
}
