package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gigflow/gigflow-backend/internal/model"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	FindOrCreate(ctx context.Context, cv *model.Conversation) (*model.Conversation, error)
	FindByID(ctx context.Context, id uint64) (*model.Conversation, error)
	FindByUser(ctx context.Context, userID uint64) ([]model.Conversation, error)
	TouchLastMessageAt(ctx context.Context, id uint64, at time.Time) error
	CreateMessage(ctx context.Context, msg *model.Message) error
	FindMessageByID(ctx context.Context, id uint64) (*model.Message, error)
	ListMessages(ctx context.Context, convID uint64) ([]model.Message, error)
	UpdateMessage(ctx context.Context, msg *model.Message) error
	DeleteMessage(ctx context.Context, id uint64) error
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// FindOrCreate returns the conversation for cv.BidID, creating it on
// first access. A concurrent creator can still win the unique index on
// bid_id between the lookup and the insert; in that case the insert
// fails with a duplicate key and the winner's row is re-read.
func (r *conversationRepository) FindOrCreate(ctx context.Context, cv *model.Conversation) (*model.Conversation, error) {
	err := r.db.WithContext(ctx).
		Where("bid_id = ?", cv.BidID).
		FirstOrCreate(cv).Error
	if err == nil {
		return cv, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing model.Conversation
		if err := r.db.WithContext(ctx).
			Where("bid_id = ?", cv.BidID).
			First(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	return nil, err
}

func (r *conversationRepository) FindByID(ctx context.Context, id uint64) (*model.Conversation, error) {
	var cv model.Conversation
	if err := r.db.WithContext(ctx).First(&cv, id).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) FindByUser(ctx context.Context, userID uint64) ([]model.Conversation, error) {
	var list []model.Conversation
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? OR freelancer_id = ?", userID, userID).
		Order("last_message_at IS NULL, last_message_at DESC, updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *conversationRepository) TouchLastMessageAt(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", id).
		Update("last_message_at", at).Error
}

func (r *conversationRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *conversationRepository) FindMessageByID(ctx context.Context, id uint64) (*model.Message, error) {
	var msg model.Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *conversationRepository) ListMessages(ctx context.Context, convID uint64) ([]model.Message, error) {
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *conversationRepository) UpdateMessage(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

func (r *conversationRepository) DeleteMessage(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Message{}, id).Error
}
