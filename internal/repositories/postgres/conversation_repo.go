package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shahtaz/medusa/internal/models"
	"github.com/shahtaz/medusa/internal/utils"
)

type ConversationRepo interface {
	Create(ctx context.Context, conv *models.Conversation) error
	GetOwned(ctx context.Context, id, visitorID string) (*models.Conversation, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	ListByVisitor(ctx context.Context, visitorID string) ([]models.Conversation, error)
	UpdateSummary(ctx context.Context, id, summary string) error
	Delete(ctx context.Context, id string) error

	AppendMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	LastMessage(ctx context.Context, conversationID string) (*models.Message, error)
	CountMessages(ctx context.Context, conversationID string) (int64, error)
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Create(ctx context.Context, conv *models.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *conversationRepo) GetOwned(ctx context.Context, id, visitorID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Where("id = ? AND visitor_id = ?", id, visitorID).
		Take(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &conv, err
}

func (r *conversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &conv, err
}

func (r *conversationRepo) ListByVisitor(ctx context.Context, visitorID string) ([]models.Conversation, error) {
	var rows []models.Conversation
	err := r.db.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *conversationRepo) UpdateSummary(ctx context.Context, id, summary string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("summary", summary)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *conversationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Conversation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return nil
	})
}

func (r *conversationRepo) AppendMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *conversationRepo) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var rows []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *conversationRepo) LastMessage(ctx context.Context, conversationID string) (*models.Message, error) {
	var msg models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Take(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &msg, err
}

func (r *conversationRepo) CountMessages(ctx context.Context, conversationID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&n).Error
	return n, err
}
