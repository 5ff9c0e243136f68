package implementation

import (
	"context"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/model"
	"trade-alerts-be/internal/repository/contract"
	"trade-alerts-be/internal/repository/specification"

	"gorm.io/gorm"
)

type chatChannelRepositoryImpl struct {
	db *gorm.DB
}

func NewChatChannelRepository(db *gorm.DB) contract.ChatChannelRepository {
	return &chatChannelRepositoryImpl{db: db}
}

func (r *chatChannelRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatChannel, error) {
	var mc model.ChatChannel
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&mc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&mc), nil
}

func (r *chatChannelRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatChannel, error) {
	var modelChannels []*model.ChatChannel
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelChannels).Error; err != nil {
		return nil, err
	}

	var channels []*entity.ChatChannel
	for _, mc := range modelChannels {
		channels = append(channels, r.mapToEntity(mc))
	}

	return channels, nil
}

func (r *chatChannelRepositoryImpl) Create(ctx context.Context, channel *entity.ChatChannel) error {
	return r.db.WithContext(ctx).Create(&model.ChatChannel{
		Id:          channel.Id,
		Name:        channel.Name,
		Slug:        channel.Slug,
		Description: channel.Description,
		IsPremium:   channel.IsPremium,
		SortOrder:   channel.SortOrder,
	}).Error
}

func (r *chatChannelRepositoryImpl) mapToEntity(mc *model.ChatChannel) *entity.ChatChannel {
	return &entity.ChatChannel{
		Id:          mc.Id,
		Name:        mc.Name,
		Slug:        mc.Slug,
		Description: mc.Description,
		IsPremium:   mc.IsPremium,
		SortOrder:   mc.SortOrder,
		CreatedAt:   mc.CreatedAt,
	}
}

type chatMessageRepositoryImpl struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &chatMessageRepositoryImpl{db: db}
}

func (r *chatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	return r.db.WithContext(ctx).Create(&model.ChatMessage{
		Id:        message.Id,
		ChannelId: message.ChannelId,
		UserId:    message.UserId,
		Content:   message.Content,
	}).Error
}

func (r *chatMessageRepositoryImpl) FindAllWithAuthor(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var modelMessages []*model.ChatMessage
	query := r.db.WithContext(ctx).Preload("User")

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelMessages).Error; err != nil {
		return nil, err
	}

	var messages []*entity.ChatMessage
	for _, mm := range modelMessages {
		message := &entity.ChatMessage{
			Id:        mm.Id,
			ChannelId: mm.ChannelId,
			UserId:    mm.UserId,
			Content:   mm.Content,
			CreatedAt: mm.CreatedAt,
		}
		message.Author = entity.User{
			Id:        mm.User.Id,
			FullName:  mm.User.FullName,
			AvatarURL: mm.User.AvatarURL,
		}
		messages = append(messages, message)
	}

	return messages, nil
}
