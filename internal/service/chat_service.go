package service

import (
	"context"
	"time"

	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/repository/specification"
	"trade-alerts-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const historyPageSize = 50

// ChatBroadcaster pushes a new message to everyone connected to the channel.
type ChatBroadcaster interface {
	BroadcastChat(channelID uuid.UUID, message dto.MessageResponse)
}

type IChatService interface {
	ListChannels(ctx context.Context) ([]dto.ChannelResponse, error)
	GetHistory(ctx context.Context, channelID uuid.UUID, before *time.Time) (*dto.MessageHistoryResponse, error)
	SendMessage(ctx context.Context, userID, channelID uuid.UUID, content string) (*dto.MessageResponse, error)
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	broadcaster ChatBroadcaster
	logger      logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, broadcaster ChatBroadcaster, log logger.ILogger) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
		logger:      log,
	}
}

func (s *chatService) ListChannels(ctx context.Context) ([]dto.ChannelResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	channels, err := uow.ChatChannelRepository().FindAll(ctx, specification.OrderBy{Field: "sort_order"})
	if err != nil {
		return nil, err
	}

	res := make([]dto.ChannelResponse, 0, len(channels))
	for _, c := range channels {
		res = append(res, dto.ChannelResponse{
			Id:          c.Id,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			IsPremium:   c.IsPremium,
		})
	}
	return res, nil
}

func (s *chatService) GetHistory(ctx context.Context, channelID uuid.UUID, before *time.Time) (*dto.MessageHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.ByChannel{ChannelID: channelID},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: historyPageSize + 1},
	}
	if before != nil {
		specs = append(specs, specification.Before{Cursor: *before})
	}

	messages, err := uow.ChatMessageRepository().FindAllWithAuthor(ctx, specs...)
	if err != nil {
		return nil, err
	}

	hasMore := len(messages) > historyPageSize
	if hasMore {
		messages = messages[:historyPageSize]
	}

	res := &dto.MessageHistoryResponse{HasMore: hasMore, Messages: make([]dto.MessageResponse, 0, len(messages))}
	for _, m := range messages {
		res.Messages = append(res.Messages, mapMessageResponse(m))
	}
	return res, nil
}

func (s *chatService) SendMessage(ctx context.Context, userID, channelID uuid.UUID, content string) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	channel, err := uow.ChatChannelRepository().FindOne(ctx, specification.ByID{ID: channelID})
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, ErrNotFound
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	// Premium channels are for paying members only; admins always post.
	if channel.IsPremium && user.Role != entity.UserRoleAdmin {
		sub, err := uow.SubscriptionRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: userID},
			specification.Filter("status", string(entity.SubscriptionStatusActive)),
		)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, ErrUnauthorized
		}
	}

	msg := &entity.ChatMessage{
		Id:        uuid.New(),
		ChannelId: channelID,
		UserId:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}

	msg.Author = entity.User{
		Id:        user.Id,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
	}
	res := mapMessageResponse(msg)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastChat(channelID, res)
	}

	return &res, nil
}

func mapMessageResponse(m *entity.ChatMessage) dto.MessageResponse {
	return dto.MessageResponse{
		Id:         m.Id,
		ChannelId:  m.ChannelId,
		UserId:     m.UserId,
		AuthorName: m.Author.FullName,
		AvatarURL:  m.Author.AvatarURL,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}
