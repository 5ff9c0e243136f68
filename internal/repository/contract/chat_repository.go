package contract

import (
	"context"

	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/repository/specification"
)

type ChatChannelRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatChannel, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatChannel, error)
	Create(ctx context.Context, channel *entity.ChatChannel) error
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAllWithAuthor(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
}
