package unitofwork

import (
	"context"

	"trade-alerts-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	VerificationTokenRepository() contract.VerificationTokenRepository
	PlanRepository() contract.PlanRepository
	SubscriptionRepository() contract.SubscriptionRepository
	OfferRepository() contract.OfferRepository
	CancellationRepository() contract.CancellationRepository
	ChatChannelRepository() contract.ChatChannelRepository
	ChatMessageRepository() contract.ChatMessageRepository
	AlertRepository() contract.AlertRepository
}
