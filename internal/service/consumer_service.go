package service

import (
	"context"
	"encoding/json"
	"log"

	"trade-alerts-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the declined-offers queue and persists each offer.
// Persistence failures are logged and dropped; the wizard has already moved
// on by the time these messages are processed.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	offers    IOfferService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	offers IOfferService,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		offers:    offers,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishDeclinedOfferMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal declined offer message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	_, err := cs.offers.StoreDeclinedOffer(ctx, StoreOfferParams{
		SubscriptionID:     payload.SubscriptionId,
		UserID:             payload.UserId,
		OriginalPriceCents: payload.OriginalPriceCents,
		UserInputCents:     payload.UserInputCents,
		OfferPriceCents:    payload.OfferPriceCents,
		DiscountPercent:    payload.DiscountPercent,
	})
	if err != nil {
		// Declined-offer persistence is best effort end to end. Losing one
		// just means the next negotiation re-rolls a discount.
		log.Printf("[ERROR] Failed to persist declined offer for subscription %s: %v", payload.SubscriptionId, err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Declined offer persisted for subscription %s", payload.SubscriptionId)
	msg.Ack()
}
