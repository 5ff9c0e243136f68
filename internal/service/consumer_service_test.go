package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"trade-alerts-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerPersistsDeclinedOffers(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	offers := &fakeOfferSvc{}
	svc := NewConsumerService(pubSub, DeclinedOffersTopic, offers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Consume(ctx))

	subID := uuid.New()
	userID := uuid.New()
	payload, err := json.Marshal(dto.PublishDeclinedOfferMessage{
		SubscriptionId:     subID,
		UserId:             userID,
		OriginalPriceCents: 4900,
		UserInputCents:     4000,
		OfferPriceCents:    3700,
		DiscountPercent:    8,
	})
	require.NoError(t, err)

	require.NoError(t, pubSub.Publish(DeclinedOffersTopic, message.NewMessage(watermill.NewUUID(), payload)))

	assert.Eventually(t, func() bool {
		return len(offers.storedParams()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	stored := offers.storedParams()[0]
	assert.Equal(t, subID, stored.SubscriptionID)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, int64(3700), stored.OfferPriceCents)
	assert.Equal(t, 8, stored.DiscountPercent)
}

func TestConsumerDropsMalformedMessages(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	offers := &fakeOfferSvc{}
	svc := NewConsumerService(pubSub, DeclinedOffersTopic, offers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Consume(ctx))

	require.NoError(t, pubSub.Publish(DeclinedOffersTopic, message.NewMessage(watermill.NewUUID(), []byte("not json"))))

	// A good message after the bad one still gets through, proving the
	// malformed one was acked rather than wedging the stream.
	payload, err := json.Marshal(dto.PublishDeclinedOfferMessage{
		SubscriptionId: uuid.New(),
		UserId:         uuid.New(),
	})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(DeclinedOffersTopic, message.NewMessage(watermill.NewUUID(), payload)))

	assert.Eventually(t, func() bool {
		return len(offers.storedParams()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
