package controller

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"trade-alerts-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSubscriptionService struct {
	webhookPayload   []byte
	webhookSignature string
}

func (s *stubSubscriptionService) ListPlans(ctx context.Context) ([]dto.PlanResponse, error) {
	return nil, nil
}

func (s *stubSubscriptionService) CreateCheckout(ctx context.Context, userID, planID uuid.UUID) (*dto.CheckoutResponse, error) {
	return nil, nil
}

func (s *stubSubscriptionService) GetStatus(ctx context.Context, userID uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	return nil, nil
}

func (s *stubSubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	s.webhookPayload = payload
	s.webhookSignature = signature
	return nil
}

func (s *stubSubscriptionService) GetCustomOffer(ctx context.Context, userID, subscriptionID uuid.UUID) (*dto.CustomOfferLookupResponse, error) {
	return nil, nil
}

func (s *stubSubscriptionService) RejectCustomOffer(ctx context.Context, userID uuid.UUID, req dto.RejectOfferRequest) (*dto.RejectOfferResponse, error) {
	return nil, nil
}

func (s *stubSubscriptionService) AcceptCustomOffer(ctx context.Context, userID, offerID uuid.UUID) (*dto.AcceptOfferResponse, error) {
	return nil, nil
}

func (s *stubSubscriptionService) ApplyCoupon(ctx context.Context, userID uuid.UUID, req dto.ApplyCouponRequest) error {
	return nil
}

func (s *stubSubscriptionService) Cancel(ctx context.Context, userID uuid.UUID, req dto.CancelSubscriptionRequest) (*dto.CancelSubscriptionResponse, error) {
	return nil, nil
}

func TestStripeWebhookRoute(t *testing.T) {
	stub := &stubSubscriptionService{}
	app := fiber.New()
	NewSubscriptionController(stub).RegisterRoutes(app.Group("/api"))

	req := httptest.NewRequest(fiber.MethodPost, "/api/subscription/stripe/webhook", strings.NewReader(`{"type":"customer.subscription.updated"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"type":"customer.subscription.updated"}`, string(stub.webhookPayload))
	assert.Equal(t, "t=1,v1=abc", stub.webhookSignature)

	// The webhook lives under the provider segment only.
	req = httptest.NewRequest(fiber.MethodPost, "/api/subscription/webhook", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
