package controller

import (
	"context"
	"errors"

	"trade-alerts-be/internal/config"
	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/pkg/serverutils"
	"trade-alerts-be/internal/service"
	"trade-alerts-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICancellationController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	SelectReason(ctx *fiber.Ctx) error
	RetentionDecision(ctx *fiber.Ctx) error
	SubmitPrice(ctx *fiber.Ctx) error
	AcceptOffer(ctx *fiber.Ctx) error
	DeclineOffer(ctx *fiber.Ctx) error
	AcceptFinalOffer(ctx *fiber.Ctx) error
	DeclineFinalOffer(ctx *fiber.Ctx) error
	Confirm(ctx *fiber.Ctx) error
}

type cancellationController struct {
	service service.IRetentionService
	cfg     config.RetentionConfig
}

func NewCancellationController(service service.IRetentionService, cfg config.RetentionConfig) ICancellationController {
	return &cancellationController{service: service, cfg: cfg}
}

func (c *cancellationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cancellation")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/start", c.Start)
	h.Post("/reason", c.SelectReason)
	h.Post("/retention", c.RetentionDecision)
	h.Post("/price", c.SubmitPrice)
	h.Post("/offer/accept", c.AcceptOffer)
	h.Post("/offer/decline", c.DeclineOffer)
	h.Post("/final-offer/accept", c.AcceptFinalOffer)
	h.Post("/final-offer/decline", c.DeclineFinalOffer)
	h.Post("/confirm", c.Confirm)
}

// flowError maps wizard errors onto HTTP statuses. The session (when present)
// is returned alongside the error so the client can re-render the right step.
func (c *cancellationController) flowError(ctx *fiber.Ctx, session *store.FlowSession, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrFlowNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrStaleSession), errors.Is(err, service.ErrInvalidStep):
		status = fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidPassword):
		status = fiber.StatusUnauthorized
	case errors.Is(err, service.ErrSubscriptionUnavailable):
		status = fiber.StatusNotFound
	}

	body := fiber.Map{
		"code":    status,
		"message": err.Error(),
	}
	if session != nil {
		body["data"] = c.flowState(session)
	}
	return ctx.Status(status).JSON(body)
}

func (c *cancellationController) flowState(session *store.FlowSession) dto.FlowStateResponse {
	res := dto.FlowStateResponse{
		SessionId: session.ID,
		Step:      string(session.Step),
		Outcome:   string(session.Outcome),
	}

	if session.Step == store.StepRetention {
		res.RetentionText = c.service.RetentionMessage(session.Reason)
	}
	if session.Generated != nil {
		view := &dto.FlowOfferView{
			OriginalPriceCents: session.Generated.OriginalPriceCents,
			UserInputCents:     session.Generated.UserInputCents,
			OfferPriceCents:    session.Generated.OfferPriceCents,
			SavingsCents:       session.Generated.SavingsCents,
			PercentOff:         session.Generated.PercentOff,
			Stored:             session.StoredOfferID != nil,
		}
		if session.StoredOfferID != nil {
			view.StoredOfferId = session.StoredOfferID.String()
		}
		res.Offer = view
	}
	if session.Step == store.StepFinalOffer {
		res.FinalOfferCents = c.cfg.FinalOfferCents
		res.FinalOfferPercent = c.cfg.FinalOfferPercent
	}
	return res
}

func (c *cancellationController) Start(ctx *fiber.Ctx) error {
	userID, err := serverutils.UserID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	session, err := c.service.StartFlow(ctx.Context(), userID)
	if err != nil {
		return c.flowError(ctx, nil, err)
	}

	res := dto.StartFlowResponse{
		SessionId: session.ID,
		Step:      string(session.Step),
		Reasons: []string{
			string(store.ReasonNevermind),
			string(store.ReasonNoTime),
			string(store.ReasonCantAfford),
			string(store.ReasonNotReady),
			string(store.ReasonAlreadyMakeMoney),
			string(store.ReasonDontKnow),
		},
		PlanPriceCents: session.PlanPriceCents,
		ConfirmMode:    string(session.ConfirmMode),
	}
	return ctx.JSON(serverutils.SuccessResponse("Cancellation flow started", res))
}

func (c *cancellationController) SelectReason(ctx *fiber.Ctx) error {
	userID, err := serverutils.UserID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req dto.SelectReasonRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	session, err := c.service.SelectReason(ctx.Context(), userID, req.SessionId, store.CancelReason(req.Reason))
	if err != nil {
		return c.flowError(ctx, session, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Reason recorded", c.flowState(session)))
}

func (c *cancellationController) RetentionDecision(ctx *fiber.Ctx) error {
	userID, err := serverutils.UserID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req dto.RetentionDecisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	session, err := c.service.RetentionDecision(ctx.Context(), userID, req.SessionId, req.Decision)
	if err != nil {
		return c.flowError(ctx, session, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Decision recorded", c.flowState(session)))
}

func (c *cancellationController) SubmitPrice(ctx *fiber.Ctx) error {
	userID, err := serverutils.UserID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req dto.SubmitPriceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	session, err := c.service.SubmitPrice(ctx.Context(), userID, req.SessionId, req.DesiredPriceCents)
	if err != nil {
		return c.flowError(ctx, session, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Price processed", c.flowState(session)))
}

func (c *cancellationController) AcceptOffer(ctx *fiber.Ctx) error {
	return c.decision(ctx, c.service.AcceptOffer, "Offer accepted")
}

func (c *cancellationController) DeclineOffer(ctx *fiber.Ctx) error {
	return c.decision(ctx, c.service.DeclineOffer, "Offer declined")
}

func (c *cancellationController) AcceptFinalOffer(ctx *fiber.Ctx) error {
	return c.decision(ctx, c.service.AcceptFinalOffer, "Final offer accepted")
}

func (c *cancellationController) DeclineFinalOffer(ctx *fiber.Ctx) error {
	return c.decision(ctx, c.service.DeclineFinalOffer, "Final offer declined")
}

// flowDecisionFunc is any session-only wizard transition (accept/decline).
type flowDecisionFunc func(ctx context.Context, userID uuid.UUID, sessionID string) (*store.FlowSession, error)

func (c *cancellationController) decision(ctx *fiber.Ctx, call flowDecisionFunc, message string) error {
	userID, err := serverutils.UserID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req dto.FlowDecisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	session, err := call(ctx.Context(), userID, req.SessionId)
	if err != nil {
		return c.flowError(ctx, session, err)
	}
	return ctx.JSON(serverutils.SuccessResponse(message, c.flowState(session)))
}

func (c *cancellationController) Confirm(ctx *fiber.Ctx) error {
	userID, err := serverutils.UserID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req dto.ConfirmCancelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	session, err := c.service.ConfirmCancel(ctx.Context(), userID, req.SessionId, req.Password, req.Phrase)
	if err != nil {
		return c.flowError(ctx, session, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription cancelled", c.flowState(session)))
}
