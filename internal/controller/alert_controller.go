package controller

import (
	"errors"

	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/pkg/serverutils"
	"trade-alerts-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAlertController interface {
	RegisterRoutes(r fiber.Router)
	ListAlerts(ctx *fiber.Ctx) error
	CreateAlert(ctx *fiber.Ctx) error
	CloseAlert(ctx *fiber.Ctx) error
}

type alertController struct {
	service service.IAlertService
}

func NewAlertController(service service.IAlertService) IAlertController {
	return &alertController{service: service}
}

func (c *alertController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/alerts")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/", c.ListAlerts)
	h.Post("/", serverutils.AdminMiddleware, c.CreateAlert)
	h.Patch("/:id/close", serverutils.AdminMiddleware, c.CloseAlert)
}

func (c *alertController) ListAlerts(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.ListAlerts(ctx.Context(), limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Alerts", res))
}

func (c *alertController) CreateAlert(ctx *fiber.Ctx) error {
	userID, err := serverutils.UserID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Unauthorized"))
	}

	var req dto.CreateAlertRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.CreateAlert(ctx.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Only admins can post alerts"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Alert posted", res))
}

func (c *alertController) CloseAlert(ctx *fiber.Ctx) error {
	alertID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid alert id"))
	}

	var req struct {
		Notes string `json:"notes"`
	}
	_ = ctx.BodyParser(&req)

	if err := c.service.CloseAlert(ctx.Context(), alertID, req.Notes); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Alert not found"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Alert closed", nil))
}
