package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	cpService           CPService
	notificationService NotificationService
}

func NewAdminHandler(cpService CPService, notificationService NotificationService) *AdminHandler {
	return &AdminHandler{cpService: cpService, notificationService: notificationService}
}

func (h *AdminHandler) ListCPs(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, offset = services.ClampPage(limit, offset)

	cps, total, err := h.cpService.List(c.UserContext(), status, limit, offset)
	if err != nil {
		return respondError(c, err, "Failed to fetch CPs")
	}

	return c.JSON(fiber.Map{
		"cps":    cps,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	cpID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid CP ID")
	}

	var req dto.ApproveCPRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	resp, err := h.cpService.Approve(c.UserContext(), cpID, &req)
	if err != nil {
		return respondError(c, err, "Internal server error")
	}

	return c.JSON(resp)
}

func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	cpID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid CP ID")
	}

	if err := h.cpService.Reject(c.UserContext(), cpID); err != nil {
		return respondError(c, err, "Internal server error")
	}

	return c.JSON(dto.MessageResponse{Message: "CP rejected successfully"})
}

func (h *AdminHandler) CreateNotification(c *fiber.Ctx) error {
	var req dto.CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	n, err := h.notificationService.Create(c.UserContext(), req.UserID, req.Title, req.Message)
	if err != nil {
		return respondError(c, err, "Failed to create notification")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.DataResponse{Success: true, Data: n})
}
