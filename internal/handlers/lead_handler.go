package handlers

import (
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LeadHandler struct {
	leadService LeadService
}

func NewLeadHandler(leadService LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

func (h *LeadHandler) List(c *fiber.Ctx) error {
	cpID, err := identity.GetCPID(c)
	if err != nil {
		return unauthorized(c)
	}

	leads, err := h.leadService.ListLeads(c.UserContext(), cpID)
	if err != nil {
		return respondError(c, err, "Failed to fetch leads")
	}
	if leads == nil {
		leads = []dto.LeadView{}
	}

	return c.JSON(dto.LeadListResponse{
		Message: "Leads fetched successfully",
		Count:   len(leads),
		Leads:   leads,
	})
}

func (h *LeadHandler) Create(c *fiber.Ctx) error {
	cpID, err := identity.GetCPID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	lead, err := h.leadService.CreateLead(c.UserContext(), cpID, &req)
	if err != nil {
		return respondError(c, err, "Failed to create lead")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.LeadResponse{
		Message: "Lead created successfully",
		Lead:    *lead,
	})
}

func (h *LeadHandler) UpdateStage(c *fiber.Ctx) error {
	cpID, err := identity.GetCPID(c)
	if err != nil {
		return unauthorized(c)
	}

	leadID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid lead ID")
	}

	var req dto.UpdateLeadStageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.leadService.UpdateLeadStage(c.UserContext(), cpID, leadID, req.StageCode); err != nil {
		return respondError(c, err, "Failed to update lead stage")
	}

	return c.JSON(dto.MessageResponse{Message: "Lead stage updated successfully"})
}
