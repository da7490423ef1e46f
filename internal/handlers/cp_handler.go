package handlers

import (
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
)

type CPHandler struct {
	cpService   CPService
	authService LoginService
}

func NewCPHandler(cpService CPService, authService LoginService) *CPHandler {
	return &CPHandler{cpService: cpService, authService: authService}
}

func (h *CPHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterCPRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	id, err := h.cpService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterCPResponse{
		Message: "CP registration submitted successfully",
		CPID:    id,
	})
}

func (h *CPHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Login failed. Please try again later.")
	}

	return c.JSON(resp)
}

func (h *CPHandler) SetupAccount(c *fiber.Ctx) error {
	var req dto.SetupAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.cpService.SetupAccount(c.UserContext(), &req); err != nil {
		return respondError(c, err, "Internal server error")
	}

	return c.JSON(dto.MessageResponse{Message: "Account setup successful. You can now login."})
}

func (h *CPHandler) ValidatePIN(c *fiber.Ctx) error {
	var req dto.ValidatePINRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.cpService.ValidatePIN(c.UserContext(), &req); err != nil {
		return respondError(c, err, "PIN validation failed")
	}

	return c.JSON(dto.MessageResponse{Message: "PIN verified successfully"})
}

// Me echoes the identity behind the bearer token.
func (h *CPHandler) Me(c *fiber.Ctx) error {
	cpID, err := identity.GetCPID(c)
	if err != nil {
		return unauthorized(c)
	}

	cp, err := h.cpService.Get(c.UserContext(), cpID)
	if err != nil {
		return respondError(c, err, "Failed to fetch CP")
	}

	return c.JSON(fiber.Map{
		"message": "Authenticated",
		"cp":      cp,
	})
}
