package handlers

import (
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService ProfileService
}

func NewProfileHandler(profileService ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.GetSubjectID(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.profileService.Get(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "Server error")
	}

	return c.JSON(dto.DataResponse{Success: true, Data: user})
}
