package handler

import (
	"errors"

	"aegis/internal/delivery/http/dto"
	"aegis/internal/delivery/http/middleware"
	"aegis/internal/pkg/response"
	"aegis/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// RegisterRoutes mounts the account routes. The router must already carry
// the auth middleware.
func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/me", h.GetMe)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	usr, err := h.uc.GetMe(c.Context(), userID)
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		// The token outlived its account.
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case err != nil:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"user": dto.NewUserResponse(usr)})
}
