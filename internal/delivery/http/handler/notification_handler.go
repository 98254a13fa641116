package handler

import (
	"errors"

	"aegis/internal/delivery/http/dto"
	"aegis/internal/delivery/http/middleware"
	"aegis/internal/pkg/response"
	"aegis/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type NotificationHandler struct {
	uc usecase.NotificationUsecase
}

func NewNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/notifications/:user_id", h.List)
	r.Post("/notifications/:notification_id/read", h.MarkRead)
}

func (h *NotificationHandler) List(c fiber.Ctx) error {
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"notifications": dto.NewNotificationResponses(items),
	})
}

func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	id, err := uuidParam(c, "notification_id")
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Notification not found", nil, err)
	}

	if err := h.uc.MarkRead(c.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrNotificationNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Notification not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"success": true})
}
