package handler

import (
	"errors"

	"aegis/internal/delivery/http/dto"
	"aegis/internal/delivery/http/middleware"
	"aegis/internal/pkg/response"
	"aegis/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MentorshipHandler struct {
	uc usecase.MentorshipUsecase
}

type requestSessionRequest struct {
	GuideID      string `json:"guideId" validate:"required,uuid"`
	ProgrammerID string `json:"programmerId" validate:"required,uuid"`
}

type updateRequestRequest struct {
	Status string `json:"status" validate:"required"`
}

type createSessionRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	MeetingLink  string `json:"meeting_link" validate:"required"`
	GuideID      string `json:"guide_id" validate:"required,uuid"`
	ProgrammerID string `json:"programmer_id" validate:"required,uuid"`
}

func NewMentorshipHandler(uc usecase.MentorshipUsecase) *MentorshipHandler {
	return &MentorshipHandler{uc: uc}
}

func (h *MentorshipHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/guides", h.ListGuides)
	r.Post("/request-session", h.RequestSession)
	r.Get("/session-requests/:guide_id", h.PendingRequests)
	r.Post("/session-requests/:request_id/update", h.UpdateRequest)
	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions", h.ListSessions)
	r.Get("/sessions/guide/:guide_id", h.ListSessionsForGuide)
	r.Get("/sessions/programmer/:programmer_id", h.ListSessionsForProgrammer)
}

func (h *MentorshipHandler) ListGuides(c fiber.Ctx) error {
	guides, err := h.uc.ListGuides(c.Context())
	if err != nil {
		return mapMentorshipUsecaseError(err)
	}
	out := make([]dto.GuideResponse, 0, len(guides))
	for _, g := range guides {
		out = append(out, dto.GuideResponse{ID: g.ID, Name: g.Name, Expertise: g.Expertise, Email: g.Email})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MentorshipHandler) RequestSession(c fiber.Ctx) error {
	var req requestSessionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "No JSON data provided", nil, err)
	}
	if err := validate.Struct(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing fields", nil, err)
	}

	guide, err := h.uc.RequestSession(c.Context(), uuid.MustParse(req.GuideID), uuid.MustParse(req.ProgrammerID))
	if err != nil {
		return mapMentorshipUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Session requested with "+guide.Name+"!", fiber.Map{"success": true})
}

func (h *MentorshipHandler) PendingRequests(c fiber.Ctx) error {
	guideID, err := uuidParam(c, "guide_id")
	if err != nil {
		return err
	}

	items, err := h.uc.PendingRequests(c.Context(), guideID)
	if err != nil {
		return mapMentorshipUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"requests": dto.NewPendingRequestResponses(items),
	})
}

func (h *MentorshipHandler) UpdateRequest(c fiber.Ctx) error {
	requestID, err := uuidParam(c, "request_id")
	if err != nil {
		return err
	}

	var req updateRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "No JSON data provided", nil, err)
	}

	st, err := h.uc.UpdateRequest(c.Context(), requestID, req.Status)
	if err != nil {
		return mapMentorshipUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"success": true,
		"status":  string(st),
	})
}

func (h *MentorshipHandler) CreateSession(c fiber.Ctx) error {
	var req createSessionRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	id, err := h.uc.CreateSession(c.Context(), usecase.CreateSessionInput{
		Title:        req.Title,
		Description:  req.Description,
		MeetingLink:  req.MeetingLink,
		GuideID:      uuid.MustParse(req.GuideID),
		ProgrammerID: uuid.MustParse(req.ProgrammerID),
	})
	if err != nil {
		return mapMentorshipUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"success":   true,
		"sessionId": id,
	})
}

func (h *MentorshipHandler) ListSessions(c fiber.Ctx) error {
	items, err := h.uc.ListSessions(c.Context())
	if err != nil {
		return mapMentorshipUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"sessions": dto.NewSessionResponses(items, true),
	})
}

func (h *MentorshipHandler) ListSessionsForGuide(c fiber.Ctx) error {
	guideID, err := uuidParam(c, "guide_id")
	if err != nil {
		return err
	}
	items, err := h.uc.ListSessionsForGuide(c.Context(), guideID)
	if err != nil {
		return mapMentorshipUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"sessions": dto.NewSessionResponses(items, false),
	})
}

func (h *MentorshipHandler) ListSessionsForProgrammer(c fiber.Ctx) error {
	programmerID, err := uuidParam(c, "programmer_id")
	if err != nil {
		return err
	}
	items, err := h.uc.ListSessionsForProgrammer(c.Context(), programmerID)
	if err != nil {
		return mapMentorshipUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"sessions": dto.NewSessionResponses(items, true),
	})
}

func mapMentorshipUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing fields", nil, err)
	case errors.Is(err, usecase.ErrInvalidStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid status", nil, err)
	case errors.Is(err, usecase.ErrGuideNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Guide not found", nil, err)
	case errors.Is(err, usecase.ErrProgrammerNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Programmer not found", nil, err)
	case errors.Is(err, usecase.ErrRequestNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Session request not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
