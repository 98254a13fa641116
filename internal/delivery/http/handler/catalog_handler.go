package handler

import (
	"errors"

	"aegis/internal/delivery/http/dto"
	"aegis/internal/delivery/http/middleware"
	"aegis/internal/pkg/response"
	"aegis/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CatalogHandler struct {
	uc usecase.CatalogUsecase
}

type upsertJobRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	CompanyName  string `json:"companyName" validate:"required"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
}

func NewCatalogHandler(uc usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// RegisterRoutes mounts the public reads. writeGuard runs before job writes.
func (h *CatalogHandler) RegisterRoutes(r fiber.Router, writeGuard ...fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/companies", h.ListCompanies)
	r.Get("/jobs", h.ListJobs)
	r.Get("/jobs/:job_id", h.GetJob)

	first, rest := chain(h.UpsertJob, writeGuard)
	r.Post("/jobs", first, rest...)
}

func (h *CatalogHandler) ListCompanies(c fiber.Ctx) error {
	items, err := h.uc.ListCompanies(c.Context())
	if err != nil {
		return mapCatalogUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"companies": dto.NewCompanyResponses(items),
	})
}

func (h *CatalogHandler) ListJobs(c fiber.Ctx) error {
	items, err := h.uc.ListJobs(c.Context())
	if err != nil {
		return mapCatalogUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"jobs": dto.NewJobResponses(items),
	})
}

func (h *CatalogHandler) GetJob(c fiber.Ctx) error {
	id, err := uuidParam(c, "job_id")
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	}

	l, err := h.uc.GetJob(c.Context(), id)
	if err != nil {
		return mapCatalogUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"job": dto.NewJobResponse(l),
	})
}

func (h *CatalogHandler) UpsertJob(c fiber.Ctx) error {
	var req upsertJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validate.Struct(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing required fields", nil, err)
	}

	in := usecase.UpsertJobInput{
		Title:        req.Title,
		Description:  req.Description,
		CompanyName:  req.CompanyName,
		Requirements: req.Requirements,
		Location:     req.Location,
	}
	if id, ok := middleware.UserIDFromCtx(c); ok {
		in.RecruiterID = &id
	}

	res, err := h.uc.UpsertJob(c.Context(), in)
	if err != nil {
		return mapCatalogUsecaseError(err)
	}

	if res.Created {
		return response.Success(c, fiber.StatusCreated, "Job added successfully", dto.UpsertJobResponse{JobID: res.JobID})
	}
	return response.Success(c, fiber.StatusOK, "Job description updated", dto.UpsertJobResponse{JobID: res.JobID})
}

func mapCatalogUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing required fields", nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
