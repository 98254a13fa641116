package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"aegis/internal/delivery/http/dto"
	"aegis/internal/delivery/http/middleware"
	"aegis/internal/document"
	"aegis/internal/pkg/response"
	"aegis/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	formResume         = "resume"
	formResumes        = "resumes"
	formJobDescription = "jobDescription"
)

type ResumeHandler struct {
	uc       usecase.ResumeUsecase
	maxBytes int
	maxFiles int
}

// NewResumeHandler limits each upload to maxBytes and a screening batch to
// maxFiles. Zero disables a limit.
func NewResumeHandler(uc usecase.ResumeUsecase, maxBytes, maxFiles int) *ResumeHandler {
	return &ResumeHandler{uc: uc, maxBytes: maxBytes, maxFiles: maxFiles}
}

// RegisterRoutes mounts the upload endpoints behind guard, typically the
// per-IP rate limiter.
func (h *ResumeHandler) RegisterRoutes(r fiber.Router, guard ...fiber.Handler) {
	if r == nil {
		return
	}

	first, rest := chain(h.Analyze, guard)
	r.Post("/analyze-resume", first, rest...)
	first, rest = chain(h.Screen, guard)
	r.Post("/resume/screen", first, rest...)
	first, rest = chain(h.FindJobs, guard)
	r.Post("/resume/job-finding", first, rest...)
}

func (h *ResumeHandler) Analyze(c fiber.Ctx) error {
	file, err := h.singleResume(c)
	if err != nil {
		return err
	}

	analysis, err := h.uc.Analyze(c.Context(), file, c.FormValue(formJobDescription))
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"analysis": dto.NewAnalysisResponse(analysis),
	})
}

func (h *ResumeHandler) Screen(c fiber.Ctx) error {
	jobDesc := c.FormValue(formJobDescription)

	var headers []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		headers = append(headers, form.File[formResumes]...)
		headers = append(headers, form.File[formResumes+"[]"]...)
	}
	if len(headers) == 0 || strings.TrimSpace(jobDesc) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing job description or resume files", nil, nil)
	}
	if h.maxFiles > 0 && len(headers) > h.maxFiles {
		return middleware.NewAppError(fiber.StatusBadRequest, fmt.Sprintf("Too many resume files, at most %d", h.maxFiles), nil, nil)
	}

	files := make([]usecase.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		if !document.Allowed(fh.Filename) {
			continue
		}
		f, err := readUpload(fh, h.maxBytes)
		if err != nil {
			return mapUploadError(err)
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ScreeningResponse{
			Candidates:  []dto.CandidateResponse{},
			Shortlisted: []dto.CandidateResponse{},
			Rejected:    []dto.CandidateResponse{},
		})
	}

	res, err := h.uc.Screen(c.Context(), files, jobDesc)
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ScreeningResponse{
		Candidates:  dto.NewCandidateResponses(res.Candidates),
		Shortlisted: dto.NewCandidateResponses(res.Shortlisted),
		Rejected:    dto.NewCandidateResponses(res.Rejected),
		Summary:     dto.NewSummaryResponse(res.Summary),
	})
}

func (h *ResumeHandler) FindJobs(c fiber.Ctx) error {
	file, err := h.singleResume(c)
	if err != nil {
		return err
	}

	res, err := h.uc.FindJobs(c.Context(), file, c.FormValue(formJobDescription))
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"jobFinding": dto.JobFindingResponse{
			Analysis:    dto.NewAnalysisResponse(res.Analysis),
			MatchedJobs: dto.NewMatchedJobResponses(res.Matches),
		},
	})
}

func (h *ResumeHandler) singleResume(c fiber.Ctx) (usecase.UploadedFile, error) {
	fh, err := c.FormFile(formResume)
	if err != nil || fh == nil || !document.Allowed(fh.Filename) {
		return usecase.UploadedFile{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid or missing resume file", nil, err)
	}
	f, err := readUpload(fh, h.maxBytes)
	if err != nil {
		return usecase.UploadedFile{}, mapUploadError(err)
	}
	return f, nil
}

func mapUploadError(err error) error {
	if errors.Is(err, errFileTooLarge) {
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "Resume file too large", nil, err)
	}
	return middleware.NewAppError(fiber.StatusBadRequest, "Invalid or missing resume file", nil, err)
}

func mapResumeUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrUnsupportedFile):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid or missing resume file", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing job description or resume files", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
