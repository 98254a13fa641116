package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"aegis/internal/delivery/http/middleware"
	"aegis/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

var validate = validator.New()

var errFileTooLarge = errors.New("uploaded file too large")

// bindJSON decodes the body into req and runs its validate tags.
func bindJSON(c fiber.Ctx, req any) error {
	if err := c.Bind().Body(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validate.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, validationMessage(err), nil, err)
	}
	return nil
}

func validationMessage(err error) string {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return fmt.Sprintf("Missing or invalid field: %s", ves[0].Field())
	}
	return "Bad request"
}

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}

// readUpload loads one multipart file into memory, refusing anything larger
// than maxBytes. Uploads never touch disk.
func readUpload(fh *multipart.FileHeader, maxBytes int) (usecase.UploadedFile, error) {
	if maxBytes > 0 && fh.Size > int64(maxBytes) {
		return usecase.UploadedFile{}, errFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return usecase.UploadedFile{}, err
	}
	defer f.Close()

	r := io.Reader(f)
	if maxBytes > 0 {
		r = io.LimitReader(f, int64(maxBytes)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return usecase.UploadedFile{}, err
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return usecase.UploadedFile{}, errFileTooLarge
	}
	return usecase.UploadedFile{Filename: fh.Filename, Data: data}, nil
}

// chain orders guards ahead of h in the shape Fiber's route methods take.
func chain(h fiber.Handler, guards []fiber.Handler) (any, []any) {
	if len(guards) == 0 {
		return h, nil
	}
	rest := make([]any, 0, len(guards))
	for _, g := range guards[1:] {
		rest = append(rest, g)
	}
	rest = append(rest, h)
	return guards[0], rest
}
