package middleware

import (
	"errors"
	"log"

	"aegis/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("HTTP panic | rid=%s method=%s path=%s panic=%v", requestID(c), c.Method(), c.Path(), r)
				err = response.Error(c, fiber.StatusInternalServerError, "", nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			m.logger.Printf("HTTP error | rid=%s method=%s path=%s status=%d err=%v", requestID(c), c.Method(), c.Path(), status, err)
			// Server-side details never reach the client.
			msg, data = "", nil
		}
		return response.Error(c, status, msg, data)
	}
}

// normalizeError resolves the status, message and payload for err. Unknown
// errors are 500s.
func normalizeError(err error) (int, string, any) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode > 0 {
		return appErr.StatusCode, appErr.Message, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code > 0 {
		return fiberErr.Code, fiberErr.Message, nil
	}

	return fiber.StatusInternalServerError, "", nil
}

func requestID(c fiber.Ctx) string {
	if rid, ok := c.Locals(CtxRequestIDKey).(string); ok && rid != "" {
		return rid
	}
	return "-"
}
