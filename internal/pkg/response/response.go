package response

import "github.com/gofiber/fiber/v3"

// Envelope is the body of every JSON response the API writes.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageConflict            = "conflict"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageRequestTooLarge     = "request entity too large"
	MessageTooManyRequests     = "too many requests"
	MessageServiceUnavailable  = "service unavailable"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

var defaultMessages = map[int]string{
	fiber.StatusOK:                    MessageOK,
	fiber.StatusCreated:               MessageOK,
	fiber.StatusBadRequest:            MessageBadRequest,
	fiber.StatusUnauthorized:          MessageUnauthorized,
	fiber.StatusForbidden:             MessageForbidden,
	fiber.StatusNotFound:              MessageNotFound,
	fiber.StatusConflict:              MessageConflict,
	fiber.StatusUnprocessableEntity:   MessageUnprocessableEntity,
	fiber.StatusRequestEntityTooLarge: MessageRequestTooLarge,
	fiber.StatusTooManyRequests:       MessageTooManyRequests,
	fiber.StatusServiceUnavailable:    MessageServiceUnavailable,
}

func Success(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

func Error(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

// DefaultMessage is the message used when a caller supplies none.
func DefaultMessage(status int) string {
	if msg, ok := defaultMessages[status]; ok {
		return msg
	}
	if status >= 500 {
		return MessageInternalServerError
	}
	return MessageError
}

func write(c fiber.Ctx, status int, message string, data any) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = DefaultMessage(status)
	}
	return c.Status(status).JSON(Envelope{Status: status, Message: message, Data: data})
}
