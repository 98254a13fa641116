package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxRequestIDKey = "request_id"
	headerRequestID = "X-Request-ID"
)

// AccessLogMiddleware writes one line per request. It must be the outermost
// middleware so the status it logs is the one the error middleware wrote.
type AccessLogMiddleware struct {
	logger *log.Logger
	slow   time.Duration
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger, slow: 2 * time.Second}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(headerRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		latency := time.Since(start)
		user, role := "-", "-"
		if p, ok := PrincipalFromCtx(c); ok {
			user, role = p.UserID.String(), p.Role
		}
		level := "info"
		if latency >= m.slow {
			level = "warn"
		}

		m.logger.Printf(
			"HTTP access | level=%s rid=%s ip=%s method=%s path=%s status=%d latency=%s user=%s role=%s req_bytes=%d resp_bytes=%d ua=%q",
			level, rid, c.IP(), c.Method(), c.OriginalURL(), c.Response().StatusCode(), latency,
			user, role, c.Request().Header.ContentLength(), len(c.Response().Body()), c.Get(fiber.HeaderUserAgent),
		)
		return err
	}
}
