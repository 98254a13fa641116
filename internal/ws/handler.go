package ws

import (
	"log"
	"net/http"
	"slices"
	"strings"

	"aegis/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler upgrades authenticated requests to notification sockets.
type Handler struct {
	hub      *Hub
	tokens   jwt.Service
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from origins; "*" or an empty list allows any.
func NewHandler(hub *Hub, tokens jwt.Service, origins []string, logger *log.Logger) *Handler {
	h := &Handler{hub: hub, tokens: tokens, logger: logger}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
	return h
}

func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Non-browser clients send no Origin.
		return origin == "" || slices.Contains(origins, origin)
	}
}

// HandleNotificationsWS upgrades the request to a socket that receives the
// caller's notifications. Browsers cannot set headers on the upgrade, so the
// access token may travel as ?token= instead of an Authorization header.
func (h *Handler) HandleNotificationsWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil || h.tokens == nil {
		return fiber.ErrServiceUnavailable
	}

	userID, ok := h.authenticate(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("WS upgrade error | user_id=%s error=%v", userID, err)
			}
			return
		}

		client := NewClient(h.hub, conn, userID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})(c)
}

func (h *Handler) authenticate(c fiber.Ctx) (uuid.UUID, bool) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		scheme, rest, _ := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if strings.EqualFold(scheme, "Bearer") {
			token = strings.TrimSpace(rest)
		}
	}
	if token == "" {
		return uuid.Nil, false
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil || h.tokens.IsRefreshToken(claims) {
		return uuid.Nil, false
	}
	return claims.UserID, true
}
