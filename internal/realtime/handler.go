package realtime

import (
	"errors"
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Identity is the authenticated owner of a socket.
type Identity struct {
	UserKey string
	Roles   []string
}

// Authenticator resolves the access token passed on the upgrade request.
type Authenticator func(token string) (Identity, error)

var errMissingToken = errors.New("missing token")

const identityLocal = "realtime_identity"

type Handler struct {
	hub          *Hub
	authenticate Authenticator
}

func NewHandler(hub *Hub, authenticate Authenticator) *Handler {
	return &Handler{hub: hub, authenticate: authenticate}
}

// Upgrade authenticates the request from the token query parameter and
// rejects anything that is not a websocket upgrade.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, errMissingToken.Error())
	}
	identity, err := h.authenticate(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
	}

	c.Locals(identityLocal, identity)
	return c.Next()
}

// Serve returns the socket handler. The connection is only read to detect
// disconnects; clients never send frames the server acts on.
func (h *Handler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		identity, ok := conn.Locals(identityLocal).(Identity)
		if !ok {
			_ = conn.Close()
			return
		}

		client := NewClient(conn)
		go client.writePump()
		h.hub.Join(client, identity.UserKey, identity.Roles)
		slog.Info("realtime client connected", "component", "realtime", "connection_id", client.ID)

		defer func() {
			h.hub.Leave(client, identity.UserKey, identity.Roles)
			client.close()
			_ = conn.Close()
			slog.Info("realtime client disconnected", "component", "realtime", "connection_id", client.ID)
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
