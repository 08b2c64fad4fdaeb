package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/placement-portal-api/internal/middleware"
	"github.com/noah-isme/placement-portal-api/internal/service"
)

// NoticeLiveHandler streams eligible notices to students over a websocket.
type NoticeLiveHandler struct {
	service      service.NoticeService
	logger       zerolog.Logger
	pingInterval time.Duration
}

// NewNoticeLiveHandler constructs the handler.
func NewNoticeLiveHandler(service service.NoticeService, pingInterval time.Duration, logger zerolog.Logger) *NoticeLiveHandler {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &NoticeLiveHandler{
		service:      service,
		logger:       logger.With().Str("component", "notice_live_handler").Logger(),
		pingInterval: pingInterval,
	}
}

// Register binds the websocket route under the notices group.
func (h *NoticeLiveHandler) Register(router fiber.Router, authn fiber.Handler) {
	router.Get("/live", authenticator(authn), middleware.WithAuth(h.upgrade, studentOnly), websocket.New(h.handleConnection))
}

func (h *NoticeLiveHandler) upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("correlation_id", middleware.GetCorrelationID(c))
	return c.Next()
}

func (h *NoticeLiveHandler) handleConnection(conn *websocket.Conn) {
	actor := service.Actor{Role: service.RoleStudent}
	if id, ok := conn.Locals("user_id").(uint); ok {
		actor.ID = id
	}
	correlation, _ := conn.Locals("correlation_id").(string)
	logger := h.logger.With().Uint("student_id", actor.ID).Str("correlation_id", correlation).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, stop, err := h.service.Live(ctx, actor)
	if err != nil {
		logger.Warn().Err(err).Msg("live notices unavailable")
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		_ = conn.Close()
		return
	}
	defer stop()

	// The read loop only detects the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	logger.Info().Msg("live notices connected")
	defer logger.Info().Msg("live notices disconnected")

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-stream:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				logger.Debug().Err(err).Msg("failed to write live notice")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
