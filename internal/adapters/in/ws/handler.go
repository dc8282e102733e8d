// Package ws serves the live status channels. A client connects, sends
// {"type":"auth","token":"..."} as its first message and from then on only
// receives events for the channel it connected to.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"cargo/internal/adapters/out/live"
	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

const (
	DefaultAuthTimeout = 5 * time.Second
	DefaultPongWait    = 90 * time.Second

	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (access.Actor, error)
}

// OrderReader resolves an order as the actor sees it. Orders hidden from
// the actor are reported as not found.
type OrderReader interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
}

type Options struct {
	AuthTimeout time.Duration
	// PongWait bounds the silence allowed from an authenticated client.
	// Keepalive pings must be sent more often than this.
	PongWait time.Duration
}

type Handler struct {
	registry *live.Registry
	auth     Authenticator
	orders   OrderReader
	logger   *slog.Logger
	upgrader websocket.Upgrader
	opts     Options
}

func NewHandler(registry *live.Registry, auth Authenticator, orders OrderReader, logger *slog.Logger, opts Options) *Handler {
	if opts.AuthTimeout <= 0 {
		opts.AuthTimeout = DefaultAuthTimeout
	}
	if opts.PongWait <= 0 {
		opts.PongWait = DefaultPongWait
	}
	return &Handler{
		registry: registry,
		auth:     auth,
		orders:   orders,
		logger:   logger.With("component", "ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		opts: opts,
	}
}

// Register mounts the live channels on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/ws/orders", h.channel(access.ActionLiveOrderUpdates, fixedTopic(ports.OrderUpdatesTopic()), nil))
	e.GET("/ws/orders/:orderId/location", h.channel(access.ActionLiveOrderLocation, orderLocationTopic, h.canViewOrder))
	e.GET("/ws/approvals/driver",
		h.channel(access.ActionLiveDriverApproval, fixedTopic(ports.DriverApprovalTopic()), nil))
	e.GET("/ws/approvals/company-manager",
		h.channel(access.ActionLiveCompanyManagerApproval, fixedTopic(ports.CompanyManagerApprovalTopic()), nil))
	e.GET("/ws/users/new", h.channel(access.ActionLiveNewUsers, fixedTopic(ports.NewUsersTopic()), nil))
}

// topicCheck decides whether an authenticated actor may watch topic.
// It returns the rejection reason, or "" to allow.
type topicCheck func(ctx context.Context, actor access.Actor, topic ports.Topic) string

// canViewOrder applies the same visibility as reading the order over HTTP.
func (h *Handler) canViewOrder(ctx context.Context, actor access.Actor, topic ports.Topic) string {
	orderID, err := kernel.UUIDFromString(topic.Scope)
	if err != nil {
		return "forbidden"
	}
	query, err := queries.NewGetOrderQuery(actor, orderID)
	if err != nil {
		return "forbidden"
	}
	if _, err := h.orders.Handle(ctx, query); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) || errors.Is(err, errs.ErrForbidden) {
			return "forbidden"
		}
		h.logger.Error("order lookup failed", "topic", topic.String(), "error", err)
		return "unavailable"
	}
	return ""
}

type topicFunc func(c echo.Context) (ports.Topic, error)

func fixedTopic(topic ports.Topic) topicFunc {
	return func(echo.Context) (ports.Topic, error) { return topic, nil }
}

func orderLocationTopic(c echo.Context) (ports.Topic, error) {
	var orderID openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", c.Param("orderId"), &orderID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return ports.Topic{}, err
	}
	id, err := kernel.UUIDFromGoogle(orderID)
	if err != nil {
		return ports.Topic{}, err
	}
	return ports.OrderLocationTopic(id), nil
}

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type statusMessage struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *Handler) channel(action access.Action, topicOf topicFunc, check topicCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		topic, err := topicOf(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid path parameter"})
		}

		conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "path", c.Path(), "error", err)
			return nil
		}

		ctx := c.Request().Context()
		actor, ok := h.handshake(ctx, conn, action)
		if !ok {
			return nil
		}
		if check != nil {
			if reason := check(ctx, actor, topic); reason != "" {
				code := websocket.ClosePolicyViolation
				if reason == "unavailable" {
					code = websocket.CloseInternalServerErr
				}
				h.reject(conn, reason, code)
				return nil
			}
		}

		sub := h.registry.Subscribe(topic, actor.UserID, &socket{conn: conn})
		if err := h.write(conn, statusMessage{Status: "authenticated"}); err != nil {
			h.registry.Unsubscribe(sub)
			return nil
		}
		h.logger.Debug("subscribed", "topic", topic.String(), "userId", actor.UserID.String())

		go h.writePump(conn, sub)
		h.readPump(conn, sub)
		return nil
	}
}

// handshake reads the auth message and checks the role. On failure the
// client gets one rejection message and the connection is closed.
func (h *Handler) handshake(ctx context.Context, conn *websocket.Conn, action access.Action) (access.Actor, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(h.opts.AuthTimeout))

	var msg authMessage
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != "auth" {
		h.reject(conn, "unauthorized", websocket.ClosePolicyViolation)
		return access.Actor{}, false
	}

	actor, err := h.auth.Authenticate(ctx, msg.Token)
	if err != nil {
		h.logger.Info("websocket authentication failed", "error", err)
		h.reject(conn, "unauthorized", websocket.ClosePolicyViolation)
		return access.Actor{}, false
	}
	if !actor.Can(action) {
		h.reject(conn, "forbidden", websocket.ClosePolicyViolation)
		return access.Actor{}, false
	}

	_ = conn.SetReadDeadline(time.Time{})
	return actor, true
}

func (h *Handler) reject(conn *websocket.Conn, reason string, code int) {
	_ = h.write(conn, statusMessage{Status: "rejected", Error: reason})
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	_ = conn.Close()
}

func (h *Handler) write(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// readPump discards client frames and keeps pong handling alive. It returns
// when the client goes away or the subscription is closed.
func (h *Handler) readPump(conn *websocket.Conn, sub *live.Subscription) {
	defer h.registry.Unsubscribe(sub)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", "topic", sub.Topic().String(), "error", err)
			}
			return
		}
	}
}

func (h *Handler) writePump(conn *websocket.Conn, sub *live.Subscription) {
	defer h.registry.Unsubscribe(sub)

	for {
		select {
		case msg := <-sub.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("websocket write failed", "topic", sub.Topic().String(), "error", err)
				return
			}
		case <-sub.Done():
			return
		}
	}
}

// socket adapts a gorilla connection to live.Conn.
type socket struct {
	conn *websocket.Conn
}

func (s *socket) Ping(deadline time.Time) error {
	return s.conn.WriteControl(websocket.PingMessage, nil, deadline)
}

func (s *socket) Close() error {
	return s.conn.Close()
}
