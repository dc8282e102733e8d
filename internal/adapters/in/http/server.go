package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/domain/model/access"
)

type commandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

type queryHandler[Q, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (access.Actor, error)
}

// Handlers are the use cases the HTTP API exposes.
type Handlers struct {
	RegisterUser          commandHandler[commands.RegisterUserCommand]
	UpdatePushToken       commandHandler[commands.UpdatePushTokenCommand]
	CreateOrder           commandHandler[commands.CreateOrderCommand]
	TakeOrder             commandHandler[commands.OrderActionCommand]
	ConfirmOrder          commandHandler[commands.ConfirmOrderCommand]
	RejectDriver          commandHandler[commands.OrderActionCommand]
	CancelOrder           commandHandler[commands.OrderActionCommand]
	DepartOrder           commandHandler[commands.OrderActionCommand]
	CompleteOrder         commandHandler[commands.OrderActionCommand]
	WithdrawOrder         commandHandler[commands.OrderActionCommand]
	UpdateOrderGeo        commandHandler[commands.UpdateOrderGeoCommand]
	ApproveDriver         commandHandler[commands.ApprovePersonCommand]
	ApproveCompanyManager commandHandler[commands.ApprovePersonCommand]

	GetOrder          queryHandler[queries.GetOrderQuery, queries.OrderView]
	ListManagerOrders queryHandler[queries.ListManagerOrdersQuery, []queries.OrderView]
	ListAvailable     queryHandler[queries.ListAvailableOrdersQuery, []queries.OrderView]
	GetDriverCurrent  queryHandler[queries.GetDriverCurrentOrderQuery, queries.OrderView]
}

// Server serves the /api/v1 JSON API.
type Server struct {
	handlers Handlers
	auth     Authenticator
	logger   *slog.Logger
}

func NewServer(handlers Handlers, auth Authenticator, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		auth:     auth,
		logger:   logger.With("component", "http"),
	}
}

// Register mounts the API on e. validator runs before every /api/v1 route.
func (s *Server) Register(e *echo.Echo, validator echo.MiddlewareFunc) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1", validator)
	api.POST("/users", s.RegisterUser)

	authed := api.Group("", s.authenticate)
	authed.PUT("/users/me/push-token", s.UpdatePushToken)

	authed.POST("/orders", s.CreateOrder)
	authed.GET("/orders", s.ListOrders)
	authed.GET("/orders/available", s.ListAvailableOrders)
	authed.GET("/orders/current", s.GetCurrentOrder)
	authed.POST("/orders/geo", s.UpdateOrderGeo)
	authed.GET("/orders/:orderId", s.GetOrder)
	authed.POST("/orders/:orderId/take", s.orderAction(s.handlers.TakeOrder, "order taken"))
	authed.POST("/orders/:orderId/confirm", s.ConfirmOrder)
	authed.POST("/orders/:orderId/reject-driver", s.orderAction(s.handlers.RejectDriver, "driver rejected"))
	authed.POST("/orders/:orderId/cancel", s.orderAction(s.handlers.CancelOrder, "order cancelled"))
	authed.POST("/orders/:orderId/depart", s.orderAction(s.handlers.DepartOrder, "order departed"))
	authed.POST("/orders/:orderId/complete", s.orderAction(s.handlers.CompleteOrder, "order completed"))
	authed.POST("/orders/:orderId/withdraw", s.orderAction(s.handlers.WithdrawOrder, "order withdrawn"))

	authed.POST("/persons/:personId/approve-driver", s.approve(s.handlers.ApproveDriver, "driver approved"))
	authed.POST("/persons/:personId/approve-company-manager",
		s.approve(s.handlers.ApproveCompanyManager, "company manager approved"))
}

const actorKey = "actor"

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := s.auth.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return err
		}
		c.Set(actorKey, actor)
		return next(c)
	}
}

func actorFrom(c echo.Context) access.Actor {
	actor, _ := c.Get(actorKey).(access.Actor)
	return actor
}
