package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/pkg/errs"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	departureID, errDeparture := kernel.UUIDFromGoogle(req.DepartureID)
	destinationID, errDestination := kernel.UUIDFromGoogle(req.DestinationID)
	items, errItems := req.items()
	if err := errors.Join(errDeparture, errDestination, errItems); err != nil {
		return err
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(actorFrom(c), orderID, departureID, destinationID,
		order.CostType(req.CostType), req.CashPrice, req.NonCashPrice, items)
	if err != nil {
		return err
	}
	if err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return s.respondWithOrder(c, http.StatusCreated, "order created", orderID)
}

// ListOrders handles GET /api/v1/orders for managers.
func (s *Server) ListOrders(c echo.Context) error {
	var (
		status        string
		limit, offset int
	)
	params := c.QueryParams()
	if err := errors.Join(
		bindQuery("status", params, &status),
		bindQuery("limit", params, &limit),
		bindQuery("offset", params, &offset),
	); err != nil {
		return err
	}

	query, err := queries.NewListManagerOrdersQuery(actorFrom(c), status, limit, offset)
	if err != nil {
		return err
	}
	views, err := s.handlers.ListManagerOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: views})
}

// ListAvailableOrders handles GET /api/v1/orders/available.
func (s *Server) ListAvailableOrders(c echo.Context) error {
	query, err := queries.NewListAvailableOrdersQuery(actorFrom(c))
	if err != nil {
		return err
	}
	views, err := s.handlers.ListAvailable.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: views})
}

// GetCurrentOrder handles GET /api/v1/orders/current.
func (s *Server) GetCurrentOrder(c echo.Context) error {
	query, err := queries.NewGetDriverCurrentOrderQuery(actorFrom(c))
	if err != nil {
		return err
	}
	view, err := s.handlers.GetDriverCurrent.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Order: &view})
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(actorFrom(c), orderID)
	if err != nil {
		return err
	}
	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Order: &view})
}

// orderAction serves the body-less transitions: take, reject-driver,
// cancel, depart, complete and withdraw.
func (s *Server) orderAction(handler commandHandler[commands.OrderActionCommand], message string) echo.HandlerFunc {
	return func(c echo.Context) error {
		orderID, err := pathUUID(c, "orderId")
		if err != nil {
			return err
		}
		cmd, err := commands.NewOrderActionCommand(actorFrom(c), orderID)
		if err != nil {
			return err
		}
		if err := handler.Handle(c.Request().Context(), cmd); err != nil {
			return err
		}
		return s.respondWithOrder(c, http.StatusOK, message, orderID)
	}
}

// ConfirmOrder handles POST /api/v1/orders/:orderId/confirm.
func (s *Server) ConfirmOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req confirmOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewConfirmOrderCommand(actorFrom(c), orderID, req.VIN, req.PlannedLoadingDate, req.PlannedArrivalDate)
	if err != nil {
		return err
	}
	if err := s.handlers.ConfirmOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithOrder(c, http.StatusOK, "order confirmed", orderID)
}

// UpdateOrderGeo handles POST /api/v1/orders/geo.
func (s *Server) UpdateOrderGeo(c echo.Context) error {
	var req updateGeoRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromGoogle(req.OrderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderGeoCommand(actorFrom(c), orderID, req.Latitude, req.Longitude)
	if err != nil {
		return err
	}
	if err := s.handlers.UpdateOrderGeo.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "location updated"})
}

// respondWithOrder reads the order back for the acting user. The command
// already succeeded, so a failed read only drops the order from the body.
func (s *Server) respondWithOrder(c echo.Context, code int, message string, orderID kernel.UUID) error {
	resp := orderResponse{Message: message}

	query, err := queries.NewGetOrderQuery(actorFrom(c), orderID)
	if err == nil {
		var view queries.OrderView
		view, err = s.handlers.GetOrder.Handle(c.Request().Context(), query)
		if err == nil {
			resp.Order = &view
		}
	}
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		s.logger.WarnContext(c.Request().Context(), "read back order", "orderId", orderID.String(), "error", err)
	}

	return c.JSON(code, resp)
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromGoogle(id)
}

func bindQuery(name string, params map[string][]string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, params, dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}
