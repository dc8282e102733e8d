package queries

import (
	"context"
	"errors"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/core/domain/services"
	"cargo/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler returns the expanded order. An order the actor may
// not see is reported as not found.
//
//	query, _ := NewGetOrderQuery(actor, orderID)
//	view, err := handler.Handle(ctx, query)
type GetOrderQueryHandler struct {
	db     *gorm.DB
	access services.OrderAccess
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, access: services.NewOrderAccess()}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}
	if !query.Actor().Can(access.ActionOrderView) {
		return OrderView{}, errs.NewForbiddenError(string(access.ActionOrderView))
	}

	var row orderRow
	err := expandedOrders(h.db.WithContext(ctx)).First(&row, "orders.id = ?", query.OrderID().Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return OrderView{}, err
	}

	driverID, err := kernel.Ptr(row.DriverID)
	if err != nil {
		return OrderView{}, err
	}
	if !h.access.CanView(query.Actor(), order.Status(row.Status), driverID) {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	return toOrderView(row), nil
}
