package queries

import (
	"context"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/pkg/errs"

	"gorm.io/gorm"
)

// ListAvailableOrdersQueryHandler reads committed state only, so an order
// disappears from the list as soon as a take commits.
type ListAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListAvailableOrdersQueryHandler(db *gorm.DB) ListAvailableOrdersQueryHandler {
	return ListAvailableOrdersQueryHandler{db: db}
}

func (h ListAvailableOrdersQueryHandler) Handle(ctx context.Context, query ListAvailableOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if !query.Actor().Can(access.ActionOrderAvailable) {
		return nil, errs.NewForbiddenError(string(access.ActionOrderAvailable))
	}

	var rows []orderRow
	err := expandedOrders(h.db.WithContext(ctx)).
		Where("orders.status = ?", order.Created.String()).
		Order("orders.created_at").Order("orders.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toOrderViews(rows), nil
}
