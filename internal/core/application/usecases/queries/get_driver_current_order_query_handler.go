package queries

import (
	"context"
	"errors"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetDriverCurrentOrderQueryHandler returns the single order the driver
// holds in CONFIRMATION, LOADING or DEPARTED.
type GetDriverCurrentOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetDriverCurrentOrderQueryHandler(db *gorm.DB) GetDriverCurrentOrderQueryHandler {
	return GetDriverCurrentOrderQueryHandler{db: db}
}

func (h GetDriverCurrentOrderQueryHandler) Handle(ctx context.Context, query GetDriverCurrentOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}
	if !query.Actor().Can(access.ActionOrderCurrent) {
		return OrderView{}, errs.NewForbiddenError(string(access.ActionOrderCurrent))
	}

	active := make([]string, 0, 3)
	for _, s := range order.ActiveStatuses() {
		active = append(active, s.String())
	}

	var row orderRow
	err := expandedOrders(h.db.WithContext(ctx)).
		Where("orders.driver_id = ? AND orders.status IN ?", query.Actor().PersonID.Bytes(), active).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderView{}, errs.NewObjectNotFoundError("current order of driver", query.Actor().PersonID.String())
		}
		return OrderView{}, err
	}
	return toOrderView(row), nil
}
