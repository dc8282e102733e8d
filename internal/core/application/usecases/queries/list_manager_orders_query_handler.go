package queries

import (
	"context"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/pkg/errs"

	"gorm.io/gorm"
)

type ListManagerOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListManagerOrdersQueryHandler(db *gorm.DB) ListManagerOrdersQueryHandler {
	return ListManagerOrdersQueryHandler{db: db}
}

func (h ListManagerOrdersQueryHandler) Handle(ctx context.Context, query ListManagerOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if !query.Actor().Can(access.ActionOrderList) {
		return nil, errs.NewForbiddenError(string(access.ActionOrderList))
	}

	q := expandedOrders(h.db.WithContext(ctx))
	if st := query.Status(); st != nil {
		q = q.Where("orders.status = ?", st.String())
	}

	var rows []orderRow
	err := q.Order("orders.created_at DESC").Order("orders.id").
		Limit(query.Limit()).Offset(query.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toOrderViews(rows), nil
}
