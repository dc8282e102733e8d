package referencerepo

import (
	"context"

	"cargo/internal/adapters/out/postgres/pgerr"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/reference"
	"cargo/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReferenceRepository implements ports.ReferenceRepository.
type GormReferenceRepository struct {
	db *gorm.DB
}

func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

func (r *GormReferenceRepository) AddContragent(ctx context.Context, c reference.Contragent) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := ContragentDTO{ID: c.ID.Bytes(), Name: c.Name, INN: c.INN}
	return r.create(ctx, "contragent", c.ID, &dto)
}

// AddLogisticsPoint inserts the point together with its address and contacts.
func (r *GormReferenceRepository) AddLogisticsPoint(ctx context.Context, p reference.LogisticsPoint) error {
	if err := p.Validate(); err != nil {
		return err
	}
	dto := logisticsPointFromDomain(p)
	return r.create(ctx, "logistics point", p.ID, &dto)
}

func (r *GormReferenceRepository) AddNomenclature(ctx context.Context, n reference.Nomenclature) error {
	if err := n.Validate(); err != nil {
		return err
	}
	dto := NomenclatureDTO{ID: n.ID.Bytes(), Name: n.Name, Measure: n.Measure}
	return r.create(ctx, "nomenclature", n.ID, &dto)
}

func (r *GormReferenceRepository) create(ctx context.Context, name string, id kernel.UUID, dto any) error {
	if err := r.db.WithContext(ctx).Create(dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause(name+" "+id.String()+" already exists", err)
		}
		return err
	}
	return nil
}

func (r *GormReferenceRepository) MissingLogisticsPoints(ctx context.Context, ids []kernel.UUID) ([]kernel.UUID, error) {
	return r.missing(ctx, &LogisticsPointDTO{}, ids)
}

func (r *GormReferenceRepository) MissingNomenclatures(ctx context.Context, ids []kernel.UUID) ([]kernel.UUID, error) {
	return r.missing(ctx, &NomenclatureDTO{}, ids)
}

func (r *GormReferenceRepository) MissingContragents(ctx context.Context, ids []kernel.UUID) ([]kernel.UUID, error) {
	return r.missing(ctx, &ContragentDTO{}, ids)
}

// missing returns the ids with no row in model's table, in input order.
func (r *GormReferenceRepository) missing(ctx context.Context, model any, ids []kernel.UUID) ([]kernel.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var found []uuid.UUID
	if err := r.db.WithContext(ctx).Model(model).Where("id IN ?", raw).Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	present := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}

	var missing []kernel.UUID
	for _, id := range ids {
		if _, ok := present[id.Bytes()]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
