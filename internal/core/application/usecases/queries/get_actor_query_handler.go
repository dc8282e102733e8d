package queries

import (
	"context"
	"errors"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActorQueryHandler is used by the HTTP and socket authentication to
// turn a token subject into an access.Actor.
type GetActorQueryHandler struct {
	db *gorm.DB
}

func NewGetActorQueryHandler(db *gorm.DB) GetActorQueryHandler {
	return GetActorQueryHandler{db: db}
}

func (h GetActorQueryHandler) Handle(ctx context.Context, query GetActorQuery) (access.Actor, error) {
	if err := query.Validate(); err != nil {
		return access.Actor{}, err
	}

	var row struct {
		PersonID     uuid.UUID
		Role         string
		ContragentID *uuid.UUID
	}
	err := h.db.WithContext(ctx).
		Table("persons").
		Select("persons.id AS person_id, users.role, persons.contragent_id").
		Joins("JOIN users ON users.id = persons.user_id").
		Where("persons.user_id = ?", query.UserID().Bytes()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.Actor{}, errs.NewObjectNotFoundError("user", query.UserID().String())
		}
		return access.Actor{}, err
	}

	personID, err := kernel.UUIDFromGoogle(row.PersonID)
	if err != nil {
		return access.Actor{}, err
	}
	contragentID, err := kernel.Ptr(row.ContragentID)
	if err != nil {
		return access.Actor{}, err
	}
	role, err := access.ParseRole(row.Role)
	if err != nil {
		return access.Actor{}, err
	}

	return access.Actor{
		UserID:       query.UserID(),
		PersonID:     personID,
		Role:         role,
		ContragentID: contragentID,
	}, nil
}
