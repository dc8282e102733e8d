package identityrepo

import (
	"context"
	"errors"
	"fmt"

	"cargo/internal/adapters/out/postgres/pgerr"
	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPhoneTaken is returned when registering a phone that already has a user.
var ErrPhoneTaken = errs.NewConflictError("phone is already registered")

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormUserRepository implements ports.UserRepository.
type GormUserRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormUserRepository(db *gorm.DB, tracker aggregateTracker) *GormUserRepository {
	return &GormUserRepository{db: db, tracker: tracker}
}

func (r *GormUserRepository) Add(ctx context.Context, user *identity.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	dto := userFromDomain(user)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return ErrPhoneTaken
		}
		return err
	}

	r.tracker.TrackAggregate(user.ID(), user)
	return nil
}

func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*identity.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}

	return userToDomain(dto)
}

func (r *GormUserRepository) UpdatePushToken(ctx context.Context, user *identity.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&UserDTO{}).
		Where("id = ?", user.ID().Bytes()).
		Updates(map[string]any{
			"push_token":  user.PushToken(),
			"device_type": string(user.DeviceType()),
			"updated_at":  user.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("user", user.ID().String())
	}

	r.tracker.TrackAggregate(user.ID(), user)
	return nil
}

// GormPersonRepository implements ports.PersonRepository.
type GormPersonRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormPersonRepository(db *gorm.DB, tracker aggregateTracker) *GormPersonRepository {
	return &GormPersonRepository{db: db, tracker: tracker}
}

func (r *GormPersonRepository) Add(ctx context.Context, person *identity.Person) error {
	if err := person.Validate(); err != nil {
		return err
	}

	dto := personFromDomain(person)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause("user already has a person", err)
		}
		return err
	}

	r.tracker.TrackAggregate(person.ID(), person)
	return nil
}

func (r *GormPersonRepository) Get(ctx context.Context, id kernel.UUID) (*identity.Person, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "person", id, "id = ?")
}

func (r *GormPersonRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*identity.Person, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "person of user", userID, "user_id = ?")
}

func (r *GormPersonRepository) first(ctx context.Context, name string, id kernel.UUID, cond string) (*identity.Person, error) {
	var dto PersonDTO
	err := r.db.WithContext(ctx).Preload("Passport").Preload("DrivingLicense").First(&dto, cond, id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(name, id.String())
		}
		return nil, err
	}
	return personToDomain(dto)
}

// ApplyApproval sets flag and the submitted profile only while the flag is
// still false, so of two concurrent approvals exactly one succeeds. The
// document records are upserted after the guarded update; callers run it
// inside a unit of work.
func (r *GormPersonRepository) ApplyApproval(ctx context.Context, person *identity.Person, flag identity.ApprovalFlag) error {
	if err := person.Validate(); err != nil {
		return err
	}

	var column string
	switch flag {
	case identity.FlagApproved:
		column = "approved"
	case identity.FlagApprovedCompany:
		column = "approved_company"
	default:
		return errs.NewValueIsInvalidErrorWithCause("flag", fmt.Errorf("unknown approval flag %q", string(flag)))
	}

	values := approvalColumns(person)
	values[column] = true

	result := r.db.WithContext(ctx).Model(&PersonDTO{}).
		Where("id = ?", person.ID().Bytes()).
		Where(column+" = ?", false).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return identity.ErrAlreadyApproved
	}

	dto := personFromDomain(person)
	if dto.Passport != nil {
		if err := r.upsert(ctx, dto.Passport); err != nil {
			return err
		}
	}
	if dto.DrivingLicense != nil {
		if err := r.upsert(ctx, dto.DrivingLicense); err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(person.ID(), person)
	return nil
}

func (r *GormPersonRepository) upsert(ctx context.Context, record any) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "person_id"}},
		UpdateAll: true,
	}).Create(record).Error
}
