package identity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
)

var ErrUserIsNotConstructed = errors.New("User must be created via NewUser or RestoreUser")

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// DeviceType selects the platform specific push payload.
type DeviceType string

const (
	DeviceAndroid DeviceType = "android"
	DeviceIOS     DeviceType = "ios"
)

func ParseDeviceType(s string) (DeviceType, error) {
	switch d := DeviceType(strings.ToLower(s)); d {
	case DeviceAndroid, DeviceIOS:
		return d, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("deviceType", fmt.Errorf("%q is not one of android, ios", s))
	}
}

// User is an account. It is never hard-deleted.
type User struct {
	id         kernel.UUID
	phone      string
	role       access.Role
	pushToken  string
	deviceType DeviceType
	createdAt  time.Time
	updatedAt  time.Time

	isConstructed bool
}

// NewUser registers a user with a self-registrable role.
func NewUser(id kernel.UUID, phone string, role access.Role, now time.Time) (*User, error) {
	var errRole error
	if err := role.Validate(); err != nil {
		errRole = err
	} else if !role.SelfRegistrable() {
		errRole = errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%s cannot self-register", role))
	}

	if err := errors.Join(id.Validate(), validatePhone(phone), errRole); err != nil {
		return nil, err
	}

	return &User{
		id:            id,
		phone:         normalizePhone(phone),
		role:          role,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreUser rebuilds a persisted user.
func RestoreUser(
	id kernel.UUID, phone string, role access.Role, pushToken string, deviceType DeviceType, createdAt, updatedAt time.Time,
) (*User, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return nil, err
	}
	return &User{
		id:            id,
		phone:         phone,
		role:          role,
		pushToken:     pushToken,
		deviceType:    deviceType,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.UUID        { return u.id }
func (u *User) Phone() string          { return u.phone }
func (u *User) Role() access.Role      { return u.role }
func (u *User) PushToken() string      { return u.pushToken }
func (u *User) DeviceType() DeviceType { return u.deviceType }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) UpdatedAt() time.Time   { return u.updatedAt }

// HasPushToken reports whether push notifications can be sent to the user.
func (u *User) HasPushToken() bool {
	return u.pushToken != ""
}

// SetPushToken replaces the device registration.
func (u *User) SetPushToken(token string, deviceType DeviceType, now time.Time) error {
	if err := u.Validate(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errs.NewValueIsRequiredError("pushToken")
	}
	if _, err := ParseDeviceType(string(deviceType)); err != nil {
		return err
	}
	u.pushToken = token
	u.deviceType = deviceType
	u.updatedAt = now
	return nil
}

func validatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	if !phonePattern.MatchString(normalizePhone(phone)) {
		return errs.NewValueIsInvalidErrorWithCause("phone", fmt.Errorf("%q is not a phone number", phone))
	}
	return nil
}

func normalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}
