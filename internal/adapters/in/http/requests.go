package http

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
)

type registerUserRequest struct {
	Phone        string              `json:"phone"`
	Role         string              `json:"role"`
	FullName     string              `json:"fullName"`
	ContragentID *openapi_types.UUID `json:"contragentId"`
}

type registerUserResponse struct {
	Message  string             `json:"message"`
	UserID   openapi_types.UUID `json:"userId"`
	PersonID openapi_types.UUID `json:"personId"`
}

type pushTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"deviceType"`
}

type orderItemRequest struct {
	NomenclatureID openapi_types.UUID `json:"nomenclatureId"`
	NetWeight      float64            `json:"netWeight"`
	GrossWeight    float64            `json:"grossWeight"`
}

type createOrderRequest struct {
	DepartureID   openapi_types.UUID `json:"departureId"`
	DestinationID openapi_types.UUID `json:"destinationId"`
	CostType      string             `json:"costType"`
	CashPrice     *decimal.Decimal   `json:"cashPrice"`
	NonCashPrice  *decimal.Decimal   `json:"nonCashPrice"`
	Items         []orderItemRequest `json:"nomenclatures"`
}

func (r createOrderRequest) items() ([]commands.OrderItemInput, error) {
	items := make([]commands.OrderItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		id, err := kernel.UUIDFromGoogle(it.NomenclatureID)
		if err != nil {
			return nil, err
		}
		items = append(items, commands.OrderItemInput{
			NomenclatureID: id,
			NetWeight:      it.NetWeight,
			GrossWeight:    it.GrossWeight,
		})
	}
	return items, nil
}

type confirmOrderRequest struct {
	VIN                string    `json:"vin"`
	PlannedLoadingDate time.Time `json:"plannedLoadingDate"`
	PlannedArrivalDate time.Time `json:"plannedArrivalDate"`
}

type updateGeoRequest struct {
	OrderID   openapi_types.UUID `json:"orderId"`
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
}

type passportRequest struct {
	Series   string             `json:"series"`
	Number   string             `json:"number"`
	IssuedBy string             `json:"issuedBy"`
	IssuedAt openapi_types.Date `json:"issuedAt"`
}

type drivingLicenseRequest struct {
	Number     string              `json:"number"`
	Categories string              `json:"categories"`
	IssuedAt   *openapi_types.Date `json:"issuedAt"`
	ExpiresAt  *openapi_types.Date `json:"expiresAt"`
}

type approvalRequest struct {
	FullName       string                 `json:"fullName"`
	ContragentID   *openapi_types.UUID    `json:"contragentId"`
	Passport       *passportRequest       `json:"passport"`
	DrivingLicense *drivingLicenseRequest `json:"drivingLicense"`
}

func (r approvalRequest) profile() (identity.Profile, error) {
	contragentID, err := kernel.Ptr(r.ContragentID)
	if err != nil {
		return identity.Profile{}, err
	}

	profile := identity.Profile{FullName: r.FullName, ContragentID: contragentID}
	if p := r.Passport; p != nil {
		profile.Passport = &identity.Passport{
			Series:   p.Series,
			Number:   p.Number,
			IssuedBy: p.IssuedBy,
			IssuedAt: p.IssuedAt.Time,
		}
	}
	if l := r.DrivingLicense; l != nil {
		license := &identity.DrivingLicense{Number: l.Number, Categories: l.Categories}
		if l.IssuedAt != nil {
			license.IssuedAt = l.IssuedAt.Time
		}
		if l.ExpiresAt != nil {
			license.ExpiresAt = l.ExpiresAt.Time
		}
		profile.DrivingLicense = license
	}
	return profile, nil
}

type orderResponse struct {
	Message string             `json:"message,omitempty"`
	Order   *queries.OrderView `json:"order,omitempty"`
}

type ordersResponse struct {
	Orders []queries.OrderView `json:"orders"`
}
