package reference_test

import (
	"testing"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/reference"
	"cargo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestLogisticsPoint_Validate(t *testing.T) {
	point := reference.LogisticsPoint{
		ID:   kernel.NewUUID(),
		Name: "Warehouse 1",
		Address: reference.Address{
			ID: kernel.NewUUID(), Country: "RU", Region: "Moscow", City: "Moscow", Street: "Tverskaya", House: "1",
		},
		Contacts: []reference.Contact{{ID: kernel.NewUUID(), Name: "Dispatcher", Phone: "+74950000000"}},
	}
	assert.NoError(t, point.Validate())

	point.Address.City = ""
	point.Contacts = append(point.Contacts, reference.Contact{ID: kernel.NewUUID()})
	err := point.Validate()
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "address.city")
	assert.Contains(t, err.Error(), "contact.phone")
}

func TestNomenclature_Validate(t *testing.T) {
	assert.NoError(t, reference.Nomenclature{ID: kernel.NewUUID(), Name: "Cement", Measure: "t"}.Validate())
	assert.ErrorIs(t, reference.Nomenclature{ID: kernel.NewUUID(), Name: "Cement"}.Validate(), errs.ErrValueIsRequired)
}
