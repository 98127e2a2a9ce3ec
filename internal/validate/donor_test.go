package validate

import (
	"context"
	"testing"

	"donaciones/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPhone(t *testing.T) {
	valid := []string{"5551234", "555 1234", "555-12-34", "+34 600 123 456", "+1-555-0100"}
	invalid := []string{"555.1234", "(555) 1234", "55+5", "abc", "+", " - ", "++34 600"}

	for _, p := range valid {
		assert.True(t, ValidPhone(p), p)
	}
	for _, p := range invalid {
		assert.False(t, ValidPhone(p), p)
	}
}

func TestDonorRequiresCity(t *testing.T) {
	v := newTestValidator()

	_, err := v.Donor(context.Background(), &types.DonorForm{Name: "Panadería Central"}, 0)

	verrs, ok := types.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, types.KindRequired, verrs.Kind("ciudad"))
}

func TestDonorEmailUniqueness(t *testing.T) {
	v := newTestValidator()
	ctx := context.Background()

	_, err := v.Donor(ctx, &types.DonorForm{City: "Ogdenville", Email: "contacto@lacteos.example"}, 0)
	verrs, ok := types.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, types.KindDuplicateKey, verrs.Kind("email"))
	assert.Equal(t, "Este correo electrónico ya está registrado para otro donante.", verrs.Fields()["email"])

	// editing the donor that owns the address keeps it
	donor, err := v.Donor(ctx, &types.DonorForm{City: "Springfield", Email: "contacto@lacteos.example"}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), donor.ID)

	// but another donor cannot take it over
	_, err = v.Donor(ctx, &types.DonorForm{City: "Shelbyville", Email: "contacto@lacteos.example"}, 2)
	verrs, ok = types.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, types.KindDuplicateKey, verrs.Kind("email"))
}

func TestDonorNormalizesOptionalFields(t *testing.T) {
	v := newTestValidator()

	donor, err := v.Donor(context.Background(), &types.DonorForm{
		Name:           "  Granja <script>alert(1)</script>Feliz ",
		Classification: "empresa",
		City:           " Springfield ",
		Phone:          "+34 600-123-456",
		Status:         "activo",
		Notes:          "Entrega los <b>martes</b> & jueves",
		Latitude:       "40.4168",
		Longitude:      "-3.7038",
	}, 0)
	require.NoError(t, err)

	require.NotNil(t, donor.Name)
	assert.Equal(t, "Granja Feliz", *donor.Name)
	assert.Equal(t, "Springfield", donor.City)
	assert.Equal(t, types.DonorCompany, *donor.Classification)
	assert.Equal(t, types.DonorActive, *donor.Status)
	assert.Equal(t, "Entrega los martes & jueves", *donor.Notes)
	assert.InDelta(t, 40.4168, *donor.Latitude, 1e-9)
	assert.Nil(t, donor.Email)
	assert.Nil(t, donor.Address)
}

func TestDonorRejectsBadInput(t *testing.T) {
	v := newTestValidator()

	_, err := v.Donor(context.Background(), &types.DonorForm{
		Classification: "cooperativa",
		City:           "Springfield",
		Phone:          "555/1234",
		Email:          "no-es-un-correo",
		Status:         "borrado",
		Latitude:       "91",
		Longitude:      "oeste",
	}, 0)

	verrs, ok := types.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, types.KindInvalidChoice, verrs.Kind("tipo_donante"))
	assert.Equal(t, types.KindInvalidFormat, verrs.Kind("telefono"))
	assert.Equal(t, types.KindInvalidFormat, verrs.Kind("email"))
	assert.Equal(t, types.KindInvalidChoice, verrs.Kind("estado"))
	assert.Equal(t, types.KindInvalidRange, verrs.Kind("latitud"))
	assert.Equal(t, types.KindInvalidFormat, verrs.Kind("longitud"))
}
