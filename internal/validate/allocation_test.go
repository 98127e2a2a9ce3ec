package validate

import (
	"context"
	"testing"

	"donaciones/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZooTrimsFreeText(t *testing.T) {
	v := newTestValidator()

	zoo, err := v.Zoo(context.Background(), &types.ZooForm{
		Species:        " Lion ",
		Workers:        "  Ana, Luis ",
		AnimalCategory: "1",
		Donation:       "7",
	})
	require.NoError(t, err)

	assert.Equal(t, "Lion", zoo.Species)
	assert.Equal(t, "Ana, Luis", zoo.Workers)
	assert.Equal(t, types.AnimalMammals, zoo.AnimalCategory)
	assert.Equal(t, int64(7), zoo.DonationID)
}

func TestZooRejectsEmptyFreeText(t *testing.T) {
	v := newTestValidator()

	for _, species := range []string{"", "   ", "\t"} {
		_, err := v.Zoo(context.Background(), &types.ZooForm{
			Species:        species,
			Workers:        " ",
			AnimalCategory: "2",
			Donation:       "7",
		})

		verrs, ok := types.AsValidationErrors(err)
		require.True(t, ok)
		assert.Equal(t, "El campo animales no puede estar vacío", verrs.Fields()["animales"])
		assert.Equal(t, "El campo trabajadores no puede estar vacío", verrs.Fields()["trabajadores"])
	}
}

func TestZooAnimalCategory(t *testing.T) {
	for _, raw := range []string{"1", "2", "3", "4"} {
		_, fe := AnimalCategory(raw)
		assert.Nil(t, fe, raw)
	}

	_, fe := AnimalCategory("")
	require.NotNil(t, fe)
	assert.Equal(t, types.KindRequired, fe.Kind)

	for _, raw := range []string{"0", "5", "aves"} {
		_, fe := AnimalCategory(raw)
		require.NotNil(t, fe, raw)
		assert.Equal(t, types.KindInvalidChoice, fe.Kind)
	}
}

func TestLowIncomeDonationReference(t *testing.T) {
	v := newTestValidator()
	ctx := context.Background()

	alloc, err := v.LowIncome(ctx, &types.LowIncomeForm{City: "Springfield", Donation: "7"})
	require.NoError(t, err)
	assert.Equal(t, "Springfield", alloc.City)
	assert.Equal(t, int64(7), alloc.DonationID)

	tests := []struct {
		donation string
		kind     types.ErrorKind
	}{
		{donation: "", kind: types.KindRequired},
		{donation: "siete", kind: types.KindInvalidReference},
		{donation: "7.0", kind: types.KindInvalidReference},
		{donation: "8", kind: types.KindNotFound},
	}
	for _, tt := range tests {
		_, err := v.LowIncome(ctx, &types.LowIncomeForm{City: "Springfield", Donation: tt.donation})
		verrs, ok := types.AsValidationErrors(err)
		require.True(t, ok, tt.donation)
		assert.Equal(t, tt.kind, verrs.Kind("donacion"), tt.donation)
	}
}

func TestLowIncomeRequiresCity(t *testing.T) {
	v := newTestValidator()

	_, err := v.LowIncome(context.Background(), &types.LowIncomeForm{Donation: "7"})

	verrs, ok := types.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Debe seleccionar una ciudad", verrs.Fields()["ciudad"])
}
