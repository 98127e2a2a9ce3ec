package validate

import (
	"testing"
	"time"

	"donaciones/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoodClassificationExactlyOneYes(t *testing.T) {
	tests := []struct {
		perishable    string
		nonPerishable string
		wantErr       bool
		message       string
	}{
		{perishable: "1", nonPerishable: "0"},
		{perishable: "0", nonPerishable: "1"},
		{perishable: "1", nonPerishable: "1", wantErr: true, message: "Un alimento no puede ser perecible y no perecible al mismo tiempo."},
		{perishable: "0", nonPerishable: "0", wantErr: true, message: "Un alimento debe ser perecible o no perecible."},
	}

	for _, tt := range tests {
		t.Run(tt.perishable+tt.nonPerishable, func(t *testing.T) {
			form := types.FoodClassificationForm{
				Perishable:    tt.perishable,
				NonPerishable: tt.nonPerishable,
				Condition:     "2",
			}

			c, errs := FoodClassification(form, fixedNow)
			if !tt.wantErr {
				require.Empty(t, errs)
				assert.Equal(t, tt.perishable == "1", c.Perishable)
				assert.Equal(t, tt.nonPerishable == "1", c.NonPerishable)
				return
			}

			require.Len(t, errs, 1)
			assert.Equal(t, types.RecordField, errs[0].Field)
			assert.Equal(t, types.KindContradiction, errs[0].Kind)
			assert.Equal(t, []string{tt.message}, errs.Record())
		})
	}
}

func TestFoodClassificationRequiresFlags(t *testing.T) {
	_, errs := FoodClassification(types.FoodClassificationForm{Condition: "1"}, fixedNow)

	assert.Equal(t, types.KindRequired, errs.Kind("perecible"))
	assert.Equal(t, types.KindRequired, errs.Kind("no_perecibles"))
	assert.Nil(t, errs.Get(types.RecordField))
}

func TestFoodClassificationRejectsUnknownValues(t *testing.T) {
	_, errs := FoodClassification(types.FoodClassificationForm{Perishable: "2", NonPerishable: "1", Condition: "9"}, fixedNow)

	assert.Equal(t, types.KindInvalidChoice, errs.Kind("perecible"))
	assert.Equal(t, types.KindInvalidChoice, errs.Kind("estado_alimento"))
}

func TestFoodClassificationExpiryUsesInjectedClock(t *testing.T) {
	form := types.FoodClassificationForm{Perishable: "1", NonPerishable: "0", Condition: "1"}

	form.ExpiryDate = "2025-03-09"
	_, errs := FoodClassification(form, fixedNow)
	assert.Equal(t, types.KindPastDate, errs.Kind("fecha_caducidad"))

	form.ExpiryDate = "2025-03-10"
	c, errs := FoodClassification(form, fixedNow)
	require.Empty(t, errs)
	require.NotNil(t, c.ExpiryDate)

	later := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	_, errs = FoodClassification(form, later)
	assert.Equal(t, types.KindPastDate, errs.Kind("fecha_caducidad"))
}
