package export

import (
	"bytes"
	"testing"
	"time"

	"donaciones/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDonationsCSV(t *testing.T) {
	donations := []*types.Donation{
		{ID: 1, DonorCity: "Springfield", Quantity: 50, ArrivalDate: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), FoodType: "Lácteos", Destination: types.DestinationZoo},
		{ID: 2, DonorCity: "Villa, Norte", Quantity: 3, ArrivalDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), FoodType: "Carnes", Destination: types.DestinationLowIncome},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDonationsCSV(&buf, donations))

	want := "id,donante,cantidad_kg,fecha_llegada,tipo_alimento,destino\n" +
		"1,Springfield,50,2025-03-11,Lácteos,Zoológico\n" +
		"2,\"Villa, Norte\",3,2025-03-12,Carnes,Bajo Recursos\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteDonationsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDonationsCSV(&buf, nil))

	assert.Equal(t, "id,donante,cantidad_kg,fecha_llegada,tipo_alimento,destino\n", buf.String())
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 5, 0, time.FixedZone("CET", 3600))

	assert.Equal(t, "donaciones/20250310T143005Z.csv", ObjectKey(now))
}
