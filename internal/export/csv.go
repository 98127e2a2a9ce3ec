// Package export renders the donation ledger as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"donaciones/pkg/types"
)

var donationHeader = []string{"id", "donante", "cantidad_kg", "fecha_llegada", "tipo_alimento", "destino"}

func WriteDonationsCSV(w io.Writer, donations []*types.Donation) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(donationHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, d := range donations {
		record := []string{
			strconv.FormatInt(d.ID, 10),
			d.DonorCity,
			strconv.Itoa(d.Quantity),
			d.ArrivalDate.Format("2006-01-02"),
			d.FoodType,
			d.Destination,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write donation %d: %w", d.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ObjectKey names an export taken at now.
func ObjectKey(now time.Time) string {
	return "donaciones/" + now.UTC().Format("20060102T150405Z") + ".csv"
}
