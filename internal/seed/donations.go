package seed

import (
	"context"
	"fmt"
	"time"

	"donaciones/pkg/types"

	"github.com/sirupsen/logrus"
)

type DonationWriter interface {
	Count(ctx context.Context) (int, error)
	CreateDonation(ctx context.Context, donation *types.Donation) error
}

type sampleDonation struct {
	city        string
	quantity    int
	daysAgo     int
	foodType    string
	destination string
}

var sampleDonations = []sampleDonation{
	{"Springfield", 120, 30, "Lácteos", types.DestinationLowIncome},
	{"Springfield", 45, 12, "Lácteos", types.DestinationZoo},
	{"Shelbyville", 300, 20, "Granos y Cereales", types.DestinationLowIncome},
	{"Shelbyville", 80, 3, "Alimento no perecible", types.DestinationLowIncome},
	{"Ogdenville", 25, 7, "Frutas y Verduras", types.DestinationZoo},
	{"Capital City", 60, 1, "Carnes", types.DestinationZoo},
}

// SeedDonations adds the sample donations when the ledger is empty. Arrival
// dates are relative to now.
func SeedDonations(ctx context.Context, logger *logrus.Logger, repo DonationWriter, now time.Time) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count donations: %w", err)
	}

	if count > 0 {
		logger.WithField("donations", count).Info("donations already present, skipping")
		return nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for _, sample := range sampleDonations {
		donation := &types.Donation{
			DonorCity:   sample.city,
			Quantity:    sample.quantity,
			ArrivalDate: today.AddDate(0, 0, -sample.daysAgo),
			FoodType:    sample.foodType,
			Destination: sample.destination,
		}

		if err := repo.CreateDonation(ctx, donation); err != nil {
			return fmt.Errorf("failed to create donation for %s: %w", sample.city, err)
		}
	}

	logger.WithField("created", len(sampleDonations)).Info("donations seeded")

	return nil
}
