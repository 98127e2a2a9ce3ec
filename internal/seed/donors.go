// Package seed loads sample donors and donations into an empty installation.
package seed

import (
	"context"
	"errors"
	"fmt"

	"donaciones/internal/utils"
	"donaciones/pkg/types"

	"github.com/sirupsen/logrus"
)

type DonorWriter interface {
	DonorByEmail(ctx context.Context, email string) (*types.Donor, error)
	CreateDonor(ctx context.Context, donor *types.Donor) error
	UpdateDonor(ctx context.Context, donorID int64, donor *types.Donor) error
}

func classification(c types.DonorClassification) *types.DonorClassification { return &c }

func status(s types.DonorStatus) *types.DonorStatus { return &s }

var sampleDonors = []*types.Donor{
	{
		Name:           utils.StringPtr("Lácteos del Sur"),
		Classification: classification(types.DonorCompany),
		City:           "Springfield",
		Address:        utils.StringPtr("Av. Evergreen 742"),
		Phone:          utils.StringPtr("555-0101"),
		Email:          utils.StringPtr("contacto@lacteosdelsur.example"),
		Status:         status(types.DonorActive),
		Latitude:       utils.Float64Ptr(19.4326),
		Longitude:      utils.Float64Ptr(-99.1332),
	},
	{
		Name:           utils.StringPtr("Banco de Alimentos Norte"),
		Classification: classification(types.DonorOrganization),
		City:           "Shelbyville",
		Phone:          utils.StringPtr("+52 555 0202"),
		Email:          utils.StringPtr("norte@bancoalimentos.example"),
		Status:         status(types.DonorActive),
	},
	{
		Name:           utils.StringPtr("María Pérez"),
		Classification: classification(types.DonorIndividual),
		City:           "Ogdenville",
		Email:          utils.StringPtr("maria.perez@example.com"),
		Status:         status(types.DonorInactive),
		Notes:          utils.StringPtr("Dona verduras de su huerto cada temporada."),
	},
	{
		Classification: classification(types.DonorInstitution),
		City:           "Capital City",
		Email:          utils.StringPtr("comedor@escuela.example"),
		Status:         status(types.DonorActive),
	},
}

// SeedDonors creates the sample donors, updating those whose email is
// already registered.
func SeedDonors(ctx context.Context, logger *logrus.Logger, repo DonorWriter) error {
	created, updated := 0, 0

	for _, sample := range sampleDonors {
		donor := *sample
		email := utils.PtrString(donor.Email)

		existing, err := repo.DonorByEmail(ctx, email)
		if err != nil && !errors.Is(err, types.ErrDonorNotFound) {
			return fmt.Errorf("failed to fetch donor %s: %w", email, err)
		}

		if existing == nil {
			if err := repo.CreateDonor(ctx, &donor); err != nil {
				return fmt.Errorf("failed to create donor %s: %w", email, err)
			}
			created++
			continue
		}

		donor.RegistrationDate = existing.RegistrationDate
		if err := repo.UpdateDonor(ctx, existing.ID, &donor); err != nil {
			return fmt.Errorf("failed to update donor %s: %w", email, err)
		}
		updated++
	}

	logger.WithFields(logrus.Fields{
		"created": created,
		"updated": updated,
	}).Info("donors seeded")

	return nil
}
