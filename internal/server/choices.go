package server

import (
	"context"
	"fmt"
	"strconv"

	"donaciones/internal/utils"
	"donaciones/pkg/types"
)

// donorChoices lists every donor for the donation form, ordered by label.
func (s *Service) donorChoices(ctx context.Context) ([]types.Choice, []*types.Donor, error) {
	donors, err := s.donorRepo.Donors(ctx, types.DonorFilter{})
	if err != nil {
		return nil, nil, err
	}

	choices := make([]types.Choice, 0, len(donors))
	for _, d := range donors {
		choices = append(choices, types.Choice{Value: strconv.FormatInt(d.ID, 10), Label: d.ChoiceLabel()})
	}
	utils.SortSpanishBy(choices, func(c types.Choice) string { return c.Label })

	return choices, donors, nil
}

func (s *Service) donationChoices(ctx context.Context) ([]types.Choice, error) {
	donations, err := s.donationRepo.Donations(ctx)
	if err != nil {
		return nil, err
	}

	choices := make([]types.Choice, 0, len(donations))
	for _, d := range donations {
		choices = append(choices, types.Choice{
			Value: strconv.FormatInt(d.ID, 10),
			Label: fmt.Sprintf("Donación #%d - %s", d.ID, d.DonorCity),
		})
	}

	return choices, nil
}

// donorIDForCity picks the donor a stored donation most likely came from so
// the edit form can preselect it.
func donorIDForCity(donors []*types.Donor, city string) string {
	for _, d := range donors {
		if d.City == city {
			return strconv.FormatInt(d.ID, 10)
		}
	}
	return ""
}
