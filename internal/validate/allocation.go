package validate

import (
	"context"
	"strconv"
	"strings"

	"donaciones/pkg/types"
)

// LowIncome validates a low-income allocation. The city choices offered on the
// form come from the donor registry when it is rendered; on submit only its
// presence is checked.
func (v *Validator) LowIncome(ctx context.Context, in *types.LowIncomeForm) (*types.LowIncomeAllocation, error) {
	var errs types.ValidationErrors

	city := v.text(in.City)
	if city == "" {
		errs.Add("ciudad", types.KindRequired, "Debe seleccionar una ciudad")
	}
	maxLength(&errs, "ciudad", city, 50)

	donationID, fe, err := v.DonationReference(ctx, in.Donation)
	if err != nil {
		return nil, err
	}
	addFieldError(&errs, fe)

	if len(errs) > 0 {
		return nil, errs
	}

	return &types.LowIncomeAllocation{City: city, DonationID: donationID}, nil
}

func (v *Validator) Zoo(ctx context.Context, in *types.ZooForm) (*types.ZooAllocation, error) {
	var errs types.ValidationErrors

	species := v.text(in.Species)
	if species == "" {
		errs.Add("animales", types.KindRequired, "El campo animales no puede estar vacío")
	}
	maxLength(&errs, "animales", species, 255)

	workers := v.text(in.Workers)
	if workers == "" {
		errs.Add("trabajadores", types.KindRequired, "El campo trabajadores no puede estar vacío")
	}
	maxLength(&errs, "trabajadores", workers, 255)

	category, fe := AnimalCategory(in.AnimalCategory)
	addFieldError(&errs, fe)

	donationID, fe, err := v.DonationReference(ctx, in.Donation)
	if err != nil {
		return nil, err
	}
	addFieldError(&errs, fe)

	if len(errs) > 0 {
		return nil, errs
	}

	return &types.ZooAllocation{
		Species:        species,
		Workers:        workers,
		AnimalCategory: category,
		DonationID:     donationID,
	}, nil
}

func AnimalCategory(raw string) (types.AnimalCategory, *types.FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &types.FieldError{Field: "tipo_animal", Kind: types.KindRequired, Message: "Debe seleccionar un tipo de animal"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || !types.AnimalCategory(n).Valid() {
		return 0, invalidChoice("tipo_animal", raw)
	}
	return types.AnimalCategory(n), nil
}
