package validate

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"donaciones/pkg/types"
)

// Donation validates a donation submission. On success the donor id has been
// replaced by that donor's city. The classification is nil unless the
// submitter filled in the optional classification fields.
func (v *Validator) Donation(ctx context.Context, in *types.DonationForm) (*types.Donation, *types.FoodClassification, error) {
	var errs types.ValidationErrors

	city, fe, err := v.DonorReference(ctx, in.Donor)
	if err != nil {
		return nil, nil, err
	}
	addFieldError(&errs, fe)

	quantity, fe := Quantity(in.Quantity)
	addFieldError(&errs, fe)

	arrival, fe := requiredDate("fecha_llegada", in.ArrivalDate)
	addFieldError(&errs, fe)

	foodType := v.text(in.FoodType)
	if foodType == "" {
		errs.Add("tipo_alimento", types.KindRequired, "Debe seleccionar un tipo de alimento")
	} else if utf8.RuneCountInString(foodType) > 50 {
		errs.Add("tipo_alimento", types.KindInvalidRange, "Asegúrese de que este valor tenga como máximo 50 caracteres.")
	}

	destination, fe := Destination(in.Destination)
	addFieldError(&errs, fe)

	var classification *types.FoodClassification
	if cf := in.Classification(); cf.Supplied() {
		c, cerrs := FoodClassification(cf, v.now())
		for _, e := range cerrs {
			errs.Add(e.Field, e.Kind, e.Message)
		}
		if len(cerrs) == 0 {
			classification = c
		}
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}

	return &types.Donation{
		DonorCity:   city,
		Quantity:    quantity,
		ArrivalDate: arrival,
		FoodType:    foodType,
		Destination: destination,
	}, classification, nil
}

// DonorReference resolves a submitted donor id to the donor's city.
func (v *Validator) DonorReference(ctx context.Context, raw string) (string, *types.FieldError, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &types.FieldError{Field: "donante", Kind: types.KindRequired, Message: "Debe seleccionar un donante"}, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", &types.FieldError{Field: "donante", Kind: types.KindNotFound, Message: "Donante no válido"}, nil
	}

	donor, err := v.donors.Donor(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrDonorNotFound) {
			return "", &types.FieldError{Field: "donante", Kind: types.KindNotFound, Message: "Donante no válido"}, nil
		}
		return "", nil, err
	}

	return donor.City, nil, nil
}

// Quantity parses a quantity in kilograms. It must be present, at least 1 and
// fit the INTEGER column.
func Quantity(raw string) (int, *types.FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &types.FieldError{Field: "cantidad", Kind: types.KindRequired, Message: "La cantidad es requerida"}
	}

	tooSmall := &types.FieldError{Field: "cantidad", Kind: types.KindInvalidRange, Message: "La cantidad debe ser al menos 1 kg"}

	q, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(raw, "-") {
				return 0, tooSmall
			}
			return 0, &types.FieldError{Field: "cantidad", Kind: types.KindInvalidRange, Message: "Asegúrese de que este valor es menor o igual a 2147483647."}
		}
		return 0, &types.FieldError{Field: "cantidad", Kind: types.KindInvalidFormat, Message: "Introduzca un número entero."}
	}

	if q < 1 {
		return 0, tooSmall
	}

	return int(q), nil
}

func Destination(raw string) (string, *types.FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &types.FieldError{Field: "destino", Kind: types.KindRequired, Message: "Debe seleccionar un destino"}
	}
	if !types.IsChoice(types.DestinationChoices, raw) {
		return "", invalidChoice("destino", raw)
	}
	return raw, nil
}

func requiredDate(field, raw string) (time.Time, *types.FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &types.FieldError{Field: field, Kind: types.KindRequired, Message: "Este campo es obligatorio."}
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, &types.FieldError{Field: field, Kind: types.KindInvalidFormat, Message: "Introduzca una fecha válida."}
	}
	return t, nil
}
