package validate

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"donaciones/pkg/types"
)

var phoneReg = regexp.MustCompile(`^\+?[0-9 -]*[0-9][0-9 -]*$`)

// Donor validates a donor submission. editingID is the id of the donor being
// edited, or 0 for a new donor, and is excluded from the email uniqueness check.
func (v *Validator) Donor(ctx context.Context, in *types.DonorForm, editingID int64) (*types.Donor, error) {
	var errs types.ValidationErrors

	name := v.text(in.Name)
	maxLength(&errs, "nombre", name, 255)

	var classification *types.DonorClassification
	if raw := strings.TrimSpace(in.Classification); raw != "" {
		if types.IsChoice(types.DonorClassificationChoices, raw) {
			c := types.DonorClassification(raw)
			classification = &c
		} else {
			addFieldError(&errs, invalidChoice("tipo_donante", raw))
		}
	}

	city := v.text(in.City)
	if city == "" {
		errs.Add("ciudad", types.KindRequired, "Este campo es obligatorio.")
	}
	maxLength(&errs, "ciudad", city, 255)

	address := v.text(in.Address)

	phone := strings.TrimSpace(in.Phone)
	if phone != "" && !ValidPhone(phone) {
		errs.Add("telefono", types.KindInvalidFormat, "El teléfono debe contener solo números y caracteres válidos.")
	}
	maxLength(&errs, "telefono", phone, 20)

	email := strings.TrimSpace(in.Email)
	if email != "" {
		if err := v.fields.Var(email, "email,max=255"); err != nil {
			errs.Add("email", types.KindInvalidFormat, "Introduzca una dirección de correo electrónico válida.")
		} else {
			taken, err := v.donors.EmailInUse(ctx, email, editingID)
			if err != nil {
				return nil, err
			}
			if taken {
				errs.Add("email", types.KindDuplicateKey, "Este correo electrónico ya está registrado para otro donante.")
			}
		}
	}

	var status *types.DonorStatus
	if raw := strings.TrimSpace(in.Status); raw != "" {
		if types.IsChoice(types.DonorStatusChoices, raw) {
			s := types.DonorStatus(raw)
			status = &s
		} else {
			addFieldError(&errs, invalidChoice("estado", raw))
		}
	}

	notes := v.text(in.Notes)

	lat, fe := coordinate("latitud", in.Latitude, 90, "La latitud debe estar entre -90 y 90.")
	addFieldError(&errs, fe)
	lon, fe := coordinate("longitud", in.Longitude, 180, "La longitud debe estar entre -180 y 180.")
	addFieldError(&errs, fe)

	if len(errs) > 0 {
		return nil, errs
	}

	return &types.Donor{
		ID:             editingID,
		Name:           optional(name),
		Classification: classification,
		City:           city,
		Address:        optional(address),
		Phone:          optional(phone),
		Email:          optional(email),
		Status:         status,
		Notes:          optional(notes),
		Latitude:       lat,
		Longitude:      lon,
	}, nil
}

// ValidPhone accepts digits, spaces and hyphens with an optional leading plus.
func ValidPhone(phone string) bool {
	return phoneReg.MatchString(phone)
}

func coordinate(field, raw string, limit float64, rangeMsg string) (*float64, *types.FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &types.FieldError{Field: field, Kind: types.KindInvalidFormat, Message: "Introduzca un número."}
	}
	if f < -limit || f > limit {
		return nil, &types.FieldError{Field: field, Kind: types.KindInvalidRange, Message: rangeMsg}
	}
	return &f, nil
}

func maxLength(errs *types.ValidationErrors, field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		errs.Add(field, types.KindInvalidRange, "Asegúrese de que este valor tenga como máximo "+strconv.Itoa(limit)+" caracteres.")
	}
}
