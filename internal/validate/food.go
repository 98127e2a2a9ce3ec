package validate

import (
	"strings"
	"time"

	"donaciones/pkg/types"
)

// FoodClassification checks the perishable/non-perishable description of a
// food. Both flags are required and exactly one of them must be yes. An expiry
// date, when given, may not lie before the day of now.
func FoodClassification(in types.FoodClassificationForm, now time.Time) (*types.FoodClassification, types.ValidationErrors) {
	var errs types.ValidationErrors

	perishable, fe := triState("perecible", in.Perishable, "Debe seleccionar si es perecible o no")
	addFieldError(&errs, fe)

	nonPerishable, fe := triState("no_perecibles", in.NonPerishable, "Debe seleccionar si es no perecible o no")
	addFieldError(&errs, fe)

	condition := strings.TrimSpace(in.Condition)
	switch {
	case condition == "":
		errs.Add("estado_alimento", types.KindRequired, "Debe seleccionar el estado del alimento")
	case !types.IsChoice(types.FoodConditionChoices, condition):
		addFieldError(&errs, invalidChoice("estado_alimento", condition))
	}

	var expiry *time.Time
	if raw := strings.TrimSpace(in.ExpiryDate); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			errs.Add("fecha_caducidad", types.KindInvalidFormat, "Introduzca una fecha válida.")
		} else if t.Before(startOfDay(now)) {
			errs.Add("fecha_caducidad", types.KindPastDate, "La fecha de caducidad no puede ser una fecha pasada.")
		} else {
			expiry = &t
		}
	}

	if perishable != types.TriStateUnset && nonPerishable != types.TriStateUnset {
		switch {
		case perishable == types.TriStateYes && nonPerishable == types.TriStateYes:
			errs.Add(types.RecordField, types.KindContradiction, "Un alimento no puede ser perecible y no perecible al mismo tiempo.")
		case perishable == types.TriStateNo && nonPerishable == types.TriStateNo:
			errs.Add(types.RecordField, types.KindContradiction, "Un alimento debe ser perecible o no perecible.")
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &types.FoodClassification{
		Perishable:    perishable == types.TriStateYes,
		NonPerishable: nonPerishable == types.TriStateYes,
		Condition:     condition,
		ExpiryDate:    expiry,
	}, nil
}

// triState returns TriStateUnset together with a field error for anything
// other than "0" or "1".
func triState(field, raw, requiredMsg string) (types.TriState, *types.FieldError) {
	raw = strings.TrimSpace(raw)
	switch types.TriState(raw) {
	case types.TriStateNo, types.TriStateYes:
		return types.TriState(raw), nil
	case types.TriStateUnset:
		return types.TriStateUnset, &types.FieldError{Field: field, Kind: types.KindRequired, Message: requiredMsg}
	default:
		return types.TriStateUnset, invalidChoice(field, raw)
	}
}

// startOfDay is midnight UTC of the calendar day now falls on in its own location.
func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
