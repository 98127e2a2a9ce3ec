// Package validate checks donor, donation and allocation submissions before
// they are persisted. Validators never write; a submission either comes back
// normalized or with types.ValidationErrors describing every violated rule.
package validate

import (
	"context"
	"errors"
	"html"
	"strconv"
	"strings"
	"time"

	"donaciones/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

const dateLayout = "2006-01-02"

type DonorLookup interface {
	Donor(ctx context.Context, id int64) (*types.Donor, error)
	EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error)
}

type DonationLookup interface {
	Donation(ctx context.Context, id int64) (*types.Donation, error)
}

type Validator struct {
	donors    DonorLookup
	donations DonationLookup
	now       func() time.Time
	fields    *validator.Validate
	policy    *bluemonday.Policy
}

type Option func(*Validator)

// WithClock replaces the clock used for date rules.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

func New(donors DonorLookup, donations DonationLookup, opts ...Option) *Validator {
	v := &Validator{
		donors:    donors,
		donations: donations,
		now:       time.Now,
		fields:    validator.New(validator.WithRequiredStructEnabled()),
		policy:    bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Now is the validator clock.
func (v *Validator) Now() time.Time {
	return v.now()
}

// text strips markup from free text input and trims surrounding whitespace.
func (v *Validator) text(raw string) string {
	return strings.TrimSpace(html.UnescapeString(v.policy.Sanitize(raw)))
}

// DonationReference resolves a submitted donation id. The referenced donation
// has to exist when the allocation is created; nothing re-checks it later.
func (v *Validator) DonationReference(ctx context.Context, raw string) (int64, *types.FieldError, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &types.FieldError{Field: "donacion", Kind: types.KindRequired, Message: "Debe seleccionar una donación"}, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &types.FieldError{Field: "donacion", Kind: types.KindInvalidReference, Message: "Donación no válida"}, nil
	}

	_, err = v.donations.Donation(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrDonationNotFound) {
			return 0, &types.FieldError{Field: "donacion", Kind: types.KindNotFound, Message: "La donación seleccionada no existe."}, nil
		}
		return 0, nil, err
	}

	return id, nil, nil
}

func addFieldError(errs *types.ValidationErrors, fe *types.FieldError) {
	if fe == nil {
		return
	}
	errs.Add(fe.Field, fe.Kind, fe.Message)
}

func invalidChoice(field, value string) *types.FieldError {
	return &types.FieldError{
		Field:   field,
		Kind:    types.KindInvalidChoice,
		Message: "Escoja una opción válida. " + value + " no es una de las opciones disponibles.",
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
