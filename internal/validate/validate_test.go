package validate

import (
	"context"
	"errors"
	"testing"
	"time"

	"donaciones/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDonors struct {
	donors map[int64]*types.Donor
	err    error
}

func (f *fakeDonors) Donor(_ context.Context, id int64) (*types.Donor, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.donors[id]
	if !ok {
		return nil, types.ErrDonorNotFound
	}
	return d, nil
}

func (f *fakeDonors) EmailInUse(_ context.Context, email string, excludeID int64) (bool, error) {
	for id, d := range f.donors {
		if id == excludeID {
			continue
		}
		if d.Email != nil && *d.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeDonations struct {
	donations map[int64]*types.Donation
}

func (f *fakeDonations) Donation(_ context.Context, id int64) (*types.Donation, error) {
	d, ok := f.donations[id]
	if !ok {
		return nil, types.ErrDonationNotFound
	}
	return d, nil
}

func strPtr(s string) *string { return &s }

var fixedNow = time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	donors := &fakeDonors{donors: map[int64]*types.Donor{
		1: {ID: 1, Name: strPtr("Lácteos del Sur"), City: "Springfield", Email: strPtr("contacto@lacteos.example")},
		2: {ID: 2, City: "Shelbyville", Email: strPtr("otro@example.com")},
	}}
	donations := &fakeDonations{donations: map[int64]*types.Donation{
		7: {ID: 7, DonorCity: "Springfield", Quantity: 50},
	}}
	return New(donors, donations, WithClock(func() time.Time { return fixedNow }))
}

func validDonationForm() *types.DonationForm {
	return &types.DonationForm{
		Donor:       "1",
		Quantity:    "50",
		ArrivalDate: "2025-03-11",
		FoodType:    "Lácteos",
		Destination: types.DestinationZoo,
	}
}

func TestDonationSubstitutesDonorCity(t *testing.T) {
	v := newTestValidator()

	donation, classification, err := v.Donation(context.Background(), validDonationForm())
	require.NoError(t, err)
	assert.Nil(t, classification)

	assert.Equal(t, "Springfield", donation.DonorCity)
	assert.Equal(t, 50, donation.Quantity)
	assert.Equal(t, "Lácteos", donation.FoodType)
	assert.Equal(t, types.DestinationZoo, donation.Destination)
	assert.Equal(t, time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), donation.ArrivalDate)
}

func TestDonationQuantity(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		raw     string
		wantErr bool
		kind    types.ErrorKind
	}{
		{raw: "1"},
		{raw: "2"},
		{raw: " 1000 "},
		{raw: "2147483647"},
		{raw: "2147483648", wantErr: true, kind: types.KindInvalidRange},
		{raw: "3000000000", wantErr: true, kind: types.KindInvalidRange},
		{raw: "-3000000000", wantErr: true, kind: types.KindInvalidRange},
		{raw: "0", wantErr: true, kind: types.KindInvalidRange},
		{raw: "-1", wantErr: true, kind: types.KindInvalidRange},
		{raw: "-250", wantErr: true, kind: types.KindInvalidRange},
		{raw: "", wantErr: true, kind: types.KindRequired},
		{raw: "1.5", wantErr: true, kind: types.KindInvalidFormat},
		{raw: "diez", wantErr: true, kind: types.KindInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			form := validDonationForm()
			form.Quantity = tt.raw

			_, _, err := v.Donation(context.Background(), form)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			verrs, ok := types.AsValidationErrors(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, verrs.Kind("cantidad"))
		})
	}
}

func TestDonationQuantityZeroMessage(t *testing.T) {
	v := newTestValidator()
	form := validDonationForm()
	form.Quantity = "0"

	_, _, err := v.Donation(context.Background(), form)

	verrs, ok := types.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, "La cantidad debe ser al menos 1 kg", verrs.Fields()["cantidad"])
}

func TestDonationQuantityOverflowMessage(t *testing.T) {
	v := newTestValidator()
	form := validDonationForm()
	form.Quantity = "2147483648"

	donation, _, err := v.Donation(context.Background(), form)
	require.Nil(t, donation)

	verrs, ok := types.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Asegúrese de que este valor es menor o igual a 2147483647.", verrs.Fields()["cantidad"])
}

func TestDonorReference(t *testing.T) {
	v := newTestValidator()
	ctx := context.Background()

	city, fe, err := v.DonorReference(ctx, "2")
	require.NoError(t, err)
	assert.Nil(t, fe)
	assert.Equal(t, "Shelbyville", city)

	for _, raw := range []string{"3", "999", "abc"} {
		_, fe, err := v.DonorReference(ctx, raw)
		require.NoError(t, err)
		require.NotNil(t, fe, raw)
		assert.Equal(t, types.KindNotFound, fe.Kind)
		assert.Equal(t, "Donante no válido", fe.Message)
	}

	_, fe, err = v.DonorReference(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, fe)
	assert.Equal(t, types.KindRequired, fe.Kind)
}

func TestDonorReferencePropagatesStoreFailure(t *testing.T) {
	boom := errors.New("connection reset")
	v := New(&fakeDonors{err: boom}, &fakeDonations{}, WithClock(func() time.Time { return fixedNow }))

	_, _, err := v.Donation(context.Background(), validDonationForm())
	require.ErrorIs(t, err, boom)

	_, ok := types.AsValidationErrors(err)
	assert.False(t, ok)
}

func TestDonationDestination(t *testing.T) {
	v := newTestValidator()

	for _, dest := range []string{types.DestinationLowIncome, types.DestinationZoo} {
		form := validDonationForm()
		form.Destination = dest
		_, _, err := v.Donation(context.Background(), form)
		assert.NoError(t, err, dest)
	}

	form := validDonationForm()
	form.Destination = "Acuario"
	_, _, err := v.Donation(context.Background(), form)
	verrs, ok := types.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, types.KindInvalidChoice, verrs.Kind("destino"))
}

func TestDonationReportsEveryField(t *testing.T) {
	v := newTestValidator()

	_, _, err := v.Donation(context.Background(), &types.DonationForm{FoodType: "  <b></b> "})

	verrs, ok := types.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"cantidad", "destino", "donante", "fecha_llegada", "tipo_alimento"}, verrs.FieldNames())
}

func TestDonationWithClassification(t *testing.T) {
	v := newTestValidator()

	form := validDonationForm()
	form.Perishable = "1"
	form.NonPerishable = "0"
	form.Condition = "1"
	form.ExpiryDate = "2025-03-10"

	_, classification, err := v.Donation(context.Background(), form)
	require.NoError(t, err)
	require.NotNil(t, classification)
	assert.True(t, classification.Perishable)
	assert.False(t, classification.NonPerishable)

	form.NonPerishable = "1"
	_, _, err = v.Donation(context.Background(), form)
	verrs, ok := types.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, types.KindContradiction, verrs.Kind(types.RecordField))
}
