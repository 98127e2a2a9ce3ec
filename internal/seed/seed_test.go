package seed

import (
	"context"
	"io"
	"testing"
	"time"

	"donaciones/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type donorRepo struct {
	byEmail map[string]*types.Donor
	nextID  int64
	updates int
}

func (r *donorRepo) DonorByEmail(_ context.Context, email string) (*types.Donor, error) {
	d, ok := r.byEmail[email]
	if !ok {
		return nil, types.ErrDonorNotFound
	}
	return d, nil
}

func (r *donorRepo) CreateDonor(_ context.Context, d *types.Donor) error {
	r.nextID++
	d.ID = r.nextID
	r.byEmail[*d.Email] = d
	return nil
}

func (r *donorRepo) UpdateDonor(_ context.Context, id int64, d *types.Donor) error {
	d.ID = id
	r.byEmail[*d.Email] = d
	r.updates++
	return nil
}

type donationRepo struct {
	created []*types.Donation
	count   int
}

func (r *donationRepo) Count(context.Context) (int, error) { return r.count, nil }

func (r *donationRepo) CreateDonation(_ context.Context, d *types.Donation) error {
	r.created = append(r.created, d)
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSeedDonorsIsRepeatable(t *testing.T) {
	repo := &donorRepo{byEmail: map[string]*types.Donor{}}

	require.NoError(t, SeedDonors(context.Background(), quietLogger(), repo))
	assert.Len(t, repo.byEmail, len(sampleDonors))

	require.NoError(t, SeedDonors(context.Background(), quietLogger(), repo))
	assert.Len(t, repo.byEmail, len(sampleDonors))
	assert.Equal(t, len(sampleDonors), repo.updates)
}

func TestSeedDonationsSkipsExistingLedger(t *testing.T) {
	repo := &donationRepo{count: 3}

	require.NoError(t, SeedDonations(context.Background(), quietLogger(), repo, time.Now()))
	assert.Empty(t, repo.created)
}

func TestSeedDonationsUsesDonorCities(t *testing.T) {
	repo := &donationRepo{}
	now := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)

	require.NoError(t, SeedDonations(context.Background(), quietLogger(), repo, now))
	require.Len(t, repo.created, len(sampleDonations))

	cities := map[string]bool{}
	for _, d := range sampleDonors {
		cities[d.City] = true
	}
	for _, d := range repo.created {
		assert.True(t, cities[d.DonorCity], d.DonorCity)
		assert.GreaterOrEqual(t, d.Quantity, 1)
		assert.True(t, d.ArrivalDate.Before(now))
	}
	assert.Equal(t, time.Date(2025, time.February, 8, 0, 0, 0, 0, time.UTC), repo.created[0].ArrivalDate)
}
