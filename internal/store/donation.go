package store

import (
	"context"
	"fmt"

	"donaciones/internal/utils"
	"donaciones/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

var donationColumns = utils.StructTagValues(types.Donation{})

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

func (r *DonationRepository) Donation(ctx context.Context, donationID int64) (*types.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"id": donationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation query: %w", err)
	}

	var donation types.Donation
	err = pgxscan.Get(ctx, r.pool, &donation, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to fetch donation: %w", err)
	}

	return &donation, nil
}

func (r *DonationRepository) Donations(ctx context.Context) ([]*types.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations query: %w", err)
	}

	var donations []*types.Donation
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donations: %w", err)
	}

	return donations, nil
}

// DonationsByCity returns the donations recorded under city, latest arrival first.
func (r *DonationRepository) DonationsByCity(ctx context.Context, city string) ([]*types.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"donor_city": city}).
		OrderBy("arrival_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations by city query: %w", err)
	}

	var donations []*types.Donation
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donations for city %s: %w", city, err)
	}

	return donations, nil
}

func (r *DonationRepository) Count(ctx context.Context) (int, error) {
	query, args, err := psql().Select("count(*)").From(donationTableName).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate donation count query: %w", err)
	}

	var count int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, utils.ErrorWrapOrNil(err, "failed to count donations")
}

var totalsColumns = []string{"count(*) AS total_donations", "coalesce(sum(quantity), 0) AS total_quantity"}

func totalsQuery(city string) sq.SelectBuilder {
	return psql().
		Select(totalsColumns...).
		From(donationTableName).
		Where(sq.Eq{"donor_city": city})
}

func groupedTotalsQuery(cities []string) sq.SelectBuilder {
	return psql().
		Select(append([]string{"donor_city"}, totalsColumns...)...).
		From(donationTableName).
		Where(sq.Eq{"donor_city": cities}).
		GroupBy("donor_city")
}

// TotalsByCity counts the donations recorded under city and sums their
// quantity. No matching donation yields zero totals.
func (r *DonationRepository) TotalsByCity(ctx context.Context, city string) (types.DonorTotals, error) {
	query, args, err := totalsQuery(city).ToSql()
	if err != nil {
		return types.DonorTotals{}, fmt.Errorf("failed to generate donation totals query: %w", err)
	}

	var totals types.DonorTotals
	err = pgxscan.Get(ctx, r.pool, &totals, query, args...)
	if err != nil {
		return types.DonorTotals{}, fmt.Errorf("failed to fetch donation totals for city %s: %w", city, err)
	}

	return totals, nil
}

type cityTotals struct {
	City string `db:"donor_city"`
	types.DonorTotals
}

// TotalsByCities returns totals for every city in one query. Cities without
// donations are present with zero totals.
func (r *DonationRepository) TotalsByCities(ctx context.Context, cities []string) (map[string]types.DonorTotals, error) {
	out := make(map[string]types.DonorTotals, len(cities))
	if len(cities) == 0 {
		return out, nil
	}
	for _, city := range cities {
		out[city] = types.DonorTotals{}
	}

	query, args, err := groupedTotalsQuery(cities).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate grouped donation totals query: %w", err)
	}

	var rows []*cityTotals
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grouped donation totals: %w", err)
	}

	for _, row := range rows {
		out[row.City] = row.DonorTotals
	}

	return out, nil
}

func (r *DonationRepository) CreateDonation(ctx context.Context, donation *types.Donation) error {
	query, args, err := psql().
		Insert(donationTableName).
		SetMap(utils.StructToMap(donation, "id")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create donation query: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&donation.ID)
	return utils.ErrorWrapOrNil(err, "failed to create donation")
}

func (r *DonationRepository) UpdateDonation(ctx context.Context, donationID int64, donation *types.Donation) error {
	donation.ID = donationID

	query, args, err := psql().
		Update(donationTableName).
		SetMap(utils.StructToMap(donation, "id")).
		Where(sq.Eq{"id": donationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update donation query for donation %d: %w", donationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update donation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonationNotFound
	}

	return nil
}

func (r *DonationRepository) DeleteDonation(ctx context.Context, donationID int64) error {
	query, args, err := psql().Delete(donationTableName).Where(sq.Eq{"id": donationID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete donation query for donation %d: %w", donationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete donation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonationNotFound
	}

	return nil
}
