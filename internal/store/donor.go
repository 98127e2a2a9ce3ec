package store

import (
	"context"
	"fmt"
	"strings"

	"donaciones/internal/utils"
	"donaciones/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

var donorColumns = utils.StructTagValues(types.Donor{})

type DonorRepository struct {
	pool *pgxpool.Pool
}

func NewDonorRepository(pool *pgxpool.Pool) *DonorRepository {
	return &DonorRepository{pool: pool}
}

func (r *DonorRepository) Donor(ctx context.Context, donorID int64) (*types.Donor, error) {
	query, args, err := psql().
		Select(donorColumns...).
		From(donorTableName).
		Where(sq.Eq{"id": donorID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor query: %w", err)
	}

	var donor types.Donor
	err = pgxscan.Get(ctx, r.pool, &donor, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonorNotFound
		}
		return nil, fmt.Errorf("failed to fetch donor: %w", err)
	}

	return &donor, nil
}

func (r *DonorRepository) DonorByEmail(ctx context.Context, email string) (*types.Donor, error) {
	query, args, err := psql().
		Select(donorColumns...).
		From(donorTableName).
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor by email query: %w", err)
	}

	var donor types.Donor
	err = pgxscan.Get(ctx, r.pool, &donor, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonorNotFound
		}
		return nil, fmt.Errorf("failed to fetch donor by email: %w", err)
	}

	return &donor, nil
}

// donorsQuery applies the list filters. Search matches name, city or email
// case-insensitively.
// likeEscaper makes LIKE wildcards in user input match literally. Postgres
// treats backslash as the default LIKE escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func donorsQuery(filter types.DonorFilter) sq.SelectBuilder {
	q := psql().
		Select(donorColumns...).
		From(donorTableName).
		OrderBy("registration_date DESC NULLS LAST", "id DESC")

	if filter.Classification != "" {
		q = q.Where(sq.Eq{"classification": filter.Classification})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": filter.Status})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		q = q.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"city": pattern},
			sq.ILike{"email": pattern},
		})
	}

	return q
}

func (r *DonorRepository) Donors(ctx context.Context, filter types.DonorFilter) ([]*types.Donor, error) {
	query, args, err := donorsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donors query: %w", err)
	}

	var donors []*types.Donor
	err = pgxscan.Select(ctx, r.pool, &donors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donors: %w", err)
	}

	return donors, nil
}

// Cities lists the distinct donor cities.
func (r *DonorRepository) Cities(ctx context.Context) ([]string, error) {
	query, args, err := psql().
		Select("DISTINCT city").
		From(donorTableName).
		Where(sq.NotEq{"city": ""}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor cities query: %w", err)
	}

	var cities []string
	err = pgxscan.Select(ctx, r.pool, &cities, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor cities: %w", err)
	}

	return utils.UniqueSpanish(cities), nil
}

// EmailInUse reports whether another donor than excludeID registered email.
func (r *DonorRepository) EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	query, args, err := psql().
		Select("count(*)").
		From(donorTableName).
		Where(sq.Eq{"email": email}).
		Where(sq.NotEq{"id": excludeID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate donor email query: %w", err)
	}

	var count int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check donor email: %w", err)
	}

	return count > 0, nil
}

func (r *DonorRepository) Count(ctx context.Context) (int, error) {
	query, args, err := psql().Select("count(*)").From(donorTableName).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate donor count query: %w", err)
	}

	var count int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, utils.ErrorWrapOrNil(err, "failed to count donors")
}

// createDonorQuery leaves registration_date to the column default when the
// donor carries none.
func createDonorQuery(donor *types.Donor) sq.InsertBuilder {
	m := utils.StructToMap(donor, "id")
	if donor.RegistrationDate == nil {
		delete(m, "registration_date")
	}

	return psql().
		Insert(donorTableName).
		SetMap(m).
		Suffix("RETURNING id")
}

func (r *DonorRepository) CreateDonor(ctx context.Context, donor *types.Donor) error {
	query, args, err := createDonorQuery(donor).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create donor query: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&donor.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create donor: %w", err)
	}

	return nil
}

// UpdateDonor replaces every column of the donor. The registration date is
// kept when the caller leaves it nil.
func (r *DonorRepository) UpdateDonor(ctx context.Context, donorID int64, donor *types.Donor) error {
	donor.ID = donorID

	m := utils.StructToMap(donor, "id")
	if donor.RegistrationDate == nil {
		delete(m, "registration_date")
	}

	query, args, err := psql().
		Update(donorTableName).
		SetMap(m).
		Where(sq.Eq{"id": donorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update donor query for donor %d: %w", donorID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update donor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonorNotFound
	}

	return nil
}

// DeleteDonor removes the donor only. Donations recorded under its city stay.
func (r *DonorRepository) DeleteDonor(ctx context.Context, donorID int64) error {
	query, args, err := psql().Delete(donorTableName).Where(sq.Eq{"id": donorID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete donor query for donor %d: %w", donorID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete donor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonorNotFound
	}

	return nil
}
