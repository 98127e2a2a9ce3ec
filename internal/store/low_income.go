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

var lowIncomeColumns = utils.StructTagValues(types.LowIncomeAllocation{})

type LowIncomeRepository struct {
	pool *pgxpool.Pool
}

func NewLowIncomeRepository(pool *pgxpool.Pool) *LowIncomeRepository {
	return &LowIncomeRepository{pool: pool}
}

func (r *LowIncomeRepository) LowIncome(ctx context.Context, id int64) (*types.LowIncomeAllocation, error) {
	query, args, err := psql().
		Select(lowIncomeColumns...).
		From(lowIncomeTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate low income query: %w", err)
	}

	var alloc types.LowIncomeAllocation
	err = pgxscan.Get(ctx, r.pool, &alloc, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrLowIncomeNotFound
		}
		return nil, fmt.Errorf("failed to fetch low income allocation: %w", err)
	}

	return &alloc, nil
}

func (r *LowIncomeRepository) LowIncomes(ctx context.Context) ([]*types.LowIncomeAllocation, error) {
	query, args, err := psql().
		Select(lowIncomeColumns...).
		From(lowIncomeTableName).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate low incomes query: %w", err)
	}

	var allocs []*types.LowIncomeAllocation
	err = pgxscan.Select(ctx, r.pool, &allocs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low income allocations: %w", err)
	}

	return allocs, nil
}

func (r *LowIncomeRepository) Count(ctx context.Context) (int, error) {
	query, args, err := psql().Select("count(*)").From(lowIncomeTableName).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate low income count query: %w", err)
	}

	var count int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, utils.ErrorWrapOrNil(err, "failed to count low income allocations")
}

func (r *LowIncomeRepository) CreateLowIncome(ctx context.Context, alloc *types.LowIncomeAllocation) error {
	query, args, err := psql().
		Insert(lowIncomeTableName).
		SetMap(utils.StructToMap(alloc, "id")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create low income query: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&alloc.ID)
	return utils.ErrorWrapOrNil(err, "failed to create low income allocation")
}

func (r *LowIncomeRepository) UpdateLowIncome(ctx context.Context, id int64, alloc *types.LowIncomeAllocation) error {
	alloc.ID = id

	query, args, err := psql().
		Update(lowIncomeTableName).
		SetMap(utils.StructToMap(alloc, "id")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update low income query for %d: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update low income allocation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrLowIncomeNotFound
	}

	return nil
}

func (r *LowIncomeRepository) DeleteLowIncome(ctx context.Context, id int64) error {
	query, args, err := psql().Delete(lowIncomeTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete low income query for %d: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete low income allocation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrLowIncomeNotFound
	}

	return nil
}
