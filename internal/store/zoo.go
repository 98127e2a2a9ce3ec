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

var zooColumns = utils.StructTagValues(types.ZooAllocation{})

type ZooRepository struct {
	pool *pgxpool.Pool
}

func NewZooRepository(pool *pgxpool.Pool) *ZooRepository {
	return &ZooRepository{pool: pool}
}

func (r *ZooRepository) Zoo(ctx context.Context, id int64) (*types.ZooAllocation, error) {
	query, args, err := psql().
		Select(zooColumns...).
		From(zooTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate zoo query: %w", err)
	}

	var alloc types.ZooAllocation
	err = pgxscan.Get(ctx, r.pool, &alloc, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrZooNotFound
		}
		return nil, fmt.Errorf("failed to fetch zoo allocation: %w", err)
	}

	return &alloc, nil
}

func (r *ZooRepository) Zoos(ctx context.Context) ([]*types.ZooAllocation, error) {
	query, args, err := psql().
		Select(zooColumns...).
		From(zooTableName).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate zoos query: %w", err)
	}

	var allocs []*types.ZooAllocation
	err = pgxscan.Select(ctx, r.pool, &allocs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch zoo allocations: %w", err)
	}

	return allocs, nil
}

func (r *ZooRepository) Count(ctx context.Context) (int, error) {
	query, args, err := psql().Select("count(*)").From(zooTableName).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate zoo count query: %w", err)
	}

	var count int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, utils.ErrorWrapOrNil(err, "failed to count zoo allocations")
}

func (r *ZooRepository) CreateZoo(ctx context.Context, alloc *types.ZooAllocation) error {
	query, args, err := psql().
		Insert(zooTableName).
		SetMap(utils.StructToMap(alloc, "id")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create zoo query: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&alloc.ID)
	return utils.ErrorWrapOrNil(err, "failed to create zoo allocation")
}

func (r *ZooRepository) UpdateZoo(ctx context.Context, id int64, alloc *types.ZooAllocation) error {
	alloc.ID = id

	query, args, err := psql().
		Update(zooTableName).
		SetMap(utils.StructToMap(alloc, "id")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update zoo query for %d: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update zoo allocation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrZooNotFound
	}

	return nil
}

func (r *ZooRepository) DeleteZoo(ctx context.Context, id int64) error {
	query, args, err := psql().Delete(zooTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete zoo query for %d: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete zoo allocation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrZooNotFound
	}

	return nil
}
