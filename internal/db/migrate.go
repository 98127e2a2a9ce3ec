package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStatus Direction = "status"
)

// ParseDirection maps a command argument onto a Direction, defaulting to up.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "", DirectionUp:
		return DirectionUp, nil
	case DirectionDown, DirectionStatus:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown migration direction %q, expected up, down or status", s)
}

// Migrate runs the embedded goose migrations against the pool. Down rolls back
// a single version.
func Migrate(ctx context.Context, logger *logrus.Logger, pool *pgxpool.Pool, direction Direction) error {

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(migrations)
	goose.SetTableName("public.goose_db_version")
	goose.SetLogger(logger)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	current, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	logger.WithField("version", current).WithField("direction", direction).Info("running migrations")

	switch direction {
	case DirectionUp:
		err = goose.UpContext(ctx, sqlDB, "migrations")
	case DirectionDown:
		err = goose.DownContext(ctx, sqlDB, "migrations")
	case DirectionStatus:
		err = goose.StatusContext(ctx, sqlDB, "migrations")
	default:
		err = fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", direction, err)
	}

	final, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final migration version: %w", err)
	}

	logger.WithField("from_version", current).WithField("to_version", final).Info("migrations complete")

	return nil
}
