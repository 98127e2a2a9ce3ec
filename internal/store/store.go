// Package store persists donors, donations and allocations in Postgres.
package store

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	donorTableName     = "donaciones.donor"
	donationTableName  = "donaciones.donaciones"
	lowIncomeTableName = "donaciones.bajo_recursos"
	zooTableName       = "donaciones.zoo"
)

const uniqueViolation = "23505"

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
