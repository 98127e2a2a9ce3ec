package main

import (
	"fmt"

	"donaciones/internal/db"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:      "migrate",
	Usage:     "Apply, roll back or list database migrations",
	ArgsUsage: "[up|down|status]",
	Action: func(cCtx *cli.Context) error {
		direction, err := db.ParseDirection(cCtx.Args().First())
		if err != nil {
			return err
		}

		config, err := configFromContext(cCtx)
		if err != nil {
			return err
		}

		logger := newLogger(config)

		pool, err := db.Connect(cCtx.Context, config)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		return db.Migrate(cCtx.Context, logger, pool, direction)
	},
}
