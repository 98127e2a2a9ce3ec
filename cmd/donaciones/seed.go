package main

import (
	"fmt"
	"time"

	"donaciones/internal/db"
	"donaciones/internal/seed"
	"donaciones/internal/store"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with sample donors and donations",
	Action: func(cCtx *cli.Context) error {
		config, err := configFromContext(cCtx)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(config)
		ctx := cCtx.Context

		pool, err := db.Connect(ctx, config)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger.Info("connected to database")

		if err := seed.SeedDonors(ctx, logger, store.NewDonorRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed donors: %w", err)
		}

		if err := seed.SeedDonations(ctx, logger, store.NewDonationRepository(pool), time.Now()); err != nil {
			return fmt.Errorf("failed to seed donations: %w", err)
		}

		return nil
	},
}
