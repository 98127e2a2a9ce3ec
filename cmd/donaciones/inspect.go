package main

import (
	"fmt"

	"donaciones/internal/db"
	"donaciones/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var inspectDonorCommand = &cli.Command{
	Name:  "inspect-donor",
	Usage: "Print a donor with its donation totals",
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:     "id",
			Usage:    "Donor id",
			Required: true,
		},
	},
	Action: func(cCtx *cli.Context) error {
		config, err := configFromContext(cCtx)
		if err != nil {
			return err
		}

		ctx := cCtx.Context

		pool, err := db.Connect(ctx, config)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		donor, err := store.NewDonorRepository(pool).Donor(ctx, cCtx.Int64("id"))
		if err != nil {
			return err
		}

		totals, err := store.NewDonationRepository(pool).TotalsByCity(ctx, donor.City)
		if err != nil {
			return err
		}

		_, err = pp.Println(donor, totals)
		return err
	},
}
