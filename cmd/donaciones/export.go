package main

import (
	"bytes"
	"fmt"
	"time"

	"donaciones/internal/db"
	"donaciones/internal/export"
	"donaciones/internal/storage"
	"donaciones/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v2"
)

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "Upload the donation ledger as CSV to S3",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "bucket",
			Aliases: []string{"b"},
			Usage:   "Destination bucket, defaults to EXPORT_BUCKET",
		},
		&cli.StringFlag{
			Name:    "key",
			Aliases: []string{"k"},
			Usage:   "Object key, defaults to a timestamped name",
		},
	},
	Action: func(cCtx *cli.Context) error {
		config, err := configFromContext(cCtx)
		if err != nil {
			return err
		}

		logger := newLogger(config)
		ctx := cCtx.Context

		bucket := cCtx.String("bucket")
		if bucket == "" {
			bucket = config.ExportBucket
		}

		key := cCtx.String("key")
		if key == "" {
			key = export.ObjectKey(time.Now())
		}

		pool, err := db.Connect(ctx, config)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		donations, err := store.NewDonationRepository(pool).Donations(ctx)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := export.WriteDonationsCSV(&buf, donations); err != nil {
			return err
		}

		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		uploader := storage.NewS3Storage(s3.NewFromConfig(awsConfig), bucket)
		location, err := uploader.UploadFile(ctx, key, &buf, "text/csv")
		if err != nil {
			return err
		}

		logger.WithField("location", location).WithField("donations", len(donations)).Info("donations exported")

		return nil
	},
}
