package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donaciones/internal/auth"
	"donaciones/internal/authz"
	"donaciones/internal/captcha"
	"donaciones/internal/db"
	"donaciones/internal/mail"
	"donaciones/internal/server"
	"donaciones/internal/store"
	"donaciones/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := configFromContext(cCtx)
	if err != nil {
		return err
	}

	logger := newLogger(config)

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	donorRepo := store.NewDonorRepository(pool)
	donationRepo := store.NewDonationRepository(pool)
	lowIncomeRepo := store.NewLowIncomeRepository(pool)
	zooRepo := store.NewZooRepository(pool)

	verifier, err := auth.NewJWKSVerifier(ctx, config.CognitoIssuerURL, config.CognitoStaffGroup)
	if err != nil {
		return err
	}

	enforcer, err := authz.New(authz.DefaultPolicies)
	if err != nil {
		return err
	}

	srv, err := server.New(
		config,
		logger,
		cognitoClient,
		verifier,
		enforcer,
		donorRepo,
		donationRepo,
		lowIncomeRepo,
		zooRepo,
		newMailer(config, logger),
		newCaptcha(config, logger),
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

func newMailer(config *types.Config, logger *logrus.Logger) server.MailSender {
	if config.SMTPHost == "" {
		logger.Warn("SMTP_HOST is not set, confirmation mails will only be logged")
		return mail.NewLogSender(logger)
	}

	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     config.SMTPHost,
		Port:     config.SMTPPort,
		Username: config.SMTPUsername,
		Password: config.SMTPPassword,
		From:     config.SMTPFrom,
	})
}

func newCaptcha(config *types.Config, logger *logrus.Logger) server.CaptchaVerifier {
	if config.RecaptchaSecret == "" {
		logger.Warn("RECAPTCHA_SECRET is not set, captcha verification is disabled")
		return captcha.Disabled{}
	}

	return captcha.NewRecaptcha(config.RecaptchaSecret)
}
