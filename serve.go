package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"psetu-backend/config"
	"psetu-backend/controllers"
	db "psetu-backend/database"
	"psetu-backend/esewa"
	"psetu-backend/gcs"
	"psetu-backend/inference"
	"psetu-backend/routes"
	"psetu-backend/services"
	"psetu-backend/utils"

	"github.com/gin-gonic/gin"
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

	cfg, err := config.Load(logrus.StandardLogger())
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer db.Disconnect(client, logger)
	logger.WithField("database", cfg.MongoDatabase).Info("connected to mongodb")

	database := client.Database(cfg.MongoDatabase)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		return err
	}

	var notifier services.ContactNotifier
	if cfg.MailEnabled() {
		notifier = utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom, cfg.EmailPass, cfg.ContactNotifyTo)
	} else {
		logger.Info("contact notifications disabled, EMAIL_FROM, EMAIL_PASS or CONTACT_NOTIFY_TO unset")
	}

	var uploader services.ImageUploader
	if cfg.GCSBucket != "" {
		gcsUploader, err := gcs.NewUploader(ctx, cfg.GCSBucket, cfg.GCSCredentials, logger)
		if err != nil {
			return err
		}
		defer gcsUploader.Close()
		uploader = gcsUploader
	} else {
		logger.Info("program image uploads disabled, GCS_BUCKET unset")
	}

	if !cfg.PaymentsEnabled() {
		logger.Warn("esewa payments disabled, MERCHANT_ID, SECRET or ESEWAPAYMENT_URL unset")
	}
	gateway := esewa.NewClient(esewa.Config{
		MerchantID: cfg.MerchantID,
		Secret:     cfg.Secret,
		PaymentURL: cfg.PaymentURL,
		StatusURL:  cfg.StatusCheckURL,
		SuccessURL: cfg.SuccessURL,
		FailureURL: cfg.FailureURL,
		Timeout:    cfg.Timeout(),
	})

	contacts := services.NewContactService(db.NewContactRepository(database), notifier, logger)
	payments := services.NewPaymentService(db.NewTransactionRepository(database), gateway, logger)

	deps := &controllers.Deps{
		Logger:    logger,
		Auth:      services.NewAuthService(db.NewUserRepository(database), cfg.JWTSecret, cfg.TokenTTL(), logger),
		Contacts:  contacts,
		Donations: services.NewDonationService(db.NewProgramRepository(database), uploader, logger),
		Payments:  payments,
		Predictor: inference.NewClient(cfg.InferenceURL, cfg.Timeout()),
		Health: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	}

	if cfg.ReconcileSchedule != "" {
		reconciler, err := services.NewReconciler(cfg.ReconcileSchedule, cfg.ReconcileMinAge(), payments, logger)
		if err != nil {
			return err
		}
		reconciler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			reconciler.Stop(stopCtx)
		}()
	}

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.NewRouter(deps, routes.Options{
		Origins:   cfg.Origins(),
		JWTSecret: cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Infof("server starting http://localhost:%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	contacts.Wait()
	logger.Info("server stopped")
	return nil
}
