package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"chartitze/internal/config"
	httpx "chartitze/internal/http"
	"chartitze/internal/mail"
	"chartitze/internal/media"
	"chartitze/internal/mpesa"
	contactsvc "chartitze/internal/services/contact"
	dashboardsvc "chartitze/internal/services/dashboard"
	donationsvc "chartitze/internal/services/donation"
	gallerysvc "chartitze/internal/services/gallery"
	paymentsvc "chartitze/internal/services/payment"
	programsvc "chartitze/internal/services/program"
	volunteersvc "chartitze/internal/services/volunteer"
	"chartitze/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := postgres.MustOpen(ctx, cfg.DB.DSN)
	defer pool.Close()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable; dashboard caching disabled")
			rdb = nil
		}
	}

	var mailer mail.Sender = mail.Disabled{}
	if cfg.SMTP.Host != "" {
		mailer = mail.New(cfg.SMTP)
	}

	var uploader media.Uploader = media.Disabled{}
	if cfg.Cloudinary.CloudName != "" {
		up, err := media.New(cfg.Cloudinary)
		if err != nil {
			log.Fatal().Err(err).Msg("cloudinary init failed")
		}
		uploader = up
	}

	paymentRepo := postgres.NewPaymentRepo(pool)
	donationRepo := postgres.NewDonationRepo(pool)
	programRepo := postgres.NewProgramRepo(pool)
	volunteerRepo := postgres.NewVolunteerRepo(pool)
	galleryRepo := postgres.NewGalleryRepo(pool)
	contactRepo := postgres.NewContactRepo(pool)
	dashboardRepo := postgres.NewDashboardRepo(pool)

	donations := donationsvc.NewService(donationRepo, programRepo, mailer, cfg.App.SiteName, cfg.SMTP.AdminEmail)
	payments := paymentsvc.NewService(paymentRepo, donations, mpesa.New(cfg.Mpesa))
	programs := programsvc.NewService(programRepo)
	volunteers := volunteersvc.NewService(volunteerRepo, mailer, cfg.App.SiteName)
	gallery := gallerysvc.NewService(galleryRepo, uploader)
	contact := contactsvc.NewService(contactRepo, mailer, cfg.App.SiteName, cfg.App.SiteURL)
	dashboard := dashboardsvc.NewService(dashboardRepo, rdb)

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:     cfg,
		Payments:   payments,
		Donations:  donations,
		Programs:   programs,
		Volunteers: volunteers,
		Gallery:    gallery,
		Contact:    contact,
		Dashboard:  dashboard,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("%s API listening on :%s", cfg.App.SiteName, cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server stopped")
}
