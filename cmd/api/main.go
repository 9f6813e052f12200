package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/parishops/parish-api/config"
	"github.com/parishops/parish-api/internal/email"
	appointmentHandler "github.com/parishops/parish-api/internal/handler/appointment"
	authHandler "github.com/parishops/parish-api/internal/handler/auth"
	catalogHandler "github.com/parishops/parish-api/internal/handler/catalog"
	healthHandler "github.com/parishops/parish-api/internal/handler/health"
	paymentHandler "github.com/parishops/parish-api/internal/handler/payment"
	purchaseHandler "github.com/parishops/parish-api/internal/handler/purchase"
	reportHandler "github.com/parishops/parish-api/internal/handler/report"
	userHandler "github.com/parishops/parish-api/internal/handler/user"
	"github.com/parishops/parish-api/internal/middleware"
	"github.com/parishops/parish-api/internal/repository/postgres"
	redisrepo "github.com/parishops/parish-api/internal/repository/redis"
	"github.com/parishops/parish-api/internal/router"
	"github.com/parishops/parish-api/internal/scheduling"
	appointmentService "github.com/parishops/parish-api/internal/service/appointment"
	authService "github.com/parishops/parish-api/internal/service/auth"
	catalogService "github.com/parishops/parish-api/internal/service/catalog"
	paymentService "github.com/parishops/parish-api/internal/service/payment"
	purchaseService "github.com/parishops/parish-api/internal/service/purchase"
	reportService "github.com/parishops/parish-api/internal/service/report"
	userService "github.com/parishops/parish-api/internal/service/user"
	"github.com/parishops/parish-api/pkg/auth"
	"github.com/parishops/parish-api/pkg/logger"
	"github.com/parishops/parish-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	tokenRepo, err := redisrepo.NewTokenRepository(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	serviceRepo := postgres.NewServiceRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	requirementRepo := postgres.NewRequirementRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	productRepo := postgres.NewProductRepository(db)
	purchaseRepo := postgres.NewPurchaseRepository(db)
	userRepo := postgres.NewUserRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	mailer := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	schedCfg := scheduling.Config{
		OpenMinute:    cfg.Scheduling.OpenHour * 60,
		CloseMinute:   cfg.Scheduling.CloseHour * 60,
		StepMinutes:   cfg.Scheduling.SlotMinutes,
		BufferMinutes: cfg.Scheduling.BufferMinutes,
	}

	catalogSvc := catalogService.NewService(serviceRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, serviceRepo, requirementRepo, schedCfg, nil)
	paymentSvc := paymentService.NewService(paymentRepo, appointmentRepo, serviceRepo, mailer, appLogger)
	purchaseSvc := purchaseService.NewService(purchaseRepo, productRepo)
	reportSvc := reportService.NewService(reportRepo, paymentRepo, purchaseRepo)
	userSvc := userService.NewService(userRepo, hasher)
	authSvc := authService.NewService(userRepo, tokenRepo, jwtSvc, hasher, appLogger)

	middleware.RegisterValidators()
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	authH := authHandler.NewHandler(authSvc)
	r := router.New(
		authMiddleware,
		authH,
		healthHandler.NewHandler(db),
		authH,
		[]router.Handler{
			appointmentHandler.NewHandler(appointmentSvc),
			catalogHandler.NewHandler(catalogSvc),
			paymentHandler.NewHandler(paymentSvc),
			purchaseHandler.NewHandler(purchaseSvc),
			reportHandler.NewHandler(reportSvc),
		},
		[]router.Handler{
			userHandler.NewHandler(userSvc),
		},
		router.Config{
			RateLimit:  rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:  cfg.Server.RateLimitBurst,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
