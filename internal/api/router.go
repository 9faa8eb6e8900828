package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streetfare/booking-api/internal/api/handler"
	"github.com/streetfare/booking-api/internal/api/middleware"
	"github.com/streetfare/booking-api/internal/core/domain"
	"github.com/streetfare/booking-api/internal/core/service"
	"github.com/streetfare/booking-api/internal/infrastructure/config"
	mongorepo "github.com/streetfare/booking-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/streetfare/booking-api/internal/infrastructure/db/redis"
	"github.com/streetfare/booking-api/internal/infrastructure/email"
	"github.com/streetfare/booking-api/internal/infrastructure/geocode"
	"github.com/streetfare/booking-api/internal/infrastructure/queue"
)

const tokenTTL = 24 * time.Hour

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the fan-out dispatcher, which the caller must Start.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("booking"))

	// --- Repositories ---
	requestRepo := mongorepo.NewRequestRepository(db)
	profileRepo := mongorepo.NewProfileRepository(db)
	truckRepo := mongorepo.NewTruckRepository(db)
	notificationRepo := mongorepo.NewNotificationRepository(db)
	releaseRepo := mongorepo.NewReleaseRepository(db)
	credentialRepo := mongorepo.NewCredentialRepository(db)

	// --- Side-effect infrastructure ---
	displayZone, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		log.Warn().Str("timezone", cfg.DisplayTimezone).Msg("unknown display timezone, falling back to UTC")
		displayZone = time.UTC
	}
	emailClient := email.NewClient(email.Config{APIKey: cfg.Email.APIKey, From: cfg.Email.From})
	geocodeClient := geocode.NewClient("", cfg.Geocode.UserAgent)
	dedup := redisinfra.NewDedupChecker(rdb)

	// --- Services ---
	fanoutService := service.NewFanoutService(
		requestRepo, truckRepo, profileRepo, notificationRepo,
		emailClient, dedup, displayZone, log,
	)
	dispatcher := queue.NewDispatcher(cfg.FanoutWorkers, fanoutService, log)

	requestService := service.NewRequestService(requestRepo, truckRepo, dispatcher, log)
	scheduleService := service.NewScheduleService(requestRepo, truckRepo, log)
	truckService := service.NewTruckService(truckRepo, log)
	releaseService := service.NewReleaseService(releaseRepo, log)
	identityService := service.NewIdentityService(profileRepo, log)
	authService := service.NewAuthService(credentialRepo, profileRepo, cfg.JWTSecret, tokenTTL)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, identityService)
	requestHandler := handler.NewRequestHandler(requestService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService, cfg.DisplayTimezone)
	truckHandler := handler.NewTruckHandler(truckService)
	adminHandler := handler.NewAdminHandler(identityService, truckService, releaseService)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	geocodeHandler := handler.NewGeocodeHandler(geocodeClient)
	healthHandler := handler.NewHealthHandler(db, rdb)

	// --- Middleware gates ---
	auth := middleware.Auth(cfg.JWTSecret)
	anyRole := middleware.RoleGate(identityService,
		domain.RoleTruckOwner, domain.RoleBusinessOwner, domain.RoleAdmin)
	businessGate := middleware.RoleGate(identityService, domain.RoleBusinessOwner, domain.RoleAdmin)
	truckGate := middleware.RoleGate(identityService, domain.RoleTruckOwner, domain.RoleAdmin)
	adminGate := middleware.RoleGate(identityService, domain.RoleAdmin)

	// --- Public routes ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/v1/schedule", scheduleHandler.Day)
	e.GET("/v1/releases/active", adminHandler.ActiveRelease)

	// --- Authenticated, no role required ---
	e.GET("/v1/me", authHandler.Me, auth)

	// --- Any assigned role ---
	e.GET("/v1/notifications", notificationHandler.List, auth, anyRole)
	e.GET("/v1/geocode", geocodeHandler.Search, auth, anyRole)

	// --- Business owners (and admins) ---
	e.POST("/v1/requests", requestHandler.Create, auth, businessGate)
	e.GET("/v1/requests", requestHandler.List, auth, businessGate)
	e.POST("/v1/requests/:id/cancel", requestHandler.Cancel, auth, businessGate)

	// --- Truck owners (and admins) ---
	e.GET("/v1/requests/inbox", requestHandler.Inbox, auth, truckGate)
	e.POST("/v1/requests/:id/accept", requestHandler.Accept, auth, truckGate)
	e.POST("/v1/requests/:id/ignore", requestHandler.Ignore, auth, truckGate)
	e.POST("/v1/trucks", truckHandler.Register, auth, truckGate)
	e.PATCH("/v1/trucks/:id/active", truckHandler.SetActive, auth, truckGate)

	// --- Admin surface ---
	admin := e.Group("/v1/admin", auth, adminGate)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/role", adminHandler.AssignRole)
	admin.GET("/trucks", adminHandler.ListTrucks)
	admin.POST("/releases", adminHandler.CreateRelease)
	admin.POST("/releases/:id/activate", adminHandler.ActivateRelease)

	return e, dispatcher
}
