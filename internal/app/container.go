package app

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/config"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/photo"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

const metricsNamespace = "shareit"

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction  bool
	ProdOrigins   string
	DBPool        *pgxpool.Pool
	JWTSecret     string
	JWTTTL        time.Duration
	BcryptCost    int
	Logger        *slog.Logger
	Storage       storage.Storage
	Policy        config.Policy
	MetricsPath   string
	MaxPhotoBytes int64
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Registry   *prometheus.Registry
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	log := cfg.Logger

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(metricsNamespace, registry)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, log.With(slog.String("module", "user")))

	// Photo Module
	photoRepo := photo.NewRepository(cfg.DBPool)
	photoService := photo.NewService(photoRepo, cfg.Storage, log.With(slog.String("module", "photo")))

	// Item Module
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, userService, photoService, log.With(slog.String("module", "item")))

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(
		bookingRepo,
		itemService,
		userService,
		booking.Policy{
			ExposeForbidden:            cfg.Policy.Booking.ExposeForbidden,
			RejectOverlappingApprovals: cfg.Policy.Booking.RejectOverlappingApprovals,
		},
		log.With(slog.String("module", "booking")),
		booking.WithMetrics(appMetrics),
	)
	availability := booking.NewAvailabilityView(bookingRepo, nil)

	// Comment Module
	commentRepo := comment.NewPgxRepository(cfg.DBPool)
	commentService := comment.NewService(commentRepo, itemService, userService, availability, log.With(slog.String("module", "comment")))

	// Item Request Module
	requestRepo := itemrequest.NewPgxRepository(cfg.DBPool)
	requestService := itemrequest.NewService(requestRepo, userService, itemService, log.With(slog.String("module", "itemrequest")))

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		Logger:             log,
		Metrics:            appMetrics,
		Gatherer:           registry,
		MetricsPath:        cfg.MetricsPath,
		DefaultPageSize:    cfg.Policy.Paging.DefaultPageSize,
		MaxPageSize:        cfg.Policy.Paging.MaxPageSize,
		MaxPhotoBytes:      cfg.MaxPhotoBytes,
		UserService:        userService,
		ItemService:        itemService,
		BookingService:     bookingService,
		AvailabilityView:   availability,
		CommentService:     commentService,
		ItemRequestService: requestService,
		PhotoService:       photoService,
		JWTManager:         jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Registry:   registry,
	}
}
