package app

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/court-rental-backend/internal/announcement"
	"github.com/nekogravitycat/court-rental-backend/internal/api"
	"github.com/nekogravitycat/court-rental-backend/internal/auth"
	"github.com/nekogravitycat/court-rental-backend/internal/booking"
	"github.com/nekogravitycat/court-rental-backend/internal/coupon"
	"github.com/nekogravitycat/court-rental-backend/internal/court"
	"github.com/nekogravitycat/court-rental-backend/internal/events"
	"github.com/nekogravitycat/court-rental-backend/internal/file"
	"github.com/nekogravitycat/court-rental-backend/internal/payment"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/clock"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/storage"
	"github.com/nekogravitycat/court-rental-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction    bool
	ClientOrigin    string
	DBPool          *pgxpool.Pool
	SQLX            *sqlx.DB
	Publisher       events.Publisher
	Logger          logrus.FieldLogger
	JWTSecret       string
	JWTTTL          time.Duration
	BcryptCost      int
	StripeSecretKey string
	StoragePath     string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	clk := clock.NewRealClock()

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, errors.Wrap(err, "init file storage")
	}

	// User Module
	userRepo := user.NewSQLXRepository(cfg.SQLX)
	userService := user.NewService(userRepo, passwordHasher, clk)

	// File Module
	fileRepo := file.NewPgxRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, store, clk, cfg.Logger)

	// Court Module
	courtRepo := court.NewPgxRepository(cfg.DBPool)
	courtService := court.NewService(courtRepo)

	// Payment Module
	ledger := payment.NewSQLXLedger(cfg.SQLX)
	gateway := payment.NewStripeGateway(cfg.StripeSecretKey)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, ledger, userService, cfg.Publisher, clk, cfg.Logger)

	// Coupon Module
	couponRepo := coupon.NewPgxRepository(cfg.DBPool)
	couponService := coupon.NewService(couponRepo, clk)

	// Announcement Module
	annStore := announcement.NewPgxStore(cfg.DBPool)
	annService := announcement.NewService(annStore)

	// Router
	router, err := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ClientOrigin:   cfg.ClientOrigin,
		Logger:         cfg.Logger,
		JWTManager:     jwtManager,
		UserService:    userService,
		CourtService:   courtService,
		FileService:    fileService,
		BookingService: bookingService,
		CouponService:  couponService,
		AnnService:     annService,
		PaymentLedger:  ledger,
		PaymentGateway: gateway,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init router")
	}

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
