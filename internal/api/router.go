package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/court-rental-backend/internal/announcement"
	annHttp "github.com/nekogravitycat/court-rental-backend/internal/announcement/http"
	"github.com/nekogravitycat/court-rental-backend/internal/auth"
	"github.com/nekogravitycat/court-rental-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/court-rental-backend/internal/booking/http"
	"github.com/nekogravitycat/court-rental-backend/internal/coupon"
	couponHttp "github.com/nekogravitycat/court-rental-backend/internal/coupon/http"
	"github.com/nekogravitycat/court-rental-backend/internal/court"
	courtHttp "github.com/nekogravitycat/court-rental-backend/internal/court/http"
	"github.com/nekogravitycat/court-rental-backend/internal/file"
	fileHttp "github.com/nekogravitycat/court-rental-backend/internal/file/http"
	"github.com/nekogravitycat/court-rental-backend/internal/logger"
	"github.com/nekogravitycat/court-rental-backend/internal/payment"
	paymentHttp "github.com/nekogravitycat/court-rental-backend/internal/payment/http"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
	"github.com/nekogravitycat/court-rental-backend/internal/user"
	userHttp "github.com/nekogravitycat/court-rental-backend/internal/user/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ClientOrigin string
	Logger       logrus.FieldLogger
	JWTManager   *auth.JWTManager

	UserService    user.Service
	CourtService   court.Service
	FileService    file.Service
	BookingService booking.Service
	CouponService  coupon.Service
	AnnService     announcement.Service
	PaymentLedger  payment.Ledger
	PaymentGateway payment.Gateway
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if err := request.RegisterValidators(); err != nil {
		return nil, err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	// - Logger: One structured line per request.
	r.Use(gin.Recovery(), logger.Middleware(cfg.Logger))

	// The client sends the token cookie, so credentials must be allowed for its origin.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.ClientOrigin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates the token cookie.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks the stored role of the authenticated user.
	adminMiddleware := RequireAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager, cfg.IsProduction)
	fileHandler := fileHttp.NewHandler(cfg.FileService)
	courtHandler := courtHttp.NewHandler(cfg.CourtService, fileHandler)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.UserService)
	paymentHandler := paymentHttp.NewHandler(cfg.PaymentLedger, cfg.PaymentGateway, cfg.UserService)
	couponHandler := couponHttp.NewHandler(cfg.CouponService)
	annHandler := annHttp.NewHandler(cfg.AnnService)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Envelope{Success: true, Message: "ok"})
	})

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler, authMiddleware, adminMiddleware)
		fileHttp.RegisterRoutes(root, fileHandler)
		courtHttp.RegisterRoutes(root, courtHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(root, bookingHandler, authMiddleware, adminMiddleware)
		paymentHttp.RegisterRoutes(root, paymentHandler, authMiddleware)
		couponHttp.RegisterRoutes(root, couponHandler, authMiddleware, adminMiddleware)
		annHttp.RegisterRoutes(root, annHandler, authMiddleware, adminMiddleware)
	}

	return r, nil
}
