// Package app wires configuration, storage and domain services into the
// HTTP router and the side-effect worker.
package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petsitter/internal/config"
	"petsitter/internal/domain/booking"
	"petsitter/internal/domain/chat"
	"petsitter/internal/domain/discovery"
	"petsitter/internal/domain/notification"
	"petsitter/internal/domain/profile"
	"petsitter/internal/domain/review"
	"petsitter/internal/middleware"
	jwtsvc "petsitter/internal/pkg/jwt"
	"petsitter/internal/pkg/response"
	"petsitter/internal/sideeffect"
)

const tokenTTL = 24 * time.Hour

// Deps are the process-wide handles every command needs.
type Deps struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Redis  *redis.Client
}

func NewJWT(cfg *config.Config) *jwtsvc.Service {
	return jwtsvc.New(cfg.JWTSecret, tokenTTL)
}

func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
}

type Services struct {
	ProfileRepo   profile.Repository
	Ledger        booking.Ledger
	Profiles      *profile.Service
	Discovery     *discovery.Service
	Chats         *chat.Service
	Notifications *notification.Service
	Reviews       *review.Service
	Bookings      *booking.Service
	Runner        *sideeffect.Runner
	Dispatcher    sideeffect.Dispatcher

	closers []func() error
}

func NewServices(d Deps) *Services {
	cfg := d.Config
	s := &Services{
		ProfileRepo: profile.NewRepository(d.DB),
		Ledger:      booking.NewLedger(d.DB),
	}

	s.Profiles = profile.NewService(s.ProfileRepo, s.Ledger, d.Log.Named("profile"))
	s.Discovery = discovery.NewService(
		discovery.NewGeoIndex(d.DB),
		s.ProfileRepo,
		s.Ledger,
		d.Redis,
		discovery.Options{DefaultRadiusMeters: cfg.DefaultSearchRadiusM, CacheTTL: cfg.DiscoveryCacheTTL},
		d.Log.Named("discovery"),
	)
	s.Chats = chat.NewService(chat.NewRepository(d.DB))
	s.Notifications = notification.NewService(notification.NewRepository(d.DB), d.Log.Named("notification"))

	var publisher sideeffect.Publisher
	if cfg.AMQPURL != "" {
		amqpPub := sideeffect.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue, d.Log.Named("events"))
		publisher = amqpPub
		s.closers = append(s.closers, amqpPub.Close)
	}
	s.Runner = sideeffect.NewRunner(s.Chats, s.Notifications, publisher, s.Discovery)

	inline := sideeffect.NewInline(s.Runner, cfg.SideEffectTimeout, d.Log.Named("sideeffect"))
	s.Dispatcher = inline
	if cfg.SideEffectMode == config.SideEffectModeQueue {
		client := asynq.NewClient(RedisOpt(cfg))
		s.closers = append(s.closers, client.Close)
		s.Dispatcher = sideeffect.NewQueue(client, inline, cfg.SideEffectTimeout, d.Log.Named("sideeffect"))
	}

	s.Reviews = review.NewService(review.NewRepository(d.DB), s.ProfileRepo, s.Dispatcher, d.Log.Named("review"))
	s.Bookings = booking.NewService(s.Ledger, s.ProfileRepo, s.Chats, s.Dispatcher, d.Log.Named("booking"))
	return s
}

func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func NewRouter(d Deps, s *Services, jwt *jwtsvc.Service) *gin.Engine {
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log.Named("http")),
		middleware.CORS(d.Config.AllowedOrigins()),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := middleware.NewRateLimiter(d.Config.RateLimitRPS, d.Config.RateLimitBurst, d.Log.Named("ratelimit"))

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwt))
	{
		profile.NewHandler(s.Profiles).RegisterRoutes(protected)
		discovery.NewHandler(s.Discovery).RegisterRoutes(protected, limiter.Middleware())
		booking.NewHandler(s.Bookings).RegisterRoutes(protected)
		review.NewHandler(s.Reviews).RegisterRoutes(protected)
		notification.NewHandler(s.Notifications).RegisterRoutes(protected)
		chat.NewHandler(s.Chats).RegisterRoutes(protected)
	}
	return r
}
