package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/weight-pals/weight_pals/internal/auth"
	"github.com/weight-pals/weight_pals/internal/config"
	"github.com/weight-pals/weight_pals/internal/friends"
	"github.com/weight-pals/weight_pals/internal/identity"
	"github.com/weight-pals/weight_pals/internal/middleware"
	"github.com/weight-pals/weight_pals/internal/notification"
	"github.com/weight-pals/weight_pals/internal/revocation"
	"github.com/weight-pals/weight_pals/internal/weightlog"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Registry *revocation.Registry
	Logger   *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Postgres is only optional in dev, where in-memory stores stand in.
	if d.DB == nil && !d.Cfg.IsDev() {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
	if d.Registry == nil {
		d.Registry = revocation.NewRegistry(d.Cache)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var (
		userRepo   identity.Repository
		weightRepo weightlog.Repository
		friendRepo friends.Repository
	)
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
		weightRepo = weightlog.NewPostgresRepository(d.DB)
		friendRepo = friends.NewPostgresRepository(d.DB)
	} else {
		userRepo = identity.NewMemoryRepository()
		weightRepo = weightlog.NewMemoryRepository()
		friendRepo = friends.NewMemoryRepository()
	}

	authSvc := auth.NewService(auth.Deps{
		Users:    userRepo,
		Hasher:   auth.NewBcryptHasher(d.Cfg.BcryptCost),
		Tokens:   auth.NewIssuer(d.Cfg.Secret),
		Registry: d.Registry,
		TokenTTL: d.Cfg.TokenTTL,
		Logger:   d.Logger,
	})
	weightSvc := weightlog.NewService(weightRepo, userRepo)
	friendSvc := friends.NewService(friendRepo, userRepo, weightSvc, notification.NewLoggerNotifier(d.Logger), d.Logger)

	api := app.Group("/api")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals(middleware.RequestIDHeader).(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	bearer := middleware.BearerAuth(authSvc)
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit, d.Logger)
	RegisterAuthRoutes(api, auth.NewHandler(authSvc), bearer, rateLimiter)

	users := api.Group("/users", bearer)
	RegisterWeightRoutes(users, weightlog.NewHandler(weightSvc), middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	RegisterFriendRoutes(users, friends.NewHandler(friendSvc))

	return nil
}
