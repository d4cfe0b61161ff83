// Package server contains the HTTP handlers of the reference API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gamerhub/internal/cache"
	"gamerhub/internal/config"
	"gamerhub/internal/database"
	"gamerhub/internal/middleware"
	"gamerhub/internal/models"
	"gamerhub/internal/repository"
	"gamerhub/internal/seed"
	"gamerhub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	cache          *cache.Cache
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	rateLimiter    *middleware.RateLimiter
	verifier       service.CredentialVerifier
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	rankingRepo    repository.RankingRepository
	followRepo     repository.FollowRepository
	authService    *service.AuthService
	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService
}

// Option customizes a Server built by NewServerWithDeps.
type Option func(*Server)

// WithCredentialVerifier enables Google login with v.
func WithCredentialVerifier(v service.CredentialVerifier) Option {
	return func(s *Server) { s.verifier = v }
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)

	var opts []Option
	if cfg.GoogleClientID != "" {
		opts = append(opts, WithCredentialVerifier(service.NewTokenInfoVerifier(cfg.GoogleClientID)))
	}

	s, err := NewServerWithDeps(cfg, db, redisClient, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Seed(context.Background()); err != nil {
		return nil, fmt.Errorf("seeding failed: %w", err)
	}
	return s, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching and rate limiting are then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts ...Option) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	c := cache.New(redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		cache:          c,
		promMiddleware: middleware.InitMetrics("gamerhub-api"),
		rateLimiter:    middleware.NewRateLimiter(redisClient, redisClient != nil && !isLocalEnv(cfg.Env)),
		userRepo:       repository.NewUserRepository(db, c),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		rankingRepo:    repository.NewRankingRepository(db, c),
		followRepo:     repository.NewFollowRepository(db),
	}
	for _, opt := range opts {
		opt(s)
	}

	isAdmin := service.AdminCheckFor(s.userRepo)
	s.authService = service.NewAuthService(s.userRepo, cfg.JWTSecret, s.verifier)
	s.postService = service.NewPostService(s.postRepo, s.rankingRepo, isAdmin)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo, isAdmin)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo, c)
	return s, nil
}

func isLocalEnv(env string) bool {
	switch strings.ToLower(env) {
	case "test", "development", "dev", "stress":
		return true
	}
	return false
}

// Seed loads the ranking ladders and, when configured, demo content.
func (s *Server) Seed(ctx context.Context) error {
	if err := seed.Rankings(ctx, s.rankingRepo); err != nil {
		return err
	}
	if !s.config.SeedDemo {
		return nil
	}
	return seed.Demo(ctx, seed.Repos{
		Users:    s.userRepo,
		Posts:    s.postRepo,
		Comments: s.commentRepo,
		Rankings: s.rankingRepo,
		Follows:  s.followRepo,
	}, seed.DefaultDemoOptions())
}

// App builds the fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "GamerHub API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, &models.AppError{Code: "HTTP_ERROR", Message: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware installs the global middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so short-circuited responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID, traceparent",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || isLocalEnv(s.config.Env)
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes registers every endpoint. Public routes come first: the
// protected group installs AuthRequired for everything registered after it.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.LivenessCheck)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", s.rateLimiter.Limit(10, time.Minute, "signup"), s.Signup)
	auth.Post("/login", s.rateLimiter.Limit(10, time.Minute, "login"), s.Login)
	auth.Post("/google", s.rateLimiter.Limit(10, time.Minute, "google"), s.GoogleLogin)

	api.Get("/posts", s.GetPosts)
	api.Get("/posts/game/:gameType", s.GetPostsByGame)
	api.Get("/comments/post/:postId", s.GetComments)
	api.Get("/rankings", s.GetAllRankings)
	api.Get("/rankings/game/:gameType", s.GetRankings)
	api.Get("/follow/:userId/followers/count", s.GetFollowerCount)
	api.Get("/follow/:userId/following/count", s.GetFollowingCount)
	api.Get("/follow/:userId/followers", s.GetFollowers)
	api.Get("/follow/:userId/following", s.GetFollowing)

	protected := api.Group("", s.AuthRequired())

	protected.Get("/users/profile", s.GetProfile)

	protected.Get("/posts/user", s.GetUserPosts)
	protected.Get("/posts/following", s.GetFollowingPosts)
	protected.Post("/posts", s.CreatePost)
	protected.Put("/posts/:id", s.UpdatePost)
	protected.Delete("/posts/:id", s.DeletePost)

	protected.Post("/comments", s.CreateComment)
	protected.Put("/comments/:id", s.UpdateComment)
	protected.Delete("/comments/:id", s.DeleteComment)

	protected.Get("/follow/is-following/:targetId", s.IsFollowing)
	protected.Post("/follow/:targetId", s.Follow)
	protected.Delete("/follow/:targetId", s.Unfollow)

	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/comments", s.AdminListComments)
	admin.Get("/users", s.AdminListUsers)
	admin.Get("/posts", s.AdminListPosts)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck pings the database and, when configured, Redis.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired rejects non-admin users. It must run after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, models.StatusFor(err), err)
		}
		if !user.IsAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Admin access required"))
		}

		return c.Next()
	}
}

// AuthRequired validates the bearer token and stores the user id in locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		parts := strings.Split(c.Get("Authorization"), " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.authService.ParseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		c.Locals("userID", userID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
