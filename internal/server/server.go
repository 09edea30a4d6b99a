// Package server contains the HTTP handlers for the application's routes.
package server

import (
	"context"
	"fmt"
	"time"

	"plume/internal/cache"
	"plume/internal/config"
	"plume/internal/database"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/service"
	"plume/internal/storage"

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

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	blobs storage.BlobStore

	userRepo   repository.UserRepository
	groupRepo  repository.GroupRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository

	feedService    *service.FeedService
	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService

	homeCache *cache.ResponseCache
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	var blobs storage.BlobStore
	if cfg.MinioEndpoint != "" {
		store, err := storage.NewMinioStore(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("blob store init failed: %w", err)
		}
		blobs = store
	}

	return NewServerWithDeps(cfg, db, cache.GetClient(), blobs)
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Tests and bootstrap layers use this directly.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, blobs storage.BlobStore) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	prom := middleware.InitMetrics("plume-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		blobs:          blobs,
		userRepo:       userRepo,
		groupRepo:      groupRepo,
		postRepo:       postRepo,
		followRepo:     followRepo,
		homeCache:      cache.NewResponseCache(redisClient, cache.HomeFeedTTL),
	}
	server.feedService = service.NewFeedService(postRepo, groupRepo, userRepo, followRepo, commentRepo)
	server.postService = service.NewPostService(postRepo, groupRepo, userRepo)
	server.commentService = service.NewCommentService(commentRepo, postRepo, userRepo)
	server.followService = service.NewFollowService(followRepo, userRepo)

	middleware.InitMiddleware(cfg)

	return server, nil
}

// NewApp builds the Fiber app with the error handler, middleware stack
// and all routes registered.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Plume",
		ErrorHandler: s.errorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures the middleware stack for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	app.Use(middleware.OptionalUser)
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
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

// SetupRoutes configures all routes. Static segments are registered
// before the /:username parameter routes so fixed paths never get
// captured as usernames.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Get("/", s.HomeFeed)
	app.Get("/group/:slug/", s.GroupFeed)

	app.Get("/follow/", middleware.RequireLogin, s.FollowingFeed)
	app.Get("/new/", middleware.RequireLogin, s.NewPostForm)
	app.Post("/new/", middleware.RequireLogin, s.CreatePost)

	// Per-user routes. Specific suffixes go first, the bare profile last.
	app.Post("/:username/follow/", middleware.RequireLogin, s.FollowAuthor)
	app.Post("/:username/unfollow/", middleware.RequireLogin, s.UnfollowAuthor)
	app.Get("/:username/:post_id/edit/", middleware.RequireLogin, s.EditPostForm)
	app.Post("/:username/:post_id/edit/", middleware.RequireLogin, s.UpdatePost)
	app.Post("/:username/:post_id/comment", middleware.RequireLogin, s.AddComment)
	app.Get("/:username/:post_id/", s.PostDetail)
	app.Get("/:username/", s.Profile)

	app.Use(s.NotFound)
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app serves fine without Redis, the feed cache just misses.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NotFound renders the custom 404 page for any unmatched route.
func (s *Server) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Page not found",
		"path":  c.Path(),
	})
}

// errorHandler is the app-wide Fiber error handler. Unexpected errors
// surface as a generic 500; the detail stays in the logs.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if fiberErr, ok := err.(*fiber.Error); ok {
		if fiberErr.Code == fiber.StatusNotFound {
			return s.NotFound(c)
		}
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// respondError maps a service error to its HTTP response.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}
