package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"greencart-backend/internal/config"
	infraCache "greencart-backend/internal/infrastructure/cache"
	"greencart-backend/internal/infrastructure/database"
	"greencart-backend/internal/infrastructure/email"
	"greencart-backend/pkg/cache"
	pkgdb "greencart-backend/pkg/database"
	"greencart-backend/pkg/jwt"

	cartHandler "greencart-backend/internal/domains/cart/handler"
	cartRepo "greencart-backend/internal/domains/cart/repository"
	cartService "greencart-backend/internal/domains/cart/service"
	catalogHandler "greencart-backend/internal/domains/catalog/handler"
	catalogRepo "greencart-backend/internal/domains/catalog/repository"
	catalogService "greencart-backend/internal/domains/catalog/service"
	orderHandler "greencart-backend/internal/domains/order/handler"
	orderRepo "greencart-backend/internal/domains/order/repository"
	orderService "greencart-backend/internal/domains/order/service"
	promotionHandler "greencart-backend/internal/domains/promotion/handler"
	promotionRepo "greencart-backend/internal/domains/promotion/repository"
	promotionService "greencart-backend/internal/domains/promotion/service"
	reviewHandler "greencart-backend/internal/domains/review/handler"
	reviewRepo "greencart-backend/internal/domains/review/repository"
	reviewService "greencart-backend/internal/domains/review/service"
	userHandler "greencart-backend/internal/domains/user/handler"
	userRepo "greencart-backend/internal/domains/user/repository"
	userService "greencart-backend/internal/domains/user/service"
	wishlistHandler "greencart-backend/internal/domains/wishlist/handler"
	wishlistRepo "greencart-backend/internal/domains/wishlist/repository"
	wishlistService "greencart-backend/internal/domains/wishlist/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the lifetime of the process.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config       *config.Config
	DB           *database.PostgresDB
	Cache        cache.Cache
	JWTManager   *jwt.Manager
	TxRunner     *pkgdb.PgxRunner
	AsynqClient  *asynq.Client
	EmailService email.EmailService

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	UserRepo      userRepo.Repository
	CatalogRepo   catalogRepo.Repository
	CartRepo      cartRepo.Repository
	WishlistRepo  wishlistRepo.Repository
	OrderRepo     orderRepo.Repository
	PromotionRepo promotionRepo.Repository
	ReviewRepo    reviewRepo.Repository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	UserService      userService.Service
	CatalogService   catalogService.Service
	CartService      cartService.Service
	WishlistService  wishlistService.Service
	OrderService     orderService.Service
	PromotionService promotionService.Service
	ReviewService    reviewService.Service

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	UserHandler      *userHandler.UserHandler
	CatalogHandler   *catalogHandler.CatalogHandler
	CartHandler      *cartHandler.CartHandler
	WishlistHandler  *wishlistHandler.WishlistHandler
	OrderHandler     *orderHandler.OrderHandler
	PromotionHandler *promotionHandler.PromotionHandler
	ReviewHandler    *reviewHandler.ReviewHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer initializes the whole dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Cache misses are survivable, a dead Redis is not fatal here.
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: SHARED INFRASTRUCTURE
	// ========================================
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	c.TxRunner = pkgdb.NewPgxRunner(db.Pool)
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	c.EmailService = email.NewSMTPEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.From,
		cfg.App.BaseURL,
	)

	// ========================================
	// STEP 5: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 6: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 7: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool, c.Cache)
	c.CatalogRepo = catalogRepo.NewPostgresRepository(pool, c.Cache)
	c.CartRepo = cartRepo.NewPostgresRepository(pool)
	c.WishlistRepo = wishlistRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
	c.PromotionRepo = promotionRepo.NewPostgresRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.JWTManager,
		c.AsynqClient,
		c.TxRunner,
	)
	c.CatalogService = catalogService.NewCatalogService(c.CatalogRepo, c.AsynqClient)
	c.CartService = cartService.NewCartService(
		c.CartRepo,
		c.CatalogRepo, // cross-domain: product lookups for snapshots
	)
	c.WishlistService = wishlistService.NewWishlistService(
		c.WishlistRepo,
		c.CartService, // cross-domain: move-to-cart
	)
	c.OrderService = orderService.NewOrderService(
		c.OrderRepo,
		c.CatalogRepo, // cross-domain: stock and price snapshots
		c.UserRepo,    // cross-domain: address snapshots, email lookups
		c.CartRepo,    // cross-domain: from-cart checkout
		c.AsynqClient,
		c.TxRunner,
	)
	c.PromotionService = promotionService.NewPromotionService(
		c.PromotionRepo,
		c.OrderRepo,   // cross-domain: discount feedback into order totals
		c.CatalogRepo, // cross-domain: scope matching
		c.AsynqClient,
		c.TxRunner,
	)
	c.ReviewService = reviewService.NewReviewService(
		c.ReviewRepo,
		c.OrderRepo, // cross-domain: verified-purchase checks
		c.TxRunner,
	)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CatalogHandler = catalogHandler.NewCatalogHandler(c.CatalogService)
	c.CartHandler = cartHandler.NewCartHandler(c.CartService)
	c.WishlistHandler = wishlistHandler.NewWishlistHandler(c.WishlistService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.PromotionHandler = promotionHandler.NewPromotionHandler(c.PromotionService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
}

// ========================================
// SHUTDOWN
// ========================================

// Cleanup releases every connection the container owns. Call it on the
// way out, after the HTTP server has drained.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}
	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close redis: %v", err)
			}
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("✅ Container cleanup complete")
}
