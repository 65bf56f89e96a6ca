package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "chainsync/internal/common/api"
	"chainsync/internal/config"
	"chainsync/internal/database"
	"chainsync/internal/features/auth"
	"chainsync/internal/features/catalog"
	"chainsync/internal/features/importer"
	"chainsync/internal/features/member"
	"chainsync/internal/features/retention"
	"chainsync/internal/features/role"
	"chainsync/internal/features/store"
	"chainsync/internal/features/system"
	"chainsync/internal/features/user"
	"chainsync/internal/logger"
	"chainsync/internal/middleware"
	"chainsync/pkg/utils"

	_ "chainsync/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, productRepo catalog.ProductRepository, memberRepo member.MemberRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := productRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure product indexes: %v", err)
				}
				if err := memberRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure member indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

// @title           ChainSync API
// @version         1.0
// @description     Multi-store retail data import and catalog service.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			user.NewUserRepository,
			role.NewRoleRepository,
			store.NewStoreRepository,
			catalog.NewProductRepository,
			catalog.NewCategoryRepository,
			catalog.NewInventoryRepository,
			member.NewMemberRepository,

			// Initialize Services
			role.NewRoleService,
			auth.NewAuthService,
			system.NewProgressHub,
			importer.NewSessionStore,
			func(cfg *config.Config) (*importer.RowTransform, error) {
				return importer.NewRowTransform(cfg.TransformScript)
			},
			importer.NewValidator,
			func(productRepo catalog.ProductRepository, inventoryRepo catalog.InventoryRepository, memberRepo member.MemberRepository, hub *system.ProgressHub, cfg *config.Config, log *zap.Logger) *importer.UpsertEngine {
				return importer.NewUpsertEngine(productRepo, inventoryRepo, memberRepo, cfg.ImportBatchSize, hub, log)
			},
			importer.NewImportService,

			// Initialize Controller
			auth.NewAuthController,
			store.NewStoreController,
			catalog.NewCatalogController,
			member.NewMemberController,
			importer.NewImportController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(store.NewStoreApi),
			AsRoute(catalog.NewCatalogApi),
			AsRoute(member.NewMemberApi),
			AsRoute(importer.NewImportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			retention.NewRetentionService,
			InitializeIndexes,
		),
	)

	app.Run()
}
