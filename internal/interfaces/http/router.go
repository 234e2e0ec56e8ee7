package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Handlers groups every resource handler the API mounts.
type Handlers struct {
	Blog          *BlogHandler
	Catalog       *CatalogHandler
	Site          *SiteHandler
	Consult       *ConsultHandler
	Worker        *WorkerHandler
	ImagePosition *ImagePositionHandler
	Upload        *UploadHandler
}

type AppConfig struct {
	// AllowOrigins is a comma-separated CORS origin list or "*".
	AllowOrigins string
	// StaticDir, when set, is served at / for disk-stored uploads.
	StaticDir string
	// BodyLimit caps request bodies in bytes; 0 keeps 50 MiB.
	BodyLimit int
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(cfg AppConfig, h Handlers, logger *zap.Logger) *fiber.App {
	if cfg.BodyLimit == 0 {
		cfg.BodyLimit = 50 << 20
	}
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(RequestLogger(logger))
	app.Use(recover.New())

	origins := strings.TrimSpace(cfg.AllowOrigins)
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: origins != "*",
		ExposeHeaders:    "Content-Length",
		MaxAge:           86400,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	RegisterRoutes(app, h)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}
	return app
}

// RegisterRoutes mounts the /api routes.
func RegisterRoutes(app *fiber.App, h Handlers) {
	api := app.Group("/api")

	blog := api.Group("/blog")
	blog.Get("/", h.Blog.List)
	blog.Post("/create", h.Blog.Create)
	blog.Put("/update/:id", h.Blog.Update)
	blog.Get("/:id", h.Blog.Get)
	blog.Delete("/:id", h.Blog.Delete)

	catalog := api.Group("/catalog")
	catalog.Get("/", h.Catalog.List)
	catalog.Get("/home", h.Catalog.ListHome)
	catalog.Post("/home", h.Catalog.AddToHome)
	catalog.Delete("/home/:id", h.Catalog.RemoveFromHome)
	catalog.Post("/create", h.Catalog.Create)
	catalog.Put("/update/:id", h.Catalog.Update)
	catalog.Get("/:id", h.Catalog.Get)
	catalog.Delete("/:id", h.Catalog.Delete)

	sites := api.Group("/sites")
	sites.Get("/", h.Site.List)
	sites.Put("/update/:id", h.Site.Update)
	sites.Get("/:id", h.Site.Get)

	consult := api.Group("/consult")
	consult.Get("/", h.Consult.List)
	consult.Post("/create", h.Consult.Create)
	consult.Get("/:id", h.Consult.Get)

	worker := api.Group("/worker")
	worker.Get("/", h.Worker.List)
	worker.Post("/", h.Worker.Create)
	worker.Get("/:id", h.Worker.Get)
	worker.Put("/:id", h.Worker.Update)
	worker.Delete("/:id", h.Worker.Delete)

	positions := api.Group("/image-position")
	positions.Post("/create", h.ImagePosition.Create)
	positions.Get("/:image_url", h.ImagePosition.ListByImage)

	upload := api.Group("/upload")
	upload.Post("/images", h.Upload.HandleUploadFile)
}
