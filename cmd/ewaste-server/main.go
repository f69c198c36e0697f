package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-print"

	"github.com/ecoloop/ewaste"
	"github.com/ecoloop/ewaste/content"
	"github.com/ecoloop/ewaste/middleware/jwtware"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ewaste-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := ewaste.NewDefaultLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Info("starting with config %s", print.MaybePrettyJSON(cfg.redacted()))

	if cfg.GeneratedKey {
		logger.Info("JWT_SECRET_KEY not set, generated an ephemeral signing key; tokens will not survive a restart")
	}

	store, err := newUserStore(cfg, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := ewaste.SeedDefaultUser(ctx, store); err != nil {
		return err
	}

	provider := ewaste.NewUserProvider(store).WithLogger(logger)
	auth := ewaste.NewAuthenticator(provider, cfg).WithLogger(logger)
	registrar := ewaste.NewRegisterUserHandler(store).WithLogger(logger)

	controller := ewaste.NewAuthController(
		ewaste.WithAuthControllerLogger(logger),
		ewaste.WithAuthenticator(auth),
		ewaste.WithRegisterHandler(registrar),
	)

	app := newApp(cfg, controller, auth)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("received %s, shutting down", sig)
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func newUserStore(cfg *appConfig, logger ewaste.Logger) (ewaste.UserStore, error) {
	switch cfg.UsersBackend {
	case "sqlite":
		db, err := ewaste.OpenSQLite(context.Background(), cfg.UsersFile)
		if err != nil {
			return nil, err
		}
		return ewaste.NewBunStore(db, ewaste.WithBunStoreLogger(logger)), nil
	default:
		return ewaste.NewFileStore(cfg.UsersFile, ewaste.WithFileStoreLogger(logger)), nil
	}
}

func newApp(cfg *appConfig, controller *ewaste.AuthController, auth *ewaste.Auther) *fiber.App {
	engine := django.New("./views", ".html")

	app := fiber.New(fiber.Config{
		AppName: "ewaste-server",
		Views:   engine,
	})

	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{
			"title": "E-Waste Guidance",
		})
	})
	app.Static("/style.css", "./public/style.css")

	api := app.Group("/api")
	ewaste.RegisterAuthRoutes(api, controller)

	// Guides stay public, everything else behind the token guard.
	api.Get("/education/guides", guidesGet)

	guard := jwtware.New(jwtware.Config{
		ContextKey:     cfg.GetContextKey(),
		TokenLookup:    cfg.GetTokenLookup(),
		AuthScheme:     cfg.GetAuthScheme(),
		TokenValidator: serviceValidator{svc: auth.TokenService()},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": ewaste.MsgUnauthorized,
			})
		},
	})

	api.Post("/classify", guard, classifyPost)
	api.Get("/recycling_locations", guard, locationsGet)

	return app
}

// serviceValidator exposes the token service through the middleware's
// validator seam, so the guard and the login endpoint agree on every
// validation rule.
type serviceValidator struct {
	svc ewaste.TokenService
}

func (v serviceValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.svc.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

type classifyRequest struct {
	DeviceType      string `json:"deviceType"`
	DeviceCondition string `json:"deviceCondition"`
}

func classifyPost(c *fiber.Ctx) error {
	payload := new(classifyRequest)
	if err := c.BodyParser(payload); err != nil || payload.DeviceType == "" || payload.DeviceCondition == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Device type and condition are required.",
		})
	}
	return c.JSON(content.Classify(payload.DeviceType, payload.DeviceCondition))
}

func locationsGet(c *fiber.Ctx) error {
	return c.JSON(content.Locations(c.Query("device_type")))
}

func guidesGet(c *fiber.Ctx) error {
	return c.JSON(content.Guides())
}
