package ewaste

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// Response messages, kept stable for API clients.
const (
	MsgFieldsRequired     = "Username and password are required."
	MsgUsernameTaken      = "Username already exists. Please choose a different one."
	MsgRegistrationOK     = "Registration successful! You can now log in."
	MsgLoginOK            = "Login successful!"
	MsgInvalidCredentials = "Invalid username or password."
	MsgStorageUnavailable = "Service temporarily unavailable. Please try again later."
	MsgUnauthorized       = "Missing or invalid authorization token."
	MsgUnexpectedError    = "An unexpected error occurred."
)

// AuthController exposes the register and login endpoints as JSON handlers.
type AuthController struct {
	Debug    bool
	Logger   Logger
	Auth     Authenticator
	Register *RegisterUserHandler
}

// AuthControllerOption configures an AuthController.
type AuthControllerOption func(*AuthController) *AuthController

// WithAuthControllerLogger sets the controller logger.
func WithAuthControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithAuthenticator sets the Authenticator used by the login endpoint.
func WithAuthenticator(auth Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = auth
		return c
	}
}

// WithRegisterHandler sets the handler behind the register endpoint.
func WithRegisterHandler(handler *RegisterUserHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Register = handler
		return c
	}
}

// NewAuthController builds the controller, panicking on missing wiring the
// same way a missing route would: loudly and at startup.
func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auth == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Register == nil {
		panic("Missing RegisterUserHandler in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the register and login endpoints on the router.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Post("/register", controller.RegisterPost)
	app.Post("/login", controller.LoginPost)
}

// RegisterRequest is the register payload
type RegisterRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(1, 200),
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// RegisterPost handles POST /register.
func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": MsgFieldsRequired,
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": MsgFieldsRequired,
		})
	}

	if _, err := a.Register.Execute(c.UserContext(), RegisterUserMessage{
		Username: payload.Username,
		Password: payload.Password,
	}); err != nil {
		return a.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": MsgRegistrationOK,
	})
}

// LoginPost handles POST /login. Every credential failure produces the same
// status and message so the endpoint cannot be used to probe for usernames.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": MsgFieldsRequired,
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": MsgFieldsRequired,
		})
	}

	token, err := a.Auth.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  MsgLoginOK,
		"token":    token,
		"username": payload.Username,
	})
}

// renderError maps categorized errors onto the endpoint contract. Storage
// failures are logged and answered with 503; they are never downgraded to a
// credentials problem.
func (a *AuthController) renderError(c *fiber.Ctx, err error) error {
	if IsStorageError(err) {
		a.Logger.Error("credential store failure", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": MsgStorageUnavailable,
		})
	}

	var rich *errors.Error
	if errors.As(err, &rich) {
		switch rich.Category {
		case errors.CategoryValidation, errors.CategoryBadInput:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": MsgFieldsRequired,
			})
		case errors.CategoryConflict:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": MsgUsernameTaken,
			})
		case errors.CategoryAuth, errors.CategoryNotFound:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": MsgInvalidCredentials,
			})
		case errors.CategoryInternal, errors.CategoryOperation:
			a.Logger.Error("internal error handling auth request", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message": MsgStorageUnavailable,
			})
		}
	}

	a.Logger.Error("unexpected error handling auth request", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": MsgUnexpectedError,
	})
}
