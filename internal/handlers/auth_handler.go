package handlers

import (
	"time"

	"cinereview-backend/internal/config"
	"cinereview-backend/internal/middleware"
	"cinereview-backend/internal/services"
	"cinereview-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	service services.AuthService
	config  config.AuthConfig
	logger  *logrus.Logger
}

func NewAuthHandler(service services.AuthService, cfg config.AuthConfig, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  cfg,
		logger:  logger,
	}
}

// Register godoc
// @Summary Register a user
// @Description Create an account with name, email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account data"
// @Success 201 {object} utils.StandardResponse{data=models.User} "User created"
// @Failure 400 {object} utils.StandardResponse "Invalid data or email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.service.Register(c.UserContext(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "User registered successfully", user)
}

// Login godoc
// @Summary Log in
// @Description Check credentials and start a session. The session token is set as a cookie and returned in the body.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} utils.StandardResponse{data=LoginResponse} "Logged in"
// @Failure 400 {object} utils.StandardResponse "Invalid request body"
// @Failure 401 {object} utils.StandardResponse "Wrong password"
// @Failure 404 {object} utils.StandardResponse "User not found"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	user, token, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	h.setSessionCookie(c, token, time.Now().Add(h.config.SessionTTL))
	return utils.SuccessResponse(c, fiber.StatusOK, "Logged in successfully", LoginResponse{User: user, Token: token})
}

// Logout godoc
// @Summary Log out
// @Description Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} utils.StandardResponse "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.setSessionCookie(c, "", time.Unix(0, 0))
	return utils.SuccessResponse(c, fiber.StatusOK, "Logged out successfully", nil)
}

// Me godoc
// @Summary Current user
// @Description Get the user of the current session
// @Tags auth
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=models.User} "Current user"
// @Failure 401 {object} utils.StandardResponse "Not authenticated"
// @Security CookieAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.service.CurrentUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "User retrieved successfully", user)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.config.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
