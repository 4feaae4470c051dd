package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lokatani/marketplace-api/internal/api/middleware"
	"github.com/lokatani/marketplace-api/internal/errors"
	"github.com/lokatani/marketplace-api/internal/models"
	service "github.com/lokatani/marketplace-api/internal/services"
	"github.com/lokatani/marketplace-api/internal/utils"
	"github.com/lokatani/marketplace-api/internal/utils/response"
)

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

// Register godoc
//	@Summary		Register a new user
//	@Description	Creates a seller or buyer account and returns an access token. "farmer" is accepted as a seller.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.RegisterRequest	true	"User Registration Details"
//	@Success		201		{object}	models.AuthResponse		"Successfully registered"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid input or unknown role"
//	@Failure		409		{object}	response.ErrorResponse	"Username already registered"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/register [post]
func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid registration input")
			return
		}

		logger = logger.With(slog.String("username", req.Username))

		resp, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Error("User registration failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("User registered", slog.String("userId", resp.User.ID.String()), slog.String("role", string(resp.User.Role)))
		response.Success(w, http.StatusCreated, resp)
	}
}

// Login godoc
//	@Summary		Log in
//	@Description	Exchanges a username and password for an access token. Repeated failures are rate limited.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest		true	"User Credentials"
//	@Success		200			{object}	models.AuthResponse		"Successfully logged in"
//	@Failure		400			{object}	response.ErrorResponse	"Invalid input"
//	@Failure		401			{object}	response.ErrorResponse	"Incorrect username or password"
//	@Failure		429			{object}	response.ErrorResponse	"Too many login attempts"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Router			/login [post]
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		logger = logger.With(slog.String("username", req.Username))

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Warn("Login failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("User logged in")
		response.Success(w, http.StatusOK, resp)
	}
}

// Me godoc
//	@Summary		Current user
//	@Description	Returns the authenticated user's profile.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	models.User				"Authenticated user"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/me [get]
func (h *UserHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			middleware.LoggerFromContext(r.Context()).Warn("Unauthorized profile access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		response.Success(w, http.StatusOK, user)
	}
}
