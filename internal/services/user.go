package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lokatani/marketplace-api/internal/api/middleware"
	"github.com/lokatani/marketplace-api/internal/cache"
	"github.com/lokatani/marketplace-api/internal/config"
	appErrors "github.com/lokatani/marketplace-api/internal/errors"
	"github.com/lokatani/marketplace-api/internal/metrics"
	"github.com/lokatani/marketplace-api/internal/models"
	repository "github.com/lokatani/marketplace-api/internal/repositories"
	"github.com/lokatani/marketplace-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const tokenType = "bearer"

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	// ResolveIdentity loads the user named by a token subject.
	ResolveIdentity(ctx context.Context, username string) (*models.User, error)
}

type userService struct {
	repo        repository.UserRepository
	rateLimiter repository.RateLimitRepository
	identities  cache.Cache
	jwtKey      []byte
	jwtExpiry   time.Duration
}

func NewUserService(repo repository.UserRepository, rateLimiter repository.RateLimitRepository, identities cache.Cache, security config.Security) UserService {
	return &userService{
		repo:        repo,
		rateLimiter: rateLimiter,
		identities:  identities,
		jwtKey:      []byte(security.JWTKey),
		jwtExpiry:   security.JWTExpiry,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {

	logger := middleware.LoggerFromContext(ctx)

	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, appErrors.BadRequestError("Invalid role, must be 'seller' or 'buyer'")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	user := &models.User{
		Username: req.Username,
		Name:     utils.SanitizeText(req.Name),
		Phone:    utils.SanitizeText(req.Phone),
		Role:     role,
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, appErrors.DuplicateEntryError("Username already registered").WithError(err)
		}

		return nil, appErrors.FromStore("Failed to create user", err)
	}

	logger.Info("User registered", slog.String("userId", user.ID.String()), slog.String("role", string(user.Role)))

	return s.issueToken(user)

}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {

	logger := middleware.LoggerFromContext(ctx)

	allowed, remaining, retryAfter, err := s.rateLimiter.CheckLoginRateLimit(ctx, req.Username)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		metrics.LoginAttempt("throttled")
		return nil, appErrors.TooManyRequestsError("Too many login attempts. Please try again later.").
			WithDetail(fmt.Sprintf("retry after %d seconds", retryAfter))
	}

	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.FromStore("Failed to fetch user", err)
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		metrics.LoginAttempt("failure")
		logger.Warn("Login failed", slog.String("username", req.Username), slog.Int("remainingAttempts", remaining))
		return nil, appErrors.UnauthorizedError("Incorrect username or password")
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, req.Username); err != nil {
		logger.Warn("Failed to reset login attempts", slog.String("error", err.Error()))
	}

	metrics.LoginAttempt("success")

	return s.issueToken(user)

}

func (s *userService) ResolveIdentity(ctx context.Context, username string) (*models.User, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := cache.Key(cache.IdentityKeyPrefix, username)

	var cached models.User

	found, err := s.identities.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Identity cache read failed", slog.String("error", err.Error()))
	} else if found {
		return &cached, nil
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.UnauthorizedError("User not found").WithError(err)
		}

		return nil, appErrors.FromStore("Failed to resolve identity", err)
	}

	// the password hash is excluded from the cached JSON
	if err := s.identities.Set(ctx, key, user, 0); err != nil {
		logger.Warn("Identity cache write failed", slog.String("error", err.Error()))
	}

	return user, nil

}

func (s *userService) issueToken(user *models.User) (*models.AuthResponse, error) {

	now := time.Now()

	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return &models.AuthResponse{
		AccessToken: tokenString,
		TokenType:   tokenType,
		ExpiresIn:   int(s.jwtExpiry.Seconds()),
		User:        user,
	}, nil

}
