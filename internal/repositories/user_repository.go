package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/lokatani/marketplace-api/internal/models"
	"github.com/lokatani/marketplace-api/internal/utils"
)

// ErrDuplicateUsername is returned by CreateUser when the username is already taken.
var ErrDuplicateUsername = errors.New("username already exists")

const pqUniqueViolation = "23505"

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO users (username, password, name, phone, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at`

	err := r.DB.QueryRowContext(dbCtx, query, user.Username, user.Password, user.Name, user.Phone, user.Role).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateUsername, user.Username)
		}

		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.User{}

	query := `SELECT id, username, password, name, phone, role, created_at FROM users WHERE username = $1`

	err := r.DB.QueryRowContext(dbCtx, query, username).Scan(&user.ID, &user.Username, &user.Password, &user.Name, &user.Phone, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return user, nil
}
