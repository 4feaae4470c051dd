package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lokatani/marketplace-api/internal/models"
	"github.com/lokatani/marketplace-api/internal/utils"
)

type CartRepository interface {
	GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	// UpsertCart writes the full item list, creating the cart when none exists.
	UpsertCart(ctx context.Context, cart *models.Cart) error
	// UpdateCartItems writes the full item list of an existing cart; sql.ErrNoRows when absent.
	UpdateCartItems(ctx context.Context, cart *models.Cart) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{}

	var itemsJSON []byte

	query := `SELECT user_id, items, updated_at FROM carts WHERE user_id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&cart.UserID, &itemsJSON, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying cart: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &cart.Items); err != nil {
		return nil, fmt.Errorf("decoding cart items: %w", err)
	}

	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	return cart, nil
}

func (r *cartRepository) UpsertCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := encodeCartItems(cart.Items)
	if err != nil {
		return err
	}

	query := `INSERT INTO carts (user_id, items, updated_at)
			  VALUES ($1, $2, NOW())
			  ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = NOW()
			  RETURNING updated_at`

	if err := r.DB.QueryRowContext(dbCtx, query, cart.UserID, itemsJSON).Scan(&cart.UpdatedAt); err != nil {
		return fmt.Errorf("upserting cart: %w", err)
	}

	return nil
}

func (r *cartRepository) UpdateCartItems(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := encodeCartItems(cart.Items)
	if err != nil {
		return err
	}

	query := `UPDATE carts SET items = $1, updated_at = NOW() WHERE user_id = $2 RETURNING updated_at`

	// a missing cart surfaces as sql.ErrNoRows from Scan
	if err := r.DB.QueryRowContext(dbCtx, query, itemsJSON, cart.UserID).Scan(&cart.UpdatedAt); err != nil {
		return fmt.Errorf("updating cart: %w", err)
	}

	return nil
}

func encodeCartItems(items []models.CartItem) ([]byte, error) {
	if items == nil {
		items = []models.CartItem{}
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encoding cart items: %w", err)
	}

	return itemsJSON, nil
}
