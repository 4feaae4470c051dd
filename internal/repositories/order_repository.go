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

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*models.Order, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encoding order items: %w", err)
	}

	query := `INSERT INTO orders (buyer_id, buyer_name, items, total, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at`

	if err := r.DB.QueryRowContext(dbCtx, query, order.BuyerID, order.BuyerName, itemsJSON, order.Total, order.Status).Scan(&order.ID, &order.CreatedAt); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

func (r *orderRepository) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, buyer_id, buyer_name, items, total, status, created_at
			  FROM orders WHERE buyer_id = $1 LIMIT $2`

	rows, err := r.DB.QueryContext(dbCtx, query, buyerID, MaxListRows)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	defer rows.Close()

	orders := make([]*models.Order, 0)

	for rows.Next() {
		order := &models.Order{}

		var itemsJSON []byte

		if err := rows.Scan(&order.ID, &order.BuyerID, &order.BuyerName, &itemsJSON, &order.Total, &order.Status, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, fmt.Errorf("decoding order items: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
