package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lokatani/marketplace-api/internal/api/middleware"
	"github.com/lokatani/marketplace-api/internal/authz"
	appErrors "github.com/lokatani/marketplace-api/internal/errors"
	"github.com/lokatani/marketplace-api/internal/metrics"
	"github.com/lokatani/marketplace-api/internal/models"
	repository "github.com/lokatani/marketplace-api/internal/repositories"
)

type OrderService interface {
	CreateOrder(ctx context.Context, identity *models.User, req *models.CreateOrderRequest) (*models.Order, error)
	ListMyOrders(ctx context.Context, identity *models.User) ([]*models.Order, error)
}

type orderService struct {
	orders repository.OrderRepository
	carts  repository.CartRepository
}

func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository) OrderService {
	return &orderService{orders: orders, carts: carts}
}

// CreateOrder stores the submitted items and total as given; payment is not processed, so every
// order is completed on creation. The buyer's cart is emptied afterwards as a separate write.
func (s *orderService) CreateOrder(ctx context.Context, identity *models.User, req *models.CreateOrderRequest) (*models.Order, error) {

	if err := enforce(ctx, authz.Authorize(identity, authz.ActionCreateOrder)); err != nil {
		return nil, err
	}

	logger := middleware.LoggerFromContext(ctx)

	order := &models.Order{
		BuyerID:   identity.ID,
		BuyerName: identity.Name,
		Items:     req.Items,
		Total:     req.Total,
		Status:    models.OrderStatusCompleted,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, appErrors.FromStore("Failed to create order", err)
	}

	metrics.OrderCreated()
	logger.Info("Order created", slog.String("orderId", order.ID.String()), slog.Float64("total", order.Total))

	// the order is already committed; a failed clear leaves a stale cart behind
	cleared := &models.Cart{UserID: identity.ID}
	if err := s.carts.UpdateCartItems(ctx, cleared); err != nil && !errors.Is(err, sql.ErrNoRows) {
		metrics.CartClearFailed()
		logger.Warn("Failed to clear cart after order",
			slog.String("orderId", order.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return order, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, identity *models.User) ([]*models.Order, error) {

	if err := enforce(ctx, authz.Authorize(identity, authz.ActionListOwnOrders)); err != nil {
		return nil, err
	}

	orders, err := s.orders.ListOrdersByBuyer(ctx, identity.ID)
	if err != nil {
		return nil, appErrors.FromStore("Failed to fetch orders", err)
	}

	return orders, nil
}
