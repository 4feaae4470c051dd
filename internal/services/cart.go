package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/lokatani/marketplace-api/internal/api/middleware"
	"github.com/lokatani/marketplace-api/internal/authz"
	appErrors "github.com/lokatani/marketplace-api/internal/errors"
	"github.com/lokatani/marketplace-api/internal/models"
	repository "github.com/lokatani/marketplace-api/internal/repositories"
)

// CartService keeps one cart per identity. Mutations read the stored item list, change it and
// write it back whole; concurrent writers are last-write-wins.
type CartService interface {
	GetCart(ctx context.Context, identity *models.User) (*models.CartView, error)
	AddItem(ctx context.Context, identity *models.User, productID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, identity *models.User, productID uuid.UUID) (*models.Cart, error)
	ClearCart(ctx context.Context, identity *models.User) (*models.Cart, error)
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{carts: carts, products: products}
}

// GetCart resolves every item to its product. Items whose product no longer exists are left
// out of the view but stay in the stored cart.
func (s *cartService) GetCart(ctx context.Context, identity *models.User) (*models.CartView, error) {

	if err := enforce(ctx, authz.Authorize(identity, authz.ActionManageCart)); err != nil {
		return nil, err
	}

	view := &models.CartView{UserID: identity.ID, Items: []models.CartLine{}}

	cart, err := s.carts.GetCartByUserID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return view, nil
		}

		return nil, appErrors.FromStore("Failed to get cart", err)
	}

	logger := middleware.LoggerFromContext(ctx)

	for _, item := range cart.Items {
		product, err := s.products.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				logger.Debug("Skipping cart item for missing product", slog.String("productId", item.ProductID.String()))
				continue
			}

			return nil, appErrors.FromStore("Failed to resolve cart items", err)
		}

		view.Items = append(view.Items, models.CartLine{Product: product, Quantity: item.Quantity})
	}

	return view, nil
}

func (s *cartService) AddItem(ctx context.Context, identity *models.User, productID uuid.UUID, quantity int) (*models.Cart, error) {

	if err := enforce(ctx, authz.Authorize(identity, authz.ActionManageCart)); err != nil {
		return nil, err
	}

	if quantity < 1 {
		return nil, appErrors.AddValidationError("quantity", "must be at least 1")
	}

	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		return nil, storeError(err, "Product not found", "Failed to get product")
	}

	cart, err := s.loadOrNew(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(cart.Items, func(item models.CartItem) bool {
		return item.ProductID == productID
	})

	if idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.carts.UpsertCart(ctx, cart); err != nil {
		return nil, appErrors.FromStore("Failed to update cart", err)
	}

	return cart, nil
}

// RemoveItem needs an existing cart; removing a product that is not in it changes nothing.
func (s *cartService) RemoveItem(ctx context.Context, identity *models.User, productID uuid.UUID) (*models.Cart, error) {

	if err := enforce(ctx, authz.Authorize(identity, authz.ActionManageCart)); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCartByUserID(ctx, identity.ID)
	if err != nil {
		return nil, storeError(err, "Cart not found", "Failed to get cart")
	}

	remaining := slices.DeleteFunc(slices.Clone(cart.Items), func(item models.CartItem) bool {
		return item.ProductID == productID
	})

	if len(remaining) == len(cart.Items) {
		return cart, nil
	}

	cart.Items = remaining

	if err := s.carts.UpdateCartItems(ctx, cart); err != nil {
		return nil, storeError(err, "Cart not found", "Failed to update cart")
	}

	return cart, nil
}

// ClearCart writes an empty item list, creating the cart if it never existed.
func (s *cartService) ClearCart(ctx context.Context, identity *models.User) (*models.Cart, error) {

	if err := enforce(ctx, authz.Authorize(identity, authz.ActionManageCart)); err != nil {
		return nil, err
	}

	cart := &models.Cart{UserID: identity.ID, Items: []models.CartItem{}}

	if err := s.carts.UpsertCart(ctx, cart); err != nil {
		return nil, appErrors.FromStore("Failed to clear cart", err)
	}

	return cart, nil
}

func (s *cartService) loadOrNew(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.carts.GetCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}

	return nil, appErrors.FromStore("Failed to get cart", err)
}
