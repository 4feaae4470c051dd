package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	appErrors "github.com/lokatani/marketplace-api/internal/errors"
	"github.com/lokatani/marketplace-api/internal/models"
	"github.com/lokatani/marketplace-api/internal/repositories/mocks"
	service "github.com/lokatani/marketplace-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartService(t *testing.T) (service.CartService, *mocks.CartRepository, *mocks.ProductRepository) {
	t.Helper()

	carts := mocks.NewCartRepository(t)
	products := mocks.NewProductRepository(t)

	return service.NewCartService(carts, products), carts, products
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("No Cart Yet Is An Empty View", func(t *testing.T) {
		cartService, carts, _ := setupCartService(t)
		carts.On("GetCartByUserID", ctx, buyerB.ID).Return(nil, sql.ErrNoRows).Once()

		view, err := cartService.GetCart(ctx, buyerB)

		require.NoError(t, err)
		assert.Equal(t, buyerB.ID, view.UserID)
		assert.NotNil(t, view.Items)
		assert.Empty(t, view.Items)
	})

	t.Run("Dangling Items Are Dropped From The View Only", func(t *testing.T) {
		// Arrange
		cartService, carts, products := setupCartService(t)
		live := &models.Product{ID: uuid.New(), Name: "Rice"}
		deleted := uuid.New()

		carts.On("GetCartByUserID", ctx, buyerB.ID).Return(&models.Cart{
			UserID: buyerB.ID,
			Items:  []models.CartItem{{ProductID: deleted, Quantity: 1}, {ProductID: live.ID, Quantity: 3}},
		}, nil).Once()
		products.On("GetProductByID", ctx, deleted).Return(nil, fmt.Errorf("querying database: %w", sql.ErrNoRows)).Once()
		products.On("GetProductByID", ctx, live.ID).Return(live, nil).Once()

		// Act
		view, err := cartService.GetCart(ctx, buyerB)

		// Assert
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, "Rice", view.Items[0].Product.Name)
		assert.Equal(t, 3, view.Items[0].Quantity)
		carts.AssertNotCalled(t, "UpdateCartItems", mock.Anything, mock.Anything)
		carts.AssertNotCalled(t, "UpsertCart", mock.Anything, mock.Anything)
	})

	t.Run("Product Lookup Failure Surfaces", func(t *testing.T) {
		cartService, carts, products := setupCartService(t)
		productID := uuid.New()

		carts.On("GetCartByUserID", ctx, buyerB.ID).Return(&models.Cart{UserID: buyerB.ID, Items: []models.CartItem{{ProductID: productID, Quantity: 1}}}, nil).Once()
		products.On("GetProductByID", ctx, productID).Return(nil, errors.New("connection reset")).Once()

		_, err := cartService.GetCart(ctx, buyerB)

		assertAppError(t, err, appErrors.ErrCodeDatabaseError)
	})

	t.Run("Anonymous", func(t *testing.T) {
		cartService, _, _ := setupCartService(t)

		_, err := cartService.GetCart(ctx, nil)

		assertAppError(t, err, appErrors.ErrCodeUnauthorized)
	})
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	product := &models.Product{ID: productID, Name: "Rice"}

	t.Run("Creates The Cart Lazily", func(t *testing.T) {
		// Arrange
		cartService, carts, products := setupCartService(t)

		products.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		carts.On("GetCartByUserID", ctx, buyerB.ID).Return(nil, sql.ErrNoRows).Once()
		carts.On("UpsertCart", ctx, mock.MatchedBy(func(c *models.Cart) bool {
			return c.UserID == buyerB.ID && len(c.Items) == 1 && c.Items[0].Quantity == 3
		})).Return(nil).Once()

		// Act
		cart, err := cartService.AddItem(ctx, buyerB, productID, 3)

		// Assert
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, productID, cart.Items[0].ProductID)
	})

	t.Run("Repeated Additions Merge Quantities", func(t *testing.T) {
		cartService, carts, products := setupCartService(t)
		other := uuid.New()

		products.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		carts.On("GetCartByUserID", ctx, buyerB.ID).Return(&models.Cart{
			UserID: buyerB.ID,
			Items:  []models.CartItem{{ProductID: other, Quantity: 1}, {ProductID: productID, Quantity: 2}},
		}, nil).Once()
		carts.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		cart, err := cartService.AddItem(ctx, buyerB, productID, 5)

		require.NoError(t, err)
		require.Len(t, cart.Items, 2, "no duplicate line item")
		assert.Equal(t, other, cart.Items[0].ProductID, "existing order is preserved")
		assert.Equal(t, 7, cart.Items[1].Quantity)
	})

	t.Run("Missing Product", func(t *testing.T) {
		cartService, carts, products := setupCartService(t)
		products.On("GetProductByID", ctx, productID).Return(nil, sql.ErrNoRows).Once()

		_, err := cartService.AddItem(ctx, buyerB, productID, 1)

		assertAppError(t, err, appErrors.ErrCodeNotFound)
		carts.AssertNotCalled(t, "UpsertCart", mock.Anything, mock.Anything)
	})

	t.Run("Non-Positive Quantity", func(t *testing.T) {
		cartService, _, _ := setupCartService(t)

		_, err := cartService.AddItem(ctx, buyerB, productID, 0)

		assertAppError(t, err, appErrors.ErrCodeValidation)
	})

	t.Run("Sellers May Use A Cart", func(t *testing.T) {
		cartService, carts, products := setupCartService(t)

		products.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		carts.On("GetCartByUserID", ctx, sellerA.ID).Return(nil, sql.ErrNoRows).Once()
		carts.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		_, err := cartService.AddItem(ctx, sellerA, productID, 1)

		require.NoError(t, err)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	t.Run("Removes Matching Items", func(t *testing.T) {
		cartService, carts, _ := setupCartService(t)
		keep := uuid.New()

		carts.On("GetCartByUserID", ctx, buyerB.ID).Return(&models.Cart{
			UserID: buyerB.ID,
			Items:  []models.CartItem{{ProductID: productID, Quantity: 2}, {ProductID: keep, Quantity: 1}},
		}, nil).Once()
		carts.On("UpdateCartItems", ctx, mock.MatchedBy(func(c *models.Cart) bool {
			return len(c.Items) == 1 && c.Items[0].ProductID == keep
		})).Return(nil).Once()

		cart, err := cartService.RemoveItem(ctx, buyerB, productID)

		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
	})

	t.Run("Absent Item Is A No-Op", func(t *testing.T) {
		cartService, carts, _ := setupCartService(t)
		items := []models.CartItem{{ProductID: uuid.New(), Quantity: 4}}

		carts.On("GetCartByUserID", ctx, buyerB.ID).Return(&models.Cart{UserID: buyerB.ID, Items: items}, nil).Once()

		cart, err := cartService.RemoveItem(ctx, buyerB, productID)

		require.NoError(t, err)
		assert.Equal(t, items, cart.Items)
		carts.AssertNotCalled(t, "UpdateCartItems", mock.Anything, mock.Anything)
	})

	t.Run("Missing Cart", func(t *testing.T) {
		cartService, carts, _ := setupCartService(t)
		carts.On("GetCartByUserID", ctx, buyerB.ID).Return(nil, sql.ErrNoRows).Once()

		_, err := cartService.RemoveItem(ctx, buyerB, productID)

		appErr := assertAppError(t, err, appErrors.ErrCodeNotFound)
		assert.Equal(t, "Cart not found", appErr.Message)
	})
}

func TestCartService_ClearCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Upserts An Empty List", func(t *testing.T) {
		cartService, carts, _ := setupCartService(t)

		carts.On("UpsertCart", ctx, mock.MatchedBy(func(c *models.Cart) bool {
			return c.UserID == buyerB.ID && c.Items != nil && len(c.Items) == 0
		})).Return(nil).Once()

		cart, err := cartService.ClearCart(ctx, buyerB)

		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("Store Timeout", func(t *testing.T) {
		cartService, carts, _ := setupCartService(t)
		carts.On("UpsertCart", ctx, mock.Anything).Return(context.DeadlineExceeded).Once()

		_, err := cartService.ClearCart(ctx, buyerB)

		assertAppError(t, err, appErrors.ErrCodeUpstreamUnavailable)
	})
}
