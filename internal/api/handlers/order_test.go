package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lokatani/marketplace-api/internal/api/handlers"
	appErrors "github.com/lokatani/marketplace-api/internal/errors"
	"github.com/lokatani/marketplace-api/internal/models"
	"github.com/lokatani/marketplace-api/internal/services/mocks"
	"github.com/lokatani/marketplace-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestCreateOrder tests the CreateOrder handler
func TestCreateOrder(t *testing.T) {
	createReq := models.CreateOrderRequest{
		Items: []models.OrderItem{{ProductID: uuid.NewString(), ProductName: "Beras", Price: 75000, Quantity: 2}},
		Total: 150000,
	}

	t.Run("Success - Order Created", func(t *testing.T) {
		// Arrange
		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		expectedOrder := &models.Order{
			ID:        uuid.New(),
			BuyerID:   testBuyer.ID,
			BuyerName: testBuyer.Name,
			Items:     createReq.Items,
			Total:     createReq.Total,
			Status:    models.OrderStatusCompleted,
			CreatedAt: time.Now(),
		}

		mockOrderService.On("CreateOrder", mock.Anything, testBuyer, &createReq).Return(expectedOrder, nil).Once()

		body, _ := json.Marshal(createReq)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/orders", bytes.NewReader(body), testBuyer, nil)
		rr := httptest.NewRecorder()

		// Act
		orderHandler.CreateOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var order models.Order
		decodeData(t, rr, &order)
		assert.Equal(t, expectedOrder.ID, order.ID)
		assert.Equal(t, models.OrderStatusCompleted, order.Status)
		assert.Equal(t, createReq.Items, order.Items)
	})

	t.Run("Failure - Empty Items", func(t *testing.T) {
		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/orders", bytes.NewReader([]byte(`{"items": [], "total": 0}`)), testBuyer, nil)
		rr := httptest.NewRecorder()

		orderHandler.CreateOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeValidation, decodeError(t, rr).Code)
		mockOrderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Seller Is Forbidden", func(t *testing.T) {
		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		mockOrderService.On("CreateOrder", mock.Anything, testSeller, &createReq).Return(nil, appErrors.ForbiddenError("Only buyers can create orders")).Once()

		body, _ := json.Marshal(createReq)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/orders", bytes.NewReader(body), testSeller, nil)
		rr := httptest.NewRecorder()

		orderHandler.CreateOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Only buyers can create orders", decodeError(t, rr).Message)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		body, _ := json.Marshal(createReq)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/orders", bytes.NewReader(body), nil)
		rr := httptest.NewRecorder()

		orderHandler.CreateOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestListOrders(t *testing.T) {
	t.Run("Success - Own Orders", func(t *testing.T) {
		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		mockOrderService.On("ListMyOrders", mock.Anything, testBuyer).Return([]*models.Order{
			{ID: uuid.New(), BuyerID: testBuyer.ID, Status: models.OrderStatusCompleted},
		}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/orders", nil, testBuyer, nil)
		rr := httptest.NewRecorder()

		orderHandler.ListOrders().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var orders []models.Order
		decodeData(t, rr, &orders)
		require.Len(t, orders, 1)
		assert.Equal(t, testBuyer.ID, orders[0].BuyerID)
	})

	t.Run("Failure - Store Timeout", func(t *testing.T) {
		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		mockOrderService.On("ListMyOrders", mock.Anything, testBuyer).Return(nil, appErrors.UpstreamUnavailableError("Failed to list orders")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/orders", nil, testBuyer, nil)
		rr := httptest.NewRecorder()

		orderHandler.ListOrders().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
