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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart godoc
//	@Summary		View cart
//	@Description	Returns the authenticated user's cart with each item's product. Items whose product was deleted are omitted.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.CartView			"Cart contents"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), user)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add to cart
//	@Description	Adds a product to the cart, merging with an existing line. Quantity defaults to 1.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddToCartRequest	true	"Product and quantity"
//	@Success		200		{object}	models.MessageResponse	"Product added to cart"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid input"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"Product not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/add [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddToCartRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add to cart input")
			return
		}

		productID, err := utils.ParseUUID(req.ProductID)
		if err != nil {
			logger.Warn("Invalid product id", slog.String("productId", req.ProductID))
			response.Error(w, err)
			return
		}

		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}

		logger = logger.With(slog.String("productId", productID.String()), slog.Int("quantity", quantity))

		if _, err := h.cartService.AddItem(r.Context(), user, productID, quantity); err != nil {
			logger.Error("Failed to add item to cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart")
		response.Success(w, http.StatusOK, models.MessageResponse{Message: "Product added to cart"})
	}
}

// RemoveItem godoc
//	@Summary		Remove from cart
//	@Description	Removes every line for the product. Removing an absent product succeeds.
//	@Tags			Cart
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.MessageResponse	"Product removed from cart"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Cart not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/remove/{id} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		productID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("productId", productID.String()))

		if _, err := h.cartService.RemoveItem(r.Context(), user, productID); err != nil {
			logger.Error("Failed to remove item from cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item removed from cart")
		response.Success(w, http.StatusOK, models.MessageResponse{Message: "Product removed from cart"})
	}
}

// ClearCart godoc
//	@Summary		Clear cart
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.MessageResponse	"Cart cleared"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/clear [post]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart clear attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		if _, err := h.cartService.ClearCart(r.Context(), user); err != nil {
			logger.Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart cleared")
		response.Success(w, http.StatusOK, models.MessageResponse{Message: "Cart cleared"})
	}
}
