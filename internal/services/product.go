package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lokatani/marketplace-api/internal/api/middleware"
	"github.com/lokatani/marketplace-api/internal/authz"
	appErrors "github.com/lokatani/marketplace-api/internal/errors"
	"github.com/lokatani/marketplace-api/internal/models"
	repository "github.com/lokatani/marketplace-api/internal/repositories"
	"github.com/lokatani/marketplace-api/internal/utils"
)

type ProductService interface {
	CreateProduct(ctx context.Context, identity *models.User, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, identity *models.User, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, identity *models.User, id uuid.UUID) error
	ListProducts(ctx context.Context) ([]*models.Product, error)
	ListMyProducts(ctx context.Context, identity *models.User) ([]*models.Product, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) CreateProduct(ctx context.Context, identity *models.User, req *models.CreateProductRequest) (*models.Product, error) {

	if err := enforce(ctx, authz.Authorize(identity, authz.ActionCreateProduct)); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        utils.SanitizeText(req.Name),
		Description: utils.SanitizeText(req.Description),
		Price:       req.Price,
		Location:    utils.SanitizeText(req.Location),
		ImageBase64: req.ImageBase64,
		OwnerID:     identity.ID,
		OwnerName:   identity.Name,
	}

	if product.Name == "" {
		return nil, appErrors.AddValidationError("name", "must contain text")
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, appErrors.FromStore("Failed to create product", err)
	}

	middleware.LoggerFromContext(ctx).Info("Product created", slog.String("productId", product.ID.String()))

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Product not found", "Failed to get product")
	}

	return product, nil
}

// UpdateProduct checks the role before the lookup and ownership after it, then applies only the
// supplied fields and returns the record as stored.
func (s *productService) UpdateProduct(ctx context.Context, identity *models.User, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	if err := enforce(ctx, authz.Authorize(identity, authz.ActionUpdateProduct)); err != nil {
		return nil, err
	}

	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := enforce(ctx, authz.AuthorizeOwner(identity, authz.ActionUpdateProduct, authz.Resource{OwnerID: product.OwnerID})); err != nil {
		return nil, err
	}

	if req.IsEmpty() {
		return product, nil
	}

	patch := &models.UpdateProductRequest{
		Name:        utils.SanitizeOptional(req.Name),
		Description: utils.SanitizeOptional(req.Description),
		Price:       req.Price,
		Location:    utils.SanitizeOptional(req.Location),
		ImageBase64: req.ImageBase64,
	}

	if patch.Name != nil && *patch.Name == "" {
		return nil, appErrors.AddValidationError("name", "must contain text")
	}

	if err := s.repo.UpdateProduct(ctx, id, patch); err != nil {
		return nil, storeError(err, "Product not found", "Failed to update product")
	}

	return s.GetProductByID(ctx, id)
}

func (s *productService) DeleteProduct(ctx context.Context, identity *models.User, id uuid.UUID) error {

	if err := enforce(ctx, authz.Authorize(identity, authz.ActionDeleteProduct)); err != nil {
		return err
	}

	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return err
	}

	if err := enforce(ctx, authz.AuthorizeOwner(identity, authz.ActionDeleteProduct, authz.Resource{OwnerID: product.OwnerID})); err != nil {
		return err
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return storeError(err, "Product not found", "Failed to delete product")
	}

	middleware.LoggerFromContext(ctx).Info("Product deleted", slog.String("productId", id.String()))

	return nil
}

func (s *productService) ListProducts(ctx context.Context) ([]*models.Product, error) {

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, appErrors.FromStore("Failed to fetch products", err)
	}

	return products, nil
}

func (s *productService) ListMyProducts(ctx context.Context, identity *models.User) ([]*models.Product, error) {

	if err := enforce(ctx, authz.Authorize(identity, authz.ActionListOwnProducts)); err != nil {
		return nil, err
	}

	products, err := s.repo.ListProductsByOwner(ctx, identity.ID)
	if err != nil {
		return nil, appErrors.FromStore("Failed to fetch products", err)
	}

	return products, nil
}
