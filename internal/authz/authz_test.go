package authz_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lokatani/marketplace-api/internal/authz"
	appErrors "github.com/lokatani/marketplace-api/internal/errors"
	"github.com/lokatani/marketplace-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	seller := &models.User{ID: uuid.New(), Name: "Farmer A", Role: models.RoleSeller}
	buyer := &models.User{ID: uuid.New(), Name: "Buyer B", Role: models.RoleBuyer}

	tests := []struct {
		name     string
		identity *models.User
		action   authz.Action
		allowed  bool
		reason   authz.Reason
	}{
		{"Seller creates product", seller, authz.ActionCreateProduct, true, authz.ReasonPermitted},
		{"Buyer creates product", buyer, authz.ActionCreateProduct, false, authz.ReasonWrongRole},
		{"Buyer updates product", buyer, authz.ActionUpdateProduct, false, authz.ReasonWrongRole},
		{"Buyer deletes product", buyer, authz.ActionDeleteProduct, false, authz.ReasonWrongRole},
		{"Buyer lists own products", buyer, authz.ActionListOwnProducts, false, authz.ReasonWrongRole},
		{"Seller lists own products", seller, authz.ActionListOwnProducts, true, authz.ReasonPermitted},
		{"Buyer creates order", buyer, authz.ActionCreateOrder, true, authz.ReasonPermitted},
		{"Seller creates order", seller, authz.ActionCreateOrder, false, authz.ReasonWrongRole},
		{"Seller manages cart", seller, authz.ActionManageCart, true, authz.ReasonPermitted},
		{"Buyer manages cart", buyer, authz.ActionManageCart, true, authz.ReasonPermitted},
		{"Seller lists orders", seller, authz.ActionListOwnOrders, true, authz.ReasonPermitted},
		{"Anonymous manages cart", nil, authz.ActionManageCart, false, authz.ReasonUnauthenticated},
		{"Zero identity", &models.User{Role: models.RoleSeller}, authz.ActionCreateProduct, false, authz.ReasonUnauthenticated},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := authz.Authorize(tc.identity, tc.action)

			assert.Equal(t, tc.allowed, decision.Allowed)
			assert.Equal(t, tc.reason, decision.Reason)
			assert.Equal(t, tc.action, decision.Action)
		})
	}
}

func TestAuthorizeOwner(t *testing.T) {
	sellerA := &models.User{ID: uuid.New(), Role: models.RoleSeller}
	sellerB := &models.User{ID: uuid.New(), Role: models.RoleSeller}
	buyer := &models.User{ID: uuid.New(), Role: models.RoleBuyer}
	productOfA := authz.Resource{OwnerID: sellerA.ID}

	t.Run("Owner may update and delete", func(t *testing.T) {
		for _, action := range []authz.Action{authz.ActionUpdateProduct, authz.ActionDeleteProduct} {
			decision := authz.AuthorizeOwner(sellerA, action, productOfA)
			assert.True(t, decision.Allowed, action)
			assert.NoError(t, decision.Err())
		}
	})

	t.Run("Other seller is rejected for ownership", func(t *testing.T) {
		for _, action := range []authz.Action{authz.ActionUpdateProduct, authz.ActionDeleteProduct} {
			decision := authz.AuthorizeOwner(sellerB, action, productOfA)
			assert.False(t, decision.Allowed)
			assert.Equal(t, authz.ReasonNotOwner, decision.Reason)

			appErr, ok := appErrors.IsAppError(decision.Err())
			require.True(t, ok)
			assert.Equal(t, appErrors.ErrCodeForbiddenOwnership, appErr.Code)
		}
	})

	t.Run("Role gate is evaluated before ownership", func(t *testing.T) {
		ownedByBuyer := authz.Resource{OwnerID: buyer.ID}

		decision := authz.AuthorizeOwner(buyer, authz.ActionUpdateProduct, ownedByBuyer)
		assert.Equal(t, authz.ReasonWrongRole, decision.Reason)

		appErr, ok := appErrors.IsAppError(decision.Err())
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeForbidden, appErr.Code)
		assert.Equal(t, "Only sellers can update products", appErr.Message)
	})

	t.Run("Ownership is ignored for actions that are not owner gated", func(t *testing.T) {
		decision := authz.AuthorizeOwner(sellerB, authz.ActionCreateProduct, productOfA)
		assert.True(t, decision.Allowed)
		assert.False(t, authz.RequiresOwnership(authz.ActionCreateProduct))
		assert.True(t, authz.RequiresOwnership(authz.ActionDeleteProduct))
	})
}

func TestDecisionErr(t *testing.T) {
	decision := authz.Authorize(nil, authz.ActionCreateOrder)

	appErr, ok := appErrors.IsAppError(decision.Err())
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeUnauthorized, appErr.Code)

	decision = authz.Authorize(&models.User{ID: uuid.New(), Role: models.RoleSeller}, authz.ActionCreateOrder)
	appErr, ok = appErrors.IsAppError(decision.Err())
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrCodeForbidden, appErr.Code)
	assert.Equal(t, "Only buyers can create orders", appErr.Message)
}
