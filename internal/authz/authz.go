// Package authz decides whether an identity may perform an action on a resource.
//
// Rules are evaluated in order: the identity must be known, the action's role gate must
// pass, and for owner-gated actions the resource must belong to the identity. A role
// failure and an ownership failure are reported with different reasons so callers can
// tell them apart.
package authz

import (
	"fmt"

	"github.com/google/uuid"
	appErrors "github.com/lokatani/marketplace-api/internal/errors"
	"github.com/lokatani/marketplace-api/internal/models"
)

type Action string

const (
	ActionCreateProduct   Action = "product:create"
	ActionUpdateProduct   Action = "product:update"
	ActionDeleteProduct   Action = "product:delete"
	ActionListOwnProducts Action = "product:list-own"
	ActionManageCart      Action = "cart:manage"
	ActionCreateOrder     Action = "order:create"
	ActionListOwnOrders   Action = "order:list-own"
)

type Reason string

const (
	ReasonPermitted       Reason = "permitted"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonWrongRole       Reason = "wrong-role"
	ReasonNotOwner        Reason = "not-owner"
)

// Resource carries the attributes of a target the ownership rule looks at.
type Resource struct {
	OwnerID uuid.UUID
}

type Decision struct {
	Action  Action
	Allowed bool
	Reason  Reason
}

// actions missing from this table are open to every authenticated role
var requiredRole = map[Action]models.Role{
	ActionCreateProduct:   models.RoleSeller,
	ActionUpdateProduct:   models.RoleSeller,
	ActionDeleteProduct:   models.RoleSeller,
	ActionListOwnProducts: models.RoleSeller,
	ActionCreateOrder:     models.RoleBuyer,
}

var ownerGated = map[Action]bool{
	ActionUpdateProduct: true,
	ActionDeleteProduct: true,
}

var denyMessages = map[Action]string{
	ActionCreateProduct:   "Only sellers can create products",
	ActionUpdateProduct:   "Only sellers can update products",
	ActionDeleteProduct:   "Only sellers can delete products",
	ActionListOwnProducts: "Only sellers have products",
	ActionCreateOrder:     "Only buyers can create orders",
}

var ownerMessages = map[Action]string{
	ActionUpdateProduct: "You can only update your own products",
	ActionDeleteProduct: "You can only delete your own products",
}

// RequiresOwnership reports whether the action needs AuthorizeOwner after the target is loaded.
func RequiresOwnership(action Action) bool {
	return ownerGated[action]
}

// Authorize applies the identity and role rules. It is enough on its own for every action
// that is not owner-gated; owner-gated actions still need AuthorizeOwner once the target
// has been looked up.
func Authorize(identity *models.User, action Action) Decision {
	if identity == nil || identity.ID == uuid.Nil {
		return Decision{Action: action, Reason: ReasonUnauthenticated}
	}

	if role, gated := requiredRole[action]; gated && identity.Role != role {
		return Decision{Action: action, Reason: ReasonWrongRole}
	}

	return Decision{Action: action, Allowed: true, Reason: ReasonPermitted}
}

// AuthorizeOwner applies every rule, including ownership of the loaded resource.
func AuthorizeOwner(identity *models.User, action Action, resource Resource) Decision {
	decision := Authorize(identity, action)
	if !decision.Allowed || !ownerGated[action] {
		return decision
	}

	if resource.OwnerID != identity.ID {
		return Decision{Action: action, Reason: ReasonNotOwner}
	}

	return decision
}

// Err maps a denial onto the application error taxonomy; it is nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}

	switch d.Reason {
	case ReasonUnauthenticated:
		return appErrors.UnauthorizedError("Authentication required")
	case ReasonNotOwner:
		return appErrors.OwnershipError(messageFor(ownerMessages, d.Action))
	default:
		return appErrors.ForbiddenError(messageFor(denyMessages, d.Action))
	}
}

func messageFor(messages map[Action]string, action Action) string {
	if msg, ok := messages[action]; ok {
		return msg
	}

	return fmt.Sprintf("Not allowed to perform %s", action)
}
