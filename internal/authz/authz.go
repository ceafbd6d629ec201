// Package authz decides whether an actor may perform an action. It has no
// transport dependencies so services and middleware share one predicate.
package authz

import "github.com/ikkim/storefront-backend/internal/app/model"

type Action string

const (
	ActionViewCheckout     Action = "checkout:view"
	ActionPayCheckout      Action = "checkout:pay"
	ActionFinalizeCheckout Action = "checkout:finalize"
	ActionViewOrder        Action = "order:view"
	ActionManageProducts   Action = "products:manage"
	ActionManageOrders     Action = "orders:manage"
	ActionManageUsers      Action = "users:manage"
)

// Actor is the authenticated caller.
type Actor struct {
	UserID uint
	Role   model.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// Resource is anything owned by a single user.
type Resource interface {
	OwnerID() uint
}

var adminOnly = map[Action]bool{
	ActionManageProducts: true,
	ActionManageOrders:   true,
	ActionManageUsers:    true,
}

var ownerScoped = map[Action]bool{
	ActionViewCheckout:     true,
	ActionPayCheckout:      true,
	ActionFinalizeCheckout: true,
	ActionViewOrder:        true,
}

// Can reports whether actor may perform action on resource. Admins may do
// everything. Owner-scoped actions need a resource owned by the actor.
// Unknown actions are denied.
func Can(actor Actor, action Action, resource Resource) bool {
	if actor.UserID == 0 {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if adminOnly[action] {
		return false
	}
	if ownerScoped[action] {
		return resource != nil && resource.OwnerID() == actor.UserID
	}
	return false
}
