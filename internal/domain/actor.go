package domain

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleAnalyst  Role = "analyst"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleOperator, RoleAnalyst:
		return Role(s), true
	}
	return "", false
}

// CanManageOrders reports whether the role holds full order-management
// rights: any base-table transition and any editable field on update.
func (r Role) CanManageOrders() bool {
	return r == RoleAdmin || r == RoleManager
}

// Actor is the authenticated party performing an operation.
type Actor struct {
	ID   uint
	Role Role
}
