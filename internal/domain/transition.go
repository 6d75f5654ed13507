package domain

import (
	"fmt"

	apperrors "vincula/internal/errors"
)

type transition struct {
	from OrderStatus
	to   OrderStatus
}

// baseTransitions is the status machine topology, independent of who asks.
// DONE and CANCELED are terminal: no outgoing edges exist.
var baseTransitions = map[transition]bool{
	{OrderStatusNew, OrderStatusInProgress}:      true,
	{OrderStatusNew, OrderStatusDone}:            true,
	{OrderStatusNew, OrderStatusCanceled}:        true,
	{OrderStatusInProgress, OrderStatusDone}:     true,
	{OrderStatusInProgress, OrderStatusCanceled}: true,
}

// restrictedTransitions narrows the base table for roles without full
// order-management rights. A role absent from this map and without
// CanManageOrders may not change status at all.
var restrictedTransitions = map[Role]map[transition]bool{
	RoleOperator: {
		{OrderStatusNew, OrderStatusInProgress}: true,
	},
	RoleAnalyst: {},
}

// CanTransition decides whether the given role may move an order from
// current to requested. A path missing from the base table fails with a
// conflict, a path the role may not take fails with a forbidden error, so
// callers can tell "this path never exists" from "you lack rights".
func CanTransition(current, requested OrderStatus, role Role) error {
	tr := transition{from: current, to: requested}

	if !baseTransitions[tr] {
		return apperrors.NewConflictError(
			fmt.Sprintf("transition from %s to %s is not allowed", current, requested))
	}

	if role.CanManageOrders() {
		return nil
	}

	if allowed, ok := restrictedTransitions[role]; ok && allowed[tr] {
		return nil
	}

	return apperrors.NewForbiddenError(
		fmt.Sprintf("role %s may not move an order from %s to %s", role, current, requested))
}
