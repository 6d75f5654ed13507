package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "vincula/internal/errors"
)

var allStatuses = []OrderStatus{
	OrderStatusNew, OrderStatusInProgress, OrderStatusDone, OrderStatusCanceled,
}

var allRoles = []Role{RoleAdmin, RoleManager, RoleOperator, RoleAnalyst}

func TestCanTransition_BaseTable_Manager(t *testing.T) {
	allowed := map[[2]OrderStatus]bool{
		{OrderStatusNew, OrderStatusInProgress}:      true,
		{OrderStatusNew, OrderStatusDone}:            true,
		{OrderStatusNew, OrderStatusCanceled}:        true,
		{OrderStatusInProgress, OrderStatusDone}:     true,
		{OrderStatusInProgress, OrderStatusCanceled}: true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := CanTransition(from, to, RoleManager)
			if allowed[[2]OrderStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				_, ok := apperrors.IsConflictError(err)
				assert.True(t, ok, "%s -> %s should be a conflict, got %v", from, to, err)
			}
		}
	}
}

func TestCanTransition_IllegalPathIsConflictForEveryRole(t *testing.T) {
	// A path outside the base table is a conflict no matter who asks,
	// including terminal statuses and self-transitions.
	illegal := [][2]OrderStatus{
		{OrderStatusDone, OrderStatusNew},
		{OrderStatusDone, OrderStatusInProgress},
		{OrderStatusCanceled, OrderStatusDone},
		{OrderStatusNew, OrderStatusNew},
		{OrderStatusInProgress, OrderStatusInProgress},
		{OrderStatusInProgress, OrderStatusNew},
	}

	for _, role := range allRoles {
		for _, pair := range illegal {
			err := CanTransition(pair[0], pair[1], role)
			_, ok := apperrors.IsConflictError(err)
			assert.True(t, ok, "role %s, %s -> %s: got %v", role, pair[0], pair[1], err)
		}
	}
}

func TestCanTransition_AdminMatchesManager(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			adminErr := CanTransition(from, to, RoleAdmin)
			managerErr := CanTransition(from, to, RoleManager)
			assert.Equal(t, adminErr == nil, managerErr == nil, "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_Operator(t *testing.T) {
	assert.NoError(t, CanTransition(OrderStatusNew, OrderStatusInProgress, RoleOperator))

	forbidden := [][2]OrderStatus{
		{OrderStatusNew, OrderStatusDone},
		{OrderStatusNew, OrderStatusCanceled},
		{OrderStatusInProgress, OrderStatusDone},
		{OrderStatusInProgress, OrderStatusCanceled},
	}
	for _, pair := range forbidden {
		err := CanTransition(pair[0], pair[1], RoleOperator)
		_, ok := apperrors.IsForbiddenError(err)
		assert.True(t, ok, "%s -> %s: got %v", pair[0], pair[1], err)
	}
}

func TestCanTransition_AnalystNeverChangesStatus(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := CanTransition(from, to, RoleAnalyst)
			assert.Error(t, err, "%s -> %s", from, to)
			if _, isConflict := apperrors.IsConflictError(err); isConflict {
				continue
			}
			_, ok := apperrors.IsForbiddenError(err)
			assert.True(t, ok, "%s -> %s: got %v", from, to, err)
		}
	}
}

func TestCanTransition_UnknownRoleIsForbidden(t *testing.T) {
	err := CanTransition(OrderStatusNew, OrderStatusInProgress, Role("intern"))
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)
}
