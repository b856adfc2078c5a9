package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"khawam-pro/models/khawam"
)

var allStatuses = []khawam.OrderStatus{
	khawam.OrderStatusPending,
	khawam.OrderStatusAccepted,
	khawam.OrderStatusPreparing,
	khawam.OrderStatusShipping,
	khawam.OrderStatusAwaitingPickup,
	khawam.OrderStatusCompleted,
	khawam.OrderStatusCancelled,
	khawam.OrderStatusRejected,
	khawam.OrderStatusArchived,
}

var allDeliveryTypes = []khawam.DeliveryType{
	khawam.DeliveryTypeDelivery,
	khawam.DeliveryTypeSelf,
	khawam.DeliveryType("unknown"),
}

func TestNextAllowedNeverContainsCurrent(t *testing.T) {
	for _, status := range allStatuses {
		for _, dt := range allDeliveryTypes {
			for _, next := range NextAllowed(status, dt) {
				assert.NotEqual(t, status, next,
					"status %q with delivery %q offers itself as next", status, dt)
			}
		}
	}
}

func TestNextAllowedTerminalStatusesAreEmpty(t *testing.T) {
	terminals := []khawam.OrderStatus{
		khawam.OrderStatusCompleted,
		khawam.OrderStatusCancelled,
		khawam.OrderStatusRejected,
		khawam.OrderStatusArchived,
	}
	for _, status := range terminals {
		for _, dt := range allDeliveryTypes {
			assert.Empty(t, NextAllowed(status, dt),
				"terminal status %q must have no transitions", status)
		}
	}
}

func TestNextAllowedPreparingDependsOnDeliveryType(t *testing.T) {
	assert.ElementsMatch(t,
		[]khawam.OrderStatus{khawam.OrderStatusShipping, khawam.OrderStatusCancelled},
		NextAllowed(khawam.OrderStatusPreparing, khawam.DeliveryTypeDelivery))

	assert.ElementsMatch(t,
		[]khawam.OrderStatus{khawam.OrderStatusAwaitingPickup, khawam.OrderStatusCancelled},
		NextAllowed(khawam.OrderStatusPreparing, khawam.DeliveryTypeSelf))

	// Unknown delivery type falls back to the permissive union.
	assert.ElementsMatch(t,
		[]khawam.OrderStatus{
			khawam.OrderStatusShipping,
			khawam.OrderStatusAwaitingPickup,
			khawam.OrderStatusCancelled,
		},
		NextAllowed(khawam.OrderStatusPreparing, khawam.DeliveryType("")))
}

func TestStatusOptionsIncludeCurrentExactlyOnce(t *testing.T) {
	for _, status := range allStatuses {
		for _, dt := range allDeliveryTypes {
			order := &khawam.Order{Status: status, DeliveryType: dt}
			options := StatusOptionsForOrder(order)

			count := 0
			for _, opt := range options {
				if opt == status {
					count++
				}
			}
			assert.Equal(t, 1, count,
				"status %q with delivery %q: current must appear exactly once", status, dt)
		}
	}
}

func TestValidateTransitionRejectsIllegalTarget(t *testing.T) {
	err := ValidateTransition(
		khawam.OrderStatusPreparing, khawam.OrderStatusShipping,
		khawam.DeliveryTypeSelf, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "awaiting_pickup")
	assert.Contains(t, err.Error(), "cancelled")
}

func TestValidateTransitionAllowsNoOp(t *testing.T) {
	for _, status := range allStatuses {
		if reasonRequired[status] {
			continue
		}
		assert.NoError(t, ValidateTransition(status, status, khawam.DeliveryTypeDelivery, ""))
	}
}

func TestValidateTransitionRequiresReasonForCancelAndReject(t *testing.T) {
	for _, target := range []khawam.OrderStatus{khawam.OrderStatusCancelled, khawam.OrderStatusRejected} {
		err := ValidateTransition(khawam.OrderStatusPending, target, khawam.DeliveryTypeDelivery, "")
		assert.Error(t, err, "blank reason must be rejected for %q", target)

		err = ValidateTransition(khawam.OrderStatusPending, target, khawam.DeliveryTypeDelivery, "   \t ")
		assert.Error(t, err, "whitespace-only reason must be rejected for %q", target)

		err = ValidateTransition(khawam.OrderStatusPending, target, khawam.DeliveryTypeDelivery, "customer asked")
		assert.NoError(t, err)
	}
}

func TestValidateTransitionHappyPaths(t *testing.T) {
	assert.NoError(t, ValidateTransition(
		khawam.OrderStatusPending, khawam.OrderStatusPreparing,
		khawam.DeliveryTypeDelivery, ""))

	assert.NoError(t, ValidateTransition(
		khawam.OrderStatusPreparing, khawam.OrderStatusAwaitingPickup,
		khawam.DeliveryTypeSelf, ""))

	assert.NoError(t, ValidateTransition(
		khawam.OrderStatusShipping, khawam.OrderStatusCompleted,
		khawam.DeliveryTypeDelivery, ""))
}
