package service

import (
	"fmt"
	"strings"

	"khawam-pro/models/khawam"
)

// Transition table for order statuses. The table is fixed; it is not
// configurable at runtime. Delivery type only matters at "preparing", where
// it decides between the courier and pickup branches.
var statusTransitions = map[khawam.OrderStatus][]khawam.OrderStatus{
	khawam.OrderStatusPending: {
		khawam.OrderStatusPreparing,
		khawam.OrderStatusRejected,
		khawam.OrderStatusCancelled,
	},
	khawam.OrderStatusAccepted: {
		khawam.OrderStatusPreparing,
		khawam.OrderStatusRejected,
		khawam.OrderStatusCancelled,
	},
	khawam.OrderStatusShipping: {
		khawam.OrderStatusCompleted,
		khawam.OrderStatusCancelled,
	},
	khawam.OrderStatusAwaitingPickup: {
		khawam.OrderStatusCompleted,
		khawam.OrderStatusCancelled,
	},
	// Terminal states.
	khawam.OrderStatusCompleted: {},
	khawam.OrderStatusCancelled: {},
	khawam.OrderStatusRejected:  {},
	khawam.OrderStatusArchived:  {},
}

// NextAllowed returns the legal next statuses for an order in the given
// status with the given delivery type. The current status itself is never
// part of the returned set. Terminal statuses return an empty set.
func NextAllowed(current khawam.OrderStatus, deliveryType khawam.DeliveryType) []khawam.OrderStatus {
	if current == khawam.OrderStatusPreparing {
		switch deliveryType {
		case khawam.DeliveryTypeDelivery:
			return []khawam.OrderStatus{khawam.OrderStatusShipping, khawam.OrderStatusCancelled}
		case khawam.DeliveryTypeSelf:
			return []khawam.OrderStatus{khawam.OrderStatusAwaitingPickup, khawam.OrderStatusCancelled}
		default:
			// Unknown delivery type: permissive union so staff can still
			// move the order forward.
			return []khawam.OrderStatus{
				khawam.OrderStatusShipping,
				khawam.OrderStatusAwaitingPickup,
				khawam.OrderStatusCancelled,
			}
		}
	}

	next, ok := statusTransitions[current]
	if !ok {
		return nil
	}
	out := make([]khawam.OrderStatus, len(next))
	copy(out, next)
	return out
}

// StatusOptionsForOrder returns the option set the dashboard offers for an
// order: the current status (a legal no-op selection) followed by every
// allowed next status. The current status appears exactly once.
func StatusOptionsForOrder(order *khawam.Order) []khawam.OrderStatus {
	options := []khawam.OrderStatus{order.Status}
	for _, next := range NextAllowed(order.Status, order.DeliveryType) {
		if next != order.Status {
			options = append(options, next)
		}
	}
	return options
}

// reasonRequired lists statuses that demand a free-text reason.
var reasonRequired = map[khawam.OrderStatus]bool{
	khawam.OrderStatusCancelled: true,
	khawam.OrderStatusRejected:  true,
}

// ValidateTransition rejects a status change whose target is neither the
// current status nor in the allowed-next set, naming the allowed
// alternatives in the error. Cancelling or rejecting with a blank reason is
// a validation failure, never silently defaulted.
func ValidateTransition(current, target khawam.OrderStatus, deliveryType khawam.DeliveryType, reason string) error {
	if reasonRequired[target] && strings.TrimSpace(reason) == "" {
		return fmt.Errorf("a reason is required to move an order to %q", target)
	}

	if target == current {
		// No-op selection, always legal.
		return nil
	}

	allowed := NextAllowed(current, deliveryType)
	for _, next := range allowed {
		if next == target {
			return nil
		}
	}

	names := make([]string, 0, len(allowed)+1)
	names = append(names, string(current))
	for _, next := range allowed {
		names = append(names, string(next))
	}
	return fmt.Errorf("cannot move order from %q to %q; allowed: %s",
		current, target, strings.Join(names, ", "))
}
