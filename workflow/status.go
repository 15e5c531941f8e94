// Package workflow holds the order status graph: which transitions are
// legal, what a status means for progress, and what can follow it.
package workflow

import (
	"fmt"
	"strings"

	"vertigo-backend/models"
)

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusNew: {
		models.OrderStatusReviewing,
		models.OrderStatusAwaitingInfo,
		models.OrderStatusQuoteSent,
		models.OrderStatusConfirmed,
		models.OrderStatusCancelled,
	},
	models.OrderStatusReviewing: {
		models.OrderStatusAwaitingInfo,
		models.OrderStatusQuoteSent,
		models.OrderStatusConfirmed,
		models.OrderStatusCancelled,
	},
	models.OrderStatusAwaitingInfo: {
		models.OrderStatusReviewing,
		models.OrderStatusQuoteSent,
		models.OrderStatusCancelled,
	},
	models.OrderStatusQuoteSent: {
		models.OrderStatusAwaitingInfo,
		models.OrderStatusConfirmed,
		models.OrderStatusCancelled,
	},
	models.OrderStatusConfirmed: {
		models.OrderStatusApproved,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	},
	models.OrderStatusApproved: {
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	},
	models.OrderStatusCompleted: {},
	models.OrderStatusCancelled: {},
}

// progression is the canonical happy path used for progress reporting.
var progression = []models.OrderStatus{
	models.OrderStatusNew,
	models.OrderStatusReviewing,
	models.OrderStatusAwaitingInfo,
	models.OrderStatusQuoteSent,
	models.OrderStatusConfirmed,
	models.OrderStatusApproved,
	models.OrderStatusCompleted,
}

var labels = map[models.OrderStatus]string{
	models.OrderStatusNew:          "New",
	models.OrderStatusReviewing:    "Reviewing",
	models.OrderStatusAwaitingInfo: "Awaiting information",
	models.OrderStatusQuoteSent:    "Quote sent",
	models.OrderStatusConfirmed:    "Confirmed",
	models.OrderStatusApproved:     "Approved",
	models.OrderStatusCompleted:    "Completed",
	models.OrderStatusCancelled:    "Cancelled",
}

// IsValidTransition reports whether an order in current may move to next.
// Unknown statuses and self-transitions are never valid.
func IsValidTransition(current, next models.OrderStatus) bool {
	for _, s := range transitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from current. An empty slice
// means current is terminal (or unknown).
func NextStatuses(current models.OrderStatus) []models.OrderStatus {
	next := transitions[current]
	out := make([]models.OrderStatus, len(next))
	copy(out, next)
	return out
}

func IsTerminal(current models.OrderStatus) bool {
	next, ok := transitions[current]
	return ok && len(next) == 0
}

// StatusProgress maps current onto the canonical path as a 0-100 percentage.
// Cancelled orders and unknown statuses report 0.
func StatusProgress(current models.OrderStatus) int {
	for i, s := range progression {
		if s == current {
			return i * 100 / (len(progression) - 1)
		}
	}
	return 0
}

func IsKnown(status models.OrderStatus) bool {
	_, ok := transitions[status]
	return ok
}

// ParseStatus accepts the wire form of a status, case-insensitively.
func ParseStatus(raw string) (models.OrderStatus, error) {
	status := models.OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !IsKnown(status) {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return status, nil
}

func Label(status models.OrderStatus) string {
	if l, ok := labels[status]; ok {
		return l
	}
	return string(status)
}

// Statuses lists every known status in canonical order, cancelled last.
func Statuses() []models.OrderStatus {
	out := make([]models.OrderStatus, 0, len(progression)+1)
	out = append(out, progression...)
	return append(out, models.OrderStatusCancelled)
}
