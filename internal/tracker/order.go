package tracker

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

// Order decides how the records returned by the store are arranged for display.
type Order string

const (
	// OrderReverse shows the server's order reversed. It yields newest first only if the
	// store returns records in creation order, which is assumed, not verified.
	OrderReverse Order = "reverse"
	// OrderCreated sorts by createdAt, newest first. When any record lacks a timestamp
	// it falls back to OrderReverse.
	OrderCreated Order = "created"
	// OrderServer keeps the order the store returned.
	OrderServer Order = "server"
)

// DefaultOrder is used when no order is configured.
const DefaultOrder = OrderReverse

// ParseOrder parses an order name; the empty string yields DefaultOrder.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultOrder, nil
	case OrderReverse:
		return OrderReverse, nil
	case OrderCreated:
		return OrderCreated, nil
	case OrderServer:
		return OrderServer, nil
	default:
		return "", fmt.Errorf("unknown order %q (want reverse, created or server)", s)
	}
}

// Apply returns a newly allocated, reordered copy of jobs.
func (o Order) Apply(jobs []types.JobApplication) []types.JobApplication {
	out := slices.Clone(jobs)
	if out == nil {
		out = []types.JobApplication{}
	}
	switch o {
	case OrderServer:
		return out
	case OrderCreated:
		if allTimestamped(out) {
			slices.SortStableFunc(out, func(a, b types.JobApplication) int {
				return b.CreatedAt.Time.Compare(a.CreatedAt.Time)
			})
			return out
		}
	}
	slices.Reverse(out)
	return out
}

func allTimestamped(jobs []types.JobApplication) bool {
	for _, job := range jobs {
		if job.CreatedAt == nil || job.CreatedAt.IsZero() {
			return false
		}
	}
	return true
}
