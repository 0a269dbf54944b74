package domain

import "github.com/google/uuid"

// BudgetUsage summarises planned spending against a trip's budget.
// Spent is the sum of every activity's EstimatedCost. Remaining and Ratio
// are nil when the trip has no budget.
type BudgetUsage struct {
	TripID    uuid.UUID
	Budget    *float64
	Spent     float64
	Remaining *float64
	Ratio     *float64
}

// NewBudgetUsage derives Remaining and Ratio from budget and spent.
// A zero budget yields a nil Ratio rather than a division by zero.
func NewBudgetUsage(tripID uuid.UUID, budget *float64, spent float64) BudgetUsage {
	u := BudgetUsage{TripID: tripID, Budget: budget, Spent: spent}
	if budget == nil {
		return u
	}
	remaining := *budget - spent
	u.Remaining = &remaining
	if *budget > 0 {
		ratio := spent / *budget
		u.Ratio = &ratio
	}
	return u
}
