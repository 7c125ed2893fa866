// Package grant holds the grant aggregate and its document mapping.
package grant

import (
	"time"

	"amani/pkg/patch"
)

const (
	StatusProspect = "prospect"
	StatusAwarded  = "awarded"
	StatusClosed   = "closed"
)

// Grant tracks institutional funding, its milestones and disbursements.
// RemainingAmount derives from Amount and Disbursements on every write
// touching either.
type Grant struct {
	ID              string
	Funder          string
	Title           string
	Amount          float64
	Currency        string
	Status          string
	StartDate       time.Time
	EndDate         *time.Time
	Milestones      []Milestone
	Disbursements   []Disbursement
	RemainingAmount float64
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Milestone is a sub-record deliverable within the grant period.
type Milestone struct {
	ID        string
	Title     string
	DueAt     time.Time
	Completed bool
}

// Disbursement is a sub-record tranche of received funds.
type Disbursement struct {
	ID         string
	Amount     float64
	ReceivedAt time.Time
}

// New is the create payload; Funder, Title and StartDate are required.
type New struct {
	Funder        string
	Title         string
	Amount        float64
	Currency      string
	StartDate     time.Time
	EndDate       *time.Time
	Milestones    []Milestone
	Disbursements []Disbursement
	Notes         string
}

// Patch is the partial update; RemainingAmount recomputes whenever Amount
// or Disbursements appear.
type Patch struct {
	Funder        patch.Field[string]
	Title         patch.Field[string]
	Amount        patch.Field[float64]
	Currency      patch.Field[string]
	Status        patch.Field[string]
	StartDate     patch.Field[time.Time]
	EndDate       patch.Field[time.Time]
	Milestones    patch.Field[[]Milestone]
	Disbursements patch.Field[[]Disbursement]
	Notes         patch.Field[string]
}

// Remaining computes undisbursed funds for an amount and disbursement
// list.
func Remaining(amount float64, disbursements []Disbursement) float64 {
	remaining := amount
	for _, d := range disbursements {
		remaining -= d.Amount
	}
	return remaining
}
