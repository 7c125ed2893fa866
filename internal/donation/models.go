// Package donation holds the donation aggregate and its document mapping.
package donation

import (
	"time"

	"amani/pkg/patch"
)

// DefaultCurrency is assumed when a stored donation carries none.
const DefaultCurrency = "USD"

// Donation records a gift and how it has been spent. BalanceRemaining is
// derived from Amount and Expenditures on every write that touches either;
// it is never independently settable.
type Donation struct {
	ID               string
	DonorName        string
	DonorEmail       string
	Amount           float64
	Currency         string
	ReceivedAt       time.Time
	ProgramID        string
	Purpose          string
	Expenditures     []Expenditure
	BalanceRemaining float64
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expenditure is a sub-record charging spending against the donation.
type Expenditure struct {
	ID          string
	Description string
	Amount      float64
	SpentAt     time.Time
}

// New is the create payload; DonorName, Amount and ReceivedAt are
// required.
type New struct {
	DonorName    string
	DonorEmail   string
	Amount       float64
	Currency     string
	ReceivedAt   time.Time
	ProgramID    string
	Purpose      string
	Expenditures []Expenditure
	Notes        string
}

// Patch is the partial update. There is deliberately no BalanceRemaining
// field: the balance recomputes whenever Amount or Expenditures appear.
type Patch struct {
	DonorName    patch.Field[string]
	DonorEmail   patch.Field[string]
	Amount       patch.Field[float64]
	Currency     patch.Field[string]
	ReceivedAt   patch.Field[time.Time]
	ProgramID    patch.Field[string]
	Purpose      patch.Field[string]
	Expenditures patch.Field[[]Expenditure]
	Notes        patch.Field[string]
}

// Balance computes the remaining balance for an amount and expenditure
// list.
func Balance(amount float64, expenditures []Expenditure) float64 {
	remaining := amount
	for _, e := range expenditures {
		remaining -= e.Amount
	}
	return remaining
}
