// Package beneficiary holds the beneficiary aggregate and its document
// mapping.
package beneficiary

import (
	"time"

	"amani/pkg/patch"
)

// Statuses a beneficiary can be in. Soft retirement is a status update;
// hard deletion goes through the repository's Delete.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// GenderUnspecified is the fallback when a stored record carries no
// gender.
const GenderUnspecified = "unspecified"

// Beneficiary is a person supported by one or more programs. Every field
// is populated after a read: optional fields default, lists are never nil.
type Beneficiary struct {
	ID          string
	FirstName   string
	LastName    string
	Gender      string
	DateOfBirth time.Time
	Address     Address
	Phone       string
	Email       string
	Status      string
	Programs    []string
	Bills       []MedicalBill
	AmountSpent float64
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Address is a required nested object; a stored non-object address fails
// the read rather than defaulting silently.
type Address struct {
	Line1   string
	City    string
	Country string
}

// MedicalBill is a sub-record: it lives only inside its beneficiary and
// always carries an identifier after any write.
type MedicalBill struct {
	ID          string
	Description string
	Amount      float64
	BilledAt    time.Time
	PaidAt      *time.Time
}

// New is the create payload. FirstName, LastName, DateOfBirth and
// Address.Line1 are required; everything else defaults.
type New struct {
	FirstName   string
	LastName    string
	Gender      string
	DateOfBirth time.Time
	Address     Address
	Phone       string
	Email       string
	Programs    []string
	Bills       []MedicalBill
	AmountSpent float64
	Notes       string
}

// Patch is the partial update; unset fields leave stored values untouched.
type Patch struct {
	FirstName   patch.Field[string]
	LastName    patch.Field[string]
	Gender      patch.Field[string]
	DateOfBirth patch.Field[time.Time]
	Address     patch.Field[Address]
	Phone       patch.Field[string]
	Email       patch.Field[string]
	Status      patch.Field[string]
	Programs    patch.Field[[]string]
	Bills       patch.Field[[]MedicalBill]
	AmountSpent patch.Field[float64]
	Notes       patch.Field[string]
}
