// Package partner holds the partner-organization aggregate and its
// document mapping.
package partner

import (
	"time"

	"amani/pkg/patch"
)

// Partner types; TypeOther is the fallback for stored records carrying an
// unknown or missing type.
const (
	TypeGovernment = "government"
	TypeCorporate  = "corporate"
	TypeNGO        = "ngo"
	TypeCommunity  = "community"
	TypeOther      = "other"
)

// Partner is an external organization the NGO works with.
type Partner struct {
	ID           string
	Name         string
	Type         string
	ContactName  string
	ContactEmail string
	Phone        string
	Website      string
	Active       bool
	Engagements  []Engagement
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Engagement is a sub-record collaboration with the partner.
type Engagement struct {
	ID          string
	Description string
	StartedAt   time.Time
	EndedAt     *time.Time
}

// New is the create payload; only Name is required.
type New struct {
	Name         string
	Type         string
	ContactName  string
	ContactEmail string
	Phone        string
	Website      string
	Engagements  []Engagement
	Notes        string
}

// Patch is the partial update.
type Patch struct {
	Name         patch.Field[string]
	Type         patch.Field[string]
	ContactName  patch.Field[string]
	ContactEmail patch.Field[string]
	Phone        patch.Field[string]
	Website      patch.Field[string]
	Active       patch.Field[bool]
	Engagements  patch.Field[[]Engagement]
	Notes        patch.Field[string]
}

func knownType(t string) bool {
	switch t {
	case TypeGovernment, TypeCorporate, TypeNGO, TypeCommunity, TypeOther:
		return true
	default:
		return false
	}
}
