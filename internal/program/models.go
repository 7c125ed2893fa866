// Package program holds the program aggregate and its document mapping.
package program

import (
	"time"

	"amani/pkg/patch"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// Program is a long-running initiative beneficiaries are enrolled in.
type Program struct {
	ID          string
	Name        string
	Description string
	Status      string
	StartDate   time.Time
	EndDate     *time.Time
	Budget      float64
	Coordinator string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New is the create payload; Name and StartDate are required.
type New struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	Budget      float64
	Coordinator string
	Tags        []string
}

// Patch is the partial update. Clearing EndDate writes a literal null so
// an open-ended program is distinguishable from an untouched one.
type Patch struct {
	Name        patch.Field[string]
	Description patch.Field[string]
	Status      patch.Field[string]
	StartDate   patch.Field[time.Time]
	EndDate     patch.Field[time.Time]
	Budget      patch.Field[float64]
	Coordinator patch.Field[string]
	Tags        patch.Field[[]string]
}
