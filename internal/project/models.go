// Package project holds the project aggregate and its document mapping.
package project

import (
	"time"

	"amani/pkg/patch"
)

const (
	StatusPlanned   = "planned"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Project is a bounded piece of work inside a program.
type Project struct {
	ID        string
	Name      string
	ProgramID string
	Status    string
	StartDate time.Time
	EndDate   *time.Time
	Budget    float64
	Team      []string
	Tasks     []Task
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Task is a sub-record unit of project work.
type Task struct {
	ID    string
	Title string
	DueAt *time.Time
	Done  bool
}

// New is the create payload; Name and StartDate are required.
type New struct {
	Name      string
	ProgramID string
	StartDate time.Time
	EndDate   *time.Time
	Budget    float64
	Team      []string
	Tasks     []Task
	Notes     string
}

// Patch is the partial update.
type Patch struct {
	Name      patch.Field[string]
	ProgramID patch.Field[string]
	Status    patch.Field[string]
	StartDate patch.Field[time.Time]
	EndDate   patch.Field[time.Time]
	Budget    patch.Field[float64]
	Team      patch.Field[[]string]
	Tasks     patch.Field[[]Task]
	Notes     patch.Field[string]
}
