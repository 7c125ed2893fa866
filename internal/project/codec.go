package project

import (
	"strings"
	"time"

	"amani/internal/codec"
	"amani/internal/document"
	dErrors "amani/pkg/domain-errors"
	"amani/pkg/patch"
)

// Codec maps projects between their stored and domain shapes.
type Codec struct{}

func (Codec) Collection() string { return document.CollectionProjects }

func (Codec) Validate(n New) error {
	switch {
	case strings.TrimSpace(n.Name) == "":
		return dErrors.New(dErrors.CodeValidation, "name is required")
	case n.StartDate.IsZero():
		return dErrors.New(dErrors.CodeValidation, "startDate is required")
	default:
		return nil
	}
}

func (Codec) Read(doc document.Document, id string) (Project, []string, error) {
	d := codec.NewDecoder(doc, id)

	p := Project{
		ID:        id,
		Name:      d.String("name"),
		ProgramID: d.String("programId"),
		Status:    d.StringOr("status", StatusPlanned),
		StartDate: d.RequiredInstant("startDate"),
		EndDate:   d.OptionalInstant("endDate"),
		Budget:    d.Float("budget"),
		Team:      d.StringList("team"),
		Notes:     d.String("notes"),
		CreatedAt: d.RequiredInstant("createdAt"),
		UpdatedAt: d.RequiredInstant("updatedAt"),
	}

	p.Tasks = codec.SubRecords(d, "tasks", func(item *codec.Decoder) Task {
		return Task{
			ID:    item.ID(),
			Title: item.String("title"),
			DueAt: item.OptionalInstant("dueAt"),
			Done:  item.Bool("done"),
		}
	})

	if err := d.Err(); err != nil {
		return Project{}, nil, err
	}
	return p, d.Warnings(), nil
}

func (Codec) CreateDoc(n New, now time.Time) document.Document {
	ts := codec.ToTimestamp(now)
	doc := document.Document{
		"name":      n.Name,
		"programId": codec.OmitEmptyString(n.ProgramID),
		"status":    StatusPlanned,
		"startDate": codec.ToTimestamp(n.StartDate),
		"endDate":   codec.OptionalTimestamp(n.EndDate),
		"budget":    n.Budget,
		"team":      codec.TagList(n.Team),
		"tasks":     encodeTasks(n.Tasks),
		"notes":     codec.OmitEmptyString(n.Notes),
		"createdAt": ts,
		"updatedAt": ts,
	}
	return codec.SanitizeDocument(doc)
}

func (Codec) UpdateDoc(p Patch, _ Project, now time.Time) document.Document {
	doc := document.Document{}
	patch.Apply(doc, "name", p.Name, patch.Identity[string])
	patch.Apply(doc, "programId", p.ProgramID, patch.Identity[string])
	patch.Apply(doc, "status", p.Status, patch.Identity[string])
	patch.Apply(doc, "startDate", p.StartDate, instantValue)
	patch.Apply(doc, "endDate", p.EndDate, instantValue)
	patch.Apply(doc, "budget", p.Budget, patch.Identity[float64])
	patch.Apply(doc, "team", p.Team, func(v []string) any { return codec.TagList(v) })
	patch.Apply(doc, "tasks", p.Tasks, func(v []Task) any { return encodeTasks(v) })
	patch.Apply(doc, "notes", p.Notes, patch.Identity[string])
	doc["updatedAt"] = codec.ToTimestamp(now)
	return codec.SanitizeDocument(doc)
}

func instantValue(t time.Time) any { return codec.ToTimestamp(t) }

func encodeTasks(tasks []Task) []any {
	out := make([]any, len(tasks))
	for i, t := range tasks {
		out[i] = document.Document{
			"id":    codec.EnsureID(t.ID),
			"title": t.Title,
			"dueAt": codec.OptionalTimestamp(t.DueAt),
			"done":  t.Done,
		}
	}
	return out
}
