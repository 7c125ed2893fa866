package program

import (
	"strings"
	"time"

	"amani/internal/codec"
	"amani/internal/document"
	dErrors "amani/pkg/domain-errors"
	"amani/pkg/patch"
)

// Codec maps programs between their stored and domain shapes.
type Codec struct{}

func (Codec) Collection() string { return document.CollectionPrograms }

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

func (Codec) Read(doc document.Document, id string) (Program, []string, error) {
	d := codec.NewDecoder(doc, id)

	p := Program{
		ID:          id,
		Name:        d.String("name"),
		Description: d.String("description"),
		Status:      d.StringOr("status", StatusActive),
		StartDate:   d.RequiredInstant("startDate"),
		EndDate:     d.OptionalInstant("endDate"),
		Budget:      d.Float("budget"),
		Coordinator: d.String("coordinator"),
		Tags:        d.StringList("tags"),
		CreatedAt:   d.RequiredInstant("createdAt"),
		UpdatedAt:   d.RequiredInstant("updatedAt"),
	}

	if err := d.Err(); err != nil {
		return Program{}, nil, err
	}
	return p, d.Warnings(), nil
}

func (Codec) CreateDoc(n New, now time.Time) document.Document {
	ts := codec.ToTimestamp(now)
	doc := document.Document{
		"name":        n.Name,
		"description": codec.OmitEmptyString(n.Description),
		"status":      StatusActive,
		"startDate":   codec.ToTimestamp(n.StartDate),
		"endDate":     codec.OptionalTimestamp(n.EndDate),
		"budget":      n.Budget,
		"coordinator": codec.OmitEmptyString(n.Coordinator),
		"tags":        codec.TagList(n.Tags),
		"createdAt":   ts,
		"updatedAt":   ts,
	}
	return codec.SanitizeDocument(doc)
}

func (Codec) UpdateDoc(p Patch, _ Program, now time.Time) document.Document {
	doc := document.Document{}
	patch.Apply(doc, "name", p.Name, patch.Identity[string])
	patch.Apply(doc, "description", p.Description, patch.Identity[string])
	patch.Apply(doc, "status", p.Status, patch.Identity[string])
	patch.Apply(doc, "startDate", p.StartDate, instantValue)
	patch.Apply(doc, "endDate", p.EndDate, instantValue)
	patch.Apply(doc, "budget", p.Budget, patch.Identity[float64])
	patch.Apply(doc, "coordinator", p.Coordinator, patch.Identity[string])
	patch.Apply(doc, "tags", p.Tags, func(v []string) any { return codec.TagList(v) })
	doc["updatedAt"] = codec.ToTimestamp(now)
	return codec.SanitizeDocument(doc)
}

func instantValue(t time.Time) any { return codec.ToTimestamp(t) }
