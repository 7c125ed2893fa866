package calendar

import (
	"strings"
	"time"

	"amani/internal/codec"
	"amani/internal/document"
	dErrors "amani/pkg/domain-errors"
	"amani/pkg/patch"
)

// Codec maps calendar events between their stored and domain shapes.
type Codec struct{}

func (Codec) Collection() string { return document.CollectionEvents }

func (Codec) Validate(n New) error {
	switch {
	case strings.TrimSpace(n.Title) == "":
		return dErrors.New(dErrors.CodeValidation, "title is required")
	case n.StartsAt.IsZero():
		return dErrors.New(dErrors.CodeValidation, "startsAt is required")
	default:
		return nil
	}
}

func (Codec) Read(doc document.Document, id string) (Event, []string, error) {
	d := codec.NewDecoder(doc, id)

	e := Event{
		ID:          id,
		Title:       d.String("title"),
		Description: d.String("description"),
		StartsAt:    d.RequiredInstant("startsAt"),
		EndsAt:      d.OptionalInstant("endsAt"),
		AllDay:      d.Bool("allDay"),
		Location:    d.String("location"),
		RelatedType: d.String("relatedType"),
		RelatedID:   d.String("relatedId"),
		Attendees:   d.StringList("attendees"),
		CreatedAt:   d.RequiredInstant("createdAt"),
		UpdatedAt:   d.RequiredInstant("updatedAt"),
	}

	e.Reminders = codec.SubRecords(d, "reminders", func(item *codec.Decoder) Reminder {
		return Reminder{
			ID:            item.ID(),
			OffsetMinutes: item.Float("offsetMinutes"),
			Channel:       item.StringOr("channel", "email"),
		}
	})

	if err := d.Err(); err != nil {
		return Event{}, nil, err
	}
	return e, d.Warnings(), nil
}

func (Codec) CreateDoc(n New, now time.Time) document.Document {
	ts := codec.ToTimestamp(now)
	doc := document.Document{
		"title":       n.Title,
		"description": codec.OmitEmptyString(n.Description),
		"startsAt":    codec.ToTimestamp(n.StartsAt),
		"endsAt":      codec.OptionalTimestamp(n.EndsAt),
		"allDay":      n.AllDay,
		"location":    codec.OmitEmptyString(n.Location),
		"relatedType": codec.OmitEmptyString(n.RelatedType),
		"relatedId":   codec.OmitEmptyString(n.RelatedID),
		"attendees":   codec.TagList(n.Attendees),
		"reminders":   encodeReminders(n.Reminders),
		"createdAt":   ts,
		"updatedAt":   ts,
	}
	return codec.SanitizeDocument(doc)
}

func (Codec) UpdateDoc(p Patch, _ Event, now time.Time) document.Document {
	doc := document.Document{}
	patch.Apply(doc, "title", p.Title, patch.Identity[string])
	patch.Apply(doc, "description", p.Description, patch.Identity[string])
	patch.Apply(doc, "startsAt", p.StartsAt, instantValue)
	patch.Apply(doc, "endsAt", p.EndsAt, instantValue)
	patch.Apply(doc, "allDay", p.AllDay, patch.Identity[bool])
	patch.Apply(doc, "location", p.Location, patch.Identity[string])
	patch.Apply(doc, "relatedType", p.RelatedType, patch.Identity[string])
	patch.Apply(doc, "relatedId", p.RelatedID, patch.Identity[string])
	patch.Apply(doc, "attendees", p.Attendees, func(v []string) any { return codec.TagList(v) })
	patch.Apply(doc, "reminders", p.Reminders, func(v []Reminder) any { return encodeReminders(v) })
	doc["updatedAt"] = codec.ToTimestamp(now)
	return codec.SanitizeDocument(doc)
}

func instantValue(t time.Time) any { return codec.ToTimestamp(t) }

func encodeReminders(reminders []Reminder) []any {
	out := make([]any, len(reminders))
	for i, r := range reminders {
		channel := r.Channel
		if channel == "" {
			channel = "email"
		}
		out[i] = document.Document{
			"id":            codec.EnsureID(r.ID),
			"offsetMinutes": r.OffsetMinutes,
			"channel":       channel,
		}
	}
	return out
}
