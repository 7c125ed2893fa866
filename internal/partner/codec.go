package partner

import (
	"strings"
	"time"

	"amani/internal/codec"
	"amani/internal/document"
	dErrors "amani/pkg/domain-errors"
	"amani/pkg/patch"
)

// Codec maps partners between their stored and domain shapes.
type Codec struct{}

func (Codec) Collection() string { return document.CollectionPartners }

func (Codec) Validate(n New) error {
	if strings.TrimSpace(n.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func (Codec) Read(doc document.Document, id string) (Partner, []string, error) {
	d := codec.NewDecoder(doc, id)

	p := Partner{
		ID:           id,
		Name:         d.String("name"),
		Type:         d.StringOr("type", TypeOther),
		ContactName:  d.String("contactName"),
		ContactEmail: d.String("contactEmail"),
		Phone:        d.String("phone"),
		Website:      d.String("website"),
		Active:       d.BoolOr("active", true),
		Notes:        d.String("notes"),
		CreatedAt:    d.RequiredInstant("createdAt"),
		UpdatedAt:    d.RequiredInstant("updatedAt"),
	}
	// Unknown stored types collapse to the fallback rather than leaking
	// free text into the domain.
	if !knownType(p.Type) {
		p.Type = TypeOther
	}

	p.Engagements = codec.SubRecords(d, "engagements", func(item *codec.Decoder) Engagement {
		return Engagement{
			ID:          item.ID(),
			Description: item.String("description"),
			StartedAt:   item.RequiredInstant("startedAt"),
			EndedAt:     item.OptionalInstant("endedAt"),
		}
	})

	if err := d.Err(); err != nil {
		return Partner{}, nil, err
	}
	return p, d.Warnings(), nil
}

func (Codec) CreateDoc(n New, now time.Time) document.Document {
	partnerType := n.Type
	if !knownType(partnerType) {
		partnerType = TypeOther
	}
	ts := codec.ToTimestamp(now)
	doc := document.Document{
		"name":         n.Name,
		"type":         partnerType,
		"contactName":  codec.OmitEmptyString(n.ContactName),
		"contactEmail": codec.OmitEmptyString(n.ContactEmail),
		"phone":        codec.OmitEmptyString(n.Phone),
		"website":      codec.OmitEmptyString(n.Website),
		"active":       true,
		"engagements":  encodeEngagements(n.Engagements),
		"notes":        codec.OmitEmptyString(n.Notes),
		"createdAt":    ts,
		"updatedAt":    ts,
	}
	return codec.SanitizeDocument(doc)
}

func (Codec) UpdateDoc(p Patch, _ Partner, now time.Time) document.Document {
	doc := document.Document{}
	patch.Apply(doc, "name", p.Name, patch.Identity[string])
	patch.Apply(doc, "type", p.Type, patch.Identity[string])
	patch.Apply(doc, "contactName", p.ContactName, patch.Identity[string])
	patch.Apply(doc, "contactEmail", p.ContactEmail, patch.Identity[string])
	patch.Apply(doc, "phone", p.Phone, patch.Identity[string])
	patch.Apply(doc, "website", p.Website, patch.Identity[string])
	patch.Apply(doc, "active", p.Active, patch.Identity[bool])
	patch.Apply(doc, "engagements", p.Engagements, func(v []Engagement) any { return encodeEngagements(v) })
	patch.Apply(doc, "notes", p.Notes, patch.Identity[string])
	doc["updatedAt"] = codec.ToTimestamp(now)
	return codec.SanitizeDocument(doc)
}

func encodeEngagements(engagements []Engagement) []any {
	out := make([]any, len(engagements))
	for i, e := range engagements {
		out[i] = document.Document{
			"id":          codec.EnsureID(e.ID),
			"description": e.Description,
			"startedAt":   codec.ToTimestamp(e.StartedAt),
			"endedAt":     codec.OptionalTimestamp(e.EndedAt),
		}
	}
	return out
}
