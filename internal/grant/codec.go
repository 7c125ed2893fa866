package grant

import (
	"strings"
	"time"

	"amani/internal/codec"
	"amani/internal/document"
	dErrors "amani/pkg/domain-errors"
	"amani/pkg/patch"
)

// Codec maps grants between their stored and domain shapes.
type Codec struct{}

func (Codec) Collection() string { return document.CollectionGrants }

func (Codec) Validate(n New) error {
	switch {
	case strings.TrimSpace(n.Funder) == "":
		return dErrors.New(dErrors.CodeValidation, "funder is required")
	case strings.TrimSpace(n.Title) == "":
		return dErrors.New(dErrors.CodeValidation, "title is required")
	case n.StartDate.IsZero():
		return dErrors.New(dErrors.CodeValidation, "startDate is required")
	default:
		return nil
	}
}

func (Codec) Read(doc document.Document, id string) (Grant, []string, error) {
	d := codec.NewDecoder(doc, id)

	g := Grant{
		ID:              id,
		Funder:          d.String("funder"),
		Title:           d.String("title"),
		Amount:          d.Float("amount"),
		Currency:        d.StringOr("currency", "USD"),
		Status:          d.StringOr("status", StatusProspect),
		StartDate:       d.RequiredInstant("startDate"),
		EndDate:         d.OptionalInstant("endDate"),
		RemainingAmount: d.Float("remainingAmount"),
		Notes:           d.String("notes"),
		CreatedAt:       d.RequiredInstant("createdAt"),
		UpdatedAt:       d.RequiredInstant("updatedAt"),
	}

	g.Milestones = codec.SubRecords(d, "milestones", func(item *codec.Decoder) Milestone {
		return Milestone{
			ID:        item.ID(),
			Title:     item.String("title"),
			DueAt:     item.RequiredInstant("dueAt"),
			Completed: item.Bool("completed"),
		}
	})
	g.Disbursements = codec.SubRecords(d, "disbursements", func(item *codec.Decoder) Disbursement {
		return Disbursement{
			ID:         item.ID(),
			Amount:     item.Float("amount"),
			ReceivedAt: item.RequiredInstant("receivedAt"),
		}
	})

	if err := d.Err(); err != nil {
		return Grant{}, nil, err
	}
	return g, d.Warnings(), nil
}

func (Codec) CreateDoc(n New, now time.Time) document.Document {
	currency := n.Currency
	if currency == "" {
		currency = "USD"
	}
	ts := codec.ToTimestamp(now)
	doc := document.Document{
		"funder":          n.Funder,
		"title":           n.Title,
		"amount":          n.Amount,
		"currency":        currency,
		"status":          StatusProspect,
		"startDate":       codec.ToTimestamp(n.StartDate),
		"endDate":         codec.OptionalTimestamp(n.EndDate),
		"milestones":      encodeMilestones(n.Milestones),
		"disbursements":   encodeDisbursements(n.Disbursements),
		"remainingAmount": Remaining(n.Amount, n.Disbursements),
		"notes":           codec.OmitEmptyString(n.Notes),
		"createdAt":       ts,
		"updatedAt":       ts,
	}
	return codec.SanitizeDocument(doc)
}

func (Codec) UpdateDoc(p Patch, current Grant, now time.Time) document.Document {
	doc := document.Document{}
	patch.Apply(doc, "funder", p.Funder, patch.Identity[string])
	patch.Apply(doc, "title", p.Title, patch.Identity[string])
	patch.Apply(doc, "amount", p.Amount, patch.Identity[float64])
	patch.Apply(doc, "currency", p.Currency, patch.Identity[string])
	patch.Apply(doc, "status", p.Status, patch.Identity[string])
	patch.Apply(doc, "startDate", p.StartDate, instantValue)
	patch.Apply(doc, "endDate", p.EndDate, instantValue)
	patch.Apply(doc, "milestones", p.Milestones, func(v []Milestone) any { return encodeMilestones(v) })
	patch.Apply(doc, "disbursements", p.Disbursements, func(v []Disbursement) any { return encodeDisbursements(v) })
	patch.Apply(doc, "notes", p.Notes, patch.Identity[string])

	if p.Amount.IsSet() || p.Disbursements.IsSet() {
		amount := current.Amount
		if v, ok := p.Amount.Value(); ok {
			amount = v
		}
		disbursements := current.Disbursements
		if v, ok := p.Disbursements.Value(); ok {
			disbursements = v
		}
		doc["remainingAmount"] = Remaining(amount, disbursements)
	}

	doc["updatedAt"] = codec.ToTimestamp(now)
	return codec.SanitizeDocument(doc)
}

func instantValue(t time.Time) any { return codec.ToTimestamp(t) }

func encodeMilestones(milestones []Milestone) []any {
	out := make([]any, len(milestones))
	for i, m := range milestones {
		out[i] = document.Document{
			"id":        codec.EnsureID(m.ID),
			"title":     m.Title,
			"dueAt":     codec.ToTimestamp(m.DueAt),
			"completed": m.Completed,
		}
	}
	return out
}

func encodeDisbursements(disbursements []Disbursement) []any {
	out := make([]any, len(disbursements))
	for i, d := range disbursements {
		out[i] = document.Document{
			"id":         codec.EnsureID(d.ID),
			"amount":     d.Amount,
			"receivedAt": codec.ToTimestamp(d.ReceivedAt),
		}
	}
	return out
}
