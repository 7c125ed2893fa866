package donation

import (
	"strings"
	"time"

	"amani/internal/codec"
	"amani/internal/document"
	dErrors "amani/pkg/domain-errors"
	"amani/pkg/patch"
)

// Codec maps donations between their stored and domain shapes.
type Codec struct{}

func (Codec) Collection() string { return document.CollectionDonations }

func (Codec) Validate(n New) error {
	switch {
	case strings.TrimSpace(n.DonorName) == "":
		return dErrors.New(dErrors.CodeValidation, "donorName is required")
	case n.Amount <= 0:
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	case n.ReceivedAt.IsZero():
		return dErrors.New(dErrors.CodeValidation, "receivedAt is required")
	default:
		return nil
	}
}

func (Codec) Read(doc document.Document, id string) (Donation, []string, error) {
	d := codec.NewDecoder(doc, id)

	dn := Donation{
		ID:               id,
		DonorName:        d.String("donorName"),
		DonorEmail:       d.String("donorEmail"),
		Amount:           d.Float("amount"),
		Currency:         d.StringOr("currency", DefaultCurrency),
		ReceivedAt:       d.RequiredInstant("receivedAt"),
		ProgramID:        d.String("programId"),
		Purpose:          d.String("purpose"),
		BalanceRemaining: d.Float("balanceRemaining"),
		Notes:            d.String("notes"),
		CreatedAt:        d.RequiredInstant("createdAt"),
		UpdatedAt:        d.RequiredInstant("updatedAt"),
	}

	dn.Expenditures = codec.SubRecords(d, "expenditures", func(item *codec.Decoder) Expenditure {
		return Expenditure{
			ID:          item.ID(),
			Description: item.String("description"),
			Amount:      item.Float("amount"),
			SpentAt:     item.RequiredInstant("spentAt"),
		}
	})

	if err := d.Err(); err != nil {
		return Donation{}, nil, err
	}
	return dn, d.Warnings(), nil
}

func (Codec) CreateDoc(n New, now time.Time) document.Document {
	currency := n.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	ts := codec.ToTimestamp(now)
	doc := document.Document{
		"donorName":        n.DonorName,
		"donorEmail":       codec.OmitEmptyString(n.DonorEmail),
		"amount":           n.Amount,
		"currency":         currency,
		"receivedAt":       codec.ToTimestamp(n.ReceivedAt),
		"programId":        codec.OmitEmptyString(n.ProgramID),
		"purpose":          codec.OmitEmptyString(n.Purpose),
		"expenditures":     encodeExpenditures(n.Expenditures),
		"balanceRemaining": Balance(n.Amount, n.Expenditures),
		"notes":            codec.OmitEmptyString(n.Notes),
		"createdAt":        ts,
		"updatedAt":        ts,
	}
	return codec.SanitizeDocument(doc)
}

// UpdateDoc recomputes the balance whenever either of its inputs appears
// in the partial; the other input falls back to the stored current value
// the facade fetched.
func (Codec) UpdateDoc(p Patch, current Donation, now time.Time) document.Document {
	doc := document.Document{}
	patch.Apply(doc, "donorName", p.DonorName, patch.Identity[string])
	patch.Apply(doc, "donorEmail", p.DonorEmail, patch.Identity[string])
	patch.Apply(doc, "amount", p.Amount, patch.Identity[float64])
	patch.Apply(doc, "currency", p.Currency, patch.Identity[string])
	patch.Apply(doc, "receivedAt", p.ReceivedAt, instantValue)
	patch.Apply(doc, "programId", p.ProgramID, patch.Identity[string])
	patch.Apply(doc, "purpose", p.Purpose, patch.Identity[string])
	patch.Apply(doc, "expenditures", p.Expenditures, func(v []Expenditure) any { return encodeExpenditures(v) })
	patch.Apply(doc, "notes", p.Notes, patch.Identity[string])

	if p.Amount.IsSet() || p.Expenditures.IsSet() {
		amount := current.Amount
		if v, ok := p.Amount.Value(); ok {
			amount = v
		}
		expenditures := current.Expenditures
		if v, ok := p.Expenditures.Value(); ok {
			expenditures = v
		}
		doc["balanceRemaining"] = Balance(amount, expenditures)
	}

	doc["updatedAt"] = codec.ToTimestamp(now)
	return codec.SanitizeDocument(doc)
}

func instantValue(t time.Time) any { return codec.ToTimestamp(t) }

func encodeExpenditures(expenditures []Expenditure) []any {
	out := make([]any, len(expenditures))
	for i, e := range expenditures {
		out[i] = document.Document{
			"id":          codec.EnsureID(e.ID),
			"description": e.Description,
			"amount":      e.Amount,
			"spentAt":     codec.ToTimestamp(e.SpentAt),
		}
	}
	return out
}
