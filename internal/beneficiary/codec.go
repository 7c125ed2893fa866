package beneficiary

import (
	"strings"
	"time"

	"amani/internal/codec"
	"amani/internal/document"
	dErrors "amani/pkg/domain-errors"
	"amani/pkg/patch"
)

// Codec maps beneficiaries between their stored and domain shapes.
type Codec struct{}

func (Codec) Collection() string { return document.CollectionBeneficiaries }

func (Codec) Validate(n New) error {
	switch {
	case strings.TrimSpace(n.FirstName) == "":
		return dErrors.New(dErrors.CodeValidation, "firstName is required")
	case strings.TrimSpace(n.LastName) == "":
		return dErrors.New(dErrors.CodeValidation, "lastName is required")
	case n.DateOfBirth.IsZero():
		return dErrors.New(dErrors.CodeValidation, "dateOfBirth is required")
	case strings.TrimSpace(n.Address.Line1) == "":
		return dErrors.New(dErrors.CodeValidation, "address.line1 is required")
	default:
		return nil
	}
}

func (Codec) Read(doc document.Document, id string) (Beneficiary, []string, error) {
	d := codec.NewDecoder(doc, id)

	b := Beneficiary{
		ID:          id,
		FirstName:   d.String("firstName"),
		LastName:    d.String("lastName"),
		Gender:      d.StringOr("gender", GenderUnspecified),
		DateOfBirth: d.RequiredInstant("dateOfBirth"),
		Phone:       d.String("phone"),
		Email:       d.String("email"),
		Status:      d.StringOr("status", StatusActive),
		Programs:    d.StringList("programs"),
		AmountSpent: d.Float("amountSpent"),
		Notes:       d.String("notes"),
		CreatedAt:   d.RequiredInstant("createdAt"),
		UpdatedAt:   d.RequiredInstant("updatedAt"),
	}

	addr := d.RequiredObject("address")
	b.Address = Address{
		Line1:   addr.String("line1"),
		City:    addr.String("city"),
		Country: addr.String("country"),
	}

	b.Bills = codec.SubRecords(d, "medicalBills", func(item *codec.Decoder) MedicalBill {
		return MedicalBill{
			ID:          item.ID(),
			Description: item.String("description"),
			Amount:      item.Float("amount"),
			BilledAt:    item.RequiredInstant("billedAt"),
			PaidAt:      item.OptionalInstant("paidAt"),
		}
	})

	if err := d.Err(); err != nil {
		return Beneficiary{}, nil, err
	}
	return b, d.Warnings(), nil
}

func (Codec) CreateDoc(n New, now time.Time) document.Document {
	gender := n.Gender
	if gender == "" {
		gender = GenderUnspecified
	}
	ts := codec.ToTimestamp(now)
	doc := document.Document{
		"firstName":    n.FirstName,
		"lastName":     n.LastName,
		"gender":       gender,
		"dateOfBirth":  codec.ToTimestamp(n.DateOfBirth),
		"address":      encodeAddress(n.Address),
		"phone":        codec.OmitEmptyString(n.Phone),
		"email":        codec.OmitEmptyString(n.Email),
		"status":       StatusActive,
		"programs":     codec.TagList(n.Programs),
		"medicalBills": encodeBills(n.Bills),
		"amountSpent":  n.AmountSpent,
		"notes":        codec.OmitEmptyString(n.Notes),
		"createdAt":    ts,
		"updatedAt":    ts,
	}
	return codec.SanitizeDocument(doc)
}

func (Codec) UpdateDoc(p Patch, _ Beneficiary, now time.Time) document.Document {
	doc := document.Document{}
	patch.Apply(doc, "firstName", p.FirstName, patch.Identity[string])
	patch.Apply(doc, "lastName", p.LastName, patch.Identity[string])
	patch.Apply(doc, "gender", p.Gender, patch.Identity[string])
	patch.Apply(doc, "dateOfBirth", p.DateOfBirth, instantValue)
	patch.Apply(doc, "address", p.Address, func(a Address) any { return encodeAddress(a) })
	patch.Apply(doc, "phone", p.Phone, patch.Identity[string])
	patch.Apply(doc, "email", p.Email, patch.Identity[string])
	patch.Apply(doc, "status", p.Status, patch.Identity[string])
	patch.Apply(doc, "programs", p.Programs, func(v []string) any { return codec.TagList(v) })
	patch.Apply(doc, "medicalBills", p.Bills, func(v []MedicalBill) any { return encodeBills(v) })
	patch.Apply(doc, "amountSpent", p.AmountSpent, patch.Identity[float64])
	patch.Apply(doc, "notes", p.Notes, patch.Identity[string])
	doc["updatedAt"] = codec.ToTimestamp(now)
	return codec.SanitizeDocument(doc)
}

func instantValue(t time.Time) any { return codec.ToTimestamp(t) }

func encodeAddress(a Address) document.Document {
	return document.Document{
		"line1":   a.Line1,
		"city":    a.City,
		"country": a.Country,
	}
}

// encodeBills assigns identifiers to new bills and preserves existing
// ones; the stored list is always replaced wholesale on update.
func encodeBills(bills []MedicalBill) []any {
	out := make([]any, len(bills))
	for i, b := range bills {
		out[i] = document.Document{
			"id":          codec.EnsureID(b.ID),
			"description": b.Description,
			"amount":      b.Amount,
			"billedAt":    codec.ToTimestamp(b.BilledAt),
			"paidAt":      codec.OptionalTimestamp(b.PaidAt),
		}
	}
	return out
}
