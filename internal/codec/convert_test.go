package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"amani/internal/document"
)

type DecoderSuite struct {
	suite.Suite
}

func TestDecoderSuite(t *testing.T) {
	suite.Run(t, new(DecoderSuite))
}

func (s *DecoderSuite) TestScalarDefaults() {
	d := NewDecoder(document.Document{}, "rec-1")

	s.Equal("", d.String("name"))
	s.Equal("active", d.StringOr("status", "active"))
	s.Equal(0.0, d.Float("amount"))
	s.False(d.Bool("allDay"))
	s.True(d.BoolOr("active", true))
	s.Equal([]string{}, d.StringList("tags"))
	s.NoError(d.Err())
	s.Empty(d.Warnings())
}

func (s *DecoderSuite) TestNullReadsAsDefault() {
	d := NewDecoder(document.Document{"notes": nil, "tags": nil}, "rec-1")

	s.Equal("", d.String("notes"))
	s.Equal([]string{}, d.StringList("tags"))
	s.NoError(d.Err())
}

func (s *DecoderSuite) TestWrongTypeFailsStructurally() {
	d := NewDecoder(document.Document{"firstName": 42.0}, "rec-1")

	_ = d.String("firstName")

	err := d.Err()
	s.Require().Error(err)
	ce, ok := err.(*ConversionError)
	s.Require().True(ok)
	s.Equal("rec-1", ce.EntityID)
	s.Equal("firstName", ce.Field)
}

func (s *DecoderSuite) TestFirstFailureWins() {
	d := NewDecoder(document.Document{"a": 1.0, "b": 2.0}, "rec-1")

	_ = d.String("a")
	_ = d.String("b")

	ce := d.Err().(*ConversionError)
	s.Equal("a", ce.Field)
}

func (s *DecoderSuite) TestNumericWidths() {
	d := NewDecoder(document.Document{
		"float":  12.5,
		"int":    int(3),
		"narrow": int32(4),
		"wide":   int64(5),
	}, "rec-1")

	s.Equal(12.5, d.Float("float"))
	s.Equal(3.0, d.Float("int"))
	s.Equal(4.0, d.Float("narrow"))
	s.Equal(5.0, d.Float("wide"))
	s.NoError(d.Err())
}

func (s *DecoderSuite) TestStringListElementFailure() {
	d := NewDecoder(document.Document{"tags": []any{"water", 7.0}}, "rec-1")

	_ = d.StringList("tags")

	ce := d.Err().(*ConversionError)
	s.Equal("tags", ce.Field)
}

func (s *DecoderSuite) TestRequiredInstant() {
	s.Run("valid value converts", func() {
		ts := document.TimestampOf(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
		d := NewDecoder(document.Document{"createdAt": ts}, "rec-1")

		got := d.RequiredInstant("createdAt")

		s.Equal(ts.Time(), got)
		s.Empty(d.Warnings())
	})

	s.Run("missing value falls back to now with a warning", func() {
		d := NewDecoder(document.Document{}, "rec-1")

		got := d.RequiredInstant("createdAt")

		s.NoError(d.Err())
		s.Len(d.Warnings(), 1)
		s.WithinDuration(time.Now().UTC(), got, time.Minute)
	})

	s.Run("malformed value falls back to now with a warning", func() {
		d := NewDecoder(document.Document{"createdAt": "garbage"}, "rec-1")

		got := d.RequiredInstant("createdAt")

		s.NoError(d.Err())
		s.Len(d.Warnings(), 1)
		s.WithinDuration(time.Now().UTC(), got, time.Minute)
	})
}

func (s *DecoderSuite) TestOptionalInstant() {
	s.Run("absent reads as nil", func() {
		d := NewDecoder(document.Document{}, "rec-1")
		s.Nil(d.OptionalInstant("endDate"))
		s.NoError(d.Err())
	})

	s.Run("explicit null reads as nil", func() {
		d := NewDecoder(document.Document{"endDate": nil}, "rec-1")
		s.Nil(d.OptionalInstant("endDate"))
		s.NoError(d.Err())
	})

	s.Run("malformed present value fails", func() {
		d := NewDecoder(document.Document{"endDate": true}, "rec-1")
		s.Nil(d.OptionalInstant("endDate"))
		s.Error(d.Err())
	})
}

func (s *DecoderSuite) TestRequiredObject() {
	s.Run("missing object defaults its fields", func() {
		d := NewDecoder(document.Document{}, "rec-1")

		addr := d.RequiredObject("address")

		s.Equal("", addr.String("city"))
		s.NoError(d.Err())
	})

	s.Run("non-object value fails on the owner", func() {
		d := NewDecoder(document.Document{"address": "main street"}, "rec-1")

		_ = d.RequiredObject("address")

		ce := d.Err().(*ConversionError)
		s.Equal("rec-1", ce.EntityID)
		s.Equal("address", ce.Field)
	})

	s.Run("nested failures surface on the owner", func() {
		d := NewDecoder(document.Document{
			"address": document.Document{"city": 9.0},
		}, "rec-1")

		addr := d.RequiredObject("address")
		_ = addr.String("city")

		ce := d.Err().(*ConversionError)
		s.Equal("rec-1", ce.EntityID)
		s.Equal("city", ce.Field)
	})
}

func (s *DecoderSuite) TestSubRecords() {
	s.Run("reads each element through its own decoder", func() {
		d := NewDecoder(document.Document{
			"bills": []any{
				document.Document{"id": "b-1", "amount": 120.0},
				map[string]any{"amount": 80.0},
			},
		}, "rec-1")

		type bill struct {
			id     string
			amount float64
		}
		bills := SubRecords(d, "bills", func(item *Decoder) bill {
			return bill{id: item.ID(), amount: item.Float("amount")}
		})

		s.Require().NoError(d.Err())
		s.Require().Len(bills, 2)
		s.Equal("b-1", bills[0].id)
		s.Equal(120.0, bills[0].amount)
		s.NotEmpty(bills[1].id)
		s.Equal(80.0, bills[1].amount)
	})

	s.Run("non-object element fails on the owner", func() {
		d := NewDecoder(document.Document{"bills": []any{"oops"}}, "rec-1")

		got := SubRecords(d, "bills", func(item *Decoder) int { return 0 })

		s.Empty(got)
		s.Error(d.Err())
	})

	s.Run("sub-record warnings accumulate on the owner", func() {
		d := NewDecoder(document.Document{
			"bills": []any{document.Document{"id": "b-1"}},
		}, "rec-1")

		_ = SubRecords(d, "bills", func(item *Decoder) time.Time {
			return item.RequiredInstant("billedAt")
		})

		s.NoError(d.Err())
		s.Len(d.Warnings(), 1)
	})
}

func (s *DecoderSuite) TestEnsureID() {
	s.Equal("keep-me", EnsureID("keep-me"))
	s.NotEmpty(EnsureID(""))
	s.NotEqual(EnsureID(""), EnsureID(""))
}

func (s *DecoderSuite) TestOmitEmptyString() {
	s.True(document.IsAbsent(OmitEmptyString("")))
	s.Equal("kept", OmitEmptyString("kept"))
}

func (s *DecoderSuite) TestStringListValue() {
	s.Equal([]any{}, StringListValue(nil))
	s.Equal([]any{"a", "b"}, StringListValue([]string{"a", "b"}))
}

func (s *DecoderSuite) TestTagList() {
	s.Equal([]any{}, TagList(nil))
	s.Equal([]any{"water", "health"}, TagList([]string{" water ", "health", "water", ""}))
}
