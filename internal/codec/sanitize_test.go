package codec

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"amani/internal/document"
)

type SanitizeSuite struct {
	suite.Suite
}

func TestSanitizeSuite(t *testing.T) {
	suite.Run(t, new(SanitizeSuite))
}

func (s *SanitizeSuite) TestStripsAbsentEntries() {
	doc := document.Document{
		"name":  "Asha",
		"email": document.Absent,
		"nested": document.Document{
			"phone": document.Absent,
			"city":  "Nairobi",
		},
	}

	got := SanitizeDocument(doc)

	s.Equal(document.Document{
		"name":   "Asha",
		"nested": document.Document{"city": "Nairobi"},
	}, got)
}

func (s *SanitizeSuite) TestKeepsExplicitNulls() {
	doc := document.Document{
		"endDate": nil,
		"budget":  document.Absent,
	}

	got := SanitizeDocument(doc)

	s.Equal(document.Document{"endDate": nil}, got)
	_, hasEndDate := got["endDate"]
	s.True(hasEndDate)
}

func (s *SanitizeSuite) TestListsStayDense() {
	doc := document.Document{
		"items": []any{
			document.Document{"id": "a", "gone": document.Absent},
			document.Absent,
			"plain",
		},
	}

	got := SanitizeDocument(doc)

	items := got["items"].([]any)
	s.Require().Len(items, 3)
	s.Equal(document.Document{"id": "a"}, items[0])
	s.Nil(items[1])
	s.Equal("plain", items[2])
}

func (s *SanitizeSuite) TestInputIsNotMutated() {
	doc := document.Document{
		"keep": "v",
		"drop": document.Absent,
	}

	_ = SanitizeDocument(doc)

	s.Len(doc, 2)
	s.True(document.IsAbsent(doc["drop"]))
}
