package grant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"amani/internal/document"
	dErrors "amani/pkg/domain-errors"
	"amani/pkg/patch"
)

type CodecSuite struct {
	suite.Suite
	codec Codec
	now   time.Time
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

func (s *CodecSuite) SetupTest() {
	s.codec = Codec{}
	s.now = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
}

func (s *CodecSuite) TestValidate() {
	s.True(dErrors.HasCode(s.codec.Validate(New{Title: "x", StartDate: s.now}), dErrors.CodeValidation))
	s.True(dErrors.HasCode(s.codec.Validate(New{Funder: "x", StartDate: s.now}), dErrors.CodeValidation))
	s.True(dErrors.HasCode(s.codec.Validate(New{Funder: "x", Title: "y"}), dErrors.CodeValidation))
	s.NoError(s.codec.Validate(New{Funder: "x", Title: "y", StartDate: s.now}))
}

func (s *CodecSuite) TestCreateDocDerivesRemaining() {
	doc := s.codec.CreateDoc(New{
		Funder:    "Global Fund",
		Title:     "Water Access",
		Amount:    100_000,
		StartDate: s.now,
		Disbursements: []Disbursement{
			{Amount: 25_000, ReceivedAt: s.now},
		},
	}, s.now)

	s.Equal(75_000.0, doc["remainingAmount"])
	s.Equal(StatusProspect, doc["status"])
	s.Equal("USD", doc["currency"])
}

func (s *CodecSuite) TestUpdateDocRecomputesRemaining() {
	current := Grant{
		Amount: 100_000,
		Disbursements: []Disbursement{
			{ID: "t-1", Amount: 25_000, ReceivedAt: s.now},
		},
	}

	s.Run("disbursements-only patch uses stored amount", func() {
		doc := s.codec.UpdateDoc(Patch{
			Disbursements: patch.Set([]Disbursement{
				{ID: "t-1", Amount: 25_000, ReceivedAt: s.now},
				{Amount: 30_000, ReceivedAt: s.now},
			}),
		}, current, s.now)
		s.Equal(45_000.0, doc["remainingAmount"])
	})

	s.Run("amount-only patch uses stored disbursements", func() {
		doc := s.codec.UpdateDoc(Patch{
			Amount: patch.Set(150_000.0),
		}, current, s.now)
		s.Equal(125_000.0, doc["remainingAmount"])
	})

	s.Run("unrelated patch leaves remaining out of the partial", func() {
		doc := s.codec.UpdateDoc(Patch{
			Status: patch.Set(StatusAwarded),
		}, current, s.now)
		_, present := doc["remainingAmount"]
		s.False(present)
	})
}

func (s *CodecSuite) TestReadSubRecords() {
	ts := document.TimestampOf(s.now)
	g, _, err := s.codec.Read(document.Document{
		"funder":    "Global Fund",
		"title":     "Water Access",
		"amount":    100_000.0,
		"startDate": ts,
		"createdAt": ts,
		"updatedAt": ts,
		"milestones": []any{
			document.Document{"id": "m-1", "title": "baseline survey", "dueAt": ts, "completed": true},
		},
		"disbursements": []any{
			document.Document{"amount": 25_000.0, "receivedAt": ts},
		},
	}, "g-1")
	s.Require().NoError(err)

	s.Require().Len(g.Milestones, 1)
	s.True(g.Milestones[0].Completed)
	s.Require().Len(g.Disbursements, 1)
	s.NotEmpty(g.Disbursements[0].ID)
	s.Equal(StatusProspect, g.Status)
}
