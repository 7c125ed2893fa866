package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"amani/internal/beneficiary"
	"amani/internal/cache"
	"amani/internal/document"
	"amani/internal/donation"
	"amani/internal/program"
	dErrors "amani/pkg/domain-errors"
	"amani/pkg/patch"
	"amani/pkg/platform/sentinel"
)

// countingStore wraps the in-memory store to observe query traffic; the
// cache tests use it to prove hits never reach the store.
type countingStore struct {
	document.Store
	queries int
	gets    int
}

func (c *countingStore) Query(ctx context.Context, collection string, q document.Query) ([]document.Stored, error) {
	c.queries++
	return c.Store.Query(ctx, collection, q)
}

func (c *countingStore) Get(ctx context.Context, collection, id string) (document.Stored, error) {
	c.gets++
	return c.Store.Get(ctx, collection, id)
}

// failingStore rejects every write.
type failingStore struct {
	document.Store
}

func (failingStore) Insert(context.Context, string, string, document.Document) error {
	return fmt.Errorf("connection refused: %w", sentinel.ErrUnavailable)
}

type FacadeSuite struct {
	suite.Suite
	ctx      context.Context
	backend  *document.InMemory
	store    *countingStore
	views    *cache.Memory
	notifier *cache.Collector
	clock    *steppingClock

	programs *Facade[program.Program, program.New, program.Patch]
}

type steppingClock struct {
	t time.Time
}

func (c *steppingClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func TestFacadeSuite(t *testing.T) {
	suite.Run(t, new(FacadeSuite))
}

func (s *FacadeSuite) SetupTest() {
	s.ctx = context.Background()
	s.backend = document.NewInMemory()
	s.store = &countingStore{Store: s.backend}
	s.views = cache.NewMemory()
	s.notifier = &cache.Collector{}
	s.clock = &steppingClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	coordinator := cache.NewCoordinator(s.views, s.notifier, nil)
	s.programs = New[program.Program, program.New, program.Patch](
		s.store, program.Codec{},
		WithCache(s.views, coordinator, time.Minute),
		WithClock(s.clock.Now),
	)
}

func (s *FacadeSuite) createProgram(name string) string {
	id, err := s.programs.Create(s.ctx, program.New{
		Name:      name,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	return id
}

func (s *FacadeSuite) TestCreateRoundTrip() {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	id, err := s.programs.Create(s.ctx, program.New{
		Name:      "Clean Water",
		StartDate: start,
		Budget:    50_000,
	})
	s.Require().NoError(err)
	s.NotEmpty(id)

	got, err := s.programs.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(id, got.ID)
	s.Equal("Clean Water", got.Name)
	s.Equal(program.StatusActive, got.Status, "declared default written on create")
	s.Equal(start, got.StartDate)
	s.Nil(got.EndDate)
	s.Equal(50_000.0, got.Budget)
	s.Equal("", got.Description)
	s.Equal([]string{}, got.Tags, "lists read back dense, never nil")
	s.False(got.CreatedAt.IsZero())
	s.Equal(got.CreatedAt, got.UpdatedAt)

	stored, err := s.backend.Get(s.ctx, document.CollectionPrograms, id)
	s.Require().NoError(err)
	_, present := stored.Doc["description"]
	s.False(present, "empty optional text is omitted, not stored")
	_, present = stored.Doc["endDate"]
	s.False(present, "unset optional instant is omitted")
}

func (s *FacadeSuite) TestCreateValidationFailsBeforeStore() {
	_, err := s.programs.Create(s.ctx, program.New{Name: "   "})

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	rows, qErr := s.backend.Query(s.ctx, document.CollectionPrograms, document.Query{})
	s.Require().NoError(qErr)
	s.Empty(rows, "nothing reached the store")
	s.Empty(s.notifier.Failures, "validation failures raise no notification")
	s.Empty(s.notifier.Successes)
}

func (s *FacadeSuite) TestGetNotFound() {
	_, err := s.programs.Get(s.ctx, "missing")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Contains(err.Error(), "missing")
}

func (s *FacadeSuite) TestListOrdersNewestFirst() {
	first := s.createProgram("first")
	second := s.createProgram("second")
	third := s.createProgram("third")

	got, err := s.programs.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal(third, got[0].ID)
	s.Equal(second, got[1].ID)
	s.Equal(first, got[2].ID)
}

func (s *FacadeSuite) TestListWithFilter() {
	active := s.createProgram("active one")
	completed := s.createProgram("completed one")
	s.Require().NoError(s.programs.Update(s.ctx, completed, program.Patch{
		Status: patch.Set(program.StatusCompleted),
	}))

	got, err := s.programs.List(s.ctx, document.Where("status", program.StatusActive))
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(active, got[0].ID)
}

func (s *FacadeSuite) TestUpdateTouchesOnlyNamedFields() {
	id := s.createProgram("Clean Water")
	created, err := s.programs.Get(s.ctx, id)
	s.Require().NoError(err)

	err = s.programs.Update(s.ctx, id, program.Patch{
		Status: patch.Set(program.StatusCompleted),
	})
	s.Require().NoError(err)

	got, err := s.programs.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Clean Water", got.Name)
	s.Equal(program.StatusCompleted, got.Status)
	s.Equal(created.CreatedAt, got.CreatedAt)
	s.True(got.UpdatedAt.After(created.UpdatedAt))
}

func (s *FacadeSuite) TestClearWritesNullAndReadsBackNil() {
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	id, err := s.programs.Create(s.ctx, program.New{
		Name:      "Bounded",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	})
	s.Require().NoError(err)

	err = s.programs.Update(s.ctx, id, program.Patch{
		EndDate: patch.Clear[time.Time](),
	})
	s.Require().NoError(err)

	stored, err := s.backend.Get(s.ctx, document.CollectionPrograms, id)
	s.Require().NoError(err)
	v, present := stored.Doc["endDate"]
	s.True(present, "clear writes a literal null")
	s.Nil(v)

	got, err := s.programs.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Nil(got.EndDate)
}

func (s *FacadeSuite) TestUpdateMissing() {
	err := s.programs.Update(s.ctx, "missing", program.Patch{
		Status: patch.Set(program.StatusArchived),
	})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *FacadeSuite) TestDelete() {
	id := s.createProgram("short lived")

	s.Require().NoError(s.programs.Delete(s.ctx, id))

	_, err := s.programs.Get(s.ctx, id)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.programs.Delete(s.ctx, id)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *FacadeSuite) TestListCacheHitSkipsStore() {
	s.createProgram("one")
	s.createProgram("two")

	_, err := s.programs.List(s.ctx)
	s.Require().NoError(err)
	queriesAfterMiss := s.store.queries

	again, err := s.programs.List(s.ctx)
	s.Require().NoError(err)
	s.Len(again, 2)
	s.Equal(queriesAfterMiss, s.store.queries, "second list served from cache")
}

func (s *FacadeSuite) TestMutationInvalidatesListViews() {
	s.createProgram("one")
	_, err := s.programs.List(s.ctx)
	s.Require().NoError(err)

	s.createProgram("two")

	got, err := s.programs.List(s.ctx)
	s.Require().NoError(err)
	s.Len(got, 2, "list view refetched after the mutation")
}

func (s *FacadeSuite) TestGetCacheHitSkipsStore() {
	id := s.createProgram("cached")

	_, err := s.programs.Get(s.ctx, id)
	s.Require().NoError(err)
	getsAfterMiss := s.store.gets

	_, err = s.programs.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(getsAfterMiss, s.store.gets)
}

func (s *FacadeSuite) TestMutationNotifications() {
	id := s.createProgram("notified")
	s.Require().NoError(s.programs.Update(s.ctx, id, program.Patch{
		Status: patch.Set(program.StatusArchived),
	}))
	s.Require().NoError(s.programs.Delete(s.ctx, id))

	s.Require().Len(s.notifier.Successes, 3)
	s.Contains(s.notifier.Successes[0], "create succeeded")
	s.Contains(s.notifier.Successes[1], "update succeeded")
	s.Contains(s.notifier.Successes[2], "delete succeeded")
}

func (s *FacadeSuite) TestStoreFailureNotifiesAndLeavesCache() {
	s.createProgram("existing")
	_, err := s.programs.List(s.ctx)
	s.Require().NoError(err)

	coordinator := cache.NewCoordinator(s.views, s.notifier, nil)
	broken := New[program.Program, program.New, program.Patch](
		failingStore{Store: s.backend}, program.Codec{},
		WithCache(s.views, coordinator, time.Minute),
		WithClock(s.clock.Now),
	)

	_, err = broken.Create(s.ctx, program.New{
		Name:      "doomed",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Require().Len(s.notifier.Failures, 1)

	queriesBefore := s.store.queries
	_, err = s.programs.List(s.ctx)
	s.Require().NoError(err)
	s.Equal(queriesBefore, s.store.queries, "cached view survived the failed write")
}

func (s *FacadeSuite) TestMalformedDocumentFailsLoudly() {
	people := New[beneficiary.Beneficiary, beneficiary.New, beneficiary.Patch](
		s.store, beneficiary.Codec{},
		WithClock(s.clock.Now),
	)
	s.Require().NoError(s.backend.Insert(s.ctx, document.CollectionBeneficiaries, "b-bad", document.Document{
		"firstName": "Asha",
		"address":   "not an object",
	}))

	_, err := people.Get(s.ctx, "b-bad")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConversion))
	ce, ok := IsConversion(err)
	s.Require().True(ok)
	s.Equal("b-bad", ce.EntityID)
	s.Equal("address", ce.Field)

	s.Require().NoError(s.backend.Insert(s.ctx, document.CollectionBeneficiaries, "b-ok", document.Document{
		"firstName": "Brook",
		"address":   document.Document{"line1": "1 Main"},
	}))
	_, err = people.List(s.ctx)
	s.Require().Error(err, "one malformed record fails the whole list")
	s.True(dErrors.HasCode(err, dErrors.CodeConversion))
}

func (s *FacadeSuite) TestDerivedBalance() {
	donations := New[donation.Donation, donation.New, donation.Patch](
		s.store, donation.Codec{},
		WithClock(s.clock.Now),
	)
	received := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	id, err := donations.Create(s.ctx, donation.New{
		DonorName:  "Amina",
		Amount:     1000,
		ReceivedAt: received,
		Expenditures: []donation.Expenditure{
			{Description: "supplies", Amount: 200, SpentAt: received},
		},
	})
	s.Require().NoError(err)

	got, err := donations.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(800.0, got.BalanceRemaining)
	s.Equal(donation.DefaultCurrency, got.Currency)

	s.Run("expenditure-only patch recomputes against stored amount", func() {
		err := donations.Update(s.ctx, id, donation.Patch{
			Expenditures: patch.Set([]donation.Expenditure{
				{Description: "supplies", Amount: 200, SpentAt: received},
				{Description: "transport", Amount: 300, SpentAt: received},
			}),
		})
		s.Require().NoError(err)

		got, err := donations.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(500.0, got.BalanceRemaining)
	})

	s.Run("amount-only patch recomputes against stored expenditures", func() {
		err := donations.Update(s.ctx, id, donation.Patch{
			Amount: patch.Set(2000.0),
		})
		s.Require().NoError(err)

		got, err := donations.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(1500.0, got.BalanceRemaining)
	})

	s.Run("unrelated patch leaves the balance alone", func() {
		err := donations.Update(s.ctx, id, donation.Patch{
			Notes: patch.Set("thank-you sent"),
		})
		s.Require().NoError(err)

		got, err := donations.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(1500.0, got.BalanceRemaining)
	})
}

func (s *FacadeSuite) TestLegacyDocumentsLoadWithDefaults() {
	// Hand-written rows from earlier tooling carry date strings and lack
	// lifecycle timestamps; they must still load.
	s.Require().NoError(s.backend.Insert(s.ctx, document.CollectionPrograms, "p-legacy", document.Document{
		"name":      "Legacy",
		"startDate": "2019-05-01",
	}))

	got, err := s.programs.Get(s.ctx, "p-legacy")
	s.Require().NoError(err)
	s.Equal(program.StatusActive, got.Status)
	s.Equal(time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC), got.StartDate)
	s.False(got.CreatedAt.IsZero(), "missing createdAt substituted, not fatal")
}
