// Command seed populates the document store with a small, coherent data
// set and prints an organization snapshot, exercising the full wiring:
// store, cache, codecs and facades. With no environment configured it runs
// entirely in memory.
package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"amani/internal/beneficiary"
	"amani/internal/cache"
	"amani/internal/calendar"
	"amani/internal/document"
	"amani/internal/donation"
	"amani/internal/grant"
	"amani/internal/partner"
	"amani/internal/platform/config"
	"amani/internal/platform/logger"
	"amani/internal/platform/metrics"
	platformredis "amani/internal/platform/redis"
	"amani/internal/program"
	"amani/internal/project"
	"amani/internal/repo"
	"amani/internal/report"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel).WithField("component", "seed")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, cleanup, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open document store")
	}
	defer cleanup()

	views, cleanupCache, err := openCache(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open cache")
	}
	defer cleanupCache()

	coordinator := cache.NewCoordinator(views, cache.LogNotifier{Log: log}, log)
	repos := repo.NewRegistry(store,
		repo.WithCache(views, coordinator, cfg.Cache.TTL),
		repo.WithMetrics(metrics.New()),
		repo.WithLogger(log),
	)

	if err := seed(ctx, repos); err != nil {
		log.WithError(err).Fatal("seed records")
	}

	snap, err := report.Assemble(ctx, repos)
	if err != nil {
		log.WithError(err).Fatal("assemble snapshot")
	}
	log.WithFields(logrus.Fields{
		"beneficiaries":  len(snap.Beneficiaries),
		"active":         snap.ActiveBeneficiaries,
		"programs":       len(snap.Programs),
		"donations":      len(snap.Donations),
		"totalDonated":   snap.TotalDonated,
		"totalUnspent":   snap.TotalUnspent,
		"grants":         len(snap.Grants),
		"projects":       len(snap.Projects),
		"partners":       len(snap.Partners),
		"events":         len(snap.Events),
		"upcomingEvents": snap.UpcomingEvents,
	}).Info("seed complete")
}

func openStore(ctx context.Context, cfg config.Config, log *logrus.Entry) (document.Store, func(), error) {
	if cfg.Postgres.URL == "" {
		log.Info("no postgres URL configured, using in-memory store")
		return document.NewInMemory(), func() {}, nil
	}
	db, err := sql.Open("postgres", cfg.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := document.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("using postgres document store")
	return document.NewPostgres(db), func() { _ = db.Close() }, nil
}

func openCache(cfg config.Config, log *logrus.Entry) (cache.Store, func(), error) {
	client, err := platformredis.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("no redis URL configured, using in-process cache")
		return cache.NewMemory(), func() {}, nil
	}
	log.Info("using redis cache")
	return cache.NewRedis(client, ""), func() { _ = client.Close() }, nil
}

func seed(ctx context.Context, repos *repo.Registry) error {
	waterID, err := repos.Programs.Create(ctx, program.New{
		Name:        "Clean Water Initiative",
		Description: "Borehole drilling and maintenance in rural districts",
		StartDate:   time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		Budget:      120_000,
		Coordinator: "N. Achieng",
		Tags:        []string{"water", "infrastructure"},
	})
	if err != nil {
		return err
	}
	healthID, err := repos.Programs.Create(ctx, program.New{
		Name:      "Community Health Outreach",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Budget:    45_000,
		Tags:      []string{"health"},
	})
	if err != nil {
		return err
	}

	if _, err := repos.Beneficiaries.Create(ctx, beneficiary.New{
		FirstName:   "Asha",
		LastName:    "Okello",
		Gender:      "female",
		DateOfBirth: time.Date(1992, 4, 17, 0, 0, 0, 0, time.UTC),
		Address:     beneficiary.Address{Line1: "14 Acacia Rd", City: "Gulu", Country: "Uganda"},
		Programs:    []string{waterID, healthID},
		Bills: []beneficiary.MedicalBill{
			{Description: "Clinic consultation", Amount: 25, BilledAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		},
		AmountSpent: 25,
	}); err != nil {
		return err
	}
	if _, err := repos.Beneficiaries.Create(ctx, beneficiary.New{
		FirstName:   "Brook",
		LastName:    "Tesfaye",
		DateOfBirth: time.Date(1987, 11, 3, 0, 0, 0, 0, time.UTC),
		Address:     beneficiary.Address{Line1: "3 Market Ln", City: "Lira", Country: "Uganda"},
		Programs:    []string{healthID},
	}); err != nil {
		return err
	}

	if _, err := repos.Donations.Create(ctx, donation.New{
		DonorName:  "Amina Diallo",
		DonorEmail: "amina@example.org",
		Amount:     5_000,
		ReceivedAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		ProgramID:  waterID,
		Purpose:    "Borehole pump replacements",
		Expenditures: []donation.Expenditure{
			{Description: "Pump parts", Amount: 1_200, SpentAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		},
	}); err != nil {
		return err
	}

	if _, err := repos.Grants.Create(ctx, grant.New{
		Funder:    "Global Water Fund",
		Title:     "District Water Access 2024",
		Amount:    80_000,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Milestones: []grant.Milestone{
			{Title: "Baseline survey", DueAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Completed: true},
			{Title: "First ten boreholes", DueAt: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)},
		},
		Disbursements: []grant.Disbursement{
			{Amount: 20_000, ReceivedAt: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
		},
	}); err != nil {
		return err
	}

	if _, err := repos.Projects.Create(ctx, project.New{
		Name:      "Gulu Borehole Cluster",
		ProgramID: waterID,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Team:      []string{"N. Achieng", "J. Otim"},
		Tasks: []project.Task{
			{Title: "Site survey", Done: true},
			{Title: "Drill sites 1-3"},
		},
	}); err != nil {
		return err
	}

	if _, err := repos.Partners.Create(ctx, partner.New{
		Name:         "Hydromech Ltd",
		Type:         partner.TypeCorporate,
		ContactName:  "S. Kato",
		ContactEmail: "kato@hydromech.example",
		Engagements: []partner.Engagement{
			{Description: "Discounted drilling equipment", StartedAt: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
		},
	}); err != nil {
		return err
	}

	if _, err := repos.Events.Create(ctx, calendar.New{
		Title:       "Quarterly board review",
		StartsAt:    time.Now().UTC().AddDate(0, 0, 14),
		Location:    "Head office",
		RelatedType: "program",
		RelatedID:   waterID,
		Attendees:   []string{"board", "coordinators"},
		Reminders: []calendar.Reminder{
			{OffsetMinutes: 60 * 24, Channel: "email"},
		},
	}); err != nil {
		return err
	}

	return nil
}
