// Package report assembles cross-entity overviews. Reads have no side
// effects, so the independent list fetches run concurrently with shared
// cancellation.
package report

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"amani/internal/beneficiary"
	"amani/internal/calendar"
	"amani/internal/donation"
	"amani/internal/grant"
	"amani/internal/partner"
	"amani/internal/program"
	"amani/internal/project"
	"amani/internal/repo"
)

// Snapshot is a point-in-time view across every record type.
type Snapshot struct {
	GeneratedAt time.Time

	Beneficiaries []beneficiary.Beneficiary
	Programs      []program.Program
	Donations     []donation.Donation
	Grants        []grant.Grant
	Projects      []project.Project
	Partners      []partner.Partner
	Events        []calendar.Event

	ActiveBeneficiaries int
	TotalDonated        float64
	TotalUnspent        float64
	UpcomingEvents      int
}

// Assemble fetches all seven lists concurrently and derives the headline
// numbers. The first failing fetch cancels the rest.
func Assemble(ctx context.Context, repos *repo.Registry) (*Snapshot, error) {
	snap := &Snapshot{GeneratedAt: time.Now().UTC()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Beneficiaries, err = repos.Beneficiaries.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Programs, err = repos.Programs.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Donations, err = repos.Donations.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Grants, err = repos.Grants.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Projects, err = repos.Projects.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Partners, err = repos.Partners.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Events, err = repos.Events.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, b := range snap.Beneficiaries {
		if b.Status == beneficiary.StatusActive {
			snap.ActiveBeneficiaries++
		}
	}
	for _, d := range snap.Donations {
		snap.TotalDonated += d.Amount
		snap.TotalUnspent += d.BalanceRemaining
	}
	for _, e := range snap.Events {
		if e.StartsAt.After(snap.GeneratedAt) {
			snap.UpcomingEvents++
		}
	}
	return snap, nil
}
