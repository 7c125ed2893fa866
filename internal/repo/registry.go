package repo

import (
	"amani/internal/beneficiary"
	"amani/internal/calendar"
	"amani/internal/document"
	"amani/internal/donation"
	"amani/internal/grant"
	"amani/internal/partner"
	"amani/internal/program"
	"amani/internal/project"
)

// Registry bundles one facade per record type over a shared store. All
// facades share cache, metrics and logging wiring; calendar events order
// by start time instead of creation time because that is how a schedule
// reads.
type Registry struct {
	Beneficiaries *Facade[beneficiary.Beneficiary, beneficiary.New, beneficiary.Patch]
	Programs      *Facade[program.Program, program.New, program.Patch]
	Donations     *Facade[donation.Donation, donation.New, donation.Patch]
	Grants        *Facade[grant.Grant, grant.New, grant.Patch]
	Projects      *Facade[project.Project, project.New, project.Patch]
	Partners      *Facade[partner.Partner, partner.New, partner.Patch]
	Events        *Facade[calendar.Event, calendar.New, calendar.Patch]
}

func NewRegistry(store document.Store, opts ...Option) *Registry {
	eventOpts := append(append([]Option{}, opts...),
		WithOrder(document.Order{Field: "startsAt"}))
	return &Registry{
		Beneficiaries: New[beneficiary.Beneficiary, beneficiary.New, beneficiary.Patch](store, beneficiary.Codec{}, opts...),
		Programs:      New[program.Program, program.New, program.Patch](store, program.Codec{}, opts...),
		Donations:     New[donation.Donation, donation.New, donation.Patch](store, donation.Codec{}, opts...),
		Grants:        New[grant.Grant, grant.New, grant.Patch](store, grant.Codec{}, opts...),
		Projects:      New[project.Project, project.New, project.Patch](store, project.Codec{}, opts...),
		Partners:      New[partner.Partner, partner.New, partner.Patch](store, partner.Codec{}, opts...),
		Events:        New[calendar.Event, calendar.New, calendar.Patch](store, calendar.Codec{}, eventOpts...),
	}
}
