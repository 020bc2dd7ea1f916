// Package lookup loads the reference collections a lead form needs: sources,
// statuses, urgency levels, assignable users and referral partners. The five
// fetches run in parallel and fail independently; a broken lookup degrades
// its dropdown instead of blocking the form.
package lookup

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"leadcrm/internal/api"
	"leadcrm/internal/crm"
)

// Result holds the outcome of one lookup fetch.
type Result[T any] struct {
	Value  T
	Err    error
	Loaded bool
}

// Ok reports whether the fetch completed without error.
func (r Result[T]) Ok() bool { return r.Loaded && r.Err == nil }

// Fetcher is the slice of the API client this package needs.
type Fetcher interface {
	LeadSources(ctx context.Context) ([]crm.LookupRow, error)
	LeadStatuses(ctx context.Context) ([]crm.LookupRow, error)
	UrgencyLevels(ctx context.Context) ([]crm.LookupRow, error)
	AssignableUsers(ctx context.Context) ([]crm.User, error)
	ReferralPartners(ctx context.Context) ([]crm.User, error)
}

// ReferenceData is the aggregated snapshot for one form open. Generation
// identifies the open that requested it; pages discard snapshots whose
// generation no longer matches.
type ReferenceData struct {
	Sources   Result[[]crm.LookupRow]
	Statuses  Result[[]crm.LookupRow]
	Urgencies Result[[]crm.LookupRow]
	Assignees Result[[]crm.User]
	Partners  Result[[]crm.User]

	Generation int
}

// SourceByID resolves a source row, searching loaded sources only.
func (rd ReferenceData) SourceByID(id int64) (crm.LookupRow, bool) {
	for _, row := range rd.Sources.Value {
		if row.ID == id {
			return row, true
		}
	}
	return crm.LookupRow{}, false
}

// StatusByName resolves a status row by exact name.
func (rd ReferenceData) StatusByName(name string) (crm.LookupRow, bool) {
	for _, row := range rd.Statuses.Value {
		if row.Name == name {
			return row, true
		}
	}
	return crm.LookupRow{}, false
}

// Warnings lists the human-readable names of required lookups that failed.
// The partner listing never appears here: a forbidden (or otherwise failed)
// partner fetch is expected for roles without access.
func (rd ReferenceData) Warnings() []string {
	var w []string
	if rd.Sources.Loaded && rd.Sources.Err != nil {
		w = append(w, "lead sources")
	}
	if rd.Statuses.Loaded && rd.Statuses.Err != nil {
		w = append(w, "lead statuses")
	}
	if rd.Urgencies.Loaded && rd.Urgencies.Err != nil {
		w = append(w, "urgency levels")
	}
	if rd.Assignees.Loaded && rd.Assignees.Err != nil {
		w = append(w, "assignable users")
	}
	return w
}

// Loader fetches reference data snapshots.
type Loader struct {
	fetcher Fetcher
}

// NewLoader creates a loader over the given fetcher.
func NewLoader(f Fetcher) *Loader {
	return &Loader{fetcher: f}
}

// Load fetches all lookups concurrently and aggregates the results. The
// partner listing is skipped entirely for roles that cannot see it, and a
// 403 from it is mapped to an empty list. Load never returns a non-nil error
// from a lookup failure; per-lookup errors live in the Results.
func (l *Loader) Load(ctx context.Context, role crm.Role, generation int) ReferenceData {
	rd := ReferenceData{Generation: generation}
	perms := crm.PermissionsFor(role)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		rows, err := l.fetcher.LeadSources(egCtx)
		rd.Sources = Result[[]crm.LookupRow]{Value: activeRows(rows), Err: err, Loaded: true}
		return nil
	})
	eg.Go(func() error {
		rows, err := l.fetcher.LeadStatuses(egCtx)
		rd.Statuses = Result[[]crm.LookupRow]{Value: activeRows(rows), Err: err, Loaded: true}
		return nil
	})
	eg.Go(func() error {
		rows, err := l.fetcher.UrgencyLevels(egCtx)
		rd.Urgencies = Result[[]crm.LookupRow]{Value: activeRows(rows), Err: err, Loaded: true}
		return nil
	})
	eg.Go(func() error {
		users, err := l.fetcher.AssignableUsers(egCtx)
		rd.Assignees = Result[[]crm.User]{Value: users, Err: err, Loaded: true}
		return nil
	})

	if perms.CanListPartners {
		eg.Go(func() error {
			users, err := l.fetcher.ReferralPartners(egCtx)
			if api.IsForbidden(err) {
				users, err = nil, nil
			}
			rd.Partners = Result[[]crm.User]{Value: users, Err: err, Loaded: true}
			return nil
		})
	} else {
		rd.Partners = Result[[]crm.User]{Loaded: true}
	}

	// Workers never return errors; Wait only synchronizes.
	_ = eg.Wait()
	return rd
}

// activeRows keeps isActive rows ordered by displayOrder.
func activeRows(rows []crm.LookupRow) []crm.LookupRow {
	var out []crm.LookupRow
	for _, row := range rows {
		if row.IsActive {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}
