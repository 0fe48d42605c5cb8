package compliance

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"workcompliance/internal/model"
)

// PendencyReason explains which assignment rule produced a site pendency.
type PendencyReason string

const (
	// ReasonFirstAssignment: the worker's first assignment needs an opening document.
	ReasonFirstAssignment PendencyReason = "first_assignment"
	// ReasonReopenedAfterClosure: the previous assignment was closed out, so a new opening document is needed.
	ReasonReopenedAfterClosure PendencyReason = "reopened_after_closure"
	// ReasonCarriedOver: the previous assignment is still open, so an extension/transfer document is needed.
	ReasonCarriedOver PendencyReason = "carried_over"
)

// SitePendency is a document requirement tied to one assignment.
type SitePendency struct {
	SiteID     string
	AssignedAt time.Time
	Definition model.DocumentTypeDefinition
	Reason     PendencyReason
}

// Applicability is what a worker must hold: worker-level types plus one
// requirement per active assignment.
type Applicability struct {
	Generic []model.DocumentTypeDefinition
	Sites   []SitePendency
}

// Total returns the number of applicable requirements.
func (a Applicability) Total() int { return len(a.Generic) + len(a.Sites) }

// ResolveApplicability filters the catalog down to what applies to one worker.
//
// Worker-scoped types with a prerequisite apply only once the prerequisite is held
// and not rejected. Site-scoped types are never applied generically; instead each
// active assignment, in assignedAt order, yields an opening requirement (first
// assignment or previous one closed out) or an extension requirement (previous one
// left open).
func ResolveApplicability(cat Catalog, idx DocumentIndex, assignments []model.AssignmentRecord) Applicability {
	out := Applicability{
		Generic: make([]model.DocumentTypeDefinition, 0, len(cat.generic)),
		Sites:   []SitePendency{},
	}
	for _, d := range cat.generic {
		if d.PrerequisiteCode != "" && !idx.resolved(d.PrerequisiteCode) {
			continue
		}
		out.Generic = append(out.Generic, d)
	}

	history := slices.Clone(assignments)
	slices.SortFunc(history, compareAssignments)

	closing, canClose := cat.SiteType(model.ScopeSiteClosing)
	for i, a := range history {
		if !a.Active {
			continue
		}
		scope, reason := model.ScopeSiteOpening, ReasonFirstAssignment
		if i > 0 {
			prev := history[i-1]
			if canClose && idx.resolvedForSite(closing.Code, prev.SiteID) {
				reason = ReasonReopenedAfterClosure
			} else {
				scope, reason = model.ScopeSiteExtension, ReasonCarriedOver
			}
		}
		def, ok := cat.SiteType(scope)
		if !ok {
			continue
		}
		out.Sites = append(out.Sites, SitePendency{
			SiteID:     a.SiteID,
			AssignedAt: a.AssignedAt,
			Definition: def,
			Reason:     reason,
		})
	}
	return out
}

func compareAssignments(a, b model.AssignmentRecord) int {
	if n := a.AssignedAt.Compare(b.AssignedAt); n != 0 {
		return n
	}
	return cmp.Compare(a.SiteID, b.SiteID)
}

func validateAssignment(a model.AssignmentRecord) error {
	switch {
	case a.WorkerID == "":
		return fmt.Errorf("%w: assignment at site %q has no worker", ErrMalformedRecord, a.SiteID)
	case a.SiteID == "":
		return fmt.Errorf("%w: assignment of worker %q has no site", ErrMalformedRecord, a.WorkerID)
	case a.AssignedAt.IsZero():
		return fmt.Errorf("%w: assignment of worker %q at site %q has no start", ErrMalformedRecord, a.WorkerID, a.SiteID)
	}
	return nil
}
