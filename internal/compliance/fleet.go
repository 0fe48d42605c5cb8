package compliance

import (
	"math"
	"slices"

	"workcompliance/internal/model"
)

// GroupBy buckets items by key, keeping input order inside each bucket.
func GroupBy[T any](items []T, key func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, it := range items {
		k := key(it)
		out[k] = append(out[k], it)
	}
	return out
}

// ActiveMembers maps each requested site to the sorted, distinct workers actively
// assigned to it. Requested sites without workers map to an empty slice.
func ActiveMembers(assignments []model.AssignmentRecord, siteIDs []string) map[string][]string {
	out := make(map[string][]string, len(siteIDs))
	for _, s := range siteIDs {
		out[s] = []string{}
	}
	for _, a := range assignments {
		members, requested := out[a.SiteID]
		if !a.Active || !requested {
			continue
		}
		out[a.SiteID] = append(members, a.WorkerID)
	}
	for s, members := range out {
		slices.Sort(members)
		out[s] = slices.Compact(members)
	}
	return out
}

// ActiveWorkers returns the sorted, distinct workers with at least one active assignment.
func ActiveWorkers(assignments []model.AssignmentRecord) []string {
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.Active {
			ids = append(ids, a.WorkerID)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Rollup aggregates worker summaries. A worker with any expired or rejected
// document is critical even when rounding lifts it to 100%; otherwise 100% is
// compliant and anything else pending.
func Rollup(summaries []model.WorkerComplianceSummary) model.ComplianceRollup {
	r := model.ComplianceRollup{TotalWorkers: len(summaries)}
	total := 0
	for _, s := range summaries {
		switch {
		case s.Expired > 0 || s.Rejected > 0:
			r.WorkersCritical++
		case s.Percentage == 100:
			r.WorkersCompliant++
		default:
			r.WorkersPending++
		}
		total += s.Percentage
		r.TotalExpiredDocuments += s.Expired
		r.TotalExpiringDocuments += s.ExpiringSoon
	}
	if len(summaries) > 0 {
		r.OverallPercentage = int(math.Round(float64(total) / float64(len(summaries))))
	}
	return r
}

// SiteRollups builds one site summary per requested site from already computed
// worker summaries. Each site sees only its own members.
func SiteRollups(
	siteIDs []string,
	members map[string][]string,
	summaries map[string]model.WorkerComplianceSummary,
) map[string]model.SiteComplianceSummary {
	out := make(map[string]model.SiteComplianceSummary, len(siteIDs))
	for _, site := range siteIDs {
		ws := members[site]
		picked := make([]model.WorkerComplianceSummary, 0, len(ws))
		for _, w := range ws {
			if s, ok := summaries[w]; ok {
				picked = append(picked, s)
			}
		}
		out[site] = model.SiteComplianceSummary{SiteID: site, ComplianceRollup: Rollup(picked)}
	}
	return out
}
