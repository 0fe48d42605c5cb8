package compliance

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"workcompliance/internal/model"
)

// Outcome is one classified requirement. SiteID is empty for worker-level requirements.
type Outcome struct {
	Definition     model.DocumentTypeDefinition
	SiteID         string
	Classification Classification
}

// EvaluateWorker computes the compliance summary of one worker at now.
// docs and assignments must belong to workerID; anything else is malformed.
func EvaluateWorker(
	workerID string,
	cat Catalog,
	docs []model.UploadedDocument,
	assignments []model.AssignmentRecord,
	now time.Time,
) (model.WorkerComplianceSummary, error) {
	for _, d := range docs {
		if d.WorkerID != workerID {
			return model.WorkerComplianceSummary{}, fmt.Errorf("%w: document %q belongs to worker %q, not %q",
				ErrMalformedRecord, d.ID, d.WorkerID, workerID)
		}
	}
	for _, a := range assignments {
		if err := validateAssignment(a); err != nil {
			return model.WorkerComplianceSummary{}, err
		}
		if a.WorkerID != workerID {
			return model.WorkerComplianceSummary{}, fmt.Errorf("%w: assignment at site %q belongs to worker %q, not %q",
				ErrMalformedRecord, a.SiteID, a.WorkerID, workerID)
		}
	}

	idx, err := IndexDocuments(docs)
	if err != nil {
		return model.WorkerComplianceSummary{}, err
	}
	app := ResolveApplicability(cat, idx, assignments)

	outcomes := make([]Outcome, 0, app.Total())
	for _, def := range app.Generic {
		var doc *model.UploadedDocument
		if d, ok := idx.Latest(def.Code); ok {
			doc = &d
		}
		c, err := Classify(def, doc, now)
		if err != nil {
			return model.WorkerComplianceSummary{}, err
		}
		outcomes = append(outcomes, Outcome{Definition: def, Classification: c})
	}
	for _, p := range app.Sites {
		var doc *model.UploadedDocument
		if d, ok := idx.LatestForSite(p.Definition.Code, p.SiteID); ok {
			doc = &d
		}
		c, err := Classify(p.Definition, doc, now)
		if err != nil {
			return model.WorkerComplianceSummary{}, err
		}
		outcomes = append(outcomes, Outcome{Definition: p.Definition, SiteID: p.SiteID, Classification: c})
	}
	return Summarize(workerID, outcomes), nil
}

// Summarize folds classified requirements into a worker summary.
// The result is the same for any ordering of outcomes.
func Summarize(workerID string, outcomes []Outcome) model.WorkerComplianceSummary {
	ordered := slices.Clone(outcomes)
	slices.SortFunc(ordered, compareOutcomes)

	s := model.WorkerComplianceSummary{
		WorkerID:        workerID,
		TotalApplicable: len(ordered),
		MissingTypes:    []model.MissingType{},
		ExpiredTypes:    []model.ExpiredType{},
		ExpiringTypes:   []model.ExpiringType{},
	}
	for _, o := range ordered {
		s = accumulate(s, o)
	}
	s.Percentage = percentage(s.Completed, s.TotalApplicable)
	return s
}

func accumulate(s model.WorkerComplianceSummary, o Outcome) model.WorkerComplianceSummary {
	def, c := o.Definition, o.Classification
	switch c.Bucket {
	case BucketMissing:
		s.MissingTypes = append(s.MissingTypes, model.MissingType{
			Code: def.Code, Name: def.Name, Category: def.Category, SiteID: o.SiteID,
		})
	case BucketCompleted:
		s.Completed++
	case BucketRejected:
		s.Rejected++
	case BucketExpired:
		s.Expired++
		s.ExpiredTypes = append(s.ExpiredTypes, model.ExpiredType{
			Code: def.Code, Name: def.Name, ExpirationDate: c.ExpirationDate, SiteID: o.SiteID,
		})
	case BucketExpiringSoon:
		s.ExpiringSoon++
		s.ExpiringTypes = append(s.ExpiringTypes, model.ExpiringType{
			Code: def.Code, Name: def.Name, ExpirationDate: c.ExpirationDate,
			DaysRemaining: c.DaysRemaining, SiteID: o.SiteID,
		})
		// still valid today: counts as completed unless a signature is owed
		if c.SignatureMet {
			s.Completed++
		} else {
			s.Pending++
		}
	case BucketPendingSignature, BucketPendingValidation:
		s.Pending++
	}
	return s
}

// percentage returns round(part/total*100), or 0 when total is 0.
func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(part) * 100 / float64(total)))
	return min(max(p, 0), 100)
}

func compareOutcomes(a, b Outcome) int {
	if n := compareDefinitions(a.Definition, b.Definition); n != 0 {
		return n
	}
	return cmp.Compare(a.SiteID, b.SiteID)
}
