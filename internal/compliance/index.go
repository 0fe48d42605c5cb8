package compliance

import (
	"fmt"

	"workcompliance/internal/model"
)

type siteKey struct {
	code string
	site string
}

// DocumentIndex keeps only the latest upload per type code, and per
// (type code, site) for documents scoped to a site assignment.
type DocumentIndex struct {
	byType map[string]model.UploadedDocument
	bySite map[siteKey]model.UploadedDocument
}

// IndexDocuments reduces one worker's upload history to the latest document per type.
// Later uploadedAt wins; on equal uploadedAt the greater document ID wins, so the
// result does not depend on input order.
func IndexDocuments(docs []model.UploadedDocument) (DocumentIndex, error) {
	idx := DocumentIndex{
		byType: make(map[string]model.UploadedDocument, len(docs)),
		bySite: make(map[siteKey]model.UploadedDocument),
	}
	for _, d := range docs {
		if err := validateDocument(d); err != nil {
			return DocumentIndex{}, err
		}
		if cur, ok := idx.byType[d.TypeCode]; !ok || supersedes(d, cur) {
			idx.byType[d.TypeCode] = d
		}
		if d.SiteID == "" {
			continue
		}
		k := siteKey{code: d.TypeCode, site: d.SiteID}
		if cur, ok := idx.bySite[k]; !ok || supersedes(d, cur) {
			idx.bySite[k] = d
		}
	}
	return idx, nil
}

// Len returns the number of distinct type codes indexed.
func (idx DocumentIndex) Len() int { return len(idx.byType) }

// Latest returns the latest document of a type regardless of site.
func (idx DocumentIndex) Latest(code string) (model.UploadedDocument, bool) {
	d, ok := idx.byType[code]
	return d, ok
}

// LatestForSite returns the latest document of a type scoped to one site.
func (idx DocumentIndex) LatestForSite(code, siteID string) (model.UploadedDocument, bool) {
	d, ok := idx.bySite[siteKey{code: code, site: siteID}]
	return d, ok
}

// resolved reports whether the worker holds a non-rejected document of the type.
func (idx DocumentIndex) resolved(code string) bool {
	d, ok := idx.byType[code]
	return ok && d.ValidationState != model.StateRejected
}

func (idx DocumentIndex) resolvedForSite(code, siteID string) bool {
	d, ok := idx.LatestForSite(code, siteID)
	return ok && d.ValidationState != model.StateRejected
}

func supersedes(a, b model.UploadedDocument) bool {
	if !a.UploadedAt.Equal(b.UploadedAt) {
		return a.UploadedAt.After(b.UploadedAt)
	}
	return a.ID > b.ID
}

func validateDocument(d model.UploadedDocument) error {
	switch {
	case d.WorkerID == "":
		return fmt.Errorf("%w: document %q has no worker", ErrMalformedRecord, d.ID)
	case d.TypeCode == "":
		return fmt.Errorf("%w: document %q has no type code", ErrMalformedRecord, d.ID)
	case d.UploadedAt.IsZero():
		return fmt.Errorf("%w: document %q has no upload time", ErrMalformedRecord, d.ID)
	case !d.ValidationState.Valid():
		return fmt.Errorf("%w: document %q: %w %q", ErrMalformedRecord, d.ID, model.ErrUnknownValidationState, d.ValidationState)
	}
	return nil
}
