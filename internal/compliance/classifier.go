package compliance

import (
	"fmt"
	"time"

	"workcompliance/internal/model"
)

// ExpiringWindow is how far ahead of its expiration date a current document is flagged.
const ExpiringWindow = 30 * 24 * time.Hour

const day = 24 * time.Hour

// Bucket is the classification of one (requirement, latest document) pair.
type Bucket string

const (
	BucketMissing           Bucket = "missing"
	BucketCompleted         Bucket = "completed"
	BucketExpired           Bucket = "expired"
	BucketExpiringSoon      Bucket = "expiring_soon"
	BucketRejected          Bucket = "rejected"
	BucketPendingSignature  Bucket = "pending_signature"
	BucketPendingValidation Bucket = "pending_validation"
)

// Classification is the outcome of Classify.
type Classification struct {
	Bucket         Bucket
	ExpirationDate *time.Time
	// DaysRemaining is set for BucketExpiringSoon only.
	DaysRemaining int
	// SignatureMet is false when the type requires a signature the document lacks.
	SignatureMet bool
}

// Classify puts one applicable type and its latest document (nil when absent)
// into a bucket, evaluated at now.
//
// States the store already computed (expired, expiring_soon) are taken as is.
// Dates are only consulted for documents the store reports as current.
func Classify(def model.DocumentTypeDefinition, doc *model.UploadedDocument, now time.Time) (Classification, error) {
	if doc == nil {
		return Classification{Bucket: BucketMissing}, nil
	}
	c := Classification{
		ExpirationDate: doc.ExpirationDate,
		SignatureMet:   !def.RequiresSignature || doc.Signed,
	}

	switch doc.ValidationState {
	case model.StateRejected:
		c.Bucket = BucketRejected
	case model.StateExpired:
		c.Bucket = BucketExpired
	case model.StateExpiringSoon:
		c.Bucket = BucketExpiringSoon
		c.DaysRemaining = daysUntil(doc.ExpirationDate, now)
	case model.StatePending:
		c.Bucket = BucketPendingValidation
	case model.StateCurrent:
		if def.HasExpiration && doc.ExpirationDate != nil {
			exp := *doc.ExpirationDate
			if exp.Before(now) {
				c.Bucket = BucketExpired
				return c, nil
			}
			if !exp.After(now.Add(ExpiringWindow)) {
				c.Bucket = BucketExpiringSoon
				c.DaysRemaining = daysUntil(doc.ExpirationDate, now)
				return c, nil
			}
		}
		if c.SignatureMet {
			c.Bucket = BucketCompleted
		} else {
			c.Bucket = BucketPendingSignature
		}
	default:
		return Classification{}, fmt.Errorf("%w: document %q: %w %q",
			ErrMalformedRecord, doc.ID, model.ErrUnknownValidationState, doc.ValidationState)
	}
	return c, nil
}

// daysUntil returns the whole days left until exp, rounded up and never negative.
func daysUntil(exp *time.Time, now time.Time) int {
	if exp == nil {
		return 0
	}
	left := exp.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / day)
	if left%day != 0 {
		days++
	}
	return days
}
