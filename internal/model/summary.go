package model

import "time"

// MissingType is an applicable requirement with no usable document.
type MissingType struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
	SiteID   string `json:"site_id,omitempty"`
}

// ExpiredType is an applicable requirement whose latest document is expired.
type ExpiredType struct {
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	SiteID         string     `json:"site_id,omitempty"`
}

// ExpiringType is an applicable requirement whose latest document expires within the warning window.
type ExpiringType struct {
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	DaysRemaining  int        `json:"days_remaining"`
	SiteID         string     `json:"site_id,omitempty"`
}

// WorkerComplianceSummary is the compliance view of one worker at an evaluation instant.
// It is derived on demand and never stored.
type WorkerComplianceSummary struct {
	WorkerID        string         `json:"worker_id"`
	TotalApplicable int            `json:"total_applicable"`
	Completed       int            `json:"completed"`
	Pending         int            `json:"pending"`
	Expired         int            `json:"expired"`
	ExpiringSoon    int            `json:"expiring_soon"`
	Rejected        int            `json:"rejected"`
	Percentage      int            `json:"percentage"`
	MissingTypes    []MissingType  `json:"missing_types"`
	ExpiredTypes    []ExpiredType  `json:"expired_types"`
	ExpiringTypes   []ExpiringType `json:"expiring_types"`
}

// ComplianceRollup holds the counters shared by site and global summaries.
type ComplianceRollup struct {
	TotalWorkers           int `json:"total_workers"`
	WorkersCompliant       int `json:"workers_compliant"`
	WorkersPending         int `json:"workers_pending"`
	WorkersCritical        int `json:"workers_critical"`
	OverallPercentage      int `json:"overall_percentage"`
	TotalExpiredDocuments  int `json:"total_expired_documents"`
	TotalExpiringDocuments int `json:"total_expiring_documents"`
}

// SiteComplianceSummary rolls up the workers actively assigned to one site.
type SiteComplianceSummary struct {
	SiteID string `json:"site_id"`
	ComplianceRollup
}

// GlobalComplianceSummary rolls up every worker with an active assignment.
type GlobalComplianceSummary struct {
	ComplianceRollup
}
