package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownScope is returned when a catalog entry names a scope outside the closed set.
var ErrUnknownScope = errors.New("unknown document scope")

// Scope says whether a document type is held by the worker or by one site assignment.
type Scope string

const (
	// ScopeWorker types apply to the worker regardless of site.
	ScopeWorker Scope = "worker"
	// ScopeSiteOpening types open an assignment (the admission contract).
	ScopeSiteOpening Scope = "site_opening"
	// ScopeSiteExtension types carry an open contract over to a new site.
	ScopeSiteExtension Scope = "site_extension"
	// ScopeSiteClosing types close an assignment out (severance).
	ScopeSiteClosing Scope = "site_closing"
)

// ParseScope converts a raw value into a Scope. An empty value means ScopeWorker.
func ParseScope(raw string) (Scope, error) {
	switch s := Scope(strings.ToLower(strings.TrimSpace(raw))); s {
	case "":
		return ScopeWorker, nil
	case ScopeWorker, ScopeSiteOpening, ScopeSiteExtension, ScopeSiteClosing:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScope, raw)
}

// SiteScoped reports whether the scope is resolved per assignment.
func (s Scope) SiteScoped() bool {
	return s == ScopeSiteOpening || s == ScopeSiteExtension || s == ScopeSiteClosing
}

// UnmarshalText lets JSON and YAML decoding go through ParseScope.
func (s *Scope) UnmarshalText(b []byte) error {
	v, err := ParseScope(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// DocumentTypeDefinition is one entry of the obligatory document catalog.
type DocumentTypeDefinition struct {
	Code              string `json:"code" yaml:"code"`
	Name              string `json:"name" yaml:"name"`
	Category          string `json:"category" yaml:"category"`
	HasExpiration     bool   `json:"has_expiration" yaml:"has_expiration"`
	RequiresSignature bool   `json:"requires_signature" yaml:"requires_signature"`
	Active            bool   `json:"active" yaml:"active"`
	DisplayOrder      int    `json:"display_order" yaml:"display_order"`
	Scope             Scope  `json:"scope" yaml:"scope"`
	// PrerequisiteCode names a type the worker must already hold (e.g. the contract an addendum amends).
	PrerequisiteCode string `json:"prerequisite_code,omitempty" yaml:"prerequisite_code"`
}

// UploadedDocument is one document uploaded for a worker.
type UploadedDocument struct {
	ID              string          `json:"id"`
	WorkerID        string          `json:"worker_id"`
	TypeCode        string          `json:"type_code"`
	SiteID          string          `json:"site_id,omitempty"`
	UploadedAt      time.Time       `json:"uploaded_at"`
	ExpirationDate  *time.Time      `json:"expiration_date,omitempty"`
	ValidationState ValidationState `json:"validation_state"`
	Signed          bool            `json:"signed"`
}

// AssignmentRecord places a worker on a site for a period.
type AssignmentRecord struct {
	WorkerID   string     `json:"worker_id"`
	SiteID     string     `json:"site_id"`
	AssignedAt time.Time  `json:"assigned_at"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
	Active     bool       `json:"active"`
}
