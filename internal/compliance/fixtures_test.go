package compliance

import (
	"time"

	"workcompliance/internal/model"
)

var evalNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func daysFrom(t time.Time, days int) *time.Time {
	v := t.Add(time.Duration(days) * day)
	return &v
}

func docType(code string, order int, opts ...func(*model.DocumentTypeDefinition)) model.DocumentTypeDefinition {
	d := model.DocumentTypeDefinition{
		Code:         code,
		Name:         "Doc " + code,
		Category:     "general",
		Active:       true,
		DisplayOrder: order,
		Scope:        model.ScopeWorker,
	}
	for _, o := range opts {
		o(&d)
	}
	return d
}

func expiring(d *model.DocumentTypeDefinition)  { d.HasExpiration = true }
func signature(d *model.DocumentTypeDefinition) { d.RequiresSignature = true }
func inactive(d *model.DocumentTypeDefinition)  { d.Active = false }

func scoped(s model.Scope) func(*model.DocumentTypeDefinition) {
	return func(d *model.DocumentTypeDefinition) { d.Scope = s }
}

func requires(code string) func(*model.DocumentTypeDefinition) {
	return func(d *model.DocumentTypeDefinition) { d.PrerequisiteCode = code }
}

func upload(id, worker, code string, at time.Time, state model.ValidationState) model.UploadedDocument {
	return model.UploadedDocument{
		ID:              id,
		WorkerID:        worker,
		TypeCode:        code,
		UploadedAt:      at,
		ValidationState: state,
		Signed:          true,
	}
}

func mustCatalog(defs ...model.DocumentTypeDefinition) Catalog {
	c, err := NewCatalog(defs)
	if err != nil {
		panic(err)
	}
	return c
}

// siteCatalog is a catalog with one worker-level document and the three site-scoped ones.
func siteCatalog() Catalog {
	return mustCatalog(
		docType("aso", 1),
		docType("admission", 10, scoped(model.ScopeSiteOpening), signature),
		docType("extension", 11, scoped(model.ScopeSiteExtension), signature),
		docType("severance", 12, scoped(model.ScopeSiteClosing)),
	)
}
