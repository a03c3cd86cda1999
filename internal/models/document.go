package models

import (
	"fmt"
	"time"
)

// Document is a source document owned by the calling ingestion service.
// PageContent and Metadata travel with the ingestion request only; the
// persisted row records identity and ownership.
type Document struct {
	ID             uint   `gorm:"primaryKey"`
	DocID          string `gorm:"index;not null;size:36"`  // External document UUID assigned by the caller
	WorkspaceID    string `gorm:"index;not null;size:255"` // Owning workspace
	OrganizationID string `gorm:"index;not null;size:255"` // Owning organization
	CreatedAt      time.Time
	UpdatedAt      time.Time

	PageContent string                 `gorm:"-"`
	Metadata    map[string]interface{} `gorm:"-"`
}

// VectorFilename derives the deterministic snapshot filename for this
// document's cached vectors.
func (d *Document) VectorFilename() string {
	return fmt.Sprintf("%s-%s.json", d.WorkspaceID, d.DocID)
}
