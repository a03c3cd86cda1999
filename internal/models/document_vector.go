package models

import "time"

// DocumentVector links one stored vector back to the document chunk it was
// embedded from. One row per chunk, created after the index write succeeds
// and deleted when the owning document is deleted.
type DocumentVector struct {
	ID             uint   `gorm:"primaryKey"`
	DocID          string `gorm:"index;not null;size:36"`       // External document UUID
	VectorID       string `gorm:"uniqueIndex;not null;size:36"` // Vector id assigned at ingestion time
	DocumentID     uint   `gorm:"index;not null"`               // Document row id
	WorkspaceID    string `gorm:"index;size:255"`
	OrganizationID string `gorm:"size:255"`
	CreatedAt      time.Time
}
