package dal

import (
	"context"

	"vectorbridge/internal/models"
	"vectorbridge/internal/rag/interfaces"

	"gorm.io/gorm"
)

// createBatchSize bounds one INSERT statement; link sets can reach
// thousands of rows for large documents.
const createBatchSize = 100

// VectorDAL provides data access methods for document-to-vector links.
type VectorDAL struct {
	db *gorm.DB
}

// NewVectorDAL creates a new VectorDAL.
func NewVectorDAL(db *gorm.DB) *VectorDAL {
	return &VectorDAL{db: db}
}

// CreateMany persists all link rows for one ingestion in batches.
func (dal *VectorDAL) CreateMany(ctx context.Context, links []*models.DocumentVector) error {
	if len(links) == 0 {
		return nil
	}
	return dal.db.WithContext(ctx).CreateInBatches(links, createBatchSize).Error
}

// ListByDocID retrieves every link row for a document, for audit and for
// resolving which vectors a deletion must remove from the index.
func (dal *VectorDAL) ListByDocID(ctx context.Context, docID string) ([]*models.DocumentVector, error) {
	var links []*models.DocumentVector
	result := dal.db.WithContext(ctx).Where("doc_id = ?", docID).Find(&links)
	if result.Error != nil {
		return nil, result.Error
	}
	return links, nil
}

// DeleteByDocID removes all link rows of a document. Called by the
// document-deletion flow after the vectors themselves are removed.
func (dal *VectorDAL) DeleteByDocID(ctx context.Context, docID string) error {
	return dal.db.WithContext(ctx).Where("doc_id = ?", docID).Delete(&models.DocumentVector{}).Error
}

// compile-time check to ensure VectorDAL implements the LinkStore interface
var _ interfaces.LinkStore = (*VectorDAL)(nil)
