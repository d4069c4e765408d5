package evidence

import (
	"context"

	"github.com/x-ordo/evidentia/pkg/types/common"
)

// Repository is the persistence port for evidence items.  Implementations
// return ErrCodeEvidenceNotFound for missing ids.
type Repository interface {
	Add(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id common.ID) (*Item, error)
	ListByCase(ctx context.Context, caseID common.ID) ([]*Item, error)
	SetAttachmentKey(ctx context.Context, id common.ID, objectKey string) error
	Delete(ctx context.Context, id common.ID) error
}

// AttachmentStore is the object-storage port for raw evidence files.
// PresignDownload hands clients a time-limited URL so large files never
// stream through the API server.
type AttachmentStore interface {
	Put(ctx context.Context, caseID, evidenceID common.ID, contentType string, data []byte) (objectKey string, err error)
	Get(ctx context.Context, objectKey string) (data []byte, contentType string, err error)
	PresignDownload(ctx context.Context, objectKey string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}
