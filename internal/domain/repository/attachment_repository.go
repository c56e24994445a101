package repository

import (
	"context"

	"github.com/ngocweb/membership-api/internal/domain/entity"
)

// AttachmentRepository reads the attachment catalog. Attachments belonging
// to unpublished posts are treated as nonexistent.
type AttachmentRepository interface {
	// GetServable resolves an attachment joined to its owning post,
	// requiring the post be published. ErrNotFound otherwise.
	GetServable(ctx context.Context, id string) (*entity.Attachment, error)

	// GetPublishedPost loads a published post with its attachments,
	// ordered by creation time. ErrNotFound for unknown or unpublished ids.
	GetPublishedPost(ctx context.Context, id string) (*entity.Post, []entity.Attachment, error)
}
