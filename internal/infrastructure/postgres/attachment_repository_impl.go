package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngocweb/membership-api/internal/domain/entity"
	"github.com/ngocweb/membership-api/internal/domain/repository"
)

type AttachmentRepository struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepository(pool *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

// GetServable joins the attachment to its owning post and requires the post
// be published. The join is the information-leak guard: an attachment of an
// unpublished post is indistinguishable from a nonexistent one.
func (r *AttachmentRepository) GetServable(ctx context.Context, id string) (*entity.Attachment, error) {
	a := &entity.Attachment{}
	err := r.pool.QueryRow(ctx, `
		SELECT a.id, a.post_id, a.filename, a.storage_provider, a.storage_key,
			a.content_type, a.created_at
		FROM attachments a
		JOIN posts p ON p.id = a.post_id
		WHERE a.id = $1 AND p.published = TRUE
	`, id).Scan(&a.ID, &a.PostID, &a.Filename, &a.StorageProvider,
		&a.StorageKey, &a.ContentType, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AttachmentRepository) GetPublishedPost(ctx context.Context, id string) (*entity.Post, []entity.Attachment, error) {
	p := &entity.Post{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, content, published, created_at
		FROM posts
		WHERE id = $1 AND published = TRUE
	`, id).Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, repository.ErrNotFound
		}
		return nil, nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, post_id, filename, storage_provider, storage_key, content_type, created_at
		FROM attachments
		WHERE post_id = $1
		ORDER BY created_at ASC
	`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var atts []entity.Attachment
	for rows.Next() {
		var a entity.Attachment
		if err := rows.Scan(&a.ID, &a.PostID, &a.Filename, &a.StorageProvider,
			&a.StorageKey, &a.ContentType, &a.CreatedAt); err != nil {
			return nil, nil, err
		}
		atts = append(atts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return p, atts, nil
}

var _ repository.AttachmentRepository = (*AttachmentRepository)(nil)
