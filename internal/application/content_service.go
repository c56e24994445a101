package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ngocweb/membership-api/internal/apperr"
	"github.com/ngocweb/membership-api/internal/domain/entity"
	"github.com/ngocweb/membership-api/internal/domain/repository"
)

// URLSigner issues short-lived read URLs against the external object store.
// Satisfied by helpers.GCSSigner.
type URLSigner interface {
	SignedDownloadURL(bucket, object string, ttl time.Duration, disposition, filename string) (string, error)
}

// ContentService serves published posts and gated attachment downloads.
type ContentService struct {
	Attachments repository.AttachmentRepository
	Sessions    repository.SessionRepository
	Signer      URLSigner
	Logger      *logrus.Logger

	Bucket       string
	SignedURLTTL time.Duration
}

// DownloadURL authorizes the session, resolves the attachment through the
// published-post join, and returns a signed redirect target. The handler's
// whole responsibility is to authorize and select the key; signing is the
// store's.
func (s *ContentService) DownloadURL(ctx context.Context, sessionToken, attachmentID string, inline bool) (string, error) {
	if sessionToken == "" {
		return "", ErrNotLoggedIn
	}
	if _, err := s.Sessions.ResolveUser(ctx, sessionToken, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrSessionInvalid
		}
		return "", apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}

	// Reject malformed ids before touching the catalog.
	if _, err := uuid.Parse(attachmentID); err != nil {
		return "", ErrInvalidAttachmentID
	}

	a, err := s.Attachments.GetServable(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrAttachmentNotFound
		}
		return "", apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	if a.StorageProvider != entity.StorageProviderGCS {
		return "", ErrUnsupportedProvider
	}

	disposition := "inline"
	if !inline {
		disposition = "attachment"
	}
	url, err := s.Signer.SignedDownloadURL(s.Bucket, a.StorageKey, s.SignedURLTTL, disposition, a.Filename)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("attachment_id", a.ID).Error("sign url failed")
		}
		return "", apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	return url, nil
}

// PostView is the public shape of a published post with its attachments.
type PostView struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	CreatedAt   time.Time        `json:"created_at"`
	Attachments []AttachmentView `json:"attachments"`
}

type AttachmentView struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// GetPost returns a published post with its attachment listing. Unpublished
// posts are not distinguishable from missing ones.
func (s *ContentService) GetPost(ctx context.Context, id string) (*PostView, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidAttachmentID
	}
	p, atts, err := s.Attachments.GetPublishedPost(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, apperr.Wrap(apperr.Internal, ErrServer.Message, err)
	}
	view := &PostView{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		CreatedAt:   p.CreatedAt,
		Attachments: make([]AttachmentView, 0, len(atts)),
	}
	for _, a := range atts {
		view.Attachments = append(view.Attachments, AttachmentView{
			ID:          a.ID,
			Filename:    a.Filename,
			ContentType: a.ContentType,
		})
	}
	return view, nil
}
