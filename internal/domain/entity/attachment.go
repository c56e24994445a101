package entity

import "time"

// StorageProviderGCS is the only storage provider this deployment can sign
// download URLs for.
const StorageProviderGCS = "gcs"

// Attachment is an immutable pointer into the external object store.
// An attachment is servable only while its owning post is published.
type Attachment struct {
	ID              string
	PostID          string
	Filename        string
	StorageProvider string
	StorageKey      string
	ContentType     string
	CreatedAt       time.Time
}

// Post owns attachments; unpublished posts hide them.
type Post struct {
	ID        string
	Title     string
	Content   string
	Published bool
	CreatedAt time.Time
}
