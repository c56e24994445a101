package helpers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// SignedDownloadURL issues a V4-signed, read-only, time-boxed URL for one
// object. The disposition ("inline" or "attachment") and sanitized filename
// ride along as a response-content-disposition override so the browser gets
// a safe download name.
func SignedDownloadURL(client *storage.Client, bucket, object string, ttl time.Duration, disposition, filename string) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	}
	if disposition != "" {
		cd := disposition
		if name := SanitizeFilename(filename); name != "" {
			cd += `; filename="` + name + `"`
		}
		opts.QueryParameters = url.Values{"response-content-disposition": {cd}}
	}
	return client.Bucket(bucket).SignedURL(object, opts)
}

// GCSSigner adapts a storage.Client to the signer interface the content
// service consumes.
type GCSSigner struct {
	Client *storage.Client
}

func (s *GCSSigner) SignedDownloadURL(bucket, object string, ttl time.Duration, disposition, filename string) (string, error) {
	return SignedDownloadURL(s.Client, bucket, object, ttl, disposition, filename)
}

// SanitizeFilename strips characters that could break the Content-Disposition
// header: quotes, backslashes, control bytes, and path separators.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			// drop control characters
		case r == '"' || r == '\\' || r == '/':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
