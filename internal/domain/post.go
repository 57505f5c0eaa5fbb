package domain

import "time"

// PostRef identifies a single post for the lifetime of one extraction request.
type PostRef struct {
	OriginalURL string // URL as the user sent it
	MirrorURL   string // Rewritten to the embed mirror host
	ID          string // Numeric status ID
	Username    string // Handle taken from the URL path
}

// PostMetadata is what the scraper reads off the rendered mirror page.
type PostMetadata struct {
	Handle      string // "@user", may be empty when the mirror hides it
	DisplayName string
	Text        string
	PostedAt    time.Time // Zero when the page carries no timestamp
}

// HasContent reports whether the scraper found anything identifying the post.
// A post with metadata but no media is a valid text-only post.
func (m PostMetadata) HasContent() bool {
	return m.Handle != "" || m.DisplayName != "" || m.Text != ""
}
