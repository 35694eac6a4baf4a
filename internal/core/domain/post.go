package domain

import (
	"strings"
	"time"
)

// DefaultPostPrompt is the user prompt template. %s receives the comma-joined keywords.
const DefaultPostPrompt = `Write a LinkedIn post of more than 150 words about: %s.
The post should be informative, inspiring, and formatted like a human wrote it.
Include at least 20 relevant hashtags at the end.
Avoid em dashes (—) in the post.`

// DefaultPostSystemPrompt is the system message sent with every draft request.
const DefaultPostSystemPrompt = "You are a professional LinkedIn content writer."

// PersonID is the stable subject identifier returned by the identity endpoint.
type PersonID string

// AuthorURN returns the LinkedIn person URN used as post author and media owner.
func (p PersonID) AuthorURN() string {
	return "urn:li:person:" + string(p)
}

// MediaReference is the opaque identifier of an uploaded image.
type MediaReference string

// DraftPost holds generated content during the preview/edit phase.
type DraftPost struct {
	// ID identifies the draft within a workflow run.
	ID string
	// Body is the authoritative post text; edits replace it.
	Body string
	// GeneratedBody is the text as returned by the generator.
	GeneratedBody string
	// Keywords are the source keywords as entered by the user.
	Keywords []string
	// Image holds raw image bytes, nil when the post has no image.
	Image []byte
	// ImageName is the original file name of the image, if known.
	ImageName string
	// CreatedAt is when the draft was generated.
	CreatedAt time.Time
}

// HasImage returns true if the draft carries image bytes.
func (d *DraftPost) HasImage() bool {
	return len(d.Image) > 0
}

// Edited returns true if the body differs from the generated text.
func (d *DraftPost) Edited() bool {
	return strings.TrimSpace(d.Body) != strings.TrimSpace(d.GeneratedBody)
}

// Clone returns a copy of the draft that shares no slices with d.
func (d *DraftPost) Clone() *DraftPost {
	c := *d
	c.Keywords = append([]string(nil), d.Keywords...)
	if d.Image != nil {
		c.Image = append([]byte(nil), d.Image...)
	}
	return &c
}

// PublishResult is the outcome of a successful publish.
type PublishResult struct {
	// PostID is the provider-assigned post identifier.
	PostID string
	// PublishedAt is when the publish call returned.
	PublishedAt time.Time
	// Media is the uploaded image reference, empty if none.
	Media MediaReference
	// UnrecordedKeywords lists keywords whose ledger append failed after publishing.
	UnrecordedKeywords []string
}
