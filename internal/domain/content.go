package domain

import "time"

// ContentType classifies what kind of material a content item captures.
type ContentType string

const (
	// ContentTypeVideoLink is a saved link to a video.
	ContentTypeVideoLink ContentType = "VIDEO_LINK"
	// ContentTypeSocialPost is a saved link to a social media post.
	ContentTypeSocialPost ContentType = "SOCIAL_POST"
	// ContentTypeDocument is a saved link to a document.
	ContentTypeDocument ContentType = "DOCUMENT"
	// ContentTypeGenericLink is a saved link that fits no other category.
	ContentTypeGenericLink ContentType = "GENERIC_LINK"
	// ContentTypeTag is a bare collection of tags with no link.
	ContentTypeTag ContentType = "TAG"
	// ContentTypeFreeText is a standalone note with no link.
	ContentTypeFreeText ContentType = "FREE_TEXT"
)

// ValidContentTypes lists every accepted content type.
var ValidContentTypes = []ContentType{
	ContentTypeVideoLink,
	ContentTypeSocialPost,
	ContentTypeDocument,
	ContentTypeGenericLink,
	ContentTypeTag,
	ContentTypeFreeText,
}

// IsValid reports whether t is one of the accepted content types.
func (t ContentType) IsValid() bool {
	for _, v := range ValidContentTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ContentItem represents a single saved item in a user's brain.
// Tags holds tag IDs; the store resolves them to labels on read.
type ContentItem struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner_id"`
	Title     string      `json:"title"`
	Type      ContentType `json:"type"`
	Link      string      `json:"link,omitempty"`
	Body      string      `json:"body,omitempty"`
	Tags      []string    `json:"tags,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (c *ContentItem) Touch() {
	c.UpdatedAt = time.Now()
}
