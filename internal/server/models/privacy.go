package models

// Privacy is the visibility level of a set or a post.
type Privacy string

const (
	PrivacyPublic      Privacy = "public"
	PrivacyUnlisted    Privacy = "unlisted"
	PrivacyPrivate     Privacy = "private"
	PrivacyUnpublished Privacy = "unpublished"
	PrivacyDraft       Privacy = "draft"
)

// ValidSetPrivacy reports whether p may be assigned to a set.
// Sets only use the user-level privacy values.
func ValidSetPrivacy(p Privacy) bool {
	switch p {
	case PrivacyPublic, PrivacyUnlisted, PrivacyPrivate:
		return true
	}
	return false
}

// Listed reports whether anyone may read an entity with this privacy.
func (p Privacy) Listed() bool {
	return p == PrivacyPublic || p == PrivacyUnlisted
}

// Rating is a post content rating label (general, mature, explicit).
type Rating string

// MediaType describes the stored file of a post.
type MediaType struct {
	FileType string `json:"file_type"`
	MimeType string `json:"mime_type"`
}
