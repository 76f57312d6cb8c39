package domain

import (
	"io"
	"net/url"
	"path"
	"strings"
)

// AttachmentKind selects how an attachment is rendered.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentPDF   AttachmentKind = "pdf"
	AttachmentLink  AttachmentKind = "link"
)

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".svg": {},
}

// InferAttachmentKind looks only at the extension of the URL path.
func InferAttachmentKind(rawURL string) AttachmentKind {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	if _, ok := imageExtensions[ext]; ok {
		return AttachmentImage
	}
	if ext == ".pdf" {
		return AttachmentPDF
	}
	return AttachmentLink
}

// Allowed attachment MIME types.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEPDF  = "application/pdf"
)

// IsAllowedAttachmentType reports whether mime may be uploaded.
func IsAllowedAttachmentType(mime string) bool {
	switch mime {
	case MIMEJPEG, MIMEPNG, MIMEPDF:
		return true
	}
	return false
}

// Attachment is a file chosen in the creation form, ready for upload.
type Attachment struct {
	Filename    string
	ContentType string // sniffed, one of the allowed types
	Size        int64
	Content     io.Reader
}

// IsImage reports whether the attachment is a picture rather than a document.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.ContentType, "image/")
}
