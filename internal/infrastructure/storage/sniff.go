package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

// sniffLen is how much of the file mimetype needs to recognise our formats.
const sniffLen = 3072

// Prepare sniffs the content type of an uploaded file and enforces the
// allowed types and the size limit. The returned attachment reads the whole
// file, including the sniffed prefix.
func Prepare(filename string, size, maxSize int64, r io.Reader) (*domain.Attachment, error) {
	if maxSize > 0 && size > maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrFileTooLarge, size, maxSize)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	contentType := ""
	for _, allowed := range []string{domain.MIMEJPEG, domain.MIMEPNG, domain.MIMEPDF} {
		if mt.Is(allowed) {
			contentType = allowed
			break
		}
	}
	if contentType == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, mt.String())
	}

	return &domain.Attachment{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		Content:     io.MultiReader(bytes.NewReader(head), r),
	}, nil
}

// extensionFor returns the canonical extension of an allowed content type.
func extensionFor(contentType string) string {
	if ext := mimetype.Lookup(contentType); ext != nil {
		return ext.Extension()
	}
	return ""
}
