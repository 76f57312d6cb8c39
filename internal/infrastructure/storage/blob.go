package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

// BlobConfig points at a blob store accepting authenticated PUTs.
type BlobConfig struct {
	BaseURL string
	Token   string
}

// Blob stores each file under its sanitised name plus a random suffix, with
// public read access.
type Blob struct {
	cfg  BlobConfig
	http *http.Client
}

func NewBlob(cfg BlobConfig, client *http.Client) (*Blob, error) {
	if cfg.BaseURL == "" || cfg.Token == "" {
		return nil, fmt.Errorf("%w: blob base url and read-write token are required", domain.ErrStorageUnavailable)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Blob{cfg: cfg, http: client}, nil
}

func (b *Blob) Driver() string { return DriverBlob }

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// objectName builds "<name>-<uuid><ext>" from the original filename.
func objectName(filename, contentType string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := path.Ext(base)
	name := unsafeName.ReplaceAllString(strings.TrimSuffix(base, ext), "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		name = "attachment"
	}
	if canonical := extensionFor(contentType); canonical != "" {
		ext = canonical
	}
	return name + "-" + uuid.NewString() + strings.ToLower(ext)
}

func (b *Blob) Upload(ctx context.Context, file domain.Attachment) (string, error) {
	endpoint := b.cfg.BaseURL + "/" + url.PathEscape(objectName(file.Filename, file.ContentType))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, file.Content)
	if err != nil {
		return "", err
	}
	if file.Size > 0 {
		req.ContentLength = file.Size
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.Token)
	req.Header.Set("Content-Type", file.ContentType)
	req.Header.Set("x-access", "public")

	resp, err := b.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("blob upload: %w", err)
	}
	defer resp.Body.Close()

	var reply struct {
		URL   string `json:"url"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&reply)

	if resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		if reply.Error != nil && reply.Error.Message != "" {
			msg = reply.Error.Message
		}
		return "", fmt.Errorf("blob upload: status %d: %s", resp.StatusCode, msg)
	}
	if reply.URL == "" {
		return "", fmt.Errorf("blob upload: reply carried no url")
	}
	return reply.URL, nil
}
