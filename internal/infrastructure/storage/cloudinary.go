package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

const defaultCloudinaryURL = "https://api.cloudinary.com"

// CloudinaryConfig holds the unsigned-upload settings.
type CloudinaryConfig struct {
	CloudName    string
	UploadPreset string
	// APIBase overrides the API origin, mainly for tests.
	APIBase string
}

// Cloudinary uploads through an unsigned upload preset. Images go to the
// image pipeline, PDFs to raw.
type Cloudinary struct {
	cfg  CloudinaryConfig
	http *http.Client
}

func NewCloudinary(cfg CloudinaryConfig, client *http.Client) (*Cloudinary, error) {
	if cfg.CloudName == "" || cfg.UploadPreset == "" {
		return nil, fmt.Errorf("%w: cloudinary cloud name and upload preset are required", domain.ErrStorageUnavailable)
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultCloudinaryURL
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	return &Cloudinary{cfg: cfg, http: client}, nil
}

func (c *Cloudinary) Driver() string { return DriverCloudinary }

type cloudinaryReply struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Cloudinary) Upload(ctx context.Context, file domain.Attachment) (string, error) {
	resource := "image"
	if !file.IsImage() {
		resource = "raw"
	}
	endpoint := fmt.Sprintf("%s/v1_1/%s/%s/upload", c.cfg.APIBase, url.PathEscape(c.cfg.CloudName), resource)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", file.Filename)
	if err != nil {
		return "", fmt.Errorf("cloudinary form: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return "", fmt.Errorf("cloudinary form: %w", err)
	}
	if err := mw.WriteField("upload_preset", c.cfg.UploadPreset); err != nil {
		return "", fmt.Errorf("cloudinary form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("cloudinary form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	var reply cloudinaryReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("cloudinary upload: status %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 {
		msg := "Cloudinary upload failed"
		if reply.Error != nil && reply.Error.Message != "" {
			msg = reply.Error.Message
		}
		return "", fmt.Errorf("cloudinary upload: status %d: %s", resp.StatusCode, msg)
	}

	if reply.SecureURL != "" {
		return reply.SecureURL, nil
	}
	if reply.URL != "" {
		return reply.URL, nil
	}
	return "", fmt.Errorf("cloudinary upload: reply carried no url")
}
