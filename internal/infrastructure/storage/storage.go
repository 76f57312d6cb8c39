// Package storage holds the attachment storage drivers and the upload
// preparation (content sniffing, size limit) shared by them.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nebsit/hr-gateway/internal/api/metrics"
	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/ports"
)

const (
	DriverCloudinary = "cloudinary"
	DriverBlob       = "blob"
	DriverGridFS     = "gridfs"
)

// Config selects and configures one driver.
type Config struct {
	Driver        string
	Timeout       time.Duration
	Cloudinary    CloudinaryConfig
	Blob          BlobConfig
	PublicBaseURL string
}

// New builds the configured driver wrapped with metrics and logging. db may
// be nil unless the gridfs driver is selected.
func New(cfg Config, db *mongo.Database, log zerolog.Logger) (ports.AttachmentStorage, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		client.Timeout = 60 * time.Second
	}

	var (
		s   ports.AttachmentStorage
		err error
	)
	switch cfg.Driver {
	case DriverCloudinary, "":
		s, err = NewCloudinary(cfg.Cloudinary, client)
	case DriverBlob:
		s, err = NewBlob(cfg.Blob, client)
	case DriverGridFS:
		s, err = NewGridFS(db, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", domain.ErrStorageUnavailable, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, log), nil
}

type instrumented struct {
	next ports.AttachmentStorage
	log  zerolog.Logger
}

// Instrument counts uploads per driver and logs their outcome.
func Instrument(next ports.AttachmentStorage, log zerolog.Logger) ports.AttachmentStorage {
	return &instrumented{next: next, log: log}
}

func (i *instrumented) Driver() string { return i.next.Driver() }

func (i *instrumented) Upload(ctx context.Context, file domain.Attachment) (string, error) {
	start := time.Now()
	url, err := i.next.Upload(ctx, file)
	if err != nil {
		metrics.AttachmentUploadsTotal.WithLabelValues(i.next.Driver(), "error").Inc()
		return "", err
	}
	metrics.AttachmentUploadsTotal.WithLabelValues(i.next.Driver(), "ok").Inc()
	i.log.Info().Ctx(ctx).
		Str("driver", i.next.Driver()).
		Str("content_type", file.ContentType).
		Int64("size", file.Size).
		Dur("took", time.Since(start)).
		Msg("attachment uploaded")
	return url, nil
}
