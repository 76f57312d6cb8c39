package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

const (
	gridFSBucket  = "attachments"
	gridFSTimeout = 30 * time.Second
)

// GridFS keeps attachments in MongoDB and serves them back through the
// gateway's /files route.
type GridFS struct {
	db        *mongo.Database
	publicURL string
}

func NewGridFS(db *mongo.Database, publicBaseURL string) (*GridFS, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: gridfs requires MONGO_URI", domain.ErrStorageUnavailable)
	}
	if publicBaseURL == "" {
		return nil, fmt.Errorf("%w: gridfs requires PUBLIC_BASE_URL", domain.ErrStorageUnavailable)
	}
	return &GridFS{db: db, publicURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (g *GridFS) Driver() string { return DriverGridFS }

// bucket opens a fresh bucket handle; deadlines are per-handle state.
func (g *GridFS) bucket(ctx context.Context) (*gridfs.Bucket, time.Time, error) {
	b, err := gridfs.NewBucket(g.db, options.GridFSBucket().SetName(gridFSBucket))
	if err != nil {
		return nil, time.Time{}, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(gridFSTimeout)
	}
	return b, deadline, nil
}

func (g *GridFS) Upload(ctx context.Context, file domain.Attachment) (string, error) {
	b, deadline, err := g.bucket(ctx)
	if err != nil {
		return "", fmt.Errorf("gridfs bucket: %w", err)
	}
	if err := b.SetWriteDeadline(deadline); err != nil {
		return "", err
	}

	meta := bson.M{"contentType": file.ContentType, "originalName": file.Filename}
	name := objectName(file.Filename, file.ContentType)
	id, err := b.UploadFromStream(name, file.Content, options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		return "", fmt.Errorf("gridfs upload: %w", err)
	}
	return g.publicURL + "/files/" + id.Hex(), nil
}

// StoredFile is an attachment read back from GridFS.
type StoredFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.ReadCloser
}

// Open streams the file with the given hex id. Unknown or malformed ids
// yield domain.ErrFileNotFound.
func (g *GridFS) Open(ctx context.Context, id string) (*StoredFile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrFileNotFound
	}
	b, deadline, err := g.bucket(ctx)
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	if err := b.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	stream, err := b.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("gridfs open: %w", err)
	}

	f := stream.GetFile()
	out := &StoredFile{Name: f.Name, Size: f.Length, Content: stream, ContentType: "application/octet-stream"}
	if len(f.Metadata) > 0 {
		if v, err := f.Metadata.LookupErr("contentType"); err == nil {
			if s, ok := v.StringValueOK(); ok {
				out.ContentType = s
			}
		}
	}
	return out, nil
}
