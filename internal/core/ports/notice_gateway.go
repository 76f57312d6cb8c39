package ports

import (
	"context"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

// NoticeGateway is the notice section of the remote HR API.
type NoticeGateway interface {
	List(ctx context.Context, session domain.Session, q domain.NoticeQuery) (*domain.NoticePage, error)
	Get(ctx context.Context, session domain.Session, id string) (*domain.Notice, error)
	Create(ctx context.Context, session domain.Session, draft domain.NoticeDraft) (*domain.Notice, error)
	UpdateStatus(ctx context.Context, session domain.Session, id string, status domain.NoticeStatus) error
	Delete(ctx context.Context, session domain.Session, id string) error
}

// EmployeeGateway lists employees for the individual target selector.
type EmployeeGateway interface {
	ListEmployees(ctx context.Context, session domain.Session) ([]domain.Employee, error)
}

// AttachmentStorage is the external object store notices link to.
type AttachmentStorage interface {
	// Upload stores the file and returns its public URL.
	Upload(ctx context.Context, file domain.Attachment) (string, error)
	Driver() string
}

// ViewStateStore remembers the last notice query of each session. Load
// returns ok=false when nothing is stored.
type ViewStateStore interface {
	Load(ctx context.Context, key string) (q domain.NoticeQuery, ok bool, err error)
	Save(ctx context.Context, key string, q domain.NoticeQuery) error
}
