package ports

import (
	"context"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

// NoticeListResult is a page of notices together with the query that
// produced it. Query.Page may differ from the requested page when a filter
// changed.
type NoticeListResult struct {
	Query domain.NoticeQuery
	Page  *domain.NoticePage
}

// CreateNoticeInput is a composed notice plus the optional file to upload
// before submission.
type CreateNoticeInput struct {
	Draft      domain.NoticeDraft
	Attachment *domain.Attachment
}

// FormOptions are the choices the creation form needs for a target kind.
type FormOptions struct {
	Target      domain.TargetKind
	NoticeTypes []domain.NoticeType
	Departments []domain.Department
	Employees   []domain.Employee
}

// AttachmentView tells the client how to render a notice attachment.
type AttachmentView struct {
	URL  string
	Kind domain.AttachmentKind
}

type NoticeService interface {
	List(ctx context.Context, session domain.Session, q domain.NoticeQuery) (*NoticeListResult, error)
	Get(ctx context.Context, session domain.Session, id string) (*domain.Notice, error)
	Create(ctx context.Context, session domain.Session, in CreateNoticeInput) (*domain.Notice, error)
	UpdateStatus(ctx context.Context, session domain.Session, id string, status domain.NoticeStatus) (*NoticeListResult, error)
	Delete(ctx context.Context, session domain.Session, id string) (*NoticeListResult, error)
	FormOptions(ctx context.Context, session domain.Session, kind domain.TargetKind) (*FormOptions, error)
	Attachment(ctx context.Context, session domain.Session, id string) (*AttachmentView, error)
}
