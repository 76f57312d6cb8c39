package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/ports"
	"github.com/nebsit/hr-gateway/internal/pkg/fingerprint"
)

type NoticeService struct {
	notices   ports.NoticeGateway
	employees ports.EmployeeGateway
	storage   ports.AttachmentStorage
	views     ports.ViewStateStore
	guard     ports.InFlightGuard
	activity  ports.ActivityRecorder
	bodyMin   int
	logger    zerolog.Logger
	now       func() time.Time
}

// NoticeDeps groups the collaborators of NoticeService. Storage, Views,
// Guard and Activity are optional.
type NoticeDeps struct {
	Notices   ports.NoticeGateway
	Employees ports.EmployeeGateway
	Storage   ports.AttachmentStorage
	Views     ports.ViewStateStore
	Guard     ports.InFlightGuard
	Activity  ports.ActivityRecorder
}

func NewNoticeService(deps NoticeDeps, bodyMin int, logger zerolog.Logger) *NoticeService {
	if bodyMin <= 0 {
		bodyMin = domain.DefaultBodyMinLength
	}
	activity := deps.Activity
	if activity == nil {
		activity = nopRecorder{}
	}
	return &NoticeService{
		notices:   deps.Notices,
		employees: deps.Employees,
		storage:   deps.Storage,
		views:     deps.Views,
		guard:     deps.Guard,
		activity:  activity,
		bodyMin:   bodyMin,
		logger:    logger,
		now:       time.Now,
	}
}

// List fetches one page. When any filter differs from the session's previous
// query the page is reset to 1.
func (s *NoticeService) List(ctx context.Context, session domain.Session, q domain.NoticeQuery) (*ports.NoticeListResult, error) {
	key := viewKey(session)
	next := q.Normalize()
	if prev, ok := s.loadView(ctx, key); ok {
		next = prev.Apply(q)
	}

	page, err := s.notices.List(ctx, session, next)
	if err != nil {
		return nil, err
	}

	if s.views != nil {
		if err := s.views.Save(ctx, key, next); err != nil {
			s.logger.Warn().Err(err).Msg("notice view state save failed")
		}
	}
	return &ports.NoticeListResult{Query: next, Page: page}, nil
}

func (s *NoticeService) Get(ctx context.Context, session domain.Session, id string) (*domain.Notice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNoticeNotFound
	}
	return s.notices.Get(ctx, session, id)
}

// Create validates the draft, uploads the attachment if any, then submits the
// notice. Nothing is sent anywhere when validation fails, and no notice is
// created when the upload fails.
func (s *NoticeService) Create(ctx context.Context, session domain.Session, in ports.CreateNoticeInput) (*domain.Notice, error) {
	draft := in.Draft
	if draft.Status == "" {
		draft.Status = domain.NoticeStatusPublished
	}
	if err := draft.Validate(s.bodyMin); err != nil {
		return nil, err
	}
	if in.Attachment != nil && !domain.IsAllowedAttachmentType(in.Attachment.ContentType) {
		return nil, domain.ErrUnsupportedFile
	}

	actor := fingerprint.Of(session.AccessToken)
	release, err := acquire(ctx, s.guard, "notice:create:"+actor)
	if err != nil {
		return nil, err
	}
	defer release()

	if in.Attachment != nil {
		if s.storage == nil {
			return nil, domain.ErrStorageUnavailable
		}
		url, err := s.storage.Upload(ctx, *in.Attachment)
		if err != nil {
			s.logger.Error().Err(err).
				Str("driver", s.storage.Driver()).
				Str("filename", in.Attachment.Filename).
				Msg("attachment upload failed")
			s.record(session, domain.ActionNoticeCreated, "", err)
			return nil, fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
		}
		draft.Attachment = url
	}

	notice, err := s.notices.Create(ctx, session, draft)
	if err != nil {
		if draft.Attachment != "" {
			s.logger.Warn().Err(err).Str("attachment_url", draft.Attachment).Msg("notice submission failed, uploaded attachment orphaned")
		}
		s.record(session, domain.ActionNoticeCreated, "", err)
		return nil, err
	}

	s.logger.Info().Str("notice_id", notice.ID).Str("status", string(notice.Status)).Msg("notice created")
	s.record(session, domain.ActionNoticeCreated, notice.ID, nil)
	return notice, nil
}

// UpdateStatus changes the status and returns the list re-fetched after the
// backend acknowledged the change.
func (s *NoticeService) UpdateStatus(ctx context.Context, session domain.Session, id string, status domain.NoticeStatus) (*ports.NoticeListResult, error) {
	parsed, ok := domain.ParseNoticeStatus(string(status))
	if !ok {
		verr := &domain.ValidationError{}
		verr.Add("status", "Status must be draft, published or unpublished")
		return nil, verr
	}
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNoticeNotFound
	}

	if err := s.notices.UpdateStatus(ctx, session, id, parsed); err != nil {
		s.record(session, domain.ActionNoticeStatusChange, id, err)
		return nil, err
	}
	s.record(session, domain.ActionNoticeStatusChange, id, nil)
	return s.refetch(ctx, session)
}

// Delete removes the notice, then re-fetches the current page.
func (s *NoticeService) Delete(ctx context.Context, session domain.Session, id string) (*ports.NoticeListResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNoticeNotFound
	}
	if err := s.notices.Delete(ctx, session, id); err != nil {
		s.record(session, domain.ActionNoticeDeleted, id, err)
		return nil, err
	}
	s.record(session, domain.ActionNoticeDeleted, id, nil)
	return s.refetch(ctx, session)
}

// FormOptions returns the selector choices for kind. Only the individual
// target reaches the backend, with exactly one employee fetch.
func (s *NoticeService) FormOptions(ctx context.Context, session domain.Session, kind domain.TargetKind) (*ports.FormOptions, error) {
	opts := &ports.FormOptions{Target: kind, NoticeTypes: domain.NoticeTypes}

	switch kind {
	case domain.TargetKindIndividual:
		employees, err := s.employees.ListEmployees(ctx, session)
		if err != nil {
			return nil, err
		}
		opts.Employees = employees
	case domain.TargetKindDepartment:
		opts.Departments = domain.Departments
	case domain.TargetKindAll:
	default:
		verr := &domain.ValidationError{}
		verr.Add("target", "Target must be individual, department or all")
		return nil, verr
	}
	return opts, nil
}

// Attachment resolves how the notice's attachment should be displayed.
func (s *NoticeService) Attachment(ctx context.Context, session domain.Session, id string) (*ports.AttachmentView, error) {
	notice, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if notice.Attachment == "" {
		return nil, domain.ErrFileNotFound
	}
	return &ports.AttachmentView{
		URL:  notice.Attachment,
		Kind: domain.InferAttachmentKind(notice.Attachment),
	}, nil
}

func (s *NoticeService) refetch(ctx context.Context, session domain.Session) (*ports.NoticeListResult, error) {
	q := domain.NoticeQuery{}.Normalize()
	if prev, ok := s.loadView(ctx, viewKey(session)); ok {
		q = prev.Normalize()
	}
	page, err := s.notices.List(ctx, session, q)
	if err != nil {
		return nil, err
	}
	return &ports.NoticeListResult{Query: q, Page: page}, nil
}

func (s *NoticeService) loadView(ctx context.Context, key string) (domain.NoticeQuery, bool) {
	if s.views == nil {
		return domain.NoticeQuery{}, false
	}
	q, ok, err := s.views.Load(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("notice view state load failed")
		return domain.NoticeQuery{}, false
	}
	return q, ok
}

func (s *NoticeService) record(session domain.Session, action, subject string, err error) {
	a := domain.Activity{
		Actor:      fingerprint.Of(session.AccessToken),
		Role:       session.Role,
		Action:     action,
		Subject:    subject,
		Outcome:    domain.OutcomeSuccess,
		OccurredAt: s.now().UTC(),
	}
	if err != nil {
		a.Outcome = domain.OutcomeFailure
		a.Detail = err.Error()
	}
	s.activity.Record(a)
}

func viewKey(session domain.Session) string {
	return fingerprint.Of(session.AccessToken)
}
