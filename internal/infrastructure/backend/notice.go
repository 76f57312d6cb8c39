package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/ports"
)

// NoticeGateway implements ports.NoticeGateway and ports.EmployeeGateway.
type NoticeGateway struct {
	client *Client
}

func NewNoticeGateway(client *Client) *NoticeGateway {
	return &NoticeGateway{client: client}
}

func (g *NoticeGateway) List(ctx context.Context, session domain.Session, q domain.NoticeQuery) (*domain.NoticePage, error) {
	q = q.Normalize()
	reply, err := g.client.do(ctx, request{
		op:     "notice.list",
		method: http.MethodGet,
		path:   "/notice",
		query:  q.Values(),
		token:  session.AccessToken,
	})
	if err != nil {
		return nil, err
	}
	return decodeNoticePage(reply, q)
}

func (g *NoticeGateway) Get(ctx context.Context, session domain.Session, id string) (*domain.Notice, error) {
	reply, err := g.client.do(ctx, request{
		op:     "notice.get",
		method: http.MethodGet,
		path:   "/notice/" + url.PathEscape(id),
		token:  session.AccessToken,
	})
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNoticeNotFound)
	}
	var w noticeWire
	if err := json.Unmarshal(reply.Data, &w); err != nil || w.ID == "" {
		return nil, domain.ErrNoticeNotFound
	}
	n := w.toDomain()
	return &n, nil
}

func (g *NoticeGateway) Create(ctx context.Context, session domain.Session, draft domain.NoticeDraft) (*domain.Notice, error) {
	reply, err := g.client.do(ctx, request{
		op:     "notice.create",
		method: http.MethodPost,
		path:   "/notice",
		token:  session.AccessToken,
		body:   noticeFromDraft(draft),
	})
	if err != nil {
		return nil, err
	}
	var w noticeWire
	if len(reply.Data) > 0 {
		if err := json.Unmarshal(reply.Data, &w); err != nil {
			return nil, fmt.Errorf("decode created notice: %w", err)
		}
	}
	n := w.toDomain()
	if n.Title == "" {
		// Some deployments answer with an empty data object.
		n = noticeFromDraft(draft).toDomain()
		n.ID = w.ID
	}
	return &n, nil
}

func (g *NoticeGateway) UpdateStatus(ctx context.Context, session domain.Session, id string, status domain.NoticeStatus) error {
	_, err := g.client.do(ctx, request{
		op:     "notice.update_status",
		method: http.MethodPatch,
		path:   "/notice/" + url.PathEscape(id) + "/status",
		token:  session.AccessToken,
		body: struct {
			Status domain.NoticeStatus `json:"status"`
		}{status},
	})
	return notFoundAs(err, domain.ErrNoticeNotFound)
}

func (g *NoticeGateway) Delete(ctx context.Context, session domain.Session, id string) error {
	_, err := g.client.do(ctx, request{
		op:     "notice.delete",
		method: http.MethodDelete,
		path:   "/notice/" + url.PathEscape(id),
		token:  session.AccessToken,
	})
	return notFoundAs(err, domain.ErrNoticeNotFound)
}

func (g *NoticeGateway) ListEmployees(ctx context.Context, session domain.Session) ([]domain.Employee, error) {
	reply, err := g.client.do(ctx, request{
		op:     "employee.list",
		method: http.MethodGet,
		path:   "/employees",
		token:  session.AccessToken,
	})
	if err != nil {
		return nil, err
	}
	var employees []domain.Employee
	if err := decodeList(reply.Data, "employees", &employees); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	return employees, nil
}

// ---------------------------------------------------------------------------
// Wire mapping
// ---------------------------------------------------------------------------

// noticeWire is the JSON shape of a notice on the remote API.
type noticeWire struct {
	ID           string     `json:"_id,omitempty"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	NoticeType   []string   `json:"noticeType"`
	Target       string     `json:"target"`
	Departments  []string   `json:"departments,omitempty"`
	EmployeeID   string     `json:"employeeId,omitempty"`
	EmployeeName string     `json:"employeeName,omitempty"`
	Position     string     `json:"position,omitempty"`
	Status       string     `json:"status"`
	PublishDate  string     `json:"publishDate"`
	Attachment   string     `json:"attachment,omitempty"`
	CreatedBy    string     `json:"createdBy,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

func noticeFromDraft(d domain.NoticeDraft) noticeWire {
	w := noticeWire{
		Title:       d.Title,
		Body:        d.Body,
		Status:      string(d.Status),
		PublishDate: d.PublishDate,
		Attachment:  d.Attachment,
	}
	for _, t := range d.Types {
		w.NoticeType = append(w.NoticeType, string(t))
	}
	setTarget(&w, d.Target)
	return w
}

func setTarget(w *noticeWire, t domain.Target) {
	switch v := t.(type) {
	case domain.TargetIndividual:
		w.Target = string(domain.TargetKindIndividual)
		w.EmployeeID = v.EmployeeID
		w.EmployeeName = v.EmployeeName
		w.Position = v.Position
	case domain.TargetDepartment:
		w.Target = string(domain.TargetKindDepartment)
		for _, d := range v.Departments {
			w.Departments = append(w.Departments, string(d))
		}
	default:
		w.Target = string(domain.TargetKindAll)
	}
}

func (w noticeWire) toDomain() domain.Notice {
	n := domain.Notice{
		ID:          w.ID,
		Title:       w.Title,
		Body:        w.Body,
		Target:      w.target(),
		PublishDate: w.PublishDate,
		Attachment:  w.Attachment,
		CreatedBy:   w.CreatedBy,
	}
	if s, ok := domain.ParseNoticeStatus(w.Status); ok {
		n.Status = s
	}
	for _, t := range w.NoticeType {
		n.Types = append(n.Types, domain.NoticeType(t))
	}
	if w.CreatedAt != nil {
		n.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		n.UpdatedAt = *w.UpdatedAt
	}
	return n
}

func (w noticeWire) target() domain.Target {
	kind, _ := domain.ParseTargetKind(w.Target)
	switch kind {
	case domain.TargetKindIndividual:
		return domain.TargetIndividual{EmployeeID: w.EmployeeID, EmployeeName: w.EmployeeName, Position: w.Position}
	case domain.TargetKindDepartment:
		t := domain.TargetDepartment{}
		for _, d := range w.Departments {
			if dep, ok := domain.ParseDepartment(d); ok {
				t.Departments = append(t.Departments, dep)
			} else {
				t.Departments = append(t.Departments, domain.Department(d))
			}
		}
		return t
	default:
		return domain.TargetAll{}
	}
}

type pageMeta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	ActiveCount *int  `json:"activeCount"`
	DraftCount  *int  `json:"draftCount"`
}

func decodeNoticePage(reply *ports.BackendReply, q domain.NoticeQuery) (*domain.NoticePage, error) {
	var items []noticeWire
	if err := decodeList(reply.Data, "notices", &items); err != nil {
		return nil, fmt.Errorf("decode notices: %w", err)
	}

	page := &domain.NoticePage{Items: make([]domain.Notice, 0, len(items))}
	for _, w := range items {
		page.Items = append(page.Items, w.toDomain())
	}

	var meta pageMeta
	if len(reply.Meta) > 0 {
		if err := json.Unmarshal(reply.Meta, &meta); err != nil {
			return nil, fmt.Errorf("decode notice meta: %w", err)
		}
	}
	if meta.Page <= 0 {
		meta.Page = q.Page
	}
	if meta.Limit <= 0 {
		meta.Limit = q.Limit
	}
	if meta.Total == 0 {
		meta.Total = int64(len(items))
	}
	if meta.TotalPages <= 0 {
		meta.TotalPages = int((meta.Total + int64(meta.Limit) - 1) / int64(meta.Limit))
	}
	page.Pagination = domain.Pagination{
		Page:       meta.Page,
		Limit:      meta.Limit,
		Total:      meta.Total,
		TotalPages: meta.TotalPages,
	}
	if meta.ActiveCount != nil || meta.DraftCount != nil {
		page.Counts = &domain.NoticeCounts{}
		if meta.ActiveCount != nil {
			page.Counts.Active = *meta.ActiveCount
		}
		if meta.DraftCount != nil {
			page.Counts.Draft = *meta.DraftCount
		}
	}
	return page, nil
}

// decodeList accepts either a bare array or an object holding the array
// under key.
func decodeList(data json.RawMessage, key string, dst any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '[' {
		return json.Unmarshal(data, dst)
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	inner, ok := wrapped[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(inner, dst)
}
