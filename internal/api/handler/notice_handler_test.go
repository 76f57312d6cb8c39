package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nebsit/hr-gateway/internal/api/session"
	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/service"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeNotices struct {
	calls      []string
	created    *domain.NoticeDraft
	lastStatus domain.NoticeStatus
	lastQuery  domain.NoticeQuery
	employees  []domain.Employee
}

func (f *fakeNotices) List(_ context.Context, _ domain.Session, q domain.NoticeQuery) (*domain.NoticePage, error) {
	f.calls = append(f.calls, "list")
	f.lastQuery = q
	return &domain.NoticePage{
		Items: []domain.Notice{{
			ID:          "n1",
			Title:       "Office closed",
			Types:       []domain.NoticeType{"Holiday & Event"},
			Target:      domain.TargetDepartment{Departments: []domain.Department{"HR", "Finance"}},
			Status:      domain.NoticeStatusPublished,
			PublishDate: "2026-01-05",
			Attachment:  "https://cdn.example.com/a/holiday.PNG?v=2",
		}},
		Pagination: domain.Pagination{Page: q.Page, Limit: q.Limit, Total: 1, TotalPages: 1},
		Counts:     &domain.NoticeCounts{Active: 1, Draft: 0},
	}, nil
}

func (f *fakeNotices) Get(_ context.Context, _ domain.Session, id string) (*domain.Notice, error) {
	f.calls = append(f.calls, "get")
	if id != "n1" {
		return nil, domain.ErrNoticeNotFound
	}
	return &domain.Notice{ID: "n1", Title: "Office closed", Target: domain.TargetAll{}, Attachment: "https://cdn.example.com/policy.pdf"}, nil
}

func (f *fakeNotices) Create(_ context.Context, _ domain.Session, d domain.NoticeDraft) (*domain.Notice, error) {
	f.calls = append(f.calls, "create")
	f.created = &d
	return &domain.Notice{ID: "n2", Title: d.Title, Body: d.Body, Types: d.Types, Target: d.Target, Status: d.Status, PublishDate: d.PublishDate, Attachment: d.Attachment}, nil
}

func (f *fakeNotices) UpdateStatus(_ context.Context, _ domain.Session, _ string, status domain.NoticeStatus) error {
	f.calls = append(f.calls, "status")
	f.lastStatus = status
	return nil
}

func (f *fakeNotices) Delete(_ context.Context, _ domain.Session, _ string) error {
	f.calls = append(f.calls, "delete")
	return nil
}

func (f *fakeNotices) ListEmployees(_ context.Context, _ domain.Session) ([]domain.Employee, error) {
	f.calls = append(f.calls, "employees")
	return f.employees, nil
}

type fakeStorage struct {
	uploads []domain.Attachment
	err     error
}

func (s *fakeStorage) Driver() string { return "fake" }

func (s *fakeStorage) Upload(_ context.Context, file domain.Attachment) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	_, _ = io.Copy(io.Discard, file.Content)
	s.uploads = append(s.uploads, file)
	return "https://cdn.example.com/" + file.Filename, nil
}

func newNoticeHandler(t *testing.T) (*NoticeHandler, *fakeNotices, *fakeStorage) {
	t.Helper()
	notices := &fakeNotices{employees: []domain.Employee{{ID: "e1", EmployeeID: "EMP-1", Name: "Ada"}}}
	store := &fakeStorage{}
	svc := service.NewNoticeService(service.NoticeDeps{
		Notices:   notices,
		Employees: notices,
		Storage:   store,
	}, 10, zerolog.Nop())
	return NewNoticeHandler(svc, 1<<20), notices, store
}

func withSession(c echo.Context) echo.Context {
	session.Set(c, domain.Session{AccessToken: "tok", Role: "hr"})
	return c
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func multipartNotice(t *testing.T, fields map[string][]string, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			_ = w.WriteField(k, v)
		}
	}
	if filename != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="attachment"; filename="`+filename+`"`)
		h.Set("Content-Type", "application/octet-stream")
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(content)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/notices", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func validFields() map[string][]string {
	return map[string][]string{
		"title":       {"Quarterly town hall"},
		"body":        {"All staff meet in the main hall at 10am."},
		"noticeType":  {"General / Company-wide", "Holiday & Event"},
		"publishDate": {"2026-02-01"},
		"target":      {"department"},
		"departments": {"HR", "engineering"},
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestNoticeHandler_Create_ShortTitle(t *testing.T) {
	h, notices, store := newNoticeHandler(t)
	e := newEcho()

	fields := validFields()
	fields["title"] = []string{"Hi"}
	c := withSession(e.NewContext(multipartNotice(t, fields, "", nil), httptest.NewRecorder()))

	err := h.Create(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["title"] == "" {
		t.Fatalf("expected title field error, got %v", err)
	}
	if len(notices.calls) != 0 || len(store.uploads) != 0 {
		t.Fatalf("validation failure must not touch the network: calls=%v uploads=%d", notices.calls, len(store.uploads))
	}
}

func TestNoticeHandler_Create_UnknownNoticeType(t *testing.T) {
	h, notices, _ := newNoticeHandler(t)
	e := newEcho()

	body := `{"title":"Town hall","body":"Meet in the main hall.","noticeType":["Gossip"],"publishDate":"2026-02-01","target":"all"}`
	c := withSession(e.NewContext(jsonRequest(http.MethodPost, "/dashboard/notices", body), httptest.NewRecorder()))

	var verr *domain.ValidationError
	if err := h.Create(c); !errors.As(err, &verr) || !strings.Contains(verr.Fields["noticeType"], "Gossip") {
		t.Fatalf("expected noticeType field error, got %v", err)
	}
	if len(notices.calls) != 0 {
		t.Fatalf("expected no backend calls, got %v", notices.calls)
	}
}

func TestNoticeHandler_Create_WithAttachment(t *testing.T) {
	h, notices, store := newNoticeHandler(t)
	e := newEcho()
	rec := httptest.NewRecorder()
	c := withSession(e.NewContext(multipartNotice(t, validFields(), "banner.png", pngBytes), rec))

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(store.uploads) != 1 || store.uploads[0].ContentType != domain.MIMEPNG {
		t.Fatalf("expected one png upload, got %+v", store.uploads)
	}
	if notices.created == nil || notices.created.Attachment != "https://cdn.example.com/banner.png" {
		t.Fatalf("uploaded url must be submitted, got %+v", notices.created)
	}
	target, ok := notices.created.Target.(domain.TargetDepartment)
	if !ok || len(target.Departments) != 2 || target.Departments[1] != "Engineering" {
		t.Fatalf("unexpected target %+v", notices.created.Target)
	}
	if notices.created.Status != domain.NoticeStatusPublished {
		t.Fatalf("status must default to published, got %s", notices.created.Status)
	}

	var resp createNoticeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "Notice created successfully" || resp.Notice.AttachmentKind != "image" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestNoticeHandler_Create_RejectsTextFile(t *testing.T) {
	h, notices, store := newNoticeHandler(t)
	e := newEcho()
	c := withSession(e.NewContext(multipartNotice(t, validFields(), "notes.png", []byte("just text")), httptest.NewRecorder()))

	if err := h.Create(c); !errors.Is(err, domain.ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	if len(notices.calls) != 0 || len(store.uploads) != 0 {
		t.Fatal("a rejected file must not reach storage or backend")
	}
}

func TestNoticeHandler_Create_UploadFailure(t *testing.T) {
	h, notices, store := newNoticeHandler(t)
	store.err = errors.New("cloudinary: 500")
	e := newEcho()
	c := withSession(e.NewContext(multipartNotice(t, validFields(), "banner.png", pngBytes), httptest.NewRecorder()))

	if err := h.Create(c); !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if len(notices.calls) != 0 {
		t.Fatalf("no notice may be created after a failed upload, got %v", notices.calls)
	}
}

func TestNoticeHandler_Create_RequiresSession(t *testing.T) {
	h, _, _ := newNoticeHandler(t)
	e := newEcho()
	c := e.NewContext(multipartNotice(t, validFields(), "", nil), httptest.NewRecorder())

	if err := h.Create(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List, mutations, options
// ---------------------------------------------------------------------------

func TestNoticeHandler_List(t *testing.T) {
	h, notices, _ := newNoticeHandler(t)
	e := newEcho()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/notices?target=HR&status=all&page=2&limit=5", nil)
	c := withSession(e.NewContext(req, rec))

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if notices.lastQuery.Target != "HR" || notices.lastQuery.Limit != 5 {
		t.Fatalf("unexpected backend query %+v", notices.lastQuery)
	}

	var resp noticeListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Notices) != 1 || resp.Notices[0].TargetLabel != "HR, Finance" || resp.Notices[0].AttachmentKind != "image" {
		t.Fatalf("unexpected notices %+v", resp.Notices)
	}
	if resp.Counts == nil || resp.Counts.Active != 1 {
		t.Fatalf("expected header counters, got %+v", resp.Counts)
	}
}

func TestNoticeHandler_List_BadDate(t *testing.T) {
	h, notices, _ := newNoticeHandler(t)
	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/notices?publishedOn=05/01/2026", nil)
	c := withSession(e.NewContext(req, httptest.NewRecorder()))

	var verr *domain.ValidationError
	if err := h.List(c); !errors.As(err, &verr) || verr.Fields["publishedOn"] == "" {
		t.Fatalf("expected publishedOn field error, got %v", err)
	}
	if len(notices.calls) != 0 {
		t.Fatalf("expected no backend calls, got %v", notices.calls)
	}
}

func TestNoticeHandler_Delete_RefetchesBeforeResponding(t *testing.T) {
	h, notices, _ := newNoticeHandler(t)
	e := newEcho()
	rec := httptest.NewRecorder()
	c := withSession(e.NewContext(httptest.NewRequest(http.MethodDelete, "/dashboard/notices/n1", nil), rec))
	c.SetParamNames("id")
	c.SetParamValues("n1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Join(notices.calls, ",") != "delete,list" {
		t.Fatalf("expected delete then list, got %v", notices.calls)
	}
	var resp noticeListResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "Notice deleted" || len(resp.Notices) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestNoticeHandler_UpdateStatus(t *testing.T) {
	h, notices, _ := newNoticeHandler(t)
	e := newEcho()
	rec := httptest.NewRecorder()
	c := withSession(e.NewContext(jsonRequest(http.MethodPatch, "/dashboard/notices/n1/status", `{"status":"Unpublished"}`), rec))
	c.SetParamNames("id")
	c.SetParamValues("n1")

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Join(notices.calls, ",") != "status,list" {
		t.Fatalf("expected status then list, got %v", notices.calls)
	}
	if notices.lastStatus != domain.NoticeStatusUnpublished {
		t.Fatalf("expected normalised status, got %q", notices.lastStatus)
	}

	c = withSession(e.NewContext(jsonRequest(http.MethodPatch, "/dashboard/notices/n1/status", `{"status":"archived"}`), httptest.NewRecorder()))
	c.SetParamNames("id")
	c.SetParamValues("n1")
	var verr *domain.ValidationError
	if err := h.UpdateStatus(c); !errors.As(err, &verr) || verr.Fields["status"] == "" {
		t.Fatalf("expected status field error, got %v", err)
	}
}

func TestNoticeHandler_Attachment(t *testing.T) {
	h, _, _ := newNoticeHandler(t)
	e := newEcho()
	rec := httptest.NewRecorder()
	c := withSession(e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard/notices/n1/attachment", nil), rec))
	c.SetParamNames("id")
	c.SetParamValues("n1")

	if err := h.Attachment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp attachmentResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Kind != "pdf" || resp.URL != "https://cdn.example.com/policy.pdf" {
		t.Fatalf("unexpected attachment %+v", resp)
	}
}

func TestNoticeHandler_FormOptions(t *testing.T) {
	cases := []struct {
		target    string
		fetches   int
		employees int
		depts     int
	}{
		{"individual", 1, 1, 0},
		{"department", 0, 0, 5},
		{"all", 0, 0, 0},
	}
	for _, tc := range cases {
		h, notices, _ := newNoticeHandler(t)
		e := newEcho()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard/notices/form-options?target="+tc.target, nil)
		c := withSession(e.NewContext(req, rec))

		if err := h.FormOptions(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.target, err)
		}
		if len(notices.calls) != tc.fetches {
			t.Errorf("%s: expected %d fetches, got %v", tc.target, tc.fetches, notices.calls)
		}
		var resp formOptionsResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if len(resp.Employees) != tc.employees || len(resp.Departments) != tc.depts || len(resp.NoticeTypes) != 12 {
			t.Errorf("%s: unexpected options %+v", tc.target, resp)
		}
	}
}

type acceptAll struct{}

func (acceptAll) Validate(any) error { return nil }

func TestNoticeHandler_UpdateStatus_UnknownStatusNeverSent(t *testing.T) {
	h, notices, _ := newNoticeHandler(t)
	e := echo.New()
	e.Validator = acceptAll{}
	c := withSession(e.NewContext(jsonRequest(http.MethodPatch, "/dashboard/notices/n1/status", `{"status":"archived"}`), httptest.NewRecorder()))
	c.SetParamNames("id")
	c.SetParamValues("n1")

	var verr *domain.ValidationError
	if err := h.UpdateStatus(c); !errors.As(err, &verr) || verr.Fields["status"] == "" {
		t.Fatalf("expected status field error, got %v", err)
	}
	if len(notices.calls) != 0 {
		t.Fatalf("an unknown status must not reach the backend, got %v", notices.calls)
	}
}
