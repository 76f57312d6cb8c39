package domain

import (
	"errors"
	"strings"
	"testing"
)

func validDraft() NoticeDraft {
	return NoticeDraft{
		Title:       "Office closed",
		Body:        "The office is closed on Friday.",
		Types:       []NoticeType{"Holiday & Event"},
		Target:      TargetAll{},
		Status:      NoticeStatusPublished,
		PublishDate: "2026-03-01",
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return verr.Fields
}

// ---------------------------------------------------------------------------
// NoticeDraft.Validate
// ---------------------------------------------------------------------------

func TestNoticeDraft_Validate_OK(t *testing.T) {
	if err := validDraft().Validate(10); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
}

func TestNoticeDraft_Validate_Fields(t *testing.T) {
	cases := map[string]struct {
		mutate func(*NoticeDraft)
		field  string
	}{
		"short title":        {func(d *NoticeDraft) { d.Title = " ab " }, "title"},
		"no types":           {func(d *NoticeDraft) { d.Types = nil }, "noticeType"},
		"unknown type":       {func(d *NoticeDraft) { d.Types = []NoticeType{"Gossip"} }, "noticeType"},
		"missing date":       {func(d *NoticeDraft) { d.PublishDate = "" }, "publishDate"},
		"bad date":           {func(d *NoticeDraft) { d.PublishDate = "01/03/2026" }, "publishDate"},
		"short body":         {func(d *NoticeDraft) { d.Body = "too short" }, "body"},
		"unpublished create": {func(d *NoticeDraft) { d.Status = NoticeStatusUnpublished }, "status"},
		"no target":          {func(d *NoticeDraft) { d.Target = nil }, "target"},
		"no departments":     {func(d *NoticeDraft) { d.Target = TargetDepartment{} }, "departments"},
		"unknown department": {func(d *NoticeDraft) { d.Target = TargetDepartment{Departments: []Department{"Legal"}} }, "departments"},
		"no employee":        {func(d *NoticeDraft) { d.Target = TargetIndividual{EmployeeName: "Ada"} }, "employeeId"},
	}
	for name, tc := range cases {
		d := validDraft()
		tc.mutate(&d)
		fields := fieldsOf(t, d.Validate(10))
		if fields[tc.field] == "" {
			t.Errorf("%s: expected error on %s, got %v", name, tc.field, fields)
		}
	}
}

func TestNoticeDraft_Validate_BodyMinimum(t *testing.T) {
	d := validDraft()
	d.Body = "12345"
	if err := d.Validate(5); err != nil {
		t.Fatalf("body of 5 runes must pass a minimum of 5, got %v", err)
	}
	if err := d.Validate(0); err == nil {
		t.Fatal("zero minimum must fall back to the default")
	}
}

func TestNoticeDraft_Validate_ReportsEveryField(t *testing.T) {
	fields := fieldsOf(t, NoticeDraft{}.Validate(10))
	for _, f := range []string{"title", "noticeType", "publishDate", "body", "status", "target"} {
		if fields[f] == "" {
			t.Errorf("expected error on %s", f)
		}
	}
	if !strings.HasPrefix(NoticeDraft{}.Validate(10).Error(), "validation failed: ") {
		t.Fatal("unexpected error text")
	}
}

func TestParseNoticeStatus(t *testing.T) {
	if s, ok := ParseNoticeStatus(" Unpublished "); !ok || s != NoticeStatusUnpublished {
		t.Fatalf("expected unpublished, got %q %v", s, ok)
	}
	if _, ok := ParseNoticeStatus("archived"); ok {
		t.Fatal("archived is not a status")
	}
}

// ---------------------------------------------------------------------------
// Targets
// ---------------------------------------------------------------------------

func TestTarget_Labels(t *testing.T) {
	cases := []struct {
		target Target
		kind   TargetKind
		label  string
	}{
		{TargetAll{}, TargetKindAll, "All Department"},
		{TargetDepartment{Departments: []Department{"HR", "Web Team"}}, TargetKindDepartment, "HR, Web Team"},
		{TargetIndividual{EmployeeID: "EMP-1"}, TargetKindIndividual, "Individual"},
	}
	for _, tc := range cases {
		if tc.target.Kind() != tc.kind || tc.target.Label() != tc.label {
			t.Errorf("expected %s/%q, got %s/%q", tc.kind, tc.label, tc.target.Kind(), tc.target.Label())
		}
	}
}

func TestParseDepartment(t *testing.T) {
	if d, ok := ParseDepartment("sales team"); !ok || d != "Sales Team" {
		t.Fatalf("expected canonical Sales Team, got %q %v", d, ok)
	}
	if _, ok := ParseDepartment("Legal"); ok {
		t.Fatal("Legal is not a department")
	}
	if k, ok := ParseTargetKind("INDIVIDUAL"); !ok || k != TargetKindIndividual {
		t.Fatalf("expected individual, got %q", k)
	}
}

func TestNoticeDraft_Validate_SaveAsDraft(t *testing.T) {
	d := validDraft()
	d.Status = NoticeStatusDraft
	if err := d.Validate(10); err != nil {
		t.Fatalf("a draft status must be accepted on creation, got %v", err)
	}
	if s, ok := ParseNoticeStatus("DRAFT"); !ok || s != NoticeStatusDraft {
		t.Fatalf("expected draft, got %q %v", s, ok)
	}
}
