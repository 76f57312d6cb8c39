package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the wire format of publish dates.
const DateLayout = "2006-01-02"

const (
	TitleMinLength = 3
	// DefaultBodyMinLength applies when no explicit minimum is configured.
	DefaultBodyMinLength = 10
)

// NoticeStatus is the publication state of a notice.
type NoticeStatus string

const (
	NoticeStatusDraft       NoticeStatus = "draft"
	NoticeStatusPublished   NoticeStatus = "published"
	NoticeStatusUnpublished NoticeStatus = "unpublished"
)

// ParseNoticeStatus accepts any casing of a known status.
func ParseNoticeStatus(s string) (NoticeStatus, bool) {
	switch NoticeStatus(strings.ToLower(strings.TrimSpace(s))) {
	case NoticeStatusDraft:
		return NoticeStatusDraft, true
	case NoticeStatusPublished:
		return NoticeStatusPublished, true
	case NoticeStatusUnpublished:
		return NoticeStatusUnpublished, true
	}
	return "", false
}

// NoticeType is one tag of the fixed notice classification.
type NoticeType string

var NoticeTypes = []NoticeType{
	"General / Company-wide",
	"Holiday & Event",
	"HR & Policy Update",
	"Finance & Payroll",
	"Warning / Disciplinary",
	"Emergency / Urgent",
	"Performance Improvement",
	"Appreciation / Recognition",
	"Attendance / Leave Issue",
	"Payroll / Compensation",
	"Contract / Role Update",
	"Advisory / Personal Reminder",
}

func IsNoticeType(s string) bool {
	for _, t := range NoticeTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Notice is a remote-owned notice-board record.
type Notice struct {
	ID          string
	Title       string
	Body        string
	Types       []NoticeType
	Target      Target
	Status      NoticeStatus
	PublishDate string
	Attachment  string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NoticeDraft is a notice composed in the creation form, before submission.
type NoticeDraft struct {
	Title       string
	Body        string
	Types       []NoticeType
	Target      Target
	Status      NoticeStatus
	PublishDate string
	Attachment  string
}

// Validate checks the composed fields. bodyMin <= 0 selects
// DefaultBodyMinLength.
func (d NoticeDraft) Validate(bodyMin int) error {
	if bodyMin <= 0 {
		bodyMin = DefaultBodyMinLength
	}
	verr := &ValidationError{}

	if utf8.RuneCountInString(strings.TrimSpace(d.Title)) < TitleMinLength {
		verr.Add("title", "Title is required")
	}
	if len(d.Types) == 0 {
		verr.Add("noticeType", "Select at least one notice type")
	}
	for _, t := range d.Types {
		if !IsNoticeType(string(t)) {
			verr.Add("noticeType", "Unknown notice type: "+string(t))
		}
	}
	if d.PublishDate == "" {
		verr.Add("publishDate", "Publish date is required")
	} else if _, err := time.Parse(DateLayout, d.PublishDate); err != nil {
		verr.Add("publishDate", "Publish date must be YYYY-MM-DD")
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Body)) < bodyMin {
		verr.Add("body", "Write the details about notice")
	}
	if d.Status != NoticeStatusDraft && d.Status != NoticeStatusPublished {
		verr.Add("status", "Status must be draft or published")
	}
	if d.Target == nil {
		verr.Add("target", "Target is required")
	} else {
		d.Target.validate(verr)
	}

	return verr.OrNil()
}

// NoticeCounts mirrors the header counters of the notice board.
type NoticeCounts struct {
	Active int
	Draft  int
}

// Pagination describes one page of a backend listing.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// NoticePage is one page of notices as returned by the backend.
type NoticePage struct {
	Items      []Notice
	Pagination Pagination
	Counts     *NoticeCounts
}
