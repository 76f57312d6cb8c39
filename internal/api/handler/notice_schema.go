package handler

import "time"

// --- Request types ---

type listNoticesRequest struct {
	Target      string `query:"target"`
	Search      string `query:"search"`
	Status      string `query:"status"      validate:"omitempty,oneof=all draft published unpublished"`
	PublishedOn string `query:"publishedOn" validate:"omitempty,datetime=2006-01-02"`
	Page        int    `query:"page"        validate:"gte=0"`
	Limit       int    `query:"limit"       validate:"gte=0,lte=100"`
}

type noticeIDRequest struct {
	ID string `param:"id" validate:"required"`
}

type updateStatusRequest struct {
	ID     string `param:"id"     validate:"required"`
	Status string `json:"status"  validate:"required,notice_status"`
}

// createNoticeRequest binds both JSON bodies and multipart forms. Repeated
// form fields (noticeType, departments) bind to the slices.
type createNoticeRequest struct {
	Title        string   `json:"title"        form:"title"`
	Body         string   `json:"body"         form:"body"`
	NoticeType   []string `json:"noticeType"   form:"noticeType"   validate:"dive,notice_type"`
	PublishDate  string   `json:"publishDate"  form:"publishDate"`
	Target       string   `json:"target"       form:"target"       validate:"required,target_kind"`
	Departments  []string `json:"departments"  form:"departments"  validate:"dive,department"`
	EmployeeID   string   `json:"employeeId"   form:"employeeId"`
	EmployeeName string   `json:"employeeName" form:"employeeName"`
	Position     string   `json:"position"     form:"position"`
	Status       string   `json:"status"       form:"status"       validate:"omitempty,oneof=draft published"`
}

type formOptionsRequest struct {
	Target string `query:"target" validate:"omitempty,target_kind"`
}

// --- Response types ---

type noticeResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	NoticeType     []string  `json:"noticeType"`
	Target         string    `json:"target"`
	TargetLabel    string    `json:"targetLabel"`
	Departments    []string  `json:"departments,omitempty"`
	EmployeeID     string    `json:"employeeId,omitempty"`
	EmployeeName   string    `json:"employeeName,omitempty"`
	Position       string    `json:"position,omitempty"`
	Status         string    `json:"status"`
	PublishDate    string    `json:"publishDate"`
	Attachment     string    `json:"attachment,omitempty"`
	AttachmentKind string    `json:"attachmentKind,omitempty"`
	CreatedBy      string    `json:"createdBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type queryResponse struct {
	Target      string `json:"target"`
	Search      string `json:"search"`
	Status      string `json:"status"`
	PublishedOn string `json:"publishedOn"`
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type countsResponse struct {
	Active int `json:"active"`
	Draft  int `json:"draft"`
}

type noticeListResponse struct {
	Message    string             `json:"message,omitempty"`
	Notices    []noticeResponse   `json:"notices"`
	Query      queryResponse      `json:"query"`
	Pagination paginationResponse `json:"pagination"`
	Counts     *countsResponse    `json:"counts,omitempty"`
}

type createNoticeResponse struct {
	Message string         `json:"message"`
	Notice  noticeResponse `json:"notice"`
}

type employeeResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Position   string `json:"position,omitempty"`
	Department string `json:"department,omitempty"`
}

type formOptionsResponse struct {
	Target      string             `json:"target"`
	NoticeTypes []string           `json:"noticeTypes"`
	Departments []string           `json:"departments,omitempty"`
	Employees   []employeeResponse `json:"employees,omitempty"`
}

type attachmentResponse struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}
