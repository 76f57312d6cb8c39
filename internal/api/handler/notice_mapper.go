package handler

import (
	"strings"

	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/ports"
)

// --- Request → Service input ---

func toNoticeQuery(req listNoticesRequest) domain.NoticeQuery {
	return domain.NoticeQuery{
		Target:      req.Target,
		Search:      req.Search,
		Status:      req.Status,
		PublishedOn: req.PublishedOn,
		Page:        req.Page,
		Limit:       req.Limit,
	}
}

func toNoticeDraft(req createNoticeRequest) domain.NoticeDraft {
	types := make([]domain.NoticeType, 0, len(req.NoticeType))
	for _, t := range req.NoticeType {
		types = append(types, domain.NoticeType(t))
	}

	status := domain.NoticeStatusPublished
	if s, ok := domain.ParseNoticeStatus(req.Status); ok {
		status = s
	}

	return domain.NoticeDraft{
		Title:       strings.TrimSpace(req.Title),
		Body:        req.Body,
		Types:       types,
		Target:      toTarget(req),
		Status:      status,
		PublishDate: strings.TrimSpace(req.PublishDate),
	}
}

// toTarget returns nil for an unknown kind; draft validation reports it.
func toTarget(req createNoticeRequest) domain.Target {
	kind, ok := domain.ParseTargetKind(req.Target)
	if !ok {
		return nil
	}
	switch kind {
	case domain.TargetKindDepartment:
		deps := make([]domain.Department, 0, len(req.Departments))
		for _, d := range req.Departments {
			if canonical, ok := domain.ParseDepartment(d); ok {
				d = string(canonical)
			}
			deps = append(deps, domain.Department(d))
		}
		return domain.TargetDepartment{Departments: deps}
	case domain.TargetKindIndividual:
		return domain.TargetIndividual{
			EmployeeID:   strings.TrimSpace(req.EmployeeID),
			EmployeeName: strings.TrimSpace(req.EmployeeName),
			Position:     strings.TrimSpace(req.Position),
		}
	default:
		return domain.TargetAll{}
	}
}

// --- Service result → HTTP response ---

func toNoticeResponse(n domain.Notice) noticeResponse {
	resp := noticeResponse{
		ID:          n.ID,
		Title:       n.Title,
		Body:        n.Body,
		NoticeType:  make([]string, 0, len(n.Types)),
		Status:      string(n.Status),
		PublishDate: n.PublishDate,
		Attachment:  n.Attachment,
		CreatedBy:   n.CreatedBy,
		CreatedAt:   n.CreatedAt.UTC(),
		UpdatedAt:   n.UpdatedAt.UTC(),
	}
	for _, t := range n.Types {
		resp.NoticeType = append(resp.NoticeType, string(t))
	}
	if n.Attachment != "" {
		resp.AttachmentKind = string(domain.InferAttachmentKind(n.Attachment))
	}

	if n.Target != nil {
		resp.Target = string(n.Target.Kind())
		resp.TargetLabel = n.Target.Label()
	}
	switch t := n.Target.(type) {
	case domain.TargetDepartment:
		for _, d := range t.Departments {
			resp.Departments = append(resp.Departments, string(d))
		}
	case domain.TargetIndividual:
		resp.EmployeeID = t.EmployeeID
		resp.EmployeeName = t.EmployeeName
		resp.Position = t.Position
	}
	return resp
}

func toNoticeListResponse(r *ports.NoticeListResult, message string) noticeListResponse {
	resp := noticeListResponse{
		Message: message,
		Notices: make([]noticeResponse, 0, len(r.Page.Items)),
		Query: queryResponse{
			Target:      r.Query.Target,
			Search:      r.Query.Search,
			Status:      r.Query.Status,
			PublishedOn: r.Query.PublishedOn,
			Page:        r.Query.Page,
			Limit:       r.Query.Limit,
		},
		Pagination: paginationResponse{
			Page:       r.Page.Pagination.Page,
			Limit:      r.Page.Pagination.Limit,
			Total:      r.Page.Pagination.Total,
			TotalPages: r.Page.Pagination.TotalPages,
		},
	}
	for _, n := range r.Page.Items {
		resp.Notices = append(resp.Notices, toNoticeResponse(n))
	}
	if r.Page.Counts != nil {
		resp.Counts = &countsResponse{Active: r.Page.Counts.Active, Draft: r.Page.Counts.Draft}
	}
	return resp
}

func toFormOptionsResponse(o *ports.FormOptions) formOptionsResponse {
	resp := formOptionsResponse{
		Target:      string(o.Target),
		NoticeTypes: make([]string, 0, len(o.NoticeTypes)),
	}
	for _, t := range o.NoticeTypes {
		resp.NoticeTypes = append(resp.NoticeTypes, string(t))
	}
	for _, d := range o.Departments {
		resp.Departments = append(resp.Departments, string(d))
	}
	for _, e := range o.Employees {
		resp.Employees = append(resp.Employees, employeeResponse{
			ID:         e.ID,
			EmployeeID: e.EmployeeID,
			Name:       e.Name,
			Position:   e.Position,
			Department: e.Department,
		})
	}
	return resp
}
