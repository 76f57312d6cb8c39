package domain

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// NoticeQuery is the filter and pagination state of the notice board.
// Filtering itself is done by the backend; the query is only serialised.
type NoticeQuery struct {
	Target      string // department name, "individual" or "all"
	Search      string // employee id or name
	Status      string // NoticeStatus or "all"
	PublishedOn string // YYYY-MM-DD
	Page        int
	Limit       int
}

// Normalize clamps page and limit into range.
func (q NoticeQuery) Normalize() NoticeQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	q.Target = strings.TrimSpace(q.Target)
	q.Search = strings.TrimSpace(q.Search)
	q.Status = strings.TrimSpace(q.Status)
	q.PublishedOn = strings.TrimSpace(q.PublishedOn)
	return q
}

// SameFilters reports whether both queries select the same records,
// ignoring pagination.
func (q NoticeQuery) SameFilters(o NoticeQuery) bool {
	return filterValue(q.Target) == filterValue(o.Target) &&
		q.Search == o.Search &&
		filterValue(q.Status) == filterValue(o.Status) &&
		q.PublishedOn == o.PublishedOn
}

// Apply moves from the previous query to next. Any filter change sends the
// view back to page 1 regardless of the page requested.
func (q NoticeQuery) Apply(next NoticeQuery) NoticeQuery {
	prev := q.Normalize()
	next = next.Normalize()
	if !prev.SameFilters(next) {
		next.Page = 1
	}
	return next
}

// Values serialises the query for the backend. Empty and "all" filters are
// omitted.
func (q NoticeQuery) Values() url.Values {
	q = q.Normalize()
	v := url.Values{}
	if t := filterValue(q.Target); t != "" {
		v.Set("target", t)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if s := filterValue(q.Status); s != "" {
		v.Set("status", s)
	}
	if q.PublishedOn != "" {
		v.Set("publishedOn", q.PublishedOn)
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	return v
}

func filterValue(s string) string {
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
