package domain

import "testing"

func TestNoticeQuery_Normalize(t *testing.T) {
	q := NoticeQuery{Page: -2, Limit: 500, Search: "  EMP-7 "}.Normalize()
	if q.Page != 1 || q.Limit != MaxPageLimit || q.Search != "EMP-7" {
		t.Fatalf("unexpected normalized query %+v", q)
	}
	if (NoticeQuery{}).Normalize().Limit != DefaultPageLimit {
		t.Fatal("expected default limit")
	}
}

func TestNoticeQuery_Apply(t *testing.T) {
	prev := NoticeQuery{Target: "HR", Status: "published", Page: 4, Limit: 10}

	if got := prev.Apply(NoticeQuery{Target: "HR", Status: "published", Page: 5, Limit: 10}); got.Page != 5 {
		t.Fatalf("paging within the same filters must keep the page, got %d", got.Page)
	}
	if got := prev.Apply(NoticeQuery{Target: "Finance", Status: "published", Page: 5, Limit: 10}); got.Page != 1 {
		t.Fatalf("changing a filter must reset to page 1, got %d", got.Page)
	}
	if got := prev.Apply(NoticeQuery{Target: "HR", Status: "published", Search: "ada", Page: 5}); got.Page != 1 {
		t.Fatalf("a new search must reset to page 1, got %d", got.Page)
	}
}

func TestNoticeQuery_SameFiltersTreatsAllAsEmpty(t *testing.T) {
	a := NoticeQuery{Target: "all", Status: "ALL"}
	b := NoticeQuery{}
	if !a.SameFilters(b) {
		t.Fatal("all and empty select the same records")
	}
}

func TestNoticeQuery_Values(t *testing.T) {
	v := NoticeQuery{Target: "all", Status: "draft", PublishedOn: "2026-01-05", Page: 2}.Values()
	if v.Has("target") || v.Get("status") != "draft" || v.Get("publishedOn") != "2026-01-05" {
		t.Fatalf("unexpected values %v", v)
	}
	if v.Get("page") != "2" || v.Get("limit") != "10" {
		t.Fatalf("expected pagination in values, got %v", v)
	}
}
