package listutil

import (
	"net/url"
	"testing"
)

// TestParsePageParams_Defaults verifies default page params when no query values provided.
func TestParsePageParams_Defaults(t *testing.T) {
	q := url.Values{}
	p := ParsePageParams(q)
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.PageSize != DefaultPageSize {
		t.Errorf("expected pageSize %d, got %d", DefaultPageSize, p.PageSize)
	}
}

// TestParsePageParams_Valid verifies correct parsing of valid page and pageSize values.
func TestParsePageParams_Valid(t *testing.T) {
	q := url.Values{"page": {"3"}, "pageSize": {"50"}}
	p := ParsePageParams(q)
	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
	if p.PageSize != 50 {
		t.Errorf("expected pageSize 50, got %d", p.PageSize)
	}
}

// TestParsePageParams_OversizedPageSize verifies fallback to default above the cap.
func TestParsePageParams_OversizedPageSize(t *testing.T) {
	q := url.Values{"pageSize": {"500"}}
	p := ParsePageParams(q)
	if p.PageSize != DefaultPageSize {
		t.Errorf("expected default pageSize %d for oversized value, got %d", DefaultPageSize, p.PageSize)
	}
}

// TestParsePageParams_NegativePage verifies page is clamped to 1 for negative input.
func TestParsePageParams_NegativePage(t *testing.T) {
	q := url.Values{"page": {"-1"}}
	p := ParsePageParams(q)
	if p.Page != 1 {
		t.Errorf("expected page 1 for negative input, got %d", p.Page)
	}
}

// TestParseSortParams_Valid verifies correct parsing of sort column and direction.
func TestParseSortParams_Valid(t *testing.T) {
	q := url.Values{"sort": {"name"}, "dir": {"desc"}}
	s := ParseSortParams(q, []string{"name", "created"})
	if s.Sort != "name" {
		t.Errorf("expected sort=name, got %s", s.Sort)
	}
	if s.Dir != "desc" {
		t.Errorf("expected dir=desc, got %s", s.Dir)
	}
}

// TestParseSortParams_DisallowedColumn verifies unknown sort columns are dropped.
func TestParseSortParams_DisallowedColumn(t *testing.T) {
	q := url.Values{"sort": {"password_hash"}, "dir": {"up"}}
	s := ParseSortParams(q, []string{"name", "created"})
	if s.Sort != "" {
		t.Errorf("expected empty sort for disallowed column, got %s", s.Sort)
	}
	if s.Dir != "asc" {
		t.Errorf("expected dir=asc for invalid direction, got %s", s.Dir)
	}
}

// TestParseFilterParams verifies only recognised filter keys are kept.
func TestParseFilterParams(t *testing.T) {
	q := url.Values{"search": {"doe"}, "status": {"CONTACTED"}, "role": {"admin"}}
	f := ParseFilterParams(q, []string{"status"})
	if f.Search != "doe" {
		t.Errorf("expected search=doe, got %s", f.Search)
	}
	if f.Filters["status"] != "CONTACTED" {
		t.Errorf("expected status filter, got %v", f.Filters)
	}
	if _, ok := f.Filters["role"]; ok {
		t.Error("unrecognised filter key should be dropped")
	}
}

// TestNewPageInfo verifies pagination metadata computation.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name           string
		page, size     int
		total          int
		wantPage       int
		wantTotalPages int
	}{
		{"first page", 1, 25, 30, 1, 2},
		{"last page", 2, 25, 30, 2, 2},
		{"page beyond end clamps", 9, 25, 30, 2, 2},
		{"empty total", 1, 25, 0, 1, 1},
		{"zero page size falls back", 1, 0, 10, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.size, tt.total)
			if info.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", info.Page, tt.wantPage)
			}
			if info.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", info.TotalPages, tt.wantTotalPages)
			}
		})
	}
}

// TestPageInfo_Offset verifies SQL offset computation.
func TestPageInfo_Offset(t *testing.T) {
	info := NewPageInfo(2, 25, 60)
	if got := info.Offset(); got != 25 {
		t.Errorf("Offset = %d, want 25", got)
	}
}
