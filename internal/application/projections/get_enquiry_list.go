package projections

import (
	"context"

	"keystone/internal/adapters/storage/enquiry"
	"keystone/internal/application/listutil"
	domain "keystone/internal/domain/enquiry"
)

// EnquiryStore defines the enquiry store interface for the admin list.
type EnquiryStore interface {
	List(ctx context.Context, filter enquiry.ListFilter) ([]domain.Enquiry, error)
	Count(ctx context.Context, filter enquiry.ListFilter) (int, error)
}

// GetEnquiryListQuery carries query parameters.
type GetEnquiryListQuery struct {
	Page     int
	PageSize int
	Status   string
	Search   string
	Sort     string
	Dir      string
}

// GetEnquiryListResult carries the query result.
type GetEnquiryListResult struct {
	Enquiries  []domain.Enquiry
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// GetEnquiryListDeps holds dependencies for GetEnquiryList.
type GetEnquiryListDeps struct {
	EnquiryStore EnquiryStore
}

// QueryGetEnquiryList retrieves a paged, filtered list of enquiries for the
// admin review screen.
// PRE: Valid query parameters; zero values get sensible defaults
// POST: Returns one page of enquiries plus the total match count
func QueryGetEnquiryList(ctx context.Context, query GetEnquiryListQuery, deps GetEnquiryListDeps) (GetEnquiryListResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 || pageSize > listutil.MaxPageSize {
		pageSize = listutil.DefaultPageSize
	}

	filter := enquiry.ListFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
		Status: query.Status,
		Search: query.Search,
		Sort:   query.Sort,
		Dir:    query.Dir,
	}

	enquiries, err := deps.EnquiryStore.List(ctx, filter)
	if err != nil {
		return GetEnquiryListResult{}, err
	}

	total, err := deps.EnquiryStore.Count(ctx, filter)
	if err != nil {
		return GetEnquiryListResult{}, err
	}

	info := listutil.NewPageInfo(page, pageSize, total)

	return GetEnquiryListResult{
		Enquiries:  enquiries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: info.TotalPages,
	}, nil
}
