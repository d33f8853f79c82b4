package enquiry

import (
	"context"

	domain "keystone/internal/domain/enquiry"
)

// Store persists Enquiry state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Enquiry, error)
	// Save persists the enquiry together with its student rows as one unit.
	Save(ctx context.Context, value domain.Enquiry) error
	UpdateStatus(ctx context.Context, id string, status string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Enquiry, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Status string
	Stage  string
	Search string
	Sort   string
	Dir    string
}
