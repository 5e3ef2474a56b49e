package ports

import (
	"context"

	"github.com/fixmycity/report-system/internal/core/domain"
)

// ListReportsFilter carries the optional query parameters for listing reports.
// Empty fields mean "no filter". There is no pagination: the product contract
// is a full scan narrowed only by equality filters.
type ListReportsFilter struct {
	Status   string // optional: filter by report status
	Category string // optional: filter by issue type
	UserID   string // non-empty = scope to a single owner ("my reports")
	// WithReporter attaches the owning user's name/email to each report.
	WithReporter bool
}

// ReportRepository defines persistence operations for reports.
type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) (*domain.Report, error)
	// FindByID retrieves a report. Returns domain.ErrInvalidID when id is not
	// a well-formed reference and domain.ErrReportNotFound when absent.
	FindByID(ctx context.Context, id string, withReporter bool) (*domain.Report, error)
	List(ctx context.Context, filter ListReportsFilter) ([]*domain.Report, error)
	// UpdateStatus overwrites the status unconditionally and returns the
	// updated report. No transition graph is enforced.
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (*domain.Report, error)
}
