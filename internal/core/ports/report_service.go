package ports

import (
	"context"

	"github.com/fixmycity/report-system/internal/core/domain"
)

// CreateReportInput carries all data needed to create a new report.
// ImagePath is set by the transport layer after the upload has been stored;
// it is empty when no image accompanied the submission.
type CreateReportInput struct {
	UserID      string
	Title       string
	Description string
	Category    string
	Latitude    float64
	Longitude   float64
	ImagePath   string
}

// ListReportsInput carries the caller identity and optional filters.
type ListReportsInput struct {
	Role     string
	Status   string
	Category string
}

// ReportService defines use-case operations for reports.
type ReportService interface {
	Create(ctx context.Context, input CreateReportInput) (*domain.Report, error)
	List(ctx context.Context, input ListReportsInput) ([]*domain.Report, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Report, error)
	Get(ctx context.Context, id string) (*domain.Report, error)
	UpdateStatus(ctx context.Context, id string, status string) (*domain.Report, error)
}
