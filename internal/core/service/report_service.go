package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fixmycity/report-system/internal/core/domain"
	"github.com/fixmycity/report-system/internal/core/ports"
)

// ReportService implements the report lifecycle: creation, role-scoped
// reads, and the status overwrite used by agents/admins for triage.
type ReportService struct {
	repo   ports.ReportRepository
	logger zerolog.Logger
}

func NewReportService(repo ports.ReportRepository, logger zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, logger: logger}
}

// Create validates and persists a new report owned by the calling citizen.
// Every report starts in received.
func (s *ReportService) Create(ctx context.Context, input ports.CreateReportInput) (*domain.Report, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		input.Category == "" ||
		input.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domain.ValidCategory(input.Category) {
		return nil, domain.ErrInvalidInput
	}
	if !finite(input.Latitude) || !finite(input.Longitude) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	report := &domain.Report{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Category:    input.Category,
		ImagePath:   input.ImagePath,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Status:      domain.StatusReceived,
		UserID:      input.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, report)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create report")
		return nil, err
	}

	s.logger.Info().
		Str("report_id", created.ID).
		Str("category", created.Category).
		Str("user_id", created.UserID).
		Msg("report created")

	return created, nil
}

// List returns all reports matching the optional status/category filters,
// with the owner's name and email attached. Full scan, no pagination.
func (s *ReportService) List(ctx context.Context, input ports.ListReportsInput) ([]*domain.Report, error) {
	if input.Status != "" && !domain.ReportStatus(input.Status).Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, ports.ListReportsFilter{
		Status:       input.Status,
		Category:     input.Category,
		WithReporter: true,
	})
}

// ListMine returns only the reports owned by userID.
func (s *ReportService) ListMine(ctx context.Context, userID string) ([]*domain.Report, error) {
	return s.repo.List(ctx, ports.ListReportsFilter{UserID: userID})
}

// Get fetches a single report with the owner attached. Any authenticated
// role may fetch any report by id; ownership is deliberately not checked
// here, matching the product's current contract.
func (s *ReportService) Get(ctx context.Context, id string) (*domain.Report, error) {
	return s.repo.FindByID(ctx, id, true)
}

// UpdateStatus overwrites a report's status. Any of the three statuses may
// be set regardless of the current one, including a no-op re-set.
func (s *ReportService) UpdateStatus(ctx context.Context, id string, status string) (*domain.Report, error) {
	newStatus := domain.ReportStatus(status)
	if !newStatus.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("report_id", id).
		Str("status", status).
		Msg("report status updated")

	return updated, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
