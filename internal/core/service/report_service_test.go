package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fixmycity/report-system/internal/core/domain"
	"github.com/fixmycity/report-system/internal/core/ports"
)

type stubReportRepo struct {
	reports map[string]*domain.Report
	nextID  int
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{reports: make(map[string]*domain.Report)}
}

func cloneReport(r *domain.Report) *domain.Report {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

func (s *stubReportRepo) Create(_ context.Context, r *domain.Report) (*domain.Report, error) {
	s.nextID++
	copy := cloneReport(r)
	copy.ID = fmt.Sprintf("report-%d", s.nextID)
	s.reports[copy.ID] = cloneReport(copy)
	return cloneReport(copy), nil
}

func (s *stubReportRepo) FindByID(_ context.Context, id string, _ bool) (*domain.Report, error) {
	if r, ok := s.reports[id]; ok {
		return cloneReport(r), nil
	}
	return nil, domain.ErrReportNotFound
}

func (s *stubReportRepo) List(_ context.Context, filter ports.ListReportsFilter) ([]*domain.Report, error) {
	out := make([]*domain.Report, 0)
	for _, r := range s.reports {
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		out = append(out, cloneReport(r))
	}
	return out, nil
}

func (s *stubReportRepo) UpdateStatus(_ context.Context, id string, status domain.ReportStatus) (*domain.Report, error) {
	r, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	r.Status = status
	return cloneReport(r), nil
}

func validCreateInput() ports.CreateReportInput {
	return ports.CreateReportInput{
		UserID:      "user-1",
		Title:       "Pothole",
		Description: "Deep pothole",
		Category:    domain.CategoryRoads,
		Latitude:    33.5731,
		Longitude:   -7.5898,
	}
}

func TestReportService_Create_Success(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())

	report, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if report.Status != domain.StatusReceived {
		t.Fatalf("expected status received, got %s", report.Status)
	}
	if report.UserID != "user-1" {
		t.Fatalf("owner not set: %s", report.UserID)
	}
	if report.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
}

func TestReportService_Create_Validation(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())

	cases := []struct {
		name   string
		mutate func(*ports.CreateReportInput)
	}{
		{"missing title", func(in *ports.CreateReportInput) { in.Title = "  " }},
		{"missing description", func(in *ports.CreateReportInput) { in.Description = "" }},
		{"missing category", func(in *ports.CreateReportInput) { in.Category = "" }},
		{"unknown category", func(in *ports.CreateReportInput) { in.Category = "ufo_sightings" }},
		{"missing owner", func(in *ports.CreateReportInput) { in.UserID = "" }},
		{"nan latitude", func(in *ports.CreateReportInput) { in.Latitude = math.NaN() }},
		{"inf longitude", func(in *ports.CreateReportInput) { in.Longitude = math.Inf(1) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			if _, err := svc.Create(context.Background(), input); err != domain.ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestReportService_RoundTrip(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())

	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	fetched, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fetched.Status != domain.StatusReceived {
		t.Fatalf("expected received, got %s", fetched.Status)
	}
	if fetched.UserID != created.UserID {
		t.Fatalf("owner mismatch: %s vs %s", fetched.UserID, created.UserID)
	}
}

func TestReportService_List_FiltersByStatusAndCategory(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())

	first, _ := svc.Create(context.Background(), validCreateInput())

	other := validCreateInput()
	other.Category = domain.CategoryLighting
	_, _ = svc.Create(context.Background(), other)

	_, _ = svc.UpdateStatus(context.Background(), first.ID, string(domain.StatusResolved))

	resolved, err := svc.List(context.Background(), ports.ListReportsInput{Status: "resolved"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(resolved) != 1 || resolved[0].ID != first.ID {
		t.Fatalf("unexpected resolved list: %+v", resolved)
	}

	lighting, err := svc.List(context.Background(), ports.ListReportsInput{Category: domain.CategoryLighting})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(lighting) != 1 || lighting[0].Category != domain.CategoryLighting {
		t.Fatalf("unexpected lighting list: %+v", lighting)
	}
}

func TestReportService_List_RejectsUnknownStatusFilter(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())

	if _, err := svc.List(context.Background(), ports.ListReportsInput{Status: "archived"}); err != domain.ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestReportService_ListMine_ScopedToOwner(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())

	mine := validCreateInput()
	_, _ = svc.Create(context.Background(), mine)

	theirs := validCreateInput()
	theirs.UserID = "user-2"
	_, _ = svc.Create(context.Background(), theirs)

	reports, err := svc.ListMine(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list mine failed: %v", err)
	}
	if len(reports) != 1 || reports[0].UserID != "user-1" {
		t.Fatalf("expected only user-1 reports, got %+v", reports)
	}
}

func TestReportService_UpdateStatus_InvalidValueLeavesReportUnchanged(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())

	created, _ := svc.Create(context.Background(), validCreateInput())

	if _, err := svc.UpdateStatus(context.Background(), created.ID, "closed"); err != domain.ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	stored, _ := svc.Get(context.Background(), created.ID)
	if stored.Status != domain.StatusReceived {
		t.Fatalf("report mutated on invalid status: %s", stored.Status)
	}
}

func TestReportService_UpdateStatus_AnyToAnyIncludingNoOp(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())

	created, _ := svc.Create(context.Background(), validCreateInput())

	// Forward, backward, and no-op writes all succeed: the status field is
	// an unguarded overwrite, not a state machine.
	sequence := []domain.ReportStatus{
		domain.StatusInProgress,
		domain.StatusResolved,
		domain.StatusReceived,
		domain.StatusReceived,
	}
	for _, status := range sequence {
		updated, err := svc.UpdateStatus(context.Background(), created.ID, string(status))
		if err != nil {
			t.Fatalf("update to %s failed: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("expected %s, got %s", status, updated.Status)
		}
	}
}

func TestReportService_UpdateStatus_NotFound(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())

	if _, err := svc.UpdateStatus(context.Background(), "missing", string(domain.StatusResolved)); err != domain.ErrReportNotFound {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}
