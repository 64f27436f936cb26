package services

import (
	"context"
	"fmt"
	"time"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/reporting"
	"salon_crm_backend/internal/repositories"
)

//go:generate mockgen -source=report_service.go -destination=../handlers/mocks/mock_report_service.go -package=mocks

// ReportService builds revenue reports from stored visit records.
type ReportService interface {
	GenerateReport(ctx context.Context, params models.ReportRequestParams) (*models.Report, error)
}

type reportService struct {
	repo        repositories.CustomerRepository
	location    *time.Location
	attribution models.ServiceAttribution
	maxDays     int
}

// NewReportService creates a ReportService that reads calendar days in loc
// and rejects ranges longer than maxDays (zero uses the engine default).
func NewReportService(repo repositories.CustomerRepository, loc *time.Location, attribution models.ServiceAttribution, maxDays int) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{repo: repo, location: loc, attribution: attribution, maxDays: maxDays}
}

// GenerateReport validates params, loads the matching records and aggregates them.
// Storage failures are returned as-is; no substitute data is produced.
func (s *reportService) GenerateReport(ctx context.Context, params models.ReportRequestParams) (*models.Report, error) {
	q, err := reporting.ParseQuery(params, s.location, s.attribution, s.maxDays)
	if err != nil {
		return nil, err
	}
	if q.IsEmptyRange() {
		return reporting.Compute(nil, q)
	}

	records, err := s.repo.QueryByDateRange(ctx, q.Start, q.EndExclusive(), q.ServiceFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to load report records: %w", err)
	}
	return reporting.Compute(records, q)
}
