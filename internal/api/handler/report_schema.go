package handler

import "github.com/fixmycity/report-system/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// createReportForm mirrors the multipart fields of a report submission. The
// coordinates arrive as strings and are parsed by the handler; the optional
// image part is handled separately.
type createReportForm struct {
	Title       string `form:"title"       validate:"required"`
	Description string `form:"description" validate:"required"`
	Category    string `form:"type"        validate:"required,oneof=roads lighting waste green_spaces noise other"`
	Latitude    string `form:"latitude"    validate:"required"`
	Longitude   string `form:"longitude"   validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=received in_progress resolved"`
}

type reportResponse struct {
	Report *domain.Report `json:"report"`
}

type reportsResponse struct {
	Reports []*domain.Report `json:"reports"`
}
