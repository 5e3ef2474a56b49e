package handler

import (
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fixmycity/report-system/internal/api/metrics"
	"github.com/fixmycity/report-system/internal/core/ports"
	"github.com/fixmycity/report-system/internal/infrastructure/storage"
)

// ImageStore abstracts the disk store so handlers can be tested without
// touching the filesystem.
type ImageStore interface {
	Save(file io.ReadSeeker, size int64) (string, error)
}

// ReportHandler handles HTTP requests for report operations.
type ReportHandler struct {
	service ports.ReportService
	images  ImageStore
}

func NewReportHandler(service ports.ReportService, images ImageStore) *ReportHandler {
	return &ReportHandler{service: service, images: images}
}

// Create handles POST /api/reports, a multipart citizen submission with an
// optional image.
//
// @Summary      Submit a new report
// @Tags         reports
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Short title"
// @Param        description  formData  string  true   "Free-text description"
// @Param        type         formData  string  true   "Issue category"
// @Param        latitude     formData  string  true   "Latitude"
// @Param        longitude    formData  string  true   "Longitude"
// @Param        image        formData  file    false  "Photo (max 5MB, image types only)"
// @Success      201  {object}  reportResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var form createReportForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lat, err := strconv.ParseFloat(form.Latitude, 64)
	if err != nil || !finite(lat) {
		return echo.NewHTTPError(http.StatusBadRequest, "latitude must be a valid number")
	}
	lng, err := strconv.ParseFloat(form.Longitude, 64)
	if err != nil || !finite(lng) {
		return echo.NewHTTPError(http.StatusBadRequest, "longitude must be a valid number")
	}

	imagePath, err := h.saveImage(c)
	if err != nil {
		return err
	}

	report, err := h.service.Create(c.Request().Context(), ports.CreateReportInput{
		UserID:      userID,
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Latitude:    lat,
		Longitude:   lng,
		ImagePath:   imagePath,
	})
	if err != nil {
		return err
	}

	metrics.ReportsCreatedTotal.WithLabelValues(report.Category).Inc()
	return c.JSON(http.StatusCreated, reportResponse{Report: report})
}

// saveImage buffers the optional "image" part to disk and returns its public
// path. An absent part is not an error.
func (h *ReportHandler) saveImage(c echo.Context) (string, error) {
	// A missing part surfaces as an error from the multipart reader; the
	// image is optional, so any lookup failure means "no image sent".
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	if fh.Size > storage.MaxImageBytes {
		return "", echo.NewHTTPError(http.StatusBadRequest, storage.ErrImageTooLarge.Error())
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path, err := h.images.Save(src, fh.Size)
	if err != nil {
		return "", err
	}
	return path, nil
}

// List handles GET /api/reports: all reports, optionally filtered by
// status and category, with the owner's name/email attached.
//
// @Summary      List all reports
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        type    query     string  false  "Filter by category"
// @Success      200     {object}  reportsResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	reports, err := h.service.List(c.Request().Context(), ports.ListReportsInput{
		Role:     role,
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("type"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportsResponse{Reports: reports})
}

// ListMine handles GET /api/reports/mine, the caller's own reports.
//
// @Summary      List my reports
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  reportsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/reports/mine [get]
func (h *ReportHandler) ListMine(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	reports, err := h.service.ListMine(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportsResponse{Reports: reports})
}

// Get handles GET /api/reports/:id. Any authenticated user may fetch any
// report by id; ownership is not checked at this layer.
//
// @Summary      Get a report by id
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report id"
// @Success      200  {object}  reportResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	report, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportResponse{Report: report})
}

// UpdateStatus handles PUT /api/reports/:id/status, the agent/admin triage
// overwrite. Any of the three statuses may be written regardless of the
// current one.
//
// @Summary      Update report status
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Report id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  reportResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/reports/{id}/status [put]
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	report, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	metrics.StatusUpdatesTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, reportResponse{Report: report})
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
