package domain

import (
	"errors"
	"time"
)

// ReportStatus represents the lifecycle state of a report.
type ReportStatus string

const (
	StatusReceived   ReportStatus = "received"
	StatusInProgress ReportStatus = "in_progress"
	StatusResolved   ReportStatus = "resolved"
)

// Valid reports whether s is one of the three enumerated statuses.
// Any valid status may move to any other valid status, including a no-op;
// the update operation is an unguarded overwrite by design of the product.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusReceived, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Report categories map to the issue types citizens can pick on submission.
const (
	CategoryRoads       = "roads"
	CategoryLighting    = "lighting"
	CategoryWaste       = "waste"
	CategoryGreenSpaces = "green_spaces"
	CategoryNoise       = "noise"
	CategoryOther       = "other"
)

// ValidCategory reports whether category is a known issue type.
func ValidCategory(category string) bool {
	switch category {
	case CategoryRoads, CategoryLighting, CategoryWaste, CategoryGreenSpaces, CategoryNoise, CategoryOther:
		return true
	}
	return false
}

var ErrReportNotFound = errors.New("report not found")
var ErrInvalidStatus = errors.New("invalid status")
var ErrInvalidID = errors.New("invalid id")
var ErrInvalidInput = errors.New("invalid input")
var ErrForbidden = errors.New("access forbidden")

// Reporter is the owner projection embedded when agents/admins read reports.
type Reporter struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

// Report is the core aggregate: one citizen-submitted municipal issue.
type Report struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description" bson:"description"`
	Category    string       `json:"type" bson:"type"`
	ImagePath   string       `json:"image,omitempty" bson:"image,omitempty"`
	Latitude    float64      `json:"latitude" bson:"latitude"`
	Longitude   float64      `json:"longitude" bson:"longitude"`
	Status      ReportStatus `json:"status" bson:"status"`
	UserID      string       `json:"user_id" bson:"user_id"`
	Reporter    *Reporter    `json:"reporter,omitempty" bson:"reporter,omitempty"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}
