package models

import "time"

// GolfCourseApprovalStatus — статус модерации гольф-поля.
type GolfCourseApprovalStatus string

const (
	GolfCourseStatusPending  GolfCourseApprovalStatus = "pending"
	GolfCourseStatusApproved GolfCourseApprovalStatus = "approved"
)

// GolfCourse представляет гольф-поле.
type GolfCourse struct {
	ID             int                      `json:"id" db:"id"`
	Name           string                   `json:"name" db:"name"`
	CountryCode    string                   `json:"country_code" db:"country_code"`
	City           *string                  `json:"city,omitempty" db:"city"`
	HolesCount     int                      `json:"holes_count" db:"holes_count"`
	ApprovalStatus GolfCourseApprovalStatus `json:"approval_status" db:"approval_status"`
	SubmittedBy    int                      `json:"submitted_by" db:"submitted_by"`
	CreatedAt      time.Time                `json:"created_at" db:"created_at"`
	PhotoKey       *string                  `json:"-" db:"photo_key"`
	PhotoURL       *string                  `json:"photo_url,omitempty" db:"-"`
}

func (g GolfCourse) IsApproved() bool {
	return g.ApprovalStatus == GolfCourseStatusApproved
}
