package domain

import (
	"github.com/google/uuid"
)

// PositionLaborEstimateDTO is a single position row of a labor estimate response.
// HoursCount is omitted for headcount-only estimate kinds.
type PositionLaborEstimateDTO struct {
	PositionID   uuid.UUID `json:"positionId"`
	PositionName string    `json:"positionName"`
	HoursCount   *float64  `json:"hoursCount,omitempty"`
	WorkersCount int       `json:"workersCount"`
}

// LaborEstimateDTO wraps an ordered estimate with its calendar
type LaborEstimateDTO struct {
	Kind              LaborEstimateKind          `json:"kind"`
	DateFrom          *string                    `json:"dateFrom,omitempty"`
	DateTo            *string                    `json:"dateTo,omitempty"`
	WorkDaysCount     *int                       `json:"workDaysCount,omitempty"`
	WorkDayHoursCount int                        `json:"workDayHoursCount"`
	Positions         []PositionLaborEstimateDTO `json:"positions"`
}

// SavedPositionLaborEstimateInput is one row of a manual saved estimate update
type SavedPositionLaborEstimateInput struct {
	PositionID   uuid.UUID `json:"positionId" validate:"required"`
	HoursCount   float64   `json:"hoursCount" validate:"gte=0"`
	WorkersCount int       `json:"workersCount" validate:"gte=0"`
}

// UpdateSavedLaborEstimateRequest replaces the saved estimate of a module
type UpdateSavedLaborEstimateRequest struct {
	Positions []SavedPositionLaborEstimateInput `json:"positions" validate:"unique=PositionID,dive"`
}

// StaffingRequirementDTO is a requirement of a staffing request
type StaffingRequirementDTO struct {
	ID           uuid.UUID `json:"id"`
	PositionID   uuid.UUID `json:"positionId"`
	PositionName string    `json:"positionName,omitempty"`
	WorkersCount int       `json:"workersCount"`
}

// StaffingRequestDTO is a staffing request with its requirements
type StaffingRequestDTO struct {
	ID           uuid.UUID                `json:"id"`
	ModuleID     uuid.UUID                `json:"moduleId"`
	Status       StaffingRequestStatus    `json:"status"`
	Comment      string                   `json:"comment,omitempty"`
	Requirements []StaffingRequirementDTO `json:"requirements"`
	CreatedAt    string                   `json:"createdAt"`
}
