package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a new ID when the caller did not set one
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// DefaultWorkDayHoursCount is used for modules created without an explicit work day length
const DefaultWorkDayHoursCount = 8

// Organization represents a customer organization
type Organization struct {
	BaseModel
	Name      string `gorm:"type:varchar(200);not null;index"`
	OrgNumber string `gorm:"type:varchar(20);column:org_number"`
}

// Position represents a job role requested from the agency (e.g. "Backend Developer")
type Position struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null;uniqueIndex"`
}

// Project represents a customer engagement split into modules
type Project struct {
	BaseModel
	Name           string        `gorm:"type:varchar(200);not null"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index;column:organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID"`
	Modules        []Module      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// Module is a unit of planned project work with a time window and a work calendar
type Module struct {
	BaseModel
	ProjectID         uuid.UUID  `gorm:"type:uuid;not null;index;column:project_id"`
	Project           *Project   `gorm:"foreignKey:ProjectID"`
	Name              string     `gorm:"type:varchar(200);not null"`
	StartDate         *time.Time `gorm:"type:date;column:start_date"`
	DeadlineDate      *time.Time `gorm:"type:date;column:deadline_date"`
	WorkDaysCount     *int       `gorm:"column:work_days_count"`
	WorkDayHoursCount int        `gorm:"not null;default:8;column:work_day_hours_count"`
}

// PointType is a category of complexity points. A nil OrganizationID means the
// type applies to every customer.
type PointType struct {
	BaseModel
	Name              string             `gorm:"type:varchar(200);not null"`
	OrganizationID    *uuid.UUID         `gorm:"type:uuid;index;column:organization_id"`
	DifficultyLevels  []DifficultyLevel  `gorm:"foreignKey:PointTypeID;constraint:OnDelete:CASCADE"`
	PositionHourNorms []PositionHourNorm `gorm:"foreignKey:PointTypeID;constraint:OnDelete:CASCADE"`
}

// DifficultyLevel weights every point of its type that references it
type DifficultyLevel struct {
	BaseModel
	PointTypeID uuid.UUID       `gorm:"type:uuid;not null;index;column:point_type_id"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Factor      decimal.Decimal `gorm:"type:numeric(6,2);not null;default:1"`
}

// PositionHourNorm is the number of hours a position needs per point of a type
type PositionHourNorm struct {
	BaseModel
	PointTypeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_position_hour_norm;column:point_type_id"`
	PositionID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_position_hour_norm;column:position_id"`
	Position    *Position       `gorm:"foreignKey:PositionID"`
	Hours       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

// ComplexityPoint is an abstract unit of functional complexity assigned to a module
type ComplexityPoint struct {
	BaseModel
	ModuleID          uuid.UUID        `gorm:"type:uuid;not null;index;column:module_id"`
	PointTypeID       uuid.UUID        `gorm:"type:uuid;not null;index;column:point_type_id"`
	PointType         *PointType       `gorm:"foreignKey:PointTypeID"`
	DifficultyLevelID *uuid.UUID       `gorm:"type:uuid;column:difficulty_level_id"`
	DifficultyLevel   *DifficultyLevel `gorm:"foreignKey:DifficultyLevelID"`
	Description       string           `gorm:"type:text"`
}

// ModulePositionLaborEstimate is one row of the saved (human confirmed) estimate of a module
type ModulePositionLaborEstimate struct {
	BaseModel
	ModuleID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_module_position_estimate;column:module_id"`
	PositionID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_module_position_estimate;column:position_id"`
	Position     *Position       `gorm:"foreignKey:PositionID"`
	HoursCount   decimal.Decimal `gorm:"type:numeric(10,2);not null;column:hours_count"`
	WorkersCount int             `gorm:"not null;column:workers_count"`
}

// StaffingRequestStatus represents the lifecycle state of a staffing request
type StaffingRequestStatus string

const (
	StaffingRequestStatusOpen      StaffingRequestStatus = "open"
	StaffingRequestStatusClosed    StaffingRequestStatus = "closed"
	StaffingRequestStatusCancelled StaffingRequestStatus = "cancelled"
)

// StaffingRequest asks the agency for workers on a module
type StaffingRequest struct {
	BaseModel
	ModuleID     uuid.UUID             `gorm:"type:uuid;not null;index;column:module_id"`
	Status       StaffingRequestStatus `gorm:"type:varchar(20);not null;default:'open';index"`
	Comment      string                `gorm:"type:text"`
	Requirements []StaffingRequirement `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

// StaffingRequirement is the number of workers of one position a request asks for
type StaffingRequirement struct {
	BaseModel
	RequestID    uuid.UUID `gorm:"type:uuid;not null;index;column:request_id"`
	PositionID   uuid.UUID `gorm:"type:uuid;not null;index;column:position_id"`
	Position     *Position `gorm:"foreignKey:PositionID"`
	WorkersCount int       `gorm:"not null;column:workers_count"`
}

