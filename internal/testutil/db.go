// Package testutil sets up in-memory databases and fixtures for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/straye-as/staffing-api/internal/database"
	"github.com/straye-as/staffing-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// The pool is limited to one connection so every query sees the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// fixtureClock hands out strictly increasing creation times in the past, so fixtures
// keep their creation order and precede rows written by the code under test
var fixtureClock atomic.Int64

func nextCreatedAt() time.Time {
	n := fixtureClock.Add(1)
	return time.Now().Add(-24 * time.Hour).Add(time.Duration(n) * time.Millisecond)
}

func base() domain.BaseModel {
	created := nextCreatedAt()
	return domain.BaseModel{CreatedAt: created, UpdatedAt: created}
}

// Dec parses a decimal literal, failing the test on bad input
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// CreatePosition creates a position with the given name
func CreatePosition(t *testing.T, db *gorm.DB, name string) *domain.Position {
	t.Helper()
	position := &domain.Position{BaseModel: base(), Name: name}
	require.NoError(t, db.Create(position).Error)
	return position
}

// CreateProject creates a project owned by a new organization
func CreateProject(t *testing.T, db *gorm.DB, name string) *domain.Project {
	t.Helper()
	org := &domain.Organization{BaseModel: base(), Name: name + " AS", OrgNumber: "999888777"}
	require.NoError(t, db.Create(org).Error)

	project := &domain.Project{BaseModel: base(), Name: name, OrganizationID: org.ID}
	require.NoError(t, db.Omit("Organization", "Modules").Create(project).Error)
	return project
}

// ModuleOption customizes a module fixture
type ModuleOption func(*domain.Module)

// WithWorkDays sets the module's work day count
func WithWorkDays(days int) ModuleOption {
	return func(m *domain.Module) { m.WorkDaysCount = &days }
}

// WithWorkDayHours sets the module's work day length
func WithWorkDayHours(hours int) ModuleOption {
	return func(m *domain.Module) { m.WorkDayHoursCount = hours }
}

// WithDates sets the module's start and deadline dates
func WithDates(from, to time.Time) ModuleOption {
	return func(m *domain.Module) {
		m.StartDate = &from
		m.DeadlineDate = &to
	}
}

// CreateModule creates a module of a project, with 8 hour work days by default
func CreateModule(t *testing.T, db *gorm.DB, projectID uuid.UUID, name string, opts ...ModuleOption) *domain.Module {
	t.Helper()
	module := &domain.Module{
		BaseModel:         base(),
		ProjectID:         projectID,
		Name:              name,
		WorkDayHoursCount: domain.DefaultWorkDayHoursCount,
	}
	for _, opt := range opts {
		opt(module)
	}
	require.NoError(t, db.Omit("Project").Create(module).Error)
	return module
}

// CreatePointType creates a global point type
func CreatePointType(t *testing.T, db *gorm.DB, name string) *domain.PointType {
	t.Helper()
	pointType := &domain.PointType{BaseModel: base(), Name: name}
	require.NoError(t, db.Omit("DifficultyLevels", "PositionHourNorms").Create(pointType).Error)
	return pointType
}

// CreateDifficultyLevel creates a difficulty level of a point type
func CreateDifficultyLevel(t *testing.T, db *gorm.DB, pointTypeID uuid.UUID, name, factor string) *domain.DifficultyLevel {
	t.Helper()
	level := &domain.DifficultyLevel{
		BaseModel:   base(),
		PointTypeID: pointTypeID,
		Name:        name,
		Factor:      Dec(t, factor),
	}
	require.NoError(t, db.Create(level).Error)
	return level
}

// CreateHourNorm sets the hours a position needs per point of a type
func CreateHourNorm(t *testing.T, db *gorm.DB, pointTypeID, positionID uuid.UUID, hours string) *domain.PositionHourNorm {
	t.Helper()
	norm := &domain.PositionHourNorm{
		BaseModel:   base(),
		PointTypeID: pointTypeID,
		PositionID:  positionID,
		Hours:       Dec(t, hours),
	}
	require.NoError(t, db.Omit("Position").Create(norm).Error)
	return norm
}

// CreateComplexityPoint adds a point of a type to a module; level may be nil
func CreateComplexityPoint(t *testing.T, db *gorm.DB, moduleID, pointTypeID uuid.UUID, level *domain.DifficultyLevel) *domain.ComplexityPoint {
	t.Helper()
	point := &domain.ComplexityPoint{
		BaseModel:   base(),
		ModuleID:    moduleID,
		PointTypeID: pointTypeID,
	}
	if level != nil {
		point.DifficultyLevelID = &level.ID
	}
	require.NoError(t, db.Omit("PointType", "DifficultyLevel").Create(point).Error)
	return point
}

// CreateSavedEstimate stores one saved estimate row of a module
func CreateSavedEstimate(t *testing.T, db *gorm.DB, moduleID, positionID uuid.UUID, hours string, workers int) *domain.ModulePositionLaborEstimate {
	t.Helper()
	row := &domain.ModulePositionLaborEstimate{
		BaseModel:    base(),
		ModuleID:     moduleID,
		PositionID:   positionID,
		HoursCount:   Dec(t, hours),
		WorkersCount: workers,
	}
	require.NoError(t, db.Omit("Position").Create(row).Error)
	return row
}

// Requirement is a position and worker count of a staffing request fixture
type Requirement struct {
	PositionID uuid.UUID
	Workers    int
}

// CreateStaffingRequest creates a request of a module with the given requirements
func CreateStaffingRequest(t *testing.T, db *gorm.DB, moduleID uuid.UUID, status domain.StaffingRequestStatus, reqs ...Requirement) *domain.StaffingRequest {
	t.Helper()
	request := &domain.StaffingRequest{
		BaseModel: base(),
		ModuleID:  moduleID,
		Status:    status,
	}
	for _, r := range reqs {
		request.Requirements = append(request.Requirements, domain.StaffingRequirement{
			BaseModel:    base(),
			PositionID:   r.PositionID,
			WorkersCount: r.Workers,
		})
	}
	require.NoError(t, db.Create(request).Error)
	return request
}
