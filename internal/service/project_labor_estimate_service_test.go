package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/staffing-api/internal/domain"
	"github.com/straye-as/staffing-api/internal/repository"
	"github.com/straye-as/staffing-api/internal/service"
	"github.com/straye-as/staffing-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createProjectLaborEstimateService(db *gorm.DB) *service.ProjectLaborEstimateService {
	return service.NewProjectLaborEstimateService(
		repository.NewProjectRepository(db),
		repository.NewModuleRepository(db),
		createLaborEstimateService(db),
		zap.NewNop(),
	)
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestProjectLaborEstimateService_GetSavedLaborEstimate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProjectLaborEstimateService(db)
	ctx := context.Background()

	backend := testutil.CreatePosition(t, db, "Backend Developer")
	qa := testutil.CreatePosition(t, db, "QA Engineer")
	designer := testutil.CreatePosition(t, db, "Designer")

	project := testutil.CreateProject(t, db, "Intranet")
	first := testutil.CreateModule(t, db, project.ID, "Login",
		testutil.WithWorkDays(10),
		testutil.WithWorkDayHours(6),
		testutil.WithDates(day("2024-03-01"), day("2024-03-31")))
	second := testutil.CreateModule(t, db, project.ID, "Reports",
		testutil.WithWorkDays(15),
		testutil.WithDates(day("2024-02-01"), day("2024-03-15")))
	testutil.CreateModule(t, db, project.ID, "Empty")

	testutil.CreateSavedEstimate(t, db, first.ID, qa.ID, "30", 1)
	testutil.CreateSavedEstimate(t, db, first.ID, backend.ID, "50", 2)
	testutil.CreateSavedEstimate(t, db, second.ID, backend.ID, "25.5", 1)
	testutil.CreateSavedEstimate(t, db, second.ID, designer.ID, "90", 1)

	// Saved rows of another project never leak in
	otherProject := testutil.CreateProject(t, db, "Other")
	otherModule := testutil.CreateModule(t, db, otherProject.ID, "Other module")
	testutil.CreateSavedEstimate(t, db, otherModule.ID, backend.ID, "1000", 9)

	estimate, err := svc.GetSavedLaborEstimate(ctx, project.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.LaborEstimateSaved, estimate.Kind)
	require.Len(t, estimate.Positions, 3)
	assert.Equal(t, designer.ID, estimate.Positions[0].PositionID)
	assert.Equal(t, backend.ID, estimate.Positions[1].PositionID)
	assert.Equal(t, qa.ID, estimate.Positions[2].PositionID)

	assert.Equal(t, "75.5", estimate.HoursOf(backend.ID).String())
	assert.Equal(t, 3, estimate.WorkersOf(backend.ID))
	assert.Equal(t, "90", estimate.HoursOf(designer.ID).String())
	assert.Equal(t, 1, estimate.WorkersOf(qa.ID))

	require.NotNil(t, estimate.DateFrom)
	require.NotNil(t, estimate.DateTo)
	assert.Equal(t, "2024-02-01", estimate.DateFrom.Format("2006-01-02"))
	assert.Equal(t, "2024-03-31", estimate.DateTo.Format("2006-01-02"))
	require.NotNil(t, estimate.WorkDaysCount)
	assert.Equal(t, 25, *estimate.WorkDaysCount)
	assert.Equal(t, 8, estimate.WorkDayHoursCount)
}

func TestProjectLaborEstimateService_EmptyProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProjectLaborEstimateService(db)
	project := testutil.CreateProject(t, db, "Fresh")

	estimate, err := svc.GetSavedLaborEstimate(context.Background(), project.ID)
	require.NoError(t, err)
	assert.True(t, estimate.IsEmpty())
	assert.Equal(t, domain.LaborEstimateSaved, estimate.Kind)
}

func TestProjectLaborEstimateService_ProjectNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProjectLaborEstimateService(db)

	_, err := svc.GetSavedLaborEstimate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestProjectLaborEstimateService_UnsupportedKinds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createProjectLaborEstimateService(db)
	ctx := context.Background()
	project := testutil.CreateProject(t, db, "Portal")

	_, err := svc.GetExpectedLaborEstimate(ctx, project.ID)
	assert.ErrorIs(t, err, service.ErrNotImplemented)

	_, err = svc.GetRequestedLaborEstimate(ctx, project.ID)
	assert.ErrorIs(t, err, service.ErrNotImplemented)

	_, err = svc.GetLaborEstimate(ctx, project.ID, domain.LaborEstimateSavedMinusRequested)
	assert.ErrorIs(t, err, service.ErrNotImplemented)

	_, err = svc.GetLaborEstimate(ctx, project.ID, domain.LaborEstimateKind("bogus"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	estimate, err := svc.GetLaborEstimate(ctx, project.ID, domain.LaborEstimateSaved)
	require.NoError(t, err)
	assert.True(t, estimate.IsEmpty())
}
