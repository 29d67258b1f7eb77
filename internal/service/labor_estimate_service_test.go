package service_test

import (
	"context"
	"testing"

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

func createLaborEstimateService(db *gorm.DB) *service.LaborEstimateService {
	return service.NewLaborEstimateService(
		db,
		repository.NewModuleRepository(db),
		repository.NewComplexityPointRepository(db),
		repository.NewLaborEstimateRepository(db),
		repository.NewStaffingRequestRepository(db),
		repository.NewPositionRepository(db),
		nil,
		zap.NewNop(),
	)
}

// estimateWorld is a project with one module whose expected estimate is
// Backend Developer 80h/1 worker and QA 20h/1 worker
type estimateWorld struct {
	db      *gorm.DB
	svc     *service.LaborEstimateService
	project *domain.Project
	module  *domain.Module
	backend *domain.Position
	qa      *domain.Position
}

func setupEstimateWorld(t *testing.T) *estimateWorld {
	db := testutil.SetupTestDB(t)

	w := &estimateWorld{
		db:      db,
		svc:     createLaborEstimateService(db),
		backend: testutil.CreatePosition(t, db, "Backend Developer"),
		qa:      testutil.CreatePosition(t, db, "QA Engineer"),
	}
	w.project = testutil.CreateProject(t, db, "Webshop")
	w.module = testutil.CreateModule(t, db, w.project.ID, "Checkout", testutil.WithWorkDays(10))

	integration := testutil.CreatePointType(t, db, "Integration")
	hard := testutil.CreateDifficultyLevel(t, db, integration.ID, "Hard", "2")
	testutil.CreateHourNorm(t, db, integration.ID, w.backend.ID, "20")
	testutil.CreateHourNorm(t, db, integration.ID, w.qa.ID, "5")
	testutil.CreateComplexityPoint(t, db, w.module.ID, integration.ID, hard)
	testutil.CreateComplexityPoint(t, db, w.module.ID, integration.ID, hard)

	return w
}

func TestLaborEstimateService_GetExpectedLaborEstimate(t *testing.T) {
	w := setupEstimateWorld(t)
	ctx := context.Background()

	estimate, err := w.svc.GetExpectedLaborEstimate(ctx, w.module.ID)
	require.NoError(t, err)

	require.Len(t, estimate.Positions, 2)
	assert.Equal(t, w.backend.ID, estimate.Positions[0].PositionID)
	assert.Equal(t, "Backend Developer", estimate.Positions[0].PositionName)
	assert.Equal(t, "80", estimate.HoursOf(w.backend.ID).String())
	assert.Equal(t, 1, estimate.WorkersOf(w.backend.ID))
	assert.Equal(t, "20", estimate.HoursOf(w.qa.ID).String())
	assert.Equal(t, 1, estimate.WorkersOf(w.qa.ID))
	require.NotNil(t, estimate.WorkDaysCount)
	assert.Equal(t, 10, *estimate.WorkDaysCount)
}

func TestLaborEstimateService_ModuleNotFound(t *testing.T) {
	w := setupEstimateWorld(t)
	ctx := context.Background()
	missing := uuid.New()

	for _, kind := range []domain.LaborEstimateKind{
		domain.LaborEstimateExpected,
		domain.LaborEstimateSaved,
		domain.LaborEstimateRequested,
		domain.LaborEstimateExpectedMinusSaved,
		domain.LaborEstimateSavedMinusRequested,
	} {
		t.Run(string(kind), func(t *testing.T) {
			estimate, err := w.svc.GetLaborEstimate(ctx, missing, kind)
			assert.Nil(t, estimate)
			assert.ErrorIs(t, err, service.ErrModuleNotFound)
		})
	}

	t.Run("reconciliation", func(t *testing.T) {
		_, err := w.svc.CreateRequestForSavedLaborEstimate(ctx, missing)
		assert.ErrorIs(t, err, service.ErrModuleNotFound)

		_, err = w.svc.SetExpectedLaborEstimateAsSaved(ctx, missing)
		assert.ErrorIs(t, err, service.ErrModuleNotFound)

		_, err = w.svc.UpdateSavedLaborEstimate(ctx, missing, domain.UpdateSavedLaborEstimateRequest{})
		assert.ErrorIs(t, err, service.ErrModuleNotFound)
	})
}

func TestLaborEstimateService_UnknownKind(t *testing.T) {
	w := setupEstimateWorld(t)

	_, err := w.svc.GetLaborEstimate(context.Background(), w.module.ID, domain.LaborEstimateKind("planned"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestLaborEstimateService_InvalidWorkCalendar(t *testing.T) {
	w := setupEstimateWorld(t)
	ctx := context.Background()
	require.NoError(t, w.db.Model(&domain.Module{}).Where("id = ?", w.module.ID).Update("work_day_hours_count", 0).Error)

	_, err := w.svc.GetExpectedLaborEstimate(ctx, w.module.ID)
	assert.ErrorIs(t, err, service.ErrInvalidWorkCalendar)

	_, err = w.svc.SetExpectedLaborEstimateAsSaved(ctx, w.module.ID)
	assert.ErrorIs(t, err, service.ErrInvalidWorkCalendar)

	// Saved and requested views do not depend on the calendar
	_, err = w.svc.GetSavedLaborEstimate(ctx, w.module.ID)
	assert.NoError(t, err)
}

func TestLaborEstimateService_GetSavedLaborEstimate(t *testing.T) {
	w := setupEstimateWorld(t)
	testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.qa.ID, "12.5", 2)
	testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.backend.ID, "64", 1)

	estimate, err := w.svc.GetSavedLaborEstimate(context.Background(), w.module.ID)
	require.NoError(t, err)

	require.Len(t, estimate.Positions, 2)
	assert.Equal(t, w.backend.ID, estimate.Positions[0].PositionID)
	assert.Equal(t, w.qa.ID, estimate.Positions[1].PositionID)
	assert.Equal(t, "12.5", estimate.HoursOf(w.qa.ID).String())
	assert.Equal(t, 2, estimate.WorkersOf(w.qa.ID))
	assert.Equal(t, "QA Engineer", estimate.Positions[1].PositionName)
}

func TestLaborEstimateService_GetRequestedLaborEstimate(t *testing.T) {
	w := setupEstimateWorld(t)
	testutil.CreateStaffingRequest(t, w.db, w.module.ID, domain.StaffingRequestStatusOpen,
		testutil.Requirement{PositionID: w.qa.ID, Workers: 1},
		testutil.Requirement{PositionID: w.backend.ID, Workers: 1},
	)
	testutil.CreateStaffingRequest(t, w.db, w.module.ID, domain.StaffingRequestStatusClosed,
		testutil.Requirement{PositionID: w.backend.ID, Workers: 2},
	)
	testutil.CreateStaffingRequest(t, w.db, w.module.ID, domain.StaffingRequestStatusCancelled,
		testutil.Requirement{PositionID: w.qa.ID, Workers: 5},
	)

	estimate, err := w.svc.GetRequestedLaborEstimate(context.Background(), w.module.ID)
	require.NoError(t, err)

	require.Len(t, estimate.Positions, 2)
	assert.Equal(t, w.backend.ID, estimate.Positions[0].PositionID)
	assert.Equal(t, 3, estimate.WorkersOf(w.backend.ID))
	assert.Equal(t, 1, estimate.WorkersOf(w.qa.ID), "cancelled requests are not counted")
	for _, p := range estimate.Positions {
		assert.False(t, p.Hours.Valid)
	}
}

func TestLaborEstimateService_DiffViews(t *testing.T) {
	w := setupEstimateWorld(t)
	ctx := context.Background()
	testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.backend.ID, "100", 3)
	testutil.CreateStaffingRequest(t, w.db, w.module.ID, domain.StaffingRequestStatusOpen,
		testutil.Requirement{PositionID: w.backend.ID, Workers: 1},
		testutil.Requirement{PositionID: w.qa.ID, Workers: 1},
	)

	expected, err := w.svc.GetExpectedLaborEstimate(ctx, w.module.ID)
	require.NoError(t, err)
	saved, err := w.svc.GetSavedLaborEstimate(ctx, w.module.ID)
	require.NoError(t, err)
	requested, err := w.svc.GetRequestedLaborEstimate(ctx, w.module.ID)
	require.NoError(t, err)

	t.Run("expected minus saved", func(t *testing.T) {
		diff, err := w.svc.GetExpectedMinusSavedLaborEstimate(ctx, w.module.ID)
		require.NoError(t, err)

		for _, id := range []uuid.UUID{w.backend.ID, w.qa.ID} {
			assert.True(t, diff.HoursOf(id).Equal(expected.HoursOf(id).Sub(saved.HoursOf(id))))
			assert.Equal(t, expected.WorkersOf(id)-saved.WorkersOf(id), diff.WorkersOf(id))
		}
		assert.Equal(t, "-20", diff.HoursOf(w.backend.ID).String())
		assert.Equal(t, -2, diff.WorkersOf(w.backend.ID))
		require.Len(t, diff.Positions, 2)
		assert.Equal(t, w.qa.ID, diff.Positions[0].PositionID, "ordered by hours difference")
	})

	t.Run("saved minus requested", func(t *testing.T) {
		diff, err := w.svc.GetSavedMinusRequestedLaborEstimate(ctx, w.module.ID)
		require.NoError(t, err)

		for _, id := range []uuid.UUID{w.backend.ID, w.qa.ID} {
			assert.Equal(t, saved.WorkersOf(id)-requested.WorkersOf(id), diff.WorkersOf(id))
		}
		assert.Equal(t, 2, diff.WorkersOf(w.backend.ID))
		assert.Equal(t, -1, diff.WorkersOf(w.qa.ID))
		require.Len(t, diff.Positions, 2)
		assert.Equal(t, w.backend.ID, diff.Positions[0].PositionID)
		assert.False(t, diff.Positions[0].Hours.Valid)
	})
}

func TestLaborEstimateService_CreateRequestForSavedLaborEstimate(t *testing.T) {
	t.Run("requests only the residual and is idempotent", func(t *testing.T) {
		w := setupEstimateWorld(t)
		ctx := context.Background()
		testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.backend.ID, "80", 3)
		testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.qa.ID, "20", 1)
		testutil.CreateStaffingRequest(t, w.db, w.module.ID, domain.StaffingRequestStatusOpen,
			testutil.Requirement{PositionID: w.backend.ID, Workers: 1},
			testutil.Requirement{PositionID: w.qa.ID, Workers: 1},
		)

		request, err := w.svc.CreateRequestForSavedLaborEstimate(ctx, w.module.ID)
		require.NoError(t, err)
		require.NotNil(t, request)

		assert.Equal(t, w.module.ID, request.ModuleID)
		assert.Equal(t, domain.StaffingRequestStatusOpen, request.Status)
		require.Len(t, request.Requirements, 1)
		assert.Equal(t, w.backend.ID, request.Requirements[0].PositionID)
		assert.Equal(t, 2, request.Requirements[0].WorkersCount)
		require.NotNil(t, request.Requirements[0].Position)
		assert.Equal(t, "Backend Developer", request.Requirements[0].Position.Name)

		again, err := w.svc.CreateRequestForSavedLaborEstimate(ctx, w.module.ID)
		require.NoError(t, err)
		assert.Nil(t, again)

		requested, err := w.svc.GetRequestedLaborEstimate(ctx, w.module.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, requested.WorkersOf(w.backend.ID))
	})

	t.Run("nothing saved means no request", func(t *testing.T) {
		w := setupEstimateWorld(t)

		request, err := w.svc.CreateRequestForSavedLaborEstimate(context.Background(), w.module.ID)
		require.NoError(t, err)
		assert.Nil(t, request)
	})

	t.Run("saved fully covered returns none", func(t *testing.T) {
		w := setupEstimateWorld(t)
		testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.backend.ID, "10", 1)
		testutil.CreateStaffingRequest(t, w.db, w.module.ID, domain.StaffingRequestStatusOpen,
			testutil.Requirement{PositionID: w.backend.ID, Workers: 1},
		)

		request, err := w.svc.CreateRequestForSavedLaborEstimate(context.Background(), w.module.ID)
		require.NoError(t, err)
		assert.Nil(t, request)
	})

	t.Run("cancelled requests are requested again", func(t *testing.T) {
		w := setupEstimateWorld(t)
		testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.backend.ID, "40", 3)
		testutil.CreateStaffingRequest(t, w.db, w.module.ID, domain.StaffingRequestStatusCancelled,
			testutil.Requirement{PositionID: w.backend.ID, Workers: 3},
		)

		request, err := w.svc.CreateRequestForSavedLaborEstimate(context.Background(), w.module.ID)
		require.NoError(t, err)
		require.NotNil(t, request)
		require.Len(t, request.Requirements, 1)
		assert.Equal(t, 3, request.Requirements[0].WorkersCount)
	})
}

func TestLaborEstimateService_SetExpectedLaborEstimateAsSaved(t *testing.T) {
	w := setupEstimateWorld(t)
	ctx := context.Background()
	testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.backend.ID, "10", 5)

	changed, err := w.svc.SetExpectedLaborEstimateAsSaved(ctx, w.module.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	saved, err := w.svc.GetSavedLaborEstimate(ctx, w.module.ID)
	require.NoError(t, err)
	require.Len(t, saved.Positions, 2)
	assert.Equal(t, "80", saved.HoursOf(w.backend.ID).String())
	assert.Equal(t, 1, saved.WorkersOf(w.backend.ID))
	assert.Equal(t, "20", saved.HoursOf(w.qa.ID).String())

	diff, err := w.svc.GetExpectedMinusSavedLaborEstimate(ctx, w.module.ID)
	require.NoError(t, err)
	for _, p := range diff.Positions {
		assert.True(t, p.HoursOrZero().IsZero())
		assert.Zero(t, p.Workers)
	}

	changed, err = w.svc.SetExpectedLaborEstimateAsSaved(ctx, w.module.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestLaborEstimateService_SetExpectedLaborEstimateAsSaved_DropsStalePositions(t *testing.T) {
	w := setupEstimateWorld(t)
	ctx := context.Background()
	designer := testutil.CreatePosition(t, w.db, "Designer")
	testutil.CreateSavedEstimate(t, w.db, w.module.ID, designer.ID, "30", 1)

	changed, err := w.svc.SetExpectedLaborEstimateAsSaved(ctx, w.module.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	saved, err := w.svc.GetSavedLaborEstimate(ctx, w.module.ID)
	require.NoError(t, err)
	_, ok := saved.Get(designer.ID)
	assert.False(t, ok)
}

func TestLaborEstimateService_UpdateSavedLaborEstimate(t *testing.T) {
	t.Run("replaces saved rows", func(t *testing.T) {
		w := setupEstimateWorld(t)
		ctx := context.Background()
		testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.backend.ID, "80", 1)

		saved, err := w.svc.UpdateSavedLaborEstimate(ctx, w.module.ID, domain.UpdateSavedLaborEstimateRequest{
			Positions: []domain.SavedPositionLaborEstimateInput{
				{PositionID: w.qa.ID, HoursCount: 42.555, WorkersCount: 2},
			},
		})
		require.NoError(t, err)

		require.Len(t, saved.Positions, 1)
		assert.Equal(t, w.qa.ID, saved.Positions[0].PositionID)
		assert.Equal(t, 2, saved.Positions[0].Workers)
		assert.Equal(t, "42.56", saved.Positions[0].HoursOrZero().StringFixed(2))
	})

	t.Run("unknown position leaves saved rows untouched", func(t *testing.T) {
		w := setupEstimateWorld(t)
		ctx := context.Background()
		testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.backend.ID, "80", 1)

		_, err := w.svc.UpdateSavedLaborEstimate(ctx, w.module.ID, domain.UpdateSavedLaborEstimateRequest{
			Positions: []domain.SavedPositionLaborEstimateInput{
				{PositionID: w.qa.ID, HoursCount: 10, WorkersCount: 1},
				{PositionID: uuid.New(), HoursCount: 10, WorkersCount: 1},
			},
		})
		assert.ErrorIs(t, err, service.ErrPositionNotFound)

		saved, err := w.svc.GetSavedLaborEstimate(ctx, w.module.ID)
		require.NoError(t, err)
		require.Len(t, saved.Positions, 1)
		assert.Equal(t, w.backend.ID, saved.Positions[0].PositionID)
	})

	t.Run("negative values are rejected", func(t *testing.T) {
		w := setupEstimateWorld(t)

		_, err := w.svc.UpdateSavedLaborEstimate(context.Background(), w.module.ID, domain.UpdateSavedLaborEstimateRequest{
			Positions: []domain.SavedPositionLaborEstimateInput{
				{PositionID: w.qa.ID, HoursCount: -1, WorkersCount: 1},
			},
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("empty update clears saved estimate", func(t *testing.T) {
		w := setupEstimateWorld(t)
		testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.backend.ID, "80", 1)

		saved, err := w.svc.UpdateSavedLaborEstimate(context.Background(), w.module.ID, domain.UpdateSavedLaborEstimateRequest{})
		require.NoError(t, err)
		assert.True(t, saved.IsEmpty())
	})
}

func TestLaborEstimateService_GetStaffingRequest(t *testing.T) {
	w := setupEstimateWorld(t)

	_, err := w.svc.GetStaffingRequest(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrStaffingRequestNotFound)

	created := testutil.CreateStaffingRequest(t, w.db, w.module.ID, domain.StaffingRequestStatusOpen,
		testutil.Requirement{PositionID: w.qa.ID, Workers: 2},
	)
	request, err := w.svc.GetStaffingRequest(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, request.Requirements, 1)
	assert.Equal(t, "QA Engineer", request.Requirements[0].Position.Name)
}

func TestLaborEstimateService_ListFundingGaps(t *testing.T) {
	w := setupEstimateWorld(t)
	ctx := context.Background()
	other := testutil.CreateModule(t, w.db, w.project.ID, "Search")

	testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.backend.ID, "80", 3)
	testutil.CreateSavedEstimate(t, w.db, w.module.ID, w.qa.ID, "20", 1)
	testutil.CreateStaffingRequest(t, w.db, w.module.ID, domain.StaffingRequestStatusOpen,
		testutil.Requirement{PositionID: w.backend.ID, Workers: 1},
		testutil.Requirement{PositionID: w.qa.ID, Workers: 2},
	)
	testutil.CreateSavedEstimate(t, w.db, other.ID, w.qa.ID, "16", 1)

	gaps, err := w.svc.ListFundingGaps(ctx)
	require.NoError(t, err)

	require.Len(t, gaps, 2)
	assert.Equal(t, w.module.ID, gaps[0].ModuleID)
	assert.Equal(t, "Checkout", gaps[0].ModuleName)
	assert.Equal(t, w.backend.ID, gaps[0].PositionID)
	assert.Equal(t, "Backend Developer", gaps[0].PositionName)
	assert.Equal(t, 2, gaps[0].WorkersGap)
	assert.Equal(t, w.project.ID, gaps[0].ProjectID)

	assert.Equal(t, other.ID, gaps[1].ModuleID)
	assert.Equal(t, w.qa.ID, gaps[1].PositionID)
	assert.Equal(t, 1, gaps[1].WorkersGap)
}

func TestLaborEstimateService_ListFundingGaps_CancelledContext(t *testing.T) {
	w := setupEstimateWorld(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.svc.ListFundingGaps(ctx)
	assert.Error(t, err)
}
