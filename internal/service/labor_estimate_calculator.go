package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/straye-as/staffing-api/internal/domain"
)

// hoursPrecision matches the scale hours are stored with
const hoursPrecision = 2

var calendarValidator = validator.New()

// workCalendar is the part of a module the expected estimate depends on
type workCalendar struct {
	WorkDayHoursCount int  `validate:"gt=0"`
	WorkDaysCount     *int `validate:"omitempty,gte=0"`
}

// validateWorkCalendar rejects modules whose calendar cannot be used to derive worker counts
func validateWorkCalendar(module *domain.Module) error {
	cal := workCalendar{
		WorkDayHoursCount: module.WorkDayHoursCount,
		WorkDaysCount:     module.WorkDaysCount,
	}
	if err := calendarValidator.Struct(cal); err != nil {
		return fmt.Errorf("%w: module %s: %v", ErrInvalidWorkCalendar, module.ID, err)
	}
	return nil
}

// ComputeExpectedLaborEstimate derives the expected estimate of a module from its
// complexity points and the hour norms of their point types (keyed by point type ID).
//
// Each norm contributes norm hours times the difficulty factor of the point (1 when the
// point has no difficulty level). Per position the total is turned into work days by
// rounding up against the module's work day length, and days into workers by rounding
// up against the module's work day count. Without a work day count one worker is assumed.
// Positions are ordered by hours, largest first, ties in order of first contribution.
func ComputeExpectedLaborEstimate(module *domain.Module, points []domain.ComplexityPoint, norms map[uuid.UUID][]domain.PositionHourNorm) (*domain.LaborEstimate, error) {
	if err := validateWorkCalendar(module); err != nil {
		return nil, err
	}

	var order []uuid.UUID
	totals := make(map[uuid.UUID]decimal.Decimal)
	names := make(map[uuid.UUID]string)

	for _, point := range points {
		factor := decimal.NewFromInt(1)
		if point.DifficultyLevel != nil {
			factor = point.DifficultyLevel.Factor
		}

		for _, norm := range norms[point.PointTypeID] {
			if _, seen := totals[norm.PositionID]; !seen {
				order = append(order, norm.PositionID)
				totals[norm.PositionID] = decimal.Zero
				if norm.Position != nil {
					names[norm.PositionID] = norm.Position.Name
				}
			}
			totals[norm.PositionID] = totals[norm.PositionID].Add(norm.Hours.Mul(factor))
		}
	}

	estimate := domain.NewLaborEstimate(domain.LaborEstimateExpected, module)
	dayHours := decimal.NewFromInt(int64(module.WorkDayHoursCount))

	for _, positionID := range order {
		hours := totals[positionID].Round(hoursPrecision)
		days := hours.Div(dayHours).Ceil().IntPart()

		estimate.Positions = append(estimate.Positions, domain.PositionLaborEstimate{
			PositionID:   positionID,
			PositionName: names[positionID],
			Hours:        decimal.NewNullDecimal(hours),
			Workers:      workersForDays(days, module.WorkDaysCount),
		})
	}

	estimate.SortByHoursDesc()
	return estimate, nil
}

// workersForDays spreads days of work over the module's work days.
// A missing or zero day count means the work is done by one continuous worker.
func workersForDays(days int64, workDaysCount *int) int {
	if workDaysCount == nil || *workDaysCount == 0 {
		return 1
	}
	perWorker := int64(*workDaysCount)
	return int((days + perWorker - 1) / perWorker)
}

// buildSavedLaborEstimate converts saved rows into an estimate ordered by hours
func buildSavedLaborEstimate(module *domain.Module, rows []domain.ModulePositionLaborEstimate) *domain.LaborEstimate {
	estimate := domain.NewLaborEstimate(domain.LaborEstimateSaved, module)
	for _, row := range rows {
		name := ""
		if row.Position != nil {
			name = row.Position.Name
		}
		estimate.Positions = append(estimate.Positions, domain.PositionLaborEstimate{
			PositionID:   row.PositionID,
			PositionName: name,
			Hours:        decimal.NewNullDecimal(row.HoursCount),
			Workers:      row.WorkersCount,
		})
	}
	estimate.SortByHoursDesc()
	return estimate
}

// buildRequestedLaborEstimate sums requested workers per position, ordered by workers
func buildRequestedLaborEstimate(module *domain.Module, requirements []domain.StaffingRequirement) *domain.LaborEstimate {
	estimate := domain.NewLaborEstimate(domain.LaborEstimateRequested, module)
	index := make(map[uuid.UUID]int)

	for _, req := range requirements {
		i, ok := index[req.PositionID]
		if !ok {
			name := ""
			if req.Position != nil {
				name = req.Position.Name
			}
			i = len(estimate.Positions)
			index[req.PositionID] = i
			estimate.Positions = append(estimate.Positions, domain.PositionLaborEstimate{
				PositionID:   req.PositionID,
				PositionName: name,
			})
		}
		estimate.Positions[i].Workers += req.WorkersCount
	}

	estimate.SortByWorkersDesc()
	return estimate
}

// expectedMinusSaved diffs hours and workers, ordered by hours difference
func expectedMinusSaved(expected, saved *domain.LaborEstimate) *domain.LaborEstimate {
	diff := domain.SubtractLaborEstimates(domain.LaborEstimateExpectedMinusSaved, expected, saved)
	diff.SortByHoursDesc()
	return diff
}

// savedMinusRequested diffs workers only, ordered by workers difference
func savedMinusRequested(saved, requested *domain.LaborEstimate) *domain.LaborEstimate {
	diff := domain.SubtractLaborEstimates(domain.LaborEstimateSavedMinusRequested, saved, requested)
	diff.SortByWorkersDesc()
	return diff
}

// sameLaborEstimate reports whether two estimates hold the same positions with equal
// hours and workers, regardless of order
func sameLaborEstimate(a, b *domain.LaborEstimate) bool {
	if len(a.Positions) != len(b.Positions) {
		return false
	}
	for _, pa := range a.Positions {
		pb, ok := b.Get(pa.PositionID)
		if !ok {
			return false
		}
		if pa.Workers != pb.Workers || !pa.HoursOrZero().Equal(pb.HoursOrZero()) {
			return false
		}
	}
	return true
}
