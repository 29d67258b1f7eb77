package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LaborEstimateKind identifies which of the estimate views a LaborEstimate holds
type LaborEstimateKind string

const (
	LaborEstimateExpected            LaborEstimateKind = "expected"
	LaborEstimateSaved               LaborEstimateKind = "saved"
	LaborEstimateRequested           LaborEstimateKind = "requested"
	LaborEstimateExpectedMinusSaved  LaborEstimateKind = "expected_minus_saved"
	LaborEstimateSavedMinusRequested LaborEstimateKind = "saved_minus_requested"
)

// IsValidLaborEstimateKind checks if the given string is a known estimate kind
func IsValidLaborEstimateKind(kind string) bool {
	switch LaborEstimateKind(kind) {
	case LaborEstimateExpected, LaborEstimateSaved, LaborEstimateRequested,
		LaborEstimateExpectedMinusSaved, LaborEstimateSavedMinusRequested:
		return true
	}
	return false
}

// HasHours reports whether estimates of this kind carry hours.
// Requested estimates only know headcount, and so does any diff against them.
func (k LaborEstimateKind) HasHours() bool {
	switch k {
	case LaborEstimateRequested, LaborEstimateSavedMinusRequested:
		return false
	default:
		return true
	}
}

// PositionLaborEstimate is the estimate for a single position
type PositionLaborEstimate struct {
	PositionID   uuid.UUID
	PositionName string
	Hours        decimal.NullDecimal
	Workers      int
}

// HoursOrZero returns the hours, treating unset hours as zero
func (p PositionLaborEstimate) HoursOrZero() decimal.Decimal {
	if !p.Hours.Valid {
		return decimal.Zero
	}
	return p.Hours.Decimal
}

// LaborEstimate is an estimate of the labor needed for a module or a project.
// Positions holds one entry per position in presentation order. A LaborEstimate is
// built fresh for each call and must not be modified after it is returned.
type LaborEstimate struct {
	Kind              LaborEstimateKind
	DateFrom          *time.Time
	DateTo            *time.Time
	WorkDaysCount     *int
	WorkDayHoursCount int
	Positions         []PositionLaborEstimate
}

// NewLaborEstimate creates an empty estimate carrying the calendar of a module
func NewLaborEstimate(kind LaborEstimateKind, module *Module) *LaborEstimate {
	estimate := &LaborEstimate{Kind: kind}
	if module != nil {
		estimate.DateFrom = module.StartDate
		estimate.DateTo = module.DeadlineDate
		estimate.WorkDaysCount = module.WorkDaysCount
		estimate.WorkDayHoursCount = module.WorkDayHoursCount
	}
	return estimate
}

// Get returns the estimate of a position
func (e *LaborEstimate) Get(positionID uuid.UUID) (PositionLaborEstimate, bool) {
	for _, p := range e.Positions {
		if p.PositionID == positionID {
			return p, true
		}
	}
	return PositionLaborEstimate{}, false
}

// HoursOf returns the hours of a position, zero when absent or unset
func (e *LaborEstimate) HoursOf(positionID uuid.UUID) decimal.Decimal {
	p, ok := e.Get(positionID)
	if !ok {
		return decimal.Zero
	}
	return p.HoursOrZero()
}

// WorkersOf returns the worker count of a position, zero when absent
func (e *LaborEstimate) WorkersOf(positionID uuid.UUID) int {
	p, _ := e.Get(positionID)
	return p.Workers
}

// IsEmpty reports whether the estimate has no positions
func (e *LaborEstimate) IsEmpty() bool {
	return len(e.Positions) == 0
}

// SortByHoursDesc orders positions by hours, largest first. Ties keep their order.
func (e *LaborEstimate) SortByHoursDesc() {
	sort.SliceStable(e.Positions, func(i, j int) bool {
		return e.Positions[i].HoursOrZero().GreaterThan(e.Positions[j].HoursOrZero())
	})
}

// SortByWorkersDesc orders positions by worker count, largest first. Ties keep their order.
func (e *LaborEstimate) SortByWorkersDesc() {
	sort.SliceStable(e.Positions, func(i, j int) bool {
		return e.Positions[i].Workers > e.Positions[j].Workers
	})
}

// positionUnion returns the position keys of a followed by the ones only in b
func positionUnion(a, b *LaborEstimate) []PositionLaborEstimate {
	keys := make([]PositionLaborEstimate, 0, len(a.Positions)+len(b.Positions))
	seen := make(map[uuid.UUID]bool, len(a.Positions)+len(b.Positions))
	for _, est := range []*LaborEstimate{a, b} {
		for _, p := range est.Positions {
			if seen[p.PositionID] {
				continue
			}
			seen[p.PositionID] = true
			keys = append(keys, PositionLaborEstimate{PositionID: p.PositionID, PositionName: p.PositionName})
		}
	}
	return keys
}

// SubtractLaborEstimates returns minuend - subtrahend per position over the union of
// their positions, missing values counting as zero. Hours are only set when the
// result kind carries hours. The result keeps the calendar of the minuend and is not sorted.
func SubtractLaborEstimates(kind LaborEstimateKind, minuend, subtrahend *LaborEstimate) *LaborEstimate {
	result := &LaborEstimate{
		Kind:              kind,
		DateFrom:          minuend.DateFrom,
		DateTo:            minuend.DateTo,
		WorkDaysCount:     minuend.WorkDaysCount,
		WorkDayHoursCount: minuend.WorkDayHoursCount,
	}

	for _, p := range positionUnion(minuend, subtrahend) {
		diff := p
		diff.Workers = minuend.WorkersOf(p.PositionID) - subtrahend.WorkersOf(p.PositionID)
		if kind.HasHours() {
			diff.Hours = decimal.NewNullDecimal(minuend.HoursOf(p.PositionID).Sub(subtrahend.HoursOf(p.PositionID)))
		}
		result.Positions = append(result.Positions, diff)
	}

	return result
}

// CombineLaborEstimates folds two estimates into one by summing hours and workers per
// position. Calendar fields combine as min(DateFrom), max(DateTo), sum(WorkDaysCount)
// and max(WorkDayHoursCount); unset values are ignored. The kind of a is kept.
func CombineLaborEstimates(a, b *LaborEstimate) *LaborEstimate {
	result := &LaborEstimate{
		Kind:              a.Kind,
		DateFrom:          minTime(a.DateFrom, b.DateFrom),
		DateTo:            maxTime(a.DateTo, b.DateTo),
		WorkDaysCount:     sumInts(a.WorkDaysCount, b.WorkDaysCount),
		WorkDayHoursCount: a.WorkDayHoursCount,
	}
	if b.WorkDayHoursCount > result.WorkDayHoursCount {
		result.WorkDayHoursCount = b.WorkDayHoursCount
	}

	for _, p := range positionUnion(a, b) {
		pa, _ := a.Get(p.PositionID)
		pb, _ := b.Get(p.PositionID)
		sum := p
		sum.Workers = pa.Workers + pb.Workers
		if pa.Hours.Valid || pb.Hours.Valid {
			sum.Hours = decimal.NewNullDecimal(pa.HoursOrZero().Add(pb.HoursOrZero()))
		}
		result.Positions = append(result.Positions, sum)
	}

	return result
}

func minTime(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b == nil || a.Before(*b) {
		return a
	}
	return b
}

func maxTime(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b == nil || a.After(*b) {
		return a
	}
	return b
}

func sumInts(a, b *int) *int {
	if a == nil && b == nil {
		return nil
	}
	total := 0
	if a != nil {
		total += *a
	}
	if b != nil {
		total += *b
	}
	return &total
}

// FundingGap is a position of a module whose saved headcount is not yet covered by
// staffing requests
type FundingGap struct {
	ProjectID    uuid.UUID
	ModuleID     uuid.UUID
	ModuleName   string
	PositionID   uuid.UUID
	PositionName string
	WorkersGap   int
}
