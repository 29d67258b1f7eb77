package mapper

import (
	"strconv"
	"time"

	"github.com/straye-as/staffing-api/internal/domain"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05Z"
)

// ToLaborEstimateDTO converts a LaborEstimate to LaborEstimateDTO, keeping position order.
// Hours are left out for kinds that only carry headcount.
func ToLaborEstimateDTO(estimate *domain.LaborEstimate) domain.LaborEstimateDTO {
	dto := domain.LaborEstimateDTO{
		Kind:              estimate.Kind,
		DateFrom:          formatDate(estimate.DateFrom),
		DateTo:            formatDate(estimate.DateTo),
		WorkDaysCount:     estimate.WorkDaysCount,
		WorkDayHoursCount: estimate.WorkDayHoursCount,
		Positions:         make([]domain.PositionLaborEstimateDTO, 0, len(estimate.Positions)),
	}

	withHours := estimate.Kind.HasHours()
	for _, p := range estimate.Positions {
		row := domain.PositionLaborEstimateDTO{
			PositionID:   p.PositionID,
			PositionName: p.PositionName,
			WorkersCount: p.Workers,
		}
		if withHours {
			hours := p.HoursOrZero().InexactFloat64()
			row.HoursCount = &hours
		}
		dto.Positions = append(dto.Positions, row)
	}

	return dto
}

// ToStaffingRequestDTO converts StaffingRequest to StaffingRequestDTO
func ToStaffingRequestDTO(request *domain.StaffingRequest) domain.StaffingRequestDTO {
	requirements := make([]domain.StaffingRequirementDTO, 0, len(request.Requirements))
	for _, req := range request.Requirements {
		dto := domain.StaffingRequirementDTO{
			ID:           req.ID,
			PositionID:   req.PositionID,
			WorkersCount: req.WorkersCount,
		}
		if req.Position != nil {
			dto.PositionName = req.Position.Name
		}
		requirements = append(requirements, dto)
	}

	return domain.StaffingRequestDTO{
		ID:           request.ID,
		ModuleID:     request.ModuleID,
		Status:       request.Status,
		Comment:      request.Comment,
		Requirements: requirements,
		CreatedAt:    request.CreatedAt.UTC().Format(timestampLayout),
	}
}

// ToFundingGapRecord flattens a funding gap into a report row
func ToFundingGapRecord(gap domain.FundingGap) []string {
	return []string{
		gap.ProjectID.String(),
		gap.ModuleID.String(),
		gap.ModuleName,
		gap.PositionID.String(),
		gap.PositionName,
		strconv.Itoa(gap.WorkersGap),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
